package assistantHandler

import (
	"strings"
	"time"

	"StokAsistan/internal/api/assistant"
	contextPkg "StokAsistan/pkg/context"
	"StokAsistan/pkg/handlerUtil"
	"StokAsistan/pkg/log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/net/context"
)

const (
	maxReadTimeout = 60 * time.Second
	writeTimeout   = 10 * time.Second
)

// wsUpgrade admits only upgrade requests for an open session.
func (h *AssistantHandler) wsUpgrade(ctx *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}

	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	session, err := h.assistantService.OpenSession(c, ctx.Query("session_id"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "open_session")
	}

	ctx.Locals(sessionLocal, session)
	ctx.Locals(requestIDLocal, requestID)

	return ctx.Next()
}

func (h *AssistantHandler) handleChatWebSocket(c *websocket.Conn) {
	session, ok := c.Locals(sessionLocal).(assistant.SessionHandle)
	if !ok {
		h.log.Error("Chat WebSocket opened without a session")
		return
	}

	requestID, _ := c.Locals(requestIDLocal).(string)
	baseCtx := contextPkg.WithRequestID(context.Background(), requestID)
	entry := h.log.WithFields(log.Fields{
		"request_id": requestID,
		"session_id": session.ID,
	})

	entry.Info("Chat WebSocket client connected")
	defer entry.Info("Chat WebSocket client disconnected")

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			entry.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	// Navigation is pushed as its own event before the final result.
	nav := assistant.NavigatorFunc(func(_ context.Context, path string) {
		if err := h.writeEvent(c, assistant.SocketEvent{Type: assistant.SocketEventNavigate, Path: path}); err != nil {
			entry.Errorf("Error writing navigate event: %v", err)
		}
	})
	caps := assistant.WithNavigator(h.inventory, nav)

	for {
		if err := c.SetReadDeadline(time.Now().Add(maxReadTimeout)); err != nil {
			entry.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				entry.Errorf("Chat WebSocket error: %v", err)
			} else {
				entry.Debug("Chat WebSocket connection closed")
			}
			break
		}

		if messageType != websocket.TextMessage {
			entry.Warnf("Received unexpected message type: %d", messageType)
			continue
		}

		var result assistant.ActionResult
		msg := parseSocketMessage(message)
		if err := h.validator.Struct(msg); err != nil {
			result = assistant.Fail("Mesaj 1 ile 1000 karakter arasında olmalı.")
		} else {
			callCtx, cancel := context.WithTimeout(baseCtx, messageTimeout)
			result = h.assistantService.ProcessNaturalLanguage(callCtx, session, msg.Text, caps)
			cancel()
		}

		if err := h.writeEvent(c, assistant.SocketEvent{Type: assistant.SocketEventResult, Result: &result}); err != nil {
			entry.Errorf("Error writing result event: %v", err)
			break
		}
	}
}

func (h *AssistantHandler) writeEvent(c *websocket.Conn, event assistant.SocketEvent) error {
	if err := c.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}

	payload, err := jsoniter.Marshal(event)
	if err != nil {
		return err
	}
	if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
		return err
	}

	return c.SetWriteDeadline(time.Time{})
}

// parseSocketMessage accepts {"text": "..."} frames and falls back to the raw
// frame as the command text.
func parseSocketMessage(frame []byte) assistant.SocketMessage {
	var msg assistant.SocketMessage
	if err := jsoniter.Unmarshal(frame, &msg); err == nil {
		msg.Text = strings.TrimSpace(msg.Text)
		return msg
	}

	return assistant.SocketMessage{Text: strings.TrimSpace(string(frame))}
}
