package assistantHandler

import (
	"errors"

	"StokAsistan/internal/api/assistant"
	contextPkg "StokAsistan/pkg/context"
	"StokAsistan/pkg/handlerUtil"
	jwtPkg "StokAsistan/pkg/jwt"
	"StokAsistan/pkg/log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *AssistantHandler) CreateSession(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req assistant.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	// Anonymous sessions are allowed.
	var userID string
	if user, err := jwtPkg.GetUserLoginData(ctx); err == nil {
		userID = user.ID
	}

	session, err := h.assistantService.ResolveSession(c, req.ClientID, req.SessionID, userID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "resolve_session")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, assistant.SessionResponse{
			SessionID:    session.ID,
			ClientID:     session.ClientID,
			IsActive:     session.IsActive,
			CreatedAt:    session.CreatedAt,
			LastActivity: session.LastActivity,
		})
	}
}

func (h *AssistantHandler) SendMessage(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), messageTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing assistant message")

	var req assistant.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	session, err := h.assistantService.OpenSession(c, req.SessionID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "open_session")
	}

	// Over HTTP the client performs navigation itself from the returned action.
	caps := assistant.WithNavigator(h.inventory, assistant.NopNavigator)
	result := h.assistantService.ProcessNaturalLanguage(c, session, req.Text, caps)

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}

func (h *AssistantHandler) GetHistory(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	sessionID := ctx.Params("session_id")
	if sessionID == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("session ID is required"), ctx.Path())
	}

	limit := ctx.QueryInt("limit", 0)

	messages, err := h.assistantService.GetSessionHistory(c, sessionID, limit)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_session_history")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, assistant.HistoryResponse{
			SessionID: sessionID,
			Messages:  messages,
		})
	}
}

func (h *AssistantHandler) GetLearnedCommands(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	commands, err := h.assistantService.GetLearnedCommands(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_learned_commands")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, assistant.LearnedCommandsResponse{
			Commands: commands,
		})
	}
}
