package assistantHandler

import (
	"time"

	"StokAsistan/internal/api/assistant"
	assistantService "StokAsistan/internal/api/assistant/service"
	"StokAsistan/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

const (
	requestTimeout = 10 * time.Second
	// messageTimeout covers an oracle round trip with retries.
	messageTimeout = 30 * time.Second

	sessionLocal   = "assistant_session"
	requestIDLocal = "assistant_request_id"
)

type AssistantHandler struct {
	log              *logrus.Logger
	validator        *validator.Validate
	middleware       middleware.Middleware
	assistantService assistantService.IAssistantService
	inventory        assistant.Inventory
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	as assistantService.IAssistantService,
	inventory assistant.Inventory,
) *AssistantHandler {
	return &AssistantHandler{
		log:              log,
		validator:        validator,
		middleware:       middleware,
		assistantService: as,
		inventory:        inventory,
	}
}

func (h *AssistantHandler) Start(srv fiber.Router) {
	group := srv.Group("/assistant")
	group.Use(h.middleware.NewOptionalTokenMiddleware)

	group.Post("/sessions", h.middleware.NewRateLimiter, h.CreateSession)
	group.Get("/sessions/:session_id/messages", h.GetHistory)
	group.Post("/messages", h.middleware.NewRateLimiter, h.SendMessage)
	group.Get("/learned-commands", h.GetLearnedCommands)

	group.Use("/ws", h.wsUpgrade)
	group.Get("/ws", websocket.New(h.handleChatWebSocket))
}
