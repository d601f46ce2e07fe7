package assistant

import (
	"time"

	"StokAsistan/internal/entity"
)

type CreateSessionRequest struct {
	ClientID  string `json:"client_id" validate:"required,max=128"`
	SessionID string `json:"session_id,omitempty" validate:"omitempty,max=64"`
}

type SessionResponse struct {
	SessionID    string    `json:"session_id"`
	ClientID     string    `json:"client_id"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

type SendMessageRequest struct {
	SessionID string `json:"session_id" validate:"required,max=64"`
	Text      string `json:"text" validate:"required,min=1,max=1000"`
}

type HistoryResponse struct {
	SessionID string               `json:"session_id"`
	Messages  []entity.ChatMessage `json:"messages"`
}

type LearnedCommandsResponse struct {
	Commands []entity.LearnedCommand `json:"commands"`
}

// SocketMessage is one inbound websocket frame.
type SocketMessage struct {
	Text string `json:"text" validate:"required,min=1,max=1000"`
}

// SocketEvent is an outbound websocket frame. Navigate events are pushed as
// soon as the executor navigates, before the final result.
type SocketEvent struct {
	Type   string        `json:"type"`
	Path   string        `json:"path,omitempty"`
	Result *ActionResult `json:"result,omitempty"`
}

const (
	SocketEventNavigate = "navigate"
	SocketEventResult   = "result"
)

// SessionHandle identifies the conversation one interpreter call belongs to.
type SessionHandle struct {
	ID     string
	UserID string
}
