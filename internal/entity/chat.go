package entity

import "time"

type ChatSession struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id,omitempty"`
	ClientID     string    `json:"client_id"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

type Sender string

const (
	SenderUser   Sender = "user"
	SenderSystem Sender = "system"
)

type ChatMessage struct {
	ID            string                 `json:"id"`
	SessionID     string                 `json:"session_id"`
	Sender        Sender                 `json:"sender"`
	Message       string                 `json:"message"`
	Context       map[string]interface{} `json:"context,omitempty"`
	CommandType   string                 `json:"command_type,omitempty"`
	CommandParams map[string]interface{} `json:"command_params,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

type LearnedCommand struct {
	ID             string                 `json:"id"`
	TriggerPattern string                 `json:"trigger_pattern"`
	ActionType     string                 `json:"action_type"`
	ActionParams   map[string]interface{} `json:"action_params"`
	Description    string                 `json:"description"`
	UsageCount     int                    `json:"usage_count"`
	LastUsedAt     *time.Time             `json:"last_used_at,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}
