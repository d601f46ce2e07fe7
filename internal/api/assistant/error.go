package assistant

import (
	"errors"

	"StokAsistan/pkg/response"
)

var (
	ErrSessionNotFound    = response.NewError(404, "session not found")
	ErrInvalidSession     = response.NewError(400, "invalid session state")
	ErrClientIDRequired   = response.NewError(400, "client id is required")
	ErrCommandNotFound    = response.NewError(404, "learned command not found")
	ErrHistoryUnavailable = response.NewError(500, "failed to load conversation history")
)

// Kinds of executor failures. An *ActionError matches its kind with errors.Is.
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrInvalidParams  = errors.New("invalid parameters")
	ErrMissingField   = errors.New("missing required field")
	ErrNotFound       = errors.New("entity not found")
	ErrLookupFailed   = errors.New("entity lookup failed")
	ErrPageNotFound   = errors.New("page not found")
	ErrModalNotFound  = errors.New("modal not found")
	ErrMutationFailed = errors.New("mutation failed")
	ErrUnknownAction  = errors.New("unknown action")
)

// ActionError carries a user facing Turkish message. Cause is logged, never shown.
type ActionError struct {
	Kind    error
	Message string
	Cause   error
}

func NewActionError(kind error, message string) *ActionError {
	return &ActionError{Kind: kind, Message: message}
}

func WrapActionError(kind error, message string, cause error) *ActionError {
	return &ActionError{Kind: kind, Message: message, Cause: cause}
}

func (e *ActionError) Error() string {
	return e.Message
}

func (e *ActionError) Is(target error) bool {
	return e.Kind == target
}

func (e *ActionError) Unwrap() error {
	return e.Cause
}
