package assistant

type ActionType string

const (
	ActionNavigation ActionType = "navigation"
	ActionModal      ActionType = "modal"
	ActionDirect     ActionType = "direct"
)

// Action tells the caller which side effect to perform. Only the field that
// matches Type is set.
type Action struct {
	Type      ActionType `json:"type"`
	Path      string     `json:"path,omitempty"`
	ModalType string     `json:"modalType,omitempty"`
	Operation string     `json:"operation,omitempty"`
}

type ActionResult struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Action  *Action     `json:"action,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func Succeed(message string) ActionResult {
	return ActionResult{Success: true, Message: message}
}

func Fail(message string) ActionResult {
	return ActionResult{Success: false, Message: message}
}
