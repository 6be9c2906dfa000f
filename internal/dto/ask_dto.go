package dto

// ChatTurn is one prior turn supplied inline by a stateless caller.
type ChatTurn struct {
	Role    string `json:"role" validate:"required,oneof=user assistant model"`
	Content string `json:"content" validate:"required"`
}

type AskRequest struct {
	Question            string     `json:"question" validate:"required"`
	ConversationHistory []ChatTurn `json:"conversation_history,omitempty" validate:"omitempty,dive"`
	SessionId           string     `json:"session_id,omitempty"`
	Model               string     `json:"model,omitempty"`
}

// Ask protocol event types, emitted in the order
// context → chunk* → (done | error).
const (
	EventContext = "context"
	EventChunk   = "chunk"
	EventDone    = "done"
	EventError   = "error"
)

// AskEvent is one discrete event on the answer stream.
type AskEvent struct {
	Type         string   `json:"type"`
	Components   []string `json:"components,omitempty"`
	Content      string   `json:"content,omitempty"`
	FullResponse string   `json:"full_response,omitempty"`
	SessionId    string   `json:"session_id,omitempty"`
	Message      string   `json:"message,omitempty"`
}

type DestroySessionResponse struct {
	Existed bool `json:"existed"`
}
