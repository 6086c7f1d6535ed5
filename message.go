package agui

import (
	"time"

	"github.com/google/uuid"
)

// Message is one entry in a conversation history. It crosses the wire in
// MessagesSnapshot events and in RunAgentInput, so its fields carry JSON
// tags in the protocol's snake_case convention.
type Message struct {
	ID           string         `json:"id"`
	Role         Role           `json:"role"`
	Content      string         `json:"content"`
	Name         string         `json:"name,omitempty"`
	ToolCallID   string         `json:"tool_call_id,omitempty"`
	ToolCalls    []ToolCall     `json:"tool_calls,omitempty"`
	FunctionCall *FunctionCall  `json:"function_call,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    *time.Time     `json:"created_at,omitempty"`
}

// FunctionCall is the legacy single-function payload kept for
// compatibility with older producers. New code uses ToolCalls.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments,omitempty"`
}

// NewMessage creates a Message with a fresh unique id and a creation
// timestamp. Fails with a ConstructionError when the role is not one of
// the protocol roles.
func NewMessage(role Role, content string) (Message, error) {
	if !role.Valid() {
		return Message{}, &ConstructionError{Type: "Message", Field: "role"}
	}
	now := time.Now().UTC()
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: &now,
	}, nil
}

// validate reports the wire name of the first invalid field, or "".
func (m Message) validate() string {
	switch {
	case m.ID == "":
		return "id"
	case !m.Role.Valid():
		return "role"
	}
	return ""
}
