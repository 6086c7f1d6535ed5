package agui

import "encoding/json"

// Tool is the schema describing a tool the agent may invoke, forwarded to
// the agent in RunAgentInput.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// ToolCall is one tool invocation requested by the agent. Arguments is the
// raw argument string, assembled from ToolCallArgs deltas.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments,omitempty"`
}
