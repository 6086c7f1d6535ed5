package agui

import "encoding/json"

// State is the shared agent state mirrored to consumers through
// StateSnapshot and StateDelta events.
type State map[string]any

// PatchOp is one RFC 6902 (JSON Patch) operation. StateDelta events carry
// an ordered sequence of them.
type PatchOp struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value,omitempty"`
	From  string          `json:"from,omitempty"`
}
