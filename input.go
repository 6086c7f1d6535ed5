package agui

// RunAgentInput is the request payload that starts one agent run. Only the
// thread and run ids are required; everything else rides along when the
// caller has it.
type RunAgentInput struct {
	ThreadID       string         `json:"thread_id"`
	RunID          string         `json:"run_id"`
	Messages       []Message      `json:"messages,omitempty"`
	Tools          []Tool         `json:"tools,omitempty"`
	Context        []Context      `json:"context,omitempty"`
	State          State          `json:"state,omitempty"`
	ForwardedProps map[string]any `json:"forwarded_props,omitempty"`
}

// Context is one free-form context entry forwarded with a run.
type Context struct {
	UserID    string         `json:"user_id,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewRunAgentInput creates an input for the given thread and run.
func NewRunAgentInput(threadID, runID string) (RunAgentInput, error) {
	in := RunAgentInput{ThreadID: threadID, RunID: runID}
	if err := in.Validate(); err != nil {
		return RunAgentInput{}, err
	}
	return in, nil
}

// Validate checks universal constraints on RunAgentInput. Transports apply
// no additional validation of their own.
func (in RunAgentInput) Validate() error {
	if in.ThreadID == "" {
		return &ConstructionError{Type: "RunAgentInput", Field: "thread_id"}
	}
	if in.RunID == "" {
		return &ConstructionError{Type: "RunAgentInput", Field: "run_id"}
	}
	for _, m := range in.Messages {
		if f := m.validate(); f != "" {
			return &ConstructionError{Type: "Message", Field: f}
		}
	}
	return nil
}
