package agui

import "context"

// Sink receives events from a producing agent. Send blocks until the event
// is accepted or ctx is done; a Send error means the consumer is gone and
// the run should stop.
type Sink interface {
	Send(ctx context.Context, e Event) error
}

// Agent produces the event stream for one run. Implementations emit events
// through the sink in order and return when the run is finished. A non-nil
// error reports a failure after whatever events were already sent; the
// transport turns it into a RUN_ERROR frame when the run is still open.
type Agent interface {
	RunAgent(ctx context.Context, input RunAgentInput, sink Sink) error
}

// AgentFunc adapts a function to the Agent interface.
type AgentFunc func(ctx context.Context, input RunAgentInput, sink Sink) error

// RunAgent calls f.
func (f AgentFunc) RunAgent(ctx context.Context, input RunAgentInput, sink Sink) error {
	return f(ctx, input, sink)
}
