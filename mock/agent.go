// Package mock provides test doubles for the core interfaces using
// function fields.
package mock

import (
	"context"

	"github.com/aguiproto/agui"
)

// Interface compliance checks.
var (
	_ agui.Agent = (*Agent)(nil)
	_ agui.Sink  = (*Sink)(nil)
)

// Agent is a test double for agui.Agent.
// Set RunAgentFn before calling RunAgent.
type Agent struct {
	RunAgentFn func(ctx context.Context, input agui.RunAgentInput, sink agui.Sink) error
}

// RunAgent delegates to RunAgentFn.
func (a *Agent) RunAgent(ctx context.Context, input agui.RunAgentInput, sink agui.Sink) error {
	return a.RunAgentFn(ctx, input, sink)
}

// Sink is a test double for agui.Sink.
// When SendFn is nil, Send records the event into Events and returns
// nil; most tests only inspect Events afterwards.
type Sink struct {
	SendFn func(ctx context.Context, e agui.Event) error
	Events []agui.Event
}

// Send delegates to SendFn when set, otherwise records the event.
func (s *Sink) Send(ctx context.Context, e agui.Event) error {
	if s.SendFn != nil {
		return s.SendFn(ctx, e)
	}
	s.Events = append(s.Events, e)
	return nil
}
