// Package bubbletea provides a Bubble Tea chat TUI for an AG-UI agent.
//
// The model keeps an [agui.Session] current by folding streamed events
// into it and renders the transcript from the session's messages, so the
// view always matches what the next run's input will carry.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aguiproto/agui"
)

// RunFunc executes one protocol run for the given input. The onEvent
// callback is called for each streamed event. The function blocks until
// the run completes or the context is cancelled.
type RunFunc func(ctx context.Context, input agui.RunAgentInput, onEvent func(agui.Event)) error

// Run creates and runs the Bubble Tea TUI program. It blocks until the
// program exits. When ctx is cancelled the program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// StreamEventMsg wraps a streamed event for delivery to the model.
type StreamEventMsg struct {
	Event agui.Event
}

// RunDoneMsg signals that the run has completed.
type RunDoneMsg struct {
	Err error
}
