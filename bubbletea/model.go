package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aguiproto/agui"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the chat TUI.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable transcript area. Exported for test access.
	Viewport viewport.Model

	run     RunFunc
	session *agui.Session
	styles  Styles

	running bool
	cancel  context.CancelFunc
	eventCh chan agui.Event
	doneCh  chan error
	err     error
	ready   bool
}

// New creates a TUI Model over the given session. Submitted input becomes
// a user message on the session and triggers run with the session's next
// input.
func New(run RunFunc, session *agui.Session, theme agui.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		Input:   ti,
		run:     run,
		session: session,
		styles:  NewStyles(theme),
	}
}

// Running returns whether a run is currently streaming.
func (m Model) Running() bool { return m.running }

// Err returns the last error, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamEventMsg:
		m = m.processEvent(msg.Event)
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		if m.eventCh != nil {
			return m, listenForEvent(m.eventCh, m.doneCh)
		}
		return m, nil

	case RunDoneMsg:
		m.running = false
		m.cancel = nil
		m.eventCh = nil
		m.doneCh = nil
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			m.err = msg.Err
		}
		m.Viewport.SetContent(m.renderContent())
		cmd := m.Input.Focus()
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	// Pass remaining messages to sub-components. The viewport always
	// receives messages for scrolling.
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputHeight := 1
	statusHeight := 1
	borderHeight := 2 // newlines between sections
	vpHeight := msg.Height - inputHeight - statusHeight - borderHeight
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}

	m.Input.Width = msg.Width
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		return m.submitInput(text)
	}

	// When idle, pass keys to both the input (for typing) and the viewport
	// (for scrolling). Only non-character keys go to the viewport so text
	// characters don't double as scroll bindings.
	if !m.running {
		var cmd tea.Cmd
		var cmds []tea.Cmd

		if msg.Type != tea.KeyRunes {
			m.Viewport, cmd = m.Viewport.Update(msg)
			cmds = append(cmds, cmd)
		}

		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) submitInput(text string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.err = nil

	userMsg, err := agui.NewMessage(agui.RoleUser, text)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.session.Append(userMsg)
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.eventCh = make(chan agui.Event, 256)
	m.doneCh = make(chan error, 1)
	m.running = true
	m.Input.Blur()

	return m, tea.Batch(
		startRun(ctx, m.run, m.session.Input(""), m.eventCh, m.doneCh),
		listenForEvent(m.eventCh, m.doneCh),
	)
}

// processEvent folds a streamed event into the session. Run errors and
// linkage violations surface on the status line instead of stopping the
// program.
func (m Model) processEvent(e agui.Event) Model {
	if ev, ok := e.(*agui.RunErrorEvent); ok {
		m.err = errors.New(ev.Message)
		return m
	}
	if err := m.session.Apply(e); err != nil {
		m.err = err
	}
	return m
}

// renderContent renders the transcript from the session's messages, so a
// message still streaming shows its partial content.
func (m Model) renderContent() string {
	var b strings.Builder
	for _, msg := range m.session.Messages {
		switch msg.Role {
		case agui.RoleUser:
			b.WriteString(m.styles.UserMsg.Render("> " + msg.Content))
			b.WriteString("\n\n")
		case agui.RoleAssistant:
			if msg.Content != "" {
				b.WriteString(m.wrap(msg.Content))
				b.WriteString("\n\n")
			}
			for _, call := range msg.ToolCalls {
				line := fmt.Sprintf("• %s %s", call.Name, call.Arguments)
				b.WriteString(m.styles.ToolCall.Render(line))
				b.WriteString("\n\n")
			}
		case agui.RoleTool:
			b.WriteString(m.styles.Muted.Render(msg.Content))
			b.WriteString("\n\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// wrap renders body text at the viewport width.
func (m Model) wrap(text string) string {
	w := m.Viewport.Width
	if w <= 0 {
		return text
	}
	return m.styles.Body.Width(w).Render(text)
}

func (m Model) statusLine() string {
	if m.err != nil {
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if m.running {
		return m.styles.Muted.Render("Streaming...")
	}
	return m.styles.Muted.Render("Enter to send, Ctrl+C to quit")
}

// startRun executes the run in a goroutine and signals completion.
func startRun(ctx context.Context, run RunFunc, input agui.RunAgentInput, eventCh chan<- agui.Event, doneCh chan<- error) tea.Cmd {
	return func() tea.Msg {
		err := run(ctx, input, func(e agui.Event) {
			select {
			case eventCh <- e:
			case <-ctx.Done():
			}
		})
		close(eventCh)
		doneCh <- err
		return nil
	}
}

// listenForEvent waits for the next event from the channel. When the
// channel closes it reads the run error and returns RunDoneMsg.
func listenForEvent(ch <-chan agui.Event, doneCh <-chan error) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return RunDoneMsg{Err: <-doneCh}
		}
		return StreamEventMsg{Event: e}
	}
}
