package agui

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/google/uuid"
)

// Session is the consumer-side mirror of one conversation thread: the
// message history and shared state, kept current by folding decoded events
// into it. A session feeds the next run's input, so an agent sees the
// conversation it has been streaming.
type Session struct {
	ThreadID string
	Messages []Message
	State    State

	msgIndex  map[string]int     // message id -> index in Messages
	callIndex map[string]callRef // tool call id -> location
	openMsg   string             // message id currently streaming, "" if none
}

// callRef locates a tool call inside Messages.
type callRef struct {
	msg  int
	call int
	done bool
}

// NewSession creates a session with a fresh thread id.
func NewSession() *Session {
	return &Session{ThreadID: uuid.NewString()}
}

// Input builds the RunAgentInput for the next run on this thread, carrying
// the session's history and state. An empty runID gets a fresh unique id.
func (s *Session) Input(runID string) RunAgentInput {
	if runID == "" {
		runID = uuid.NewString()
	}
	return RunAgentInput{
		ThreadID: s.ThreadID,
		RunID:    runID,
		Messages: slices.Clone(s.Messages),
		State:    maps.Clone(s.State),
	}
}

// Append adds a locally authored message, typically the user turn that
// prompts the next run.
func (s *Session) Append(m Message) {
	s.appendMessage(m)
}

// Apply folds one decoded event into the session. Content-bearing events
// must honor the protocol's linkage invariants: a content or end event for
// an unknown message id, or an args, end, or result event for an unknown
// tool call id, fails with a ProtocolError. Lifecycle, Raw, and Custom
// events are no-ops.
func (s *Session) Apply(e Event) error {
	switch ev := e.(type) {
	case *TextMessageStartEvent:
		return s.startMessage(ev)
	case *TextMessageContentEvent:
		return s.appendContent(ev)
	case *TextMessageEndEvent:
		return s.endMessage(ev)
	case *ToolCallStartEvent:
		return s.startCall(ev)
	case *ToolCallArgsEvent:
		return s.appendArgs(ev)
	case *ToolCallEndEvent:
		return s.endCall(ev)
	case *ToolCallResultEvent:
		return s.appendResult(ev)
	case *StateSnapshotEvent:
		s.State = maps.Clone(ev.State)
		return nil
	case *StateDeltaEvent:
		return s.patchState(ev.Delta)
	case *MessagesSnapshotEvent:
		s.replaceMessages(ev.Messages)
		return nil
	}
	return nil
}

func (s *Session) startMessage(ev *TextMessageStartEvent) error {
	if _, ok := s.index()[ev.MessageID]; ok {
		return &ProtocolError{Reason: fmt.Sprintf("duplicate message id %q", ev.MessageID)}
	}
	s.appendMessage(Message{ID: ev.MessageID, Role: RoleAssistant})
	s.openMsg = ev.MessageID
	return nil
}

func (s *Session) appendContent(ev *TextMessageContentEvent) error {
	i, ok := s.index()[ev.MessageID]
	if !ok {
		return &ProtocolError{Reason: fmt.Sprintf("content for unknown message id %q", ev.MessageID)}
	}
	s.Messages[i].Content += ev.Delta
	return nil
}

func (s *Session) endMessage(ev *TextMessageEndEvent) error {
	if _, ok := s.index()[ev.MessageID]; !ok {
		return &ProtocolError{Reason: fmt.Sprintf("end for unknown message id %q", ev.MessageID)}
	}
	if s.openMsg == ev.MessageID {
		s.openMsg = ""
	}
	return nil
}

// startCall attaches a tool call to its parent message. Without an
// explicit parent it lands on the message currently streaming, and failing
// that on a new assistant message keyed by the tool call id.
func (s *Session) startCall(ev *ToolCallStartEvent) error {
	if _, ok := s.calls()[ev.ToolCallID]; ok {
		return &ProtocolError{Reason: fmt.Sprintf("duplicate tool call id %q", ev.ToolCallID)}
	}

	parent := ev.ParentMessageID
	if parent == "" {
		parent = s.openMsg
	}
	i, ok := s.index()[parent]
	if !ok {
		if parent == "" {
			parent = ev.ToolCallID
		}
		s.appendMessage(Message{ID: parent, Role: RoleAssistant})
		i = s.msgIndex[parent]
	}

	s.Messages[i].ToolCalls = append(s.Messages[i].ToolCalls, ToolCall{ID: ev.ToolCallID, Name: ev.ToolName})
	s.callIndex[ev.ToolCallID] = callRef{msg: i, call: len(s.Messages[i].ToolCalls) - 1}
	return nil
}

func (s *Session) appendArgs(ev *ToolCallArgsEvent) error {
	ref, ok := s.calls()[ev.ToolCallID]
	if !ok {
		return &ProtocolError{Reason: fmt.Sprintf("args for unknown tool call id %q", ev.ToolCallID)}
	}
	s.Messages[ref.msg].ToolCalls[ref.call].Arguments += ev.Delta
	return nil
}

func (s *Session) endCall(ev *ToolCallEndEvent) error {
	ref, ok := s.calls()[ev.ToolCallID]
	if !ok {
		return &ProtocolError{Reason: fmt.Sprintf("end for unknown tool call id %q", ev.ToolCallID)}
	}
	if ev.ToolCall != nil {
		s.Messages[ref.msg].ToolCalls[ref.call] = *ev.ToolCall
	}
	ref.done = true
	s.callIndex[ev.ToolCallID] = ref
	return nil
}

func (s *Session) appendResult(ev *ToolCallResultEvent) error {
	if _, ok := s.calls()[ev.ToolCallID]; !ok {
		return &ProtocolError{Reason: fmt.Sprintf("result for unknown tool call id %q", ev.ToolCallID)}
	}
	s.appendMessage(Message{
		ID:         ev.MessageID,
		Role:       RoleTool,
		Content:    ev.Content,
		ToolCallID: ev.ToolCallID,
	})
	return nil
}

// patchState applies an RFC 6902 patch to the state.
func (s *Session) patchState(ops []PatchOp) error {
	if len(ops) == 0 {
		return nil
	}
	patchJSON, err := json.Marshal(ops)
	if err != nil {
		return &ProtocolError{Reason: "state delta not serializable", Err: err}
	}
	patch, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return &ProtocolError{Reason: "invalid state delta", Err: err}
	}

	doc := []byte("{}")
	if s.State != nil {
		if doc, err = json.Marshal(s.State); err != nil {
			return &ProtocolError{Reason: "state not serializable", Err: err}
		}
	}
	patched, err := patch.Apply(doc)
	if err != nil {
		return &ProtocolError{Reason: "state delta does not apply", Err: err}
	}

	var next State
	if err := json.Unmarshal(patched, &next); err != nil {
		return &ProtocolError{Reason: "patched state not an object", Err: err}
	}
	s.State = next
	return nil
}

func (s *Session) replaceMessages(msgs []Message) {
	s.Messages = slices.Clone(msgs)
	s.msgIndex = make(map[string]int, len(msgs))
	for i, m := range s.Messages {
		s.msgIndex[m.ID] = i
	}
	s.callIndex = make(map[string]callRef)
	for i, m := range s.Messages {
		for j, c := range m.ToolCalls {
			s.callIndex[c.ID] = callRef{msg: i, call: j, done: true}
		}
	}
	s.openMsg = ""
}

func (s *Session) appendMessage(m Message) {
	s.Messages = append(s.Messages, m)
	s.index()[m.ID] = len(s.Messages) - 1
}

func (s *Session) index() map[string]int {
	if s.msgIndex == nil {
		s.msgIndex = make(map[string]int)
	}
	return s.msgIndex
}

func (s *Session) calls() map[string]callRef {
	if s.callIndex == nil {
		s.callIndex = make(map[string]callRef)
	}
	return s.callIndex
}
