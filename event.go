package agui

import (
	"encoding/json"
	"time"
)

// EventType identifies an event variant. Values are the wire
// discriminators carried in the "type" field.
type EventType string

const (
	EventTypeRunStarted         EventType = "RUN_STARTED"
	EventTypeRunFinished        EventType = "RUN_FINISHED"
	EventTypeRunError           EventType = "RUN_ERROR"
	EventTypeStepStarted        EventType = "STEP_STARTED"
	EventTypeStepFinished       EventType = "STEP_FINISHED"
	EventTypeTextMessageStart   EventType = "TEXT_MESSAGE_START"
	EventTypeTextMessageContent EventType = "TEXT_MESSAGE_CONTENT"
	EventTypeTextMessageEnd     EventType = "TEXT_MESSAGE_END"
	EventTypeToolCallStart      EventType = "TOOL_CALL_START"
	EventTypeToolCallArgs       EventType = "TOOL_CALL_ARGS"
	EventTypeToolCallEnd        EventType = "TOOL_CALL_END"
	EventTypeToolCallResult     EventType = "TOOL_CALL_RESULT"
	EventTypeStateSnapshot      EventType = "STATE_SNAPSHOT"
	EventTypeStateDelta         EventType = "STATE_DELTA"
	EventTypeMessagesSnapshot   EventType = "MESSAGES_SNAPSHOT"
	EventTypeRaw                EventType = "RAW"
	EventTypeCustom             EventType = "CUSTOM"
)

// BaseEvent carries the envelope fields shared by every event: the
// discriminator, an optional creation timestamp, and an optional opaque
// payload preserved from a foreign event source.
type BaseEvent struct {
	EventType EventType       `json:"type"`
	Timestamp *time.Time      `json:"timestamp,omitempty"`
	RawEvent  json.RawMessage `json:"raw_event,omitempty"`
}

// Type returns the wire discriminator.
func (b *BaseEvent) Type() EventType { return b.EventType }

// base doubles as the sealing marker; only variants embedding BaseEvent
// satisfy Event.
func (b *BaseEvent) base() *BaseEvent { return b }

// Event is the sealed set of protocol events. Events are immutable values:
// constructed once by a producer, consumed once by a reader, never mutated
// after construction. Transport and protocol failures come from Next()'s
// error return, not from events.
type Event interface {
	Type() EventType
	base() *BaseEvent
}

// RunStartedEvent marks the beginning of an agent run.
type RunStartedEvent struct {
	BaseEvent
	ThreadID string `json:"thread_id"`
	RunID    string `json:"run_id"`
}

// NewRunStartedEvent creates a RUN_STARTED event.
func NewRunStartedEvent(threadID, runID string) (*RunStartedEvent, error) {
	e := &RunStartedEvent{
		BaseEvent: BaseEvent{EventType: EventTypeRunStarted},
		ThreadID:  threadID,
		RunID:     runID,
	}
	return newEvent(e)
}

func (e *RunStartedEvent) invalidField() string {
	switch {
	case e.ThreadID == "":
		return "thread_id"
	case e.RunID == "":
		return "run_id"
	}
	return ""
}

// RunFinishedEvent marks the successful end of an agent run. Result
// optionally carries a final value produced by the run.
type RunFinishedEvent struct {
	BaseEvent
	ThreadID string          `json:"thread_id"`
	RunID    string          `json:"run_id"`
	Result   json.RawMessage `json:"result,omitempty"`
}

// NewRunFinishedEvent creates a RUN_FINISHED event.
func NewRunFinishedEvent(threadID, runID string) (*RunFinishedEvent, error) {
	e := &RunFinishedEvent{
		BaseEvent: BaseEvent{EventType: EventTypeRunFinished},
		ThreadID:  threadID,
		RunID:     runID,
	}
	return newEvent(e)
}

func (e *RunFinishedEvent) invalidField() string {
	switch {
	case e.ThreadID == "":
		return "thread_id"
	case e.RunID == "":
		return "run_id"
	}
	return ""
}

// RunErrorEvent marks a run that ended in failure.
type RunErrorEvent struct {
	BaseEvent
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// NewRunErrorEvent creates a RUN_ERROR event.
func NewRunErrorEvent(message string) (*RunErrorEvent, error) {
	e := &RunErrorEvent{
		BaseEvent: BaseEvent{EventType: EventTypeRunError},
		Message:   message,
	}
	return newEvent(e)
}

func (e *RunErrorEvent) invalidField() string {
	if e.Message == "" {
		return "message"
	}
	return ""
}

// StepStartedEvent marks the beginning of a named step within a run.
type StepStartedEvent struct {
	BaseEvent
	StepName string `json:"step_name"`
}

// NewStepStartedEvent creates a STEP_STARTED event.
func NewStepStartedEvent(stepName string) (*StepStartedEvent, error) {
	e := &StepStartedEvent{
		BaseEvent: BaseEvent{EventType: EventTypeStepStarted},
		StepName:  stepName,
	}
	return newEvent(e)
}

func (e *StepStartedEvent) invalidField() string {
	if e.StepName == "" {
		return "step_name"
	}
	return ""
}

// StepFinishedEvent marks the end of a named step within a run.
type StepFinishedEvent struct {
	BaseEvent
	StepName string `json:"step_name"`
}

// NewStepFinishedEvent creates a STEP_FINISHED event.
func NewStepFinishedEvent(stepName string) (*StepFinishedEvent, error) {
	e := &StepFinishedEvent{
		BaseEvent: BaseEvent{EventType: EventTypeStepFinished},
		StepName:  stepName,
	}
	return newEvent(e)
}

func (e *StepFinishedEvent) invalidField() string {
	if e.StepName == "" {
		return "step_name"
	}
	return ""
}

// TextMessageStartEvent opens a streamed assistant message. Content and
// End events link to it through the message id.
type TextMessageStartEvent struct {
	BaseEvent
	MessageID string `json:"message_id"`
	Role      Role   `json:"role"`
}

// NewTextMessageStartEvent creates a TEXT_MESSAGE_START event. The role is
// always assistant.
func NewTextMessageStartEvent(messageID string) (*TextMessageStartEvent, error) {
	e := &TextMessageStartEvent{
		BaseEvent: BaseEvent{EventType: EventTypeTextMessageStart},
		MessageID: messageID,
		Role:      RoleAssistant,
	}
	return newEvent(e)
}

func (e *TextMessageStartEvent) invalidField() string {
	switch {
	case e.MessageID == "":
		return "message_id"
	case e.Role != "" && e.Role != RoleAssistant:
		return "role"
	}
	return ""
}

// TextMessageContentEvent carries one chunk of streamed message text.
// Delta is never empty; an empty chunk is rejected at construction.
type TextMessageContentEvent struct {
	BaseEvent
	MessageID string `json:"message_id"`
	Delta     string `json:"delta"`
}

// NewTextMessageContentEvent creates a TEXT_MESSAGE_CONTENT event.
func NewTextMessageContentEvent(messageID, delta string) (*TextMessageContentEvent, error) {
	e := &TextMessageContentEvent{
		BaseEvent: BaseEvent{EventType: EventTypeTextMessageContent},
		MessageID: messageID,
		Delta:     delta,
	}
	return newEvent(e)
}

func (e *TextMessageContentEvent) invalidField() string {
	switch {
	case e.MessageID == "":
		return "message_id"
	case e.Delta == "":
		return "delta"
	}
	return ""
}

// TextMessageEndEvent closes a streamed assistant message.
type TextMessageEndEvent struct {
	BaseEvent
	MessageID string `json:"message_id"`
}

// NewTextMessageEndEvent creates a TEXT_MESSAGE_END event.
func NewTextMessageEndEvent(messageID string) (*TextMessageEndEvent, error) {
	e := &TextMessageEndEvent{
		BaseEvent: BaseEvent{EventType: EventTypeTextMessageEnd},
		MessageID: messageID,
	}
	return newEvent(e)
}

func (e *TextMessageEndEvent) invalidField() string {
	if e.MessageID == "" {
		return "message_id"
	}
	return ""
}

// ToolCallStartEvent opens a streamed tool call. Args, End, and Result
// events link to it through the tool call id. ParentMessageID optionally
// ties the call to the assistant message that requested it.
type ToolCallStartEvent struct {
	BaseEvent
	ToolCallID      string `json:"tool_call_id"`
	ToolName        string `json:"tool_name"`
	ParentMessageID string `json:"parent_message_id,omitempty"`
}

// NewToolCallStartEvent creates a TOOL_CALL_START event.
func NewToolCallStartEvent(toolCallID, toolName string) (*ToolCallStartEvent, error) {
	e := &ToolCallStartEvent{
		BaseEvent:  BaseEvent{EventType: EventTypeToolCallStart},
		ToolCallID: toolCallID,
		ToolName:   toolName,
	}
	return newEvent(e)
}

func (e *ToolCallStartEvent) invalidField() string {
	switch {
	case e.ToolCallID == "":
		return "tool_call_id"
	case e.ToolName == "":
		return "tool_name"
	}
	return ""
}

// ToolCallArgsEvent carries one chunk of a tool call's argument string.
type ToolCallArgsEvent struct {
	BaseEvent
	ToolCallID string `json:"tool_call_id"`
	Delta      string `json:"delta"`
}

// NewToolCallArgsEvent creates a TOOL_CALL_ARGS event.
func NewToolCallArgsEvent(toolCallID, delta string) (*ToolCallArgsEvent, error) {
	e := &ToolCallArgsEvent{
		BaseEvent:  BaseEvent{EventType: EventTypeToolCallArgs},
		ToolCallID: toolCallID,
		Delta:      delta,
	}
	return newEvent(e)
}

func (e *ToolCallArgsEvent) invalidField() string {
	switch {
	case e.ToolCallID == "":
		return "tool_call_id"
	case e.Delta == "":
		return "delta"
	}
	return ""
}

// ToolCallEndEvent closes a streamed tool call. ToolCall optionally
// carries the assembled call.
type ToolCallEndEvent struct {
	BaseEvent
	ToolCallID string    `json:"tool_call_id"`
	ToolCall   *ToolCall `json:"tool_call,omitempty"`
}

// NewToolCallEndEvent creates a TOOL_CALL_END event.
func NewToolCallEndEvent(toolCallID string) (*ToolCallEndEvent, error) {
	e := &ToolCallEndEvent{
		BaseEvent:  BaseEvent{EventType: EventTypeToolCallEnd},
		ToolCallID: toolCallID,
	}
	return newEvent(e)
}

func (e *ToolCallEndEvent) invalidField() string {
	if e.ToolCallID == "" {
		return "tool_call_id"
	}
	return ""
}

// ToolCallResultEvent delivers the outcome of a tool call back into the
// stream as a tool message.
type ToolCallResultEvent struct {
	BaseEvent
	MessageID  string `json:"message_id"`
	ToolCallID string `json:"tool_call_id"`
	Content    string `json:"content"`
	Role       Role   `json:"role,omitempty"`
}

// NewToolCallResultEvent creates a TOOL_CALL_RESULT event.
func NewToolCallResultEvent(messageID, toolCallID, content string) (*ToolCallResultEvent, error) {
	e := &ToolCallResultEvent{
		BaseEvent:  BaseEvent{EventType: EventTypeToolCallResult},
		MessageID:  messageID,
		ToolCallID: toolCallID,
		Content:    content,
		Role:       RoleTool,
	}
	return newEvent(e)
}

func (e *ToolCallResultEvent) invalidField() string {
	switch {
	case e.MessageID == "":
		return "message_id"
	case e.ToolCallID == "":
		return "tool_call_id"
	case e.Content == "":
		return "content"
	case e.Role != "" && e.Role != RoleTool:
		return "role"
	}
	return ""
}

// StateSnapshotEvent replaces the consumer's view of the shared state.
type StateSnapshotEvent struct {
	BaseEvent
	State State `json:"state"`
}

// NewStateSnapshotEvent creates a STATE_SNAPSHOT event.
func NewStateSnapshotEvent(state State) (*StateSnapshotEvent, error) {
	e := &StateSnapshotEvent{
		BaseEvent: BaseEvent{EventType: EventTypeStateSnapshot},
		State:     state,
	}
	return newEvent(e)
}

func (e *StateSnapshotEvent) invalidField() string {
	if e.State == nil {
		return "state"
	}
	return ""
}

// StateDeltaEvent edits the consumer's view of the shared state with an
// ordered sequence of JSON Patch operations. The sequence is never null;
// empty means no-op.
type StateDeltaEvent struct {
	BaseEvent
	Delta []PatchOp `json:"delta"`
}

// NewStateDeltaEvent creates a STATE_DELTA event.
func NewStateDeltaEvent(delta []PatchOp) (*StateDeltaEvent, error) {
	e := &StateDeltaEvent{
		BaseEvent: BaseEvent{EventType: EventTypeStateDelta},
		Delta:     delta,
	}
	return newEvent(e)
}

func (e *StateDeltaEvent) invalidField() string {
	if e.Delta == nil {
		return "delta"
	}
	return ""
}

// MessagesSnapshotEvent replaces the consumer's view of the conversation
// history.
type MessagesSnapshotEvent struct {
	BaseEvent
	Messages []Message `json:"messages"`
}

// NewMessagesSnapshotEvent creates a MESSAGES_SNAPSHOT event.
func NewMessagesSnapshotEvent(messages []Message) (*MessagesSnapshotEvent, error) {
	e := &MessagesSnapshotEvent{
		BaseEvent: BaseEvent{EventType: EventTypeMessagesSnapshot},
		Messages:  messages,
	}
	return newEvent(e)
}

func (e *MessagesSnapshotEvent) invalidField() string {
	if e.Messages == nil {
		return "messages"
	}
	for _, m := range e.Messages {
		if f := m.validate(); f != "" {
			return "messages." + f
		}
	}
	return ""
}

// RawEvent passes through an event from a foreign system without
// interpretation. Source optionally names where it came from.
type RawEvent struct {
	BaseEvent
	Event  json.RawMessage `json:"event"`
	Source string          `json:"source,omitempty"`
}

// NewRawEvent creates a RAW event wrapping an opaque payload.
func NewRawEvent(event json.RawMessage) (*RawEvent, error) {
	e := &RawEvent{
		BaseEvent: BaseEvent{EventType: EventTypeRaw},
		Event:     event,
	}
	return newEvent(e)
}

func (e *RawEvent) invalidField() string {
	if len(e.Event) == 0 {
		return "event"
	}
	return ""
}

// CustomEvent carries an application-defined name and value for uses the
// protocol does not model.
type CustomEvent struct {
	BaseEvent
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

// NewCustomEvent creates a CUSTOM event.
func NewCustomEvent(name string, value json.RawMessage) (*CustomEvent, error) {
	e := &CustomEvent{
		BaseEvent: BaseEvent{EventType: EventTypeCustom},
		Name:      name,
		Value:     value,
	}
	return newEvent(e)
}

func (e *CustomEvent) invalidField() string {
	switch {
	case e.Name == "":
		return "name"
	case len(e.Value) == 0:
		return "value"
	}
	return ""
}

// validator is implemented by every variant; it reports the wire name of
// the first invalid required field, or "".
type validator interface {
	Event
	invalidField() string
}

// newEvent finishes construction: a failed field check yields a nil event
// and a ConstructionError naming the field.
func newEvent[E validator](e E) (E, error) {
	if f := e.invalidField(); f != "" {
		var zero E
		return zero, &ConstructionError{Type: string(e.Type()), Field: f}
	}
	return e, nil
}

// Interface compliance checks.
var (
	_ Event = (*RunStartedEvent)(nil)
	_ Event = (*RunFinishedEvent)(nil)
	_ Event = (*RunErrorEvent)(nil)
	_ Event = (*StepStartedEvent)(nil)
	_ Event = (*StepFinishedEvent)(nil)
	_ Event = (*TextMessageStartEvent)(nil)
	_ Event = (*TextMessageContentEvent)(nil)
	_ Event = (*TextMessageEndEvent)(nil)
	_ Event = (*ToolCallStartEvent)(nil)
	_ Event = (*ToolCallArgsEvent)(nil)
	_ Event = (*ToolCallEndEvent)(nil)
	_ Event = (*ToolCallResultEvent)(nil)
	_ Event = (*StateSnapshotEvent)(nil)
	_ Event = (*StateDeltaEvent)(nil)
	_ Event = (*MessagesSnapshotEvent)(nil)
	_ Event = (*RawEvent)(nil)
	_ Event = (*CustomEvent)(nil)
)
