package agui

import (
	"encoding/json"
	"errors"
)

// EncodeEvent serializes an event to its canonical JSON form. Total for
// validly constructed events; only a corrupted opaque payload (Raw,
// Custom, raw_event passthrough) can fail, with a SerializationError.
func EncodeEvent(e Event) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, &SerializationError{Type: string(e.Type()), Err: err}
	}
	return data, nil
}

// DecodeEvent maps a JSON-encoded event onto its variant using the "type"
// discriminator. An unknown discriminator or a missing or mistyped
// required field yields a SchemaError.
func DecodeEvent(data []byte) (Event, error) {
	var head struct {
		Type EventType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, &SchemaError{Reason: "invalid JSON", Err: err}
	}
	if head.Type == "" {
		return nil, &SchemaError{Field: "type", Reason: "missing discriminator"}
	}

	e, err := emptyEvent(head.Type)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, e); err != nil {
		se := &SchemaError{Type: string(head.Type), Reason: "mistyped field", Err: err}
		var ute *json.UnmarshalTypeError
		if errors.As(err, &ute) {
			se.Field = ute.Field
		}
		return nil, se
	}
	if f := e.invalidField(); f != "" {
		return nil, &SchemaError{Type: string(head.Type), Field: f, Reason: "missing or invalid required field"}
	}
	return e, nil
}

// emptyEvent returns a zero value of the variant named by t. The switch is
// the single place the discriminator set is enumerated for decoding; the
// exhaustiveness test keeps it in sync with the variant list.
func emptyEvent(t EventType) (validator, error) {
	switch t {
	case EventTypeRunStarted:
		return &RunStartedEvent{}, nil
	case EventTypeRunFinished:
		return &RunFinishedEvent{}, nil
	case EventTypeRunError:
		return &RunErrorEvent{}, nil
	case EventTypeStepStarted:
		return &StepStartedEvent{}, nil
	case EventTypeStepFinished:
		return &StepFinishedEvent{}, nil
	case EventTypeTextMessageStart:
		return &TextMessageStartEvent{}, nil
	case EventTypeTextMessageContent:
		return &TextMessageContentEvent{}, nil
	case EventTypeTextMessageEnd:
		return &TextMessageEndEvent{}, nil
	case EventTypeToolCallStart:
		return &ToolCallStartEvent{}, nil
	case EventTypeToolCallArgs:
		return &ToolCallArgsEvent{}, nil
	case EventTypeToolCallEnd:
		return &ToolCallEndEvent{}, nil
	case EventTypeToolCallResult:
		return &ToolCallResultEvent{}, nil
	case EventTypeStateSnapshot:
		return &StateSnapshotEvent{}, nil
	case EventTypeStateDelta:
		return &StateDeltaEvent{}, nil
	case EventTypeMessagesSnapshot:
		return &MessagesSnapshotEvent{}, nil
	case EventTypeRaw:
		return &RawEvent{}, nil
	case EventTypeCustom:
		return &CustomEvent{}, nil
	}
	return nil, &SchemaError{Type: string(t), Field: "type", Reason: "unknown discriminator"}
}
