package agui

import (
	"errors"
	"fmt"
)

// ErrStreamClosed indicates an operation on a closed stream.
var ErrStreamClosed = errors.New("stream closed")

// ConstructionError reports a field invariant violated while building an
// event, message, or input value. It never crosses the wire; the producer
// sees it synchronously.
type ConstructionError struct {
	Type  string // what was being constructed, e.g. "TEXT_MESSAGE_CONTENT"
	Field string // violated field, wire name
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("construct %s: invalid field %q", e.Type, e.Field)
}

// SchemaError reports a structured value that cannot be mapped onto any
// known event variant: unknown discriminator, missing required field, or
// wrong field type.
type SchemaError struct {
	Type   string // discriminator, when one was readable
	Field  string // offending field, when identified
	Reason string
	Err    error // underlying JSON error, if any
}

func (e *SchemaError) Error() string {
	msg := "decode event"
	if e.Type != "" {
		msg += " " + e.Type
	}
	if e.Field != "" {
		msg += fmt.Sprintf(": field %q", e.Field)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SchemaError) Unwrap() error { return e.Err }

// ProtocolError reports a wire stream the decoder cannot continue with:
// malformed framing or a frame payload that failed schema decoding. It is
// terminal for the stream that produced it.
type ProtocolError struct {
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("protocol: %s: %v", e.Reason, e.Err)
	}
	return "protocol: " + e.Reason
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// TransportError reports a request or connection failure: a non-success
// response status, a dropped connection, or any other host-level fault.
// It is terminal for the stream that produced it.
type TransportError struct {
	Status int // HTTP status, when the failure carries one; zero otherwise
	Err    error
}

func (e *TransportError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("transport: HTTP %d: %v", e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("transport: HTTP %d", e.Status)
	case e.Err != nil:
		return fmt.Sprintf("transport: %v", e.Err)
	}
	return "transport error"
}

func (e *TransportError) Unwrap() error { return e.Err }

// SerializationError reports an event the encoder could not serialize.
// Unreachable for validly constructed events; a corrupted Raw or Custom
// payload is the only known cause.
type SerializationError struct {
	Type string // discriminator of the event that failed
	Err  error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("encode event %s: %v", e.Type, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }
