// Package sse implements the wire format for agent event streams:
// JSON-encoded events framed as text/event-stream messages.
package sse

import (
	"bytes"

	"github.com/aguiproto/agui"
)

// Encode renders one event as a self-delimited frame: a single data line
// holding the event's canonical JSON, terminated by a blank line. JSON
// string escaping keeps raw newlines out of the payload, so event content
// can never forge a frame boundary.
func Encode(e agui.Event) ([]byte, error) {
	data, err := agui.EncodeEvent(e)
	if err != nil {
		return nil, err
	}
	frame := make([]byte, 0, len(data)+8)
	frame = append(frame, "data: "...)
	frame = append(frame, data...)
	frame = append(frame, '\n', '\n')
	return frame, nil
}

// EncodeAll renders a batch of events as concatenated frames, in order.
// The empty batch encodes to nil.
func EncodeAll(events []agui.Event) ([]byte, error) {
	var buf bytes.Buffer
	for _, e := range events {
		frame, err := Encode(e)
		if err != nil {
			return nil, err
		}
		buf.Write(frame)
	}
	return buf.Bytes(), nil
}

// Comment renders an SSE comment line. Receivers skip comments without
// disturbing frame assembly. The text must not contain newlines.
func Comment(text string) []byte {
	frame := make([]byte, 0, len(text)+3)
	frame = append(frame, ':', ' ')
	frame = append(frame, text...)
	frame = append(frame, '\n')
	return frame
}

// Ping renders the keep-alive frame servers emit on idle streams: a
// comment followed by a blank line. Decoders treat it as a no-op.
func Ping() []byte {
	return []byte(": ping\n\n")
}
