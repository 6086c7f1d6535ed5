package sse

import (
	"bytes"

	"github.com/aguiproto/agui"
)

// Decoder is an incremental frame parser. Feed it the stream's bytes in
// whatever chunks the transport delivers; it buffers across calls, so the
// decoded events never depend on where chunks were cut. A split in the
// middle of a multi-byte character is safe for the same reason: bytes sit
// in the buffer until their line completes, and a line terminator can
// never occur inside a UTF-8 sequence.
//
// Framing errors are fatal. After a *agui.ProtocolError every further
// Feed returns the same error and no events; the stream's id linkage
// makes skipping a frame worse than stopping. A frame left unterminated
// at end of input is discarded, per the stream grammar.
//
// A Decoder serves one stream and is not safe for concurrent use.
type Decoder struct {
	buf     []byte // undelivered stream bytes; buf[r:] is pending
	r       int    // read cursor into buf
	data    []byte // data lines of the frame under assembly, newline-joined
	hasData bool
	err     error // terminal error, latched
}

// NewDecoder returns a Decoder at the start of a stream.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed consumes one chunk and returns the events completed by it, in
// stream order. An empty chunk is a no-op. Like io.Reader, Feed may
// return events alongside a non-nil error: the events preceded the
// malformed frame and are valid.
func (d *Decoder) Feed(chunk []byte) ([]agui.Event, error) {
	if d.err != nil {
		return nil, d.err
	}
	d.buf = append(d.buf, chunk...)

	var events []agui.Event
	for {
		line, ok := d.nextLine()
		if !ok {
			break
		}
		ev, err := d.consume(line)
		if err != nil {
			d.err = err
			return events, err
		}
		if ev != nil {
			events = append(events, ev)
		}
	}
	d.compact()
	return events, nil
}

// nextLine returns the next complete line with its terminator stripped,
// or ok=false when no full line is buffered yet.
func (d *Decoder) nextLine() (line []byte, ok bool) {
	i := bytes.IndexByte(d.buf[d.r:], '\n')
	if i < 0 {
		return nil, false
	}
	line = d.buf[d.r : d.r+i]
	d.r += i + 1
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return line, true
}

// consume folds one line into the frame under assembly. A blank line
// completes the frame and yields its event; every other line yields nil.
func (d *Decoder) consume(line []byte) (agui.Event, error) {
	if len(line) == 0 {
		return d.endFrame()
	}
	if line[0] == ':' {
		// Comment line; keep-alives arrive this way.
		return nil, nil
	}
	field, value := splitField(line)
	if field == "data" {
		if d.hasData {
			d.data = append(d.data, '\n')
		}
		d.data = append(d.data, value...)
		d.hasData = true
	}
	// Other fields (event, id, retry) are valid SSE but carry nothing
	// here: the protocol puts everything in the data payload.
	return nil, nil
}

// splitField splits "name: value" per the SSE grammar: the name runs to
// the first colon, and one space after the colon is consumed if present.
func splitField(line []byte) (string, []byte) {
	i := bytes.IndexByte(line, ':')
	if i < 0 {
		return string(line), nil
	}
	name := line[:i]
	value := line[i+1:]
	if len(value) > 0 && value[0] == ' ' {
		value = value[1:]
	}
	return string(name), value
}

// endFrame dispatches the assembled frame. A blank line with no data
// lines is a keep-alive and yields nothing.
func (d *Decoder) endFrame() (agui.Event, error) {
	if !d.hasData {
		return nil, nil
	}
	payload := d.data
	d.data = nil
	d.hasData = false
	ev, err := agui.DecodeEvent(payload)
	if err != nil {
		return nil, &agui.ProtocolError{Reason: "malformed frame", Err: err}
	}
	return ev, nil
}

// compact reclaims consumed bytes once the cursor passes half the buffer,
// so the buffer tracks the longest pending frame rather than the stream.
func (d *Decoder) compact() {
	switch {
	case d.r == 0:
	case d.r == len(d.buf):
		d.buf = d.buf[:0]
		d.r = 0
	case d.r > len(d.buf)/2:
		n := copy(d.buf, d.buf[d.r:])
		d.buf = d.buf[:n]
		d.r = 0
	}
}
