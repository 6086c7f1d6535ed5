package client

import (
	"context"
	"errors"
	"io"

	"github.com/aguiproto/agui"
	"github.com/aguiproto/agui/sse"
)

// stream implements [agui.Stream] over an HTTP response body, decoding
// frames incrementally as the consumer pulls events.
type stream struct {
	ctx     context.Context
	body    io.ReadCloser
	dec     *sse.Decoder
	buf     []byte
	pending []agui.Event
	fail    error // failure observed while decoded events were still queued
	eof     bool
	state   agui.StreamState
	err     error // terminal error once state is StreamStateError
}

// Interface compliance check.
var _ agui.Stream = (*stream)(nil)

func newStream(ctx context.Context, body io.ReadCloser) *stream {
	return &stream{
		ctx:   ctx,
		body:  body,
		dec:   sse.NewDecoder(),
		buf:   make([]byte, 4096),
		state: agui.StreamStateNew,
	}
}

// Next returns the next event, or io.EOF when the server ends the stream
// cleanly. Events decoded before a failure are served before the failure
// surfaces. A chunk is read from the body only when the decoded queue is
// empty; that is what holds the producer to the consumer's pace.
func (s *stream) Next() (agui.Event, error) {
	switch s.state {
	case agui.StreamStateComplete:
		return nil, io.EOF
	case agui.StreamStateError:
		return nil, s.err
	case agui.StreamStateClosed:
		return nil, agui.ErrStreamClosed
	}

	for {
		if len(s.pending) > 0 {
			ev := s.pending[0]
			s.pending = s.pending[1:]
			s.state = agui.StreamStateStreaming
			return ev, nil
		}
		if s.fail != nil {
			s.terminate(s.fail)
			return nil, s.err
		}
		if s.eof {
			s.state = agui.StreamStateComplete
			return nil, io.EOF
		}

		n, err := s.body.Read(s.buf)
		if n > 0 {
			events, derr := s.dec.Feed(s.buf[:n])
			s.pending = append(s.pending, events...)
			if derr != nil {
				s.fail = derr
			}
		}
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			s.eof = true
		default:
			if s.fail == nil {
				s.fail = err
			}
		}
	}
}

// State returns the current stream state.
func (s *stream) State() agui.StreamState {
	return s.state
}

// Close releases the response body. Safe to call in any state; a stream
// closed before termination answers Next with ErrStreamClosed.
func (s *stream) Close() error {
	if s.state != agui.StreamStateComplete && s.state != agui.StreamStateError {
		s.state = agui.StreamStateClosed
	}
	return s.body.Close()
}

// terminate latches a terminal error, preferring the caller's
// cancellation over whatever downstream failure it caused.
func (s *stream) terminate(err error) {
	s.state = agui.StreamStateError
	var pe *agui.ProtocolError
	switch {
	case s.ctx.Err() != nil:
		s.err = s.ctx.Err()
	case errors.As(err, &pe):
		s.err = err
	default:
		s.err = &agui.TransportError{Err: err}
	}
}
