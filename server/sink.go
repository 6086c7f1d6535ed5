package server

import (
	"context"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aguiproto/agui"
	"github.com/aguiproto/agui/sse"
)

// sinkWriter streams frames to the response, one flush per frame so
// events reach the consumer as they happen. Sends and keep-alive pings
// share a mutex; the response writer is not safe for concurrent writes.
type sinkWriter struct {
	mu      sync.Mutex
	resp    *echo.Response
	every   time.Duration
	ping    *time.Timer
	stopped bool
}

// Interface compliance check.
var _ agui.Sink = (*sinkWriter)(nil)

func newSinkWriter(resp *echo.Response, keepAlive time.Duration) *sinkWriter {
	s := &sinkWriter{resp: resp, every: keepAlive}
	if keepAlive > 0 {
		s.ping = time.AfterFunc(keepAlive, s.sendPing)
	}
	return s
}

// Send encodes and writes one event frame. A disconnected consumer
// surfaces as cancellation of ctx, which the agent should treat as the
// end of the run.
func (s *sinkWriter) Send(ctx context.Context, e agui.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	frame, err := sse.Encode(e)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return agui.ErrStreamClosed
	}
	if _, err := s.resp.Write(frame); err != nil {
		return &agui.TransportError{Err: err}
	}
	s.resp.Flush()
	if s.ping != nil {
		s.ping.Reset(s.every)
	}
	return nil
}

// sendPing writes a keep-alive frame and re-arms the timer. Decoders
// treat the frame as a no-op.
func (s *sinkWriter) sendPing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	_, _ = s.resp.Write(sse.Ping())
	s.resp.Flush()
	s.ping.Reset(s.every)
}

// stop ends keep-alives and refuses further writes. Must run before the
// handler returns; the response writer is dead after that.
func (s *sinkWriter) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.ping != nil {
		s.ping.Stop()
	}
}
