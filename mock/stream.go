package mock

import "github.com/aguiproto/agui"

// Interface compliance check.
var _ agui.Stream = (*Stream)(nil)

// Stream is a test double for agui.Stream.
// Set the function fields for the methods you need. NextFn panics when
// nil to catch missing setup. StateFn and CloseFn are nil-safe (zero
// value and no-op) because test code commonly calls defer stream.Close()
// and these methods rarely need custom behavior.
type Stream struct {
	NextFn  func() (agui.Event, error)
	StateFn func() agui.StreamState
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (agui.Event, error) {
	return s.NextFn()
}

// State delegates to StateFn. Returns StreamStateNew when StateFn is nil.
func (s *Stream) State() agui.StreamState {
	if s.StateFn == nil {
		return agui.StreamStateNew
	}
	return s.StateFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}
