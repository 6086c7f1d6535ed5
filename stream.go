package agui

// StreamState indicates the current state of a Stream.
type StreamState int

const (
	StreamStateNew       StreamState = iota // Before Next() is ever called.
	StreamStateStreaming                    // Mid-stream, events arriving.
	StreamStateComplete                     // Next() returned io.EOF.
	StreamStateError                        // Next() returned non-EOF error.
	StreamStateClosed                       // Close() called before a terminal state.
)

// Stream is a lazy, single-consumer sequence of events. Pull-based: Next()
// blocks for the next event and returns io.EOF at normal exhaustion, so a
// slow consumer throttles the producer. Cancellation flows through the
// context passed to the component that opened the stream.
//
// A non-EOF error from Next() is terminal and distinguishes the failure:
// *TransportError for connection faults, *ProtocolError for wire
// violations, a context error when the caller cancelled. Next() after a
// terminal error returns the same error; Next() after Close() returns
// ErrStreamClosed.
//
// Close() releases the underlying chunk source. It is safe to call on any
// state and after a terminal error, and is required when abandoning a
// stream before exhaustion.
type Stream interface {
	Next() (Event, error)
	State() StreamState
	Close() error
}
