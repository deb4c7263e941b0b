package bridge

import (
	"errors"
	"fmt"

	"github.com/samcm/ts3-event-bridge/internal/event"
)

var (
	// ErrUnknownEventKind is returned by On for unsupported event names.
	ErrUnknownEventKind = event.ErrUnknownEventKind

	// ErrNotArmed is returned when a notification arrives while the bridge is
	// unarmed. The notification is discarded.
	ErrNotArmed = errors.New("bridge not armed")

	// ErrQueueFull is returned when the hand-off queue has no room. The
	// notification is dropped rather than blocking the library thread.
	ErrQueueFull = errors.New("notification queue full")

	// ErrNilListener is returned by On when the listener is nil.
	ErrNilListener = errors.New("nil listener")
)

// ListenerFailure reports a listener that returned an error or panicked.
type ListenerFailure struct {
	Kind  event.Kind
	Seq   uint64
	Index int
	Err   error
}

func (f *ListenerFailure) Error() string {
	return fmt.Sprintf("listener %d for %s (seq %d) failed: %v", f.Index, f.Kind, f.Seq, f.Err)
}

func (f *ListenerFailure) Unwrap() error {
	return f.Err
}

// PanicError wraps a value recovered from a panicking listener.
type PanicError struct {
	Value any
}

func (p *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", p.Value)
}
