package event

import "time"

// Notification is one event handed from a library thread to the host.
type Notification struct {
	// Seq increases monotonically per bridge, in hand-off order.
	Seq       uint64
	Kind      Kind
	HandlerID uint64
	Payload   Payload
	Received  time.Time
}

// New wraps a payload. Seq is assigned when the notification is queued.
func New(p Payload) Notification {
	return Notification{
		Kind:      p.Kind(),
		HandlerID: p.Handler(),
		Payload:   p,
		Received:  time.Now(),
	}
}
