package bridge

import (
	"sync"

	"github.com/samcm/ts3-event-bridge/internal/event"
)

// registry maps kinds to listeners. Slices are replaced, never mutated, so a
// slice returned by get stays valid while registrations continue.
type registry struct {
	mu        sync.RWMutex
	listeners map[event.Kind][]Listener
}

func newRegistry() *registry {
	return &registry{listeners: make(map[event.Kind][]Listener)}
}

func (r *registry) add(k event.Kind, l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.listeners[k]
	next := make([]Listener, len(cur), len(cur)+1)
	copy(next, cur)
	r.listeners[k] = append(next, l)
}

func (r *registry) get(k event.Kind) []Listener {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.listeners[k]
}
