package bridge

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/samcm/ts3-event-bridge/internal/event"
)

// queue is a bounded FIFO with many producers and a single consumer. Producers
// hold the lock only long enough to copy one notification into the ring.
// depth tracks size and is only written with the lock held.
type queue struct {
	mu    sync.Mutex
	items []event.Notification
	head  int
	size  int
	open  bool
	seq   uint64
	depth prometheus.Gauge
}

func newQueue(capacity int, depth prometheus.Gauge) *queue {
	return &queue{items: make([]event.Notification, capacity), depth: depth}
}

// push stamps n with the next sequence number and appends it.
func (q *queue) push(n event.Notification) (uint64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.open {
		return 0, ErrNotArmed
	}

	if q.size == len(q.items) {
		return 0, ErrQueueFull
	}

	q.seq++
	n.Seq = q.seq
	q.items[(q.head+q.size)%len(q.items)] = n
	q.size++
	q.depth.Set(float64(q.size))

	return n.Seq, nil
}

// pop removes up to max notifications in arrival order.
func (q *queue) pop(max int) []event.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := q.size
	if max < n {
		n = max
	}

	if n <= 0 {
		return nil
	}

	out := make([]event.Notification, n)
	for i := 0; i < n; i++ {
		idx := (q.head + i) % len(q.items)
		out[i] = q.items[idx]
		q.items[idx] = event.Notification{}
	}

	q.head = (q.head + n) % len(q.items)
	q.size -= n
	q.depth.Set(float64(q.size))

	return out
}

// setOpen toggles whether push accepts notifications. Closing discards
// everything still queued and returns how many were dropped.
func (q *queue) setOpen(open bool) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.open = open
	if open {
		return 0
	}

	dropped := q.size
	for i := range q.items {
		q.items[i] = event.Notification{}
	}

	q.head = 0
	q.size = 0
	q.depth.Set(0)

	return dropped
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.size
}
