// Package host provides the single logical execution thread listeners run on.
package host

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultDrainInterval is the scheduling tick used when none is configured.
const DefaultDrainInterval = 50 * time.Millisecond

// ErrStopped is returned by Do once the loop has exited.
var ErrStopped = errors.New("host loop stopped")

// Drainer is the part of the event bridge the loop pumps.
type Drainer interface {
	Ready() <-chan struct{}
	Drain(max int) int
}

// Config holds host loop configuration.
type Config struct {
	DrainInterval time.Duration
	DrainBatch    int
}

// Loop runs drains and scheduled tasks one at a time on a single goroutine.
type Loop struct {
	log     logrus.FieldLogger
	cfg     Config
	drainer Drainer
	tasks   chan task
	done    chan struct{}
	stop    sync.Once
	exited  chan struct{}
}

type task struct {
	fn   func()
	done chan struct{}
}

// NewLoop creates a host loop pumping the given drainer.
func NewLoop(log logrus.FieldLogger, cfg Config, drainer Drainer) *Loop {
	if cfg.DrainInterval <= 0 {
		cfg.DrainInterval = DefaultDrainInterval
	}

	return &Loop{
		log:     log.WithField("component", "host"),
		cfg:     cfg,
		drainer: drainer,
		tasks:   make(chan task),
		done:    make(chan struct{}),
		exited:  make(chan struct{}),
	}
}

// Run executes the loop until ctx is cancelled or Stop is called.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.exited)

	ticker := time.NewTicker(l.cfg.DrainInterval)
	defer ticker.Stop()

	l.log.WithField("interval", l.cfg.DrainInterval).Info("Host loop started")

	for {
		select {
		case <-l.done:
			l.log.Info("Host loop stopped")
			return nil
		case <-ctx.Done():
			l.log.Info("Host loop stopped")
			return ctx.Err()
		case t := <-l.tasks:
			t.fn()
			close(t.done)
		case <-l.drainer.Ready():
			l.drain()
		case <-ticker.C:
			l.drain()
		}
	}
}

// drain processes one bounded batch. If more work is pending the bridge
// signals Ready again, so other tasks get a turn in between.
func (l *Loop) drain() {
	if n := l.drainer.Drain(l.cfg.DrainBatch); n > 0 {
		l.log.WithField("count", n).Trace("Drained notifications")
	}
}

// Do runs fn on the loop goroutine and waits for it to return.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	t := task{fn: fn, done: make(chan struct{})}

	select {
	case l.tasks <- t:
	case <-l.exited:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop ends the loop. It is safe to call more than once.
func (l *Loop) Stop() {
	l.stop.Do(func() {
		close(l.done)
	})
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.exited
}
