// Package bridge hands client library notifications from library threads to
// the host's single execution thread and dispatches them to listeners.
package bridge

import (
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/samcm/ts3-event-bridge/internal/event"
	"github.com/samcm/ts3-event-bridge/internal/sdk"
)

const (
	DefaultQueueCapacity = 1024
	DefaultDrainBatch    = 64
)

// Listener receives the translated argument tuple of one notification.
type Listener func(args ...any) error

// State is the arming state of the bridge.
type State int32

const (
	// Unarmed accepts registrations but discards notifications.
	Unarmed State = iota
	// Armed queues notifications for the host.
	Armed
)

func (s State) String() string {
	if s == Armed {
		return "armed"
	}

	return "unarmed"
}

// Config holds bridge configuration.
type Config struct {
	QueueCapacity int
	DrainBatch    int
	// Unhandled receives listener failures and dropped notifications. It
	// defaults to logging them at error level.
	Unhandled func(err error)
}

// Service defines the event bridge interface.
//
// Post and the Callbacks table may be used from any goroutine. Drain, Arm and
// Disarm belong to the host thread.
type Service interface {
	On(name string, l Listener) error
	Callbacks() sdk.Callbacks
	Post(p event.Payload) error
	Ready() <-chan struct{}
	Drain(max int) int
	Arm()
	Disarm() int
	State() State
	Pending() int
}

type service struct {
	log       logrus.FieldLogger
	cfg       Config
	registry  *registry
	queue     *queue
	state     atomic.Int32
	ready     chan struct{}
	unhandled func(err error)
}

// NewService creates a new, unarmed bridge.
func NewService(log logrus.FieldLogger, cfg Config) Service {
	if cfg.QueueCapacity <= 0 {
		cfg.QueueCapacity = DefaultQueueCapacity
	}

	if cfg.DrainBatch <= 0 {
		cfg.DrainBatch = DefaultDrainBatch
	}

	s := &service{
		log:      log.WithField("component", "bridge"),
		cfg:      cfg,
		registry: newRegistry(),
		queue:    newQueue(cfg.QueueCapacity, queueDepth),
		ready:    make(chan struct{}, 1),
	}

	s.unhandled = cfg.Unhandled
	if s.unhandled == nil {
		s.unhandled = func(err error) {
			s.log.WithError(err).Error("Unhandled event bridge error")
		}
	}

	return s
}

// On appends a listener for the named event.
func (s *service) On(name string, l Listener) error {
	kind, err := event.ParseKind(name)
	if err != nil {
		return err
	}

	if l == nil {
		return fmt.Errorf("failed to register %s: %w", kind, ErrNilListener)
	}

	s.registry.add(kind, l)

	return nil
}

// Post hands a notification to the host. It never blocks on the host.
func (s *service) Post(p event.Payload) error {
	n := event.New(p)

	if _, err := s.queue.push(n); err != nil {
		switch err {
		case ErrNotArmed:
			notificationsDropped.WithLabelValues(dropNotArmed).Inc()
			s.log.WithField("kind", n.Kind).Debug("Discarded notification while unarmed")
		case ErrQueueFull:
			notificationsDropped.WithLabelValues(dropFull).Inc()
			s.unhandled(fmt.Errorf("dropped %s notification for handler %d: %w", n.Kind, n.HandlerID, err))
		}

		return err
	}

	notificationsPosted.WithLabelValues(string(n.Kind)).Inc()
	s.wake()

	return nil
}

func (s *service) wake() {
	select {
	case s.ready <- struct{}{}:
	default:
	}
}

// Ready is signalled whenever notifications may be waiting.
func (s *service) Ready() <-chan struct{} {
	return s.ready
}

// Drain dispatches at most max queued notifications and returns how many it
// removed. A non-positive max uses the configured batch size.
func (s *service) Drain(max int) int {
	if max <= 0 {
		max = s.cfg.DrainBatch
	}

	batch := s.queue.pop(max)

	for i, n := range batch {
		if s.State() != Armed {
			notificationsDropped.WithLabelValues(dropTeardown).Add(float64(len(batch) - i))
			return len(batch)
		}

		s.dispatch(n)
	}

	if s.queue.len() > 0 {
		s.wake()
	}

	return len(batch)
}

func (s *service) dispatch(n event.Notification) {
	listeners := s.registry.get(n.Kind)
	if len(listeners) == 0 {
		return
	}

	args := n.Payload.Args()

	for i, l := range listeners {
		// Teardown may begin from inside a listener.
		if s.State() != Armed {
			return
		}

		callArgs := make([]any, len(args))
		copy(callArgs, args)

		if err := invoke(l, callArgs); err != nil {
			listenerFailures.WithLabelValues(string(n.Kind)).Inc()
			s.unhandled(&ListenerFailure{Kind: n.Kind, Seq: n.Seq, Index: i, Err: err})
		}
	}

	notificationsDelivered.WithLabelValues(string(n.Kind)).Inc()
}

func invoke(l Listener, args []any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()

	return l(args...)
}

// Arm starts accepting notifications.
func (s *service) Arm() {
	s.state.Store(int32(Armed))
	s.queue.setOpen(true)
	s.log.Info("Event bridge armed")
}

// Disarm stops accepting notifications and discards anything queued without
// running listeners. It returns the number of discarded notifications.
func (s *service) Disarm() int {
	s.state.Store(int32(Unarmed))
	dropped := s.queue.setOpen(false)

	notificationsDropped.WithLabelValues(dropTeardown).Add(float64(dropped))

	s.log.WithField("discarded", dropped).Info("Event bridge disarmed")

	return dropped
}

func (s *service) State() State {
	return State(s.state.Load())
}

// Pending returns the number of queued notifications.
func (s *service) Pending() int {
	return s.queue.len()
}
