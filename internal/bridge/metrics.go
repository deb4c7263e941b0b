package bridge

import "github.com/prometheus/client_golang/prometheus"

const (
	dropNotArmed = "not_armed"
	dropFull     = "queue_full"
	dropTeardown = "teardown"
)

var (
	notificationsPosted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ts3bridge",
			Subsystem: "bridge",
			Name:      "notifications_posted_total",
			Help:      "Notifications accepted from library threads",
		},
		[]string{"kind"},
	)

	notificationsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ts3bridge",
			Subsystem: "bridge",
			Name:      "notifications_dropped_total",
			Help:      "Notifications discarded before reaching listeners",
		},
		[]string{"reason"},
	)

	notificationsDelivered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ts3bridge",
			Subsystem: "bridge",
			Name:      "notifications_delivered_total",
			Help:      "Notifications dispatched to at least one listener",
		},
		[]string{"kind"},
	)

	listenerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ts3bridge",
			Subsystem: "bridge",
			Name:      "listener_failures_total",
			Help:      "Listener invocations that returned an error or panicked",
		},
		[]string{"kind"},
	)

	queueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ts3bridge",
			Subsystem: "bridge",
			Name:      "queue_depth",
			Help:      "Notifications waiting for the host to drain them",
		},
	)
)

func init() {
	prometheus.MustRegister(notificationsPosted, notificationsDropped, notificationsDelivered, listenerFailures, queueDepth)
}
