// Package stream fans bridge events out to websocket subscribers.
package stream

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/samcm/ts3-event-bridge/internal/bridge"
	"github.com/samcm/ts3-event-bridge/internal/event"
)

const clientBuffer = 64

var subscribers = prometheus.NewGauge(prometheus.GaugeOpts{
	Namespace: "ts3bridge",
	Subsystem: "stream",
	Name:      "subscribers",
	Help:      "Connected websocket subscribers.",
})

func init() {
	prometheus.MustRegister(subscribers)
}

// Message is the JSON envelope written to subscribers.
type Message struct {
	Event string `json:"event"`
	Args  []any  `json:"args"`
}

// Registrar is the registration half of the event bridge.
type Registrar interface {
	On(name string, l bridge.Listener) error
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func newClient(conn *websocket.Conn) *client {
	c := &client{
		conn: conn,
		send: make(chan []byte, clientBuffer),
	}

	go c.writePump()

	return c
}

func (c *client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// Hub broadcasts every event it is registered for to all subscribers.
type Hub struct {
	log      logrus.FieldLogger
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	clients  map[*client]struct{}
}

// NewHub creates an empty hub.
func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{
		log: log.WithField("component", "stream"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Register subscribes the hub to every event kind.
func (h *Hub) Register(b Registrar) error {
	for _, kind := range event.Kinds() {
		name := string(kind)

		if err := b.On(name, func(args ...any) error {
			return h.Broadcast(name, args)
		}); err != nil {
			return fmt.Errorf("failed to register stream listener for %s: %w", name, err)
		}
	}

	return nil
}

// Broadcast sends one event to every subscriber. Subscribers that cannot keep
// up are disconnected.
func (h *Hub) Broadcast(name string, args []any) error {
	data, err := json.Marshal(Message{Event: name, Args: args})
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	// Sends happen under the read lock so remove and Close cannot close a
	// send channel mid-broadcast.
	var slow []*client

	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.log.WithField("remote", c.conn.RemoteAddr().String()).Warn("Subscriber too slow, disconnecting")
		h.remove(c)
	}

	return nil
}

// ServeHTTP upgrades the request and subscribes the connection.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Debug("Websocket upgrade failed")

		return
	}

	c := newClient(conn)
	h.add(c)

	h.log.WithField("remote", r.RemoteAddr).Debug("Subscriber connected")

	go func() {
		defer func() {
			h.remove(c)
			h.log.WithField("remote", r.RemoteAddr).Debug("Subscriber disconnected")
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Subscribers returns the number of connected subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
		subscribers.Dec()
	}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	subscribers.Inc()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return
	}

	delete(h.clients, c)
	close(c.send)
	subscribers.Dec()
}
