// Package httpapi serves metrics, health and the live event stream.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/samcm/ts3-event-bridge/internal/bridge"
)

// Bridge is the part of the event bridge reported on /healthz.
type Bridge interface {
	State() bridge.State
	Pending() int
}

// Health is the /healthz response body.
type Health struct {
	State       string `json:"state"`
	Pending     int    `json:"pending"`
	Subscribers int    `json:"subscribers"`
}

// Stream is the websocket endpoint mounted on /events.
type Stream interface {
	http.Handler
	Subscribers() int
}

// NewMux builds the router.
func NewMux(b Bridge, events Stream) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		health := Health{
			State:       b.State().String(),
			Pending:     b.Pending(),
			Subscribers: events.Subscribers(),
		}

		status := http.StatusOK
		if b.State() != bridge.Armed {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(health)
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Handle("/events", events)

	return r
}

// Server wraps http.Server with context driven shutdown.
type Server struct {
	log logrus.FieldLogger
	srv *http.Server
}

// NewServer creates a server listening on addr.
func NewServer(log logrus.FieldLogger, addr string, handler http.Handler) *Server {
	return &Server{
		log: log.WithField("component", "http"),
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.log.WithField("address", s.srv.Addr).Info("HTTP server listening")
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("failed to serve HTTP: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}

	return nil
}
