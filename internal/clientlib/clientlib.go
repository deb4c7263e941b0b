// Package clientlib owns the client library lifecycle and keeps the event
// bridge armed exactly while the library is initialized.
package clientlib

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/samcm/ts3-event-bridge/internal/sdk"
)

var (
	ErrAlreadyInitialized = errors.New("client library already initialized")
	ErrNotInitialized     = errors.New("client library not initialized")
)

// Bridge is the part of the event bridge the lifecycle drives.
type Bridge interface {
	Callbacks() sdk.Callbacks
	Arm()
	Disarm() int
}

// Config holds lifecycle settings.
type Config struct {
	LogVerbosity sdk.LogLevel
}

// Service defines the client library lifecycle interface.
type Service interface {
	Init(ctx context.Context) error
	Destroy() error
	Version() (string, error)
	Connect(ctx context.Context, params sdk.ConnectParams) (uint64, error)
	Disconnect(handlerID uint64, quitMessage string) error
}

type service struct {
	log         logrus.FieldLogger
	cfg         Config
	lib         sdk.ClientLib
	bridge      Bridge
	mu          sync.Mutex
	initialized bool
}

// NewService creates a new lifecycle service.
func NewService(log logrus.FieldLogger, cfg Config, lib sdk.ClientLib, bridge Bridge) Service {
	return &service{
		log:    log.WithField("component", "clientlib"),
		cfg:    cfg,
		lib:    lib,
		bridge: bridge,
	}
}

// Init initializes the library and arms the bridge once that succeeded.
func (s *service) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return ErrAlreadyInitialized
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.lib.InitClientLib(s.bridge.Callbacks(), s.cfg.LogVerbosity); err != nil {
		return fmt.Errorf("failed to initialize client library: %w", err)
	}

	s.bridge.Arm()
	s.initialized = true

	log := s.log

	if version, err := s.lib.GetClientLibVersion(); err == nil {
		log = log.WithField("version", version)
	}

	if number, err := s.lib.GetClientLibVersionNumber(); err == nil {
		log = log.WithField("version_number", number)
	}

	log.Info("Client library initialized")

	return nil
}

// Destroy disarms the bridge, then tears the library down.
func (s *service) Destroy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}

	discarded := s.bridge.Disarm()
	s.initialized = false

	if err := s.lib.DestroyClientLib(); err != nil {
		return fmt.Errorf("failed to destroy client library: %w", err)
	}

	s.log.WithField("discarded", discarded).Info("Client library destroyed")

	return nil
}

// Version returns the library version string.
func (s *service) Version() (string, error) {
	version, err := s.lib.GetClientLibVersion()
	if err != nil {
		return "", fmt.Errorf("failed to get client library version: %w", err)
	}

	return version, nil
}

// Connect spawns a server connection handler and starts connecting it.
func (s *service) Connect(ctx context.Context, params sdk.ConnectParams) (uint64, error) {
	if !s.isInitialized() {
		return 0, ErrNotInitialized
	}

	id, err := s.lib.SpawnServerConnectionHandler()
	if err != nil {
		return 0, fmt.Errorf("failed to spawn server connection handler: %w", err)
	}

	log := s.log.WithFields(logrus.Fields{
		"handler": id,
		"address": params.Address,
	})

	if err := s.lib.StartConnection(ctx, id, params); err != nil {
		if derr := s.lib.DestroyServerConnectionHandler(id); derr != nil {
			log.WithError(derr).Warn("Failed to destroy server connection handler")
		}

		return 0, fmt.Errorf("failed to start connection: %w", err)
	}

	log.Info("Connection started")

	return id, nil
}

// Disconnect stops a connection and releases its handler.
func (s *service) Disconnect(handlerID uint64, quitMessage string) error {
	if !s.isInitialized() {
		return ErrNotInitialized
	}

	if err := s.lib.StopConnection(handlerID, quitMessage); err != nil {
		return fmt.Errorf("failed to stop connection %d: %w", handlerID, err)
	}

	if err := s.lib.DestroyServerConnectionHandler(handlerID); err != nil {
		return fmt.Errorf("failed to destroy server connection handler %d: %w", handlerID, err)
	}

	s.log.WithField("handler", handlerID).Info("Connection stopped")

	return nil
}

func (s *service) isInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.initialized
}
