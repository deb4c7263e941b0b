// Package discord relays TeamSpeak events into a Discord channel.
package discord

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/samcm/ts3-event-bridge/internal/bridge"
	"github.com/samcm/ts3-event-bridge/internal/event"
)

// ErrOutboxFull is returned by a relay listener when Discord cannot keep up.
var ErrOutboxFull = errors.New("discord outbox full")

// DefaultEvents are relayed when Config.Events is empty.
var DefaultEvents = []event.Kind{
	event.KindConnectionStatusChanged,
	event.KindTextMessage,
	event.KindClientMoved,
	event.KindClientMovedByOther,
	event.KindClientKickedFromServer,
	event.KindServerStop,
}

// Config holds Discord bot settings.
type Config struct {
	Token      string
	ChannelID  string
	Events     []event.Kind
	OutboxSize int
}

// Service defines the Discord relay interface.
type Service interface {
	Start(ctx context.Context) error
	Stop() error
	// Register adds one listener per relayed kind to the bridge.
	Register(b Registrar) error
}

// Registrar is the registration half of the event bridge.
type Registrar interface {
	On(name string, l bridge.Listener) error
}

// sender is the part of *discordgo.Session used to post embeds.
type sender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	Close() error
}

type service struct {
	log     logrus.FieldLogger
	cfg     Config
	open    func(token string) (sender, error)
	session sender
	outbox  chan *discordgo.MessageEmbed
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
}

// NewService creates a new Discord relay.
func NewService(log logrus.FieldLogger, cfg Config) Service {
	if len(cfg.Events) == 0 {
		cfg.Events = DefaultEvents
	}

	if cfg.OutboxSize <= 0 {
		cfg.OutboxSize = 64
	}

	return &service{
		log:    log.WithField("component", "discord"),
		cfg:    cfg,
		open:   openSession,
		outbox: make(chan *discordgo.MessageEmbed, cfg.OutboxSize),
	}
}

func openSession(token string) (sender, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("failed to open Discord connection: %w", err)
	}

	return session, nil
}

// Start connects to Discord and starts the sender goroutine.
func (s *service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	session, err := s.open(s.cfg.Token)
	if err != nil {
		return err
	}

	s.session = session
	s.done = make(chan struct{})

	s.wg.Add(1)

	go s.send(session, s.done)

	s.log.WithField("channel_id", s.cfg.ChannelID).Info("Connected to Discord")

	return nil
}

// Stop flushes nothing further and disconnects from Discord.
func (s *service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil
	}

	close(s.done)
	s.wg.Wait()

	if err := s.session.Close(); err != nil {
		s.log.WithError(err).Warn("Failed to close Discord session")
	}

	s.session = nil
	s.log.Info("Disconnected from Discord")

	return nil
}

// send performs the REST calls so listeners never wait on the network.
func (s *service) send(session sender, done <-chan struct{}) {
	defer s.wg.Done()

	for {
		select {
		case <-done:
			return
		case embed := <-s.outbox:
			if _, err := session.ChannelMessageSendEmbed(s.cfg.ChannelID, embed); err != nil {
				s.log.WithError(err).Warn("Failed to relay event to Discord")
			}
		}
	}
}

// Register adds the relay listeners. Call it on the host thread.
func (s *service) Register(b Registrar) error {
	for _, kind := range s.cfg.Events {
		if err := b.On(string(kind), func(args ...any) error {
			return s.enqueue(kind, args)
		}); err != nil {
			return fmt.Errorf("failed to register Discord relay for %s: %w", kind, err)
		}
	}

	return nil
}

func (s *service) enqueue(kind event.Kind, args []any) error {
	embed := buildEmbed(kind, args, time.Now())
	if embed == nil {
		return nil
	}

	select {
	case s.outbox <- embed:
		return nil
	default:
		return fmt.Errorf("failed to relay %s: %w", kind, ErrOutboxFull)
	}
}
