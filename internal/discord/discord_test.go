package discord

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samcm/ts3-event-bridge/internal/bridge"
	"github.com/samcm/ts3-event-bridge/internal/event"
)

type fakeSender struct {
	mu     sync.Mutex
	sent   []*discordgo.MessageEmbed
	closed bool
}

func (f *fakeSender) ChannelMessageSendEmbed(_ string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sent = append(f.sent, embed)

	return &discordgo.Message{}, nil
}

func (f *fakeSender) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true

	return nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.sent)
}

type registrar map[string]bridge.Listener

func (r registrar) On(name string, l bridge.Listener) error {
	if _, err := event.ParseKind(name); err != nil {
		return err
	}

	r[name] = l

	return nil
}

func TestBuildEmbed(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name  string
		kind  event.Kind
		args  []any
		title string
		desc  string
		color int
	}{
		{
			name:  "connection established",
			kind:  event.KindConnectionStatusChanged,
			args:  []any{uint64(1), "CONNECTION_ESTABLISHED"},
			title: "Connection CONNECTION_ESTABLISHED",
			color: colorGreen,
		},
		{
			name:  "client entered",
			kind:  event.KindClientMoved,
			args:  []any{uint64(1), uint16(7), "0", "12", "ENTER_VISIBILITY", ""},
			title: "Client 7 connected",
			color: colorGreen,
		},
		{
			name:  "client switched channel",
			kind:  event.KindClientMoved,
			args:  []any{uint64(1), uint16(7), "3", "12", "RETAIN_VISIBILITY", ""},
			title: "Client 7 switched channel",
			desc:  "#3 → #12",
			color: colorBlue,
		},
		{
			name:  "kicked from server",
			kind:  event.KindClientKickedFromServer,
			args:  []any{uint64(1), uint16(7), "3", "0", "LEAVE_VISIBILITY", uint16(2), "admin", "uid=", "bye"},
			title: "Client 7 kicked from server by admin",
			desc:  "bye",
			color: colorRed,
		},
		{
			name:  "server stop",
			kind:  event.KindServerStop,
			args:  []any{uint64(1), "maintenance"},
			title: "Server stopped",
			desc:  "maintenance",
			color: colorRed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embed := buildEmbed(tt.kind, tt.args, now)
			require.NotNil(t, embed)

			assert.Equal(t, tt.title, embed.Title)
			assert.Equal(t, tt.desc, embed.Description)
			assert.Equal(t, tt.color, embed.Color)
			assert.Equal(t, string(tt.kind), embed.Footer.Text)
			assert.Equal(t, "2026-01-02T03:04:05Z", embed.Timestamp)
		})
	}
}

func TestBuildEmbedTextMessage(t *testing.T) {
	args := []any{uint64(1), "CHANNEL", uint16(0), uint16(4), "alice", "uid=", "hello"}

	embed := buildEmbed(event.KindTextMessage, args, time.Now())
	require.NotNil(t, embed)

	assert.Equal(t, "alice", embed.Author.Name)
	assert.Equal(t, "hello", embed.Description)
	require.Len(t, embed.Fields, 1)
	assert.Equal(t, "CHANNEL", embed.Fields[0].Value)
}

func TestBuildEmbedMalformed(t *testing.T) {
	assert.Nil(t, buildEmbed(event.KindConnectionStatusChanged, []any{uint64(1)}, time.Now()))
	assert.Nil(t, buildEmbed(event.KindClientMoved, []any{uint64(1), "7"}, time.Now()))
}

func TestRelay(t *testing.T) {
	log, _ := test.NewNullLogger()
	fake := &fakeSender{}

	svc := NewService(log, Config{ChannelID: "123"}).(*service)
	svc.open = func(string) (sender, error) { return fake, nil }

	reg := registrar{}
	require.NoError(t, svc.Register(reg))
	assert.Len(t, reg, len(DefaultEvents))

	require.NoError(t, svc.Start(context.Background()))

	require.NoError(t, reg[string(event.KindServerStop)](uint64(1), "bye"))

	assert.Eventually(t, func() bool { return fake.count() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, svc.Stop())
	assert.True(t, fake.closed)
}

func TestRelayOutboxFull(t *testing.T) {
	log, _ := test.NewNullLogger()

	svc := NewService(log, Config{OutboxSize: 1, Events: []event.Kind{event.KindServerStop}}).(*service)

	reg := registrar{}
	require.NoError(t, svc.Register(reg))

	// Not started, so nothing drains the outbox.
	listener := reg[string(event.KindServerStop)]
	require.NoError(t, listener(uint64(1), "one"))

	err := listener(uint64(1), "two")
	assert.True(t, errors.Is(err, ErrOutboxFull))
}

func TestRegisterUnknownKind(t *testing.T) {
	log, _ := test.NewNullLogger()

	svc := NewService(log, Config{Events: []event.Kind{"notAnEvent"}})

	err := svc.Register(registrar{})
	assert.ErrorIs(t, err, event.ErrUnknownEventKind)
}
