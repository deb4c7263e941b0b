package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samcm/ts3-event-bridge/internal/event"
)

const minimal = `
teamspeak:
  host: ts.example.com
  password: secret
`

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(minimal))
	require.NoError(t, err)

	assert.Equal(t, "ts.example.com", cfg.TeamSpeak.Host)
	assert.Equal(t, 10011, cfg.TeamSpeak.QueryPort)
	assert.Equal(t, "serveradmin", cfg.TeamSpeak.Username)
	assert.Equal(t, 1024, cfg.Bridge.QueueCapacity)
	assert.Equal(t, 64, cfg.Bridge.DrainBatch)
	assert.Equal(t, 50*time.Millisecond, cfg.Bridge.DrainInterval)
	assert.True(t, cfg.HTTP.Enabled)
	assert.False(t, cfg.Discord.Enabled)
	assert.Equal(t, "warning", cfg.Logging.SDKVerbosity)
}

func TestParseOverrides(t *testing.T) {
	cfg, err := Parse([]byte(minimal + `
bridge:
  queue_capacity: 16
  drain_interval: 10ms
discord:
  enabled: true
  token: abc
  channel_id: "42"
  events: [textMessage, serverStop]
`))
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Bridge.QueueCapacity)
	assert.Equal(t, 10*time.Millisecond, cfg.Bridge.DrainInterval)

	assert.Equal(t, uint64(0), cfg.TeamSpeak.ChannelID)

	kinds, err := cfg.Discord.Kinds()
	require.NoError(t, err)
	assert.Equal(t, []event.Kind{event.KindTextMessage, event.KindServerStop}, kinds)
}

func TestParseTeamSpeakChannel(t *testing.T) {
	cfg, err := Parse([]byte(`
teamspeak:
  host: ts.example.com
  password: secret
  channel_id: 5
`))
	require.NoError(t, err)

	assert.Equal(t, uint64(5), cfg.TeamSpeak.ChannelID)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"missing host", func(c *Config) { c.TeamSpeak.Host = "" }, "teamspeak.host is required"},
		{"missing password", func(c *Config) { c.TeamSpeak.Password = "" }, "teamspeak.password is required"},
		{"zero capacity", func(c *Config) { c.Bridge.QueueCapacity = 0 }, "bridge.queue_capacity must be positive"},
		{"zero batch", func(c *Config) { c.Bridge.DrainBatch = 0 }, "bridge.drain_batch must be positive"},
		{"zero interval", func(c *Config) { c.Bridge.DrainInterval = 0 }, "bridge.drain_interval must be at least 1ms"},
		{"discord without token", func(c *Config) { c.Discord.Enabled = true }, "discord.token is required"},
		{"unknown discord event", func(c *Config) {
			c.Discord = DiscordConfig{Enabled: true, Token: "t", ChannelID: "1", Events: []string{"nope"}}
		}, "discord.events"},
		{"http without address", func(c *Config) { c.HTTP.ListenAddress = "" }, "http.listen_address is required"},
		{"bad verbosity", func(c *Config) { c.Logging.SDKVerbosity = "loud" }, "logging.sdk_verbosity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.TeamSpeak.Host = "ts.example.com"
			cfg.TeamSpeak.Password = "secret"
			require.NoError(t, cfg.Validate())

			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimal), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.TeamSpeak.Password)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
