// Package config handles loading and validation of application configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/samcm/ts3-event-bridge/internal/event"
	"github.com/samcm/ts3-event-bridge/internal/sdk"
)

// Config represents the complete application configuration.
type Config struct {
	TeamSpeak TeamSpeakConfig `yaml:"teamspeak"`
	Bridge    BridgeConfig    `yaml:"bridge"`
	Discord   DiscordConfig   `yaml:"discord"`
	HTTP      HTTPConfig      `yaml:"http"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// TeamSpeakConfig holds TeamSpeak ServerQuery connection settings.
type TeamSpeakConfig struct {
	Host      string `yaml:"host"`
	QueryPort int    `yaml:"query_port"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	ServerID  int    `yaml:"server_id"`
	Nickname  string `yaml:"nickname"`
	// ChannelID is joined after connecting when non-zero.
	ChannelID uint64 `yaml:"channel_id"`
}

// BridgeConfig tunes the event queue and the host loop.
type BridgeConfig struct {
	QueueCapacity int           `yaml:"queue_capacity"`
	DrainBatch    int           `yaml:"drain_batch"`
	DrainInterval time.Duration `yaml:"drain_interval"`
}

// DiscordConfig holds Discord bot settings.
type DiscordConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Token     string   `yaml:"token"`
	ChannelID string   `yaml:"channel_id"`
	Events    []string `yaml:"events"` // event names to relay, empty means the defaults
}

// HTTPConfig holds the metrics and event stream listener.
type HTTPConfig struct {
	Enabled       bool   `yaml:"enabled"`
	ListenAddress string `yaml:"listen_address"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level        string `yaml:"level"`
	SDKVerbosity string `yaml:"sdk_verbosity"` // client library messages at or above this severity become events
}

// Load reads and parses the configuration from the given file path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Default returns a configuration with every optional field set.
func Default() *Config {
	return &Config{
		TeamSpeak: TeamSpeakConfig{
			QueryPort: 10011,
			Username:  "serveradmin",
			ServerID:  1,
			Nickname:  "ts3-event-bridge",
		},
		Bridge: BridgeConfig{
			QueueCapacity: 1024,
			DrainBatch:    64,
			DrainInterval: 50 * time.Millisecond,
		},
		HTTP: HTTPConfig{
			Enabled:       true,
			ListenAddress: ":9090",
		},
		Logging: LoggingConfig{
			Level:        "info",
			SDKVerbosity: "warning",
		},
	}
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.TeamSpeak.Host == "" {
		return fmt.Errorf("teamspeak.host is required")
	}

	if c.TeamSpeak.Password == "" {
		return fmt.Errorf("teamspeak.password is required")
	}

	if c.Bridge.QueueCapacity < 1 {
		return fmt.Errorf("bridge.queue_capacity must be positive")
	}

	if c.Bridge.DrainBatch < 1 {
		return fmt.Errorf("bridge.drain_batch must be positive")
	}

	if c.Bridge.DrainInterval < time.Millisecond {
		return fmt.Errorf("bridge.drain_interval must be at least 1ms")
	}

	if c.Discord.Enabled {
		if c.Discord.Token == "" {
			return fmt.Errorf("discord.token is required")
		}

		if c.Discord.ChannelID == "" {
			return fmt.Errorf("discord.channel_id is required")
		}

		if _, err := c.Discord.Kinds(); err != nil {
			return fmt.Errorf("discord.events: %w", err)
		}
	}

	if c.HTTP.Enabled && c.HTTP.ListenAddress == "" {
		return fmt.Errorf("http.listen_address is required")
	}

	if _, err := sdk.ParseLogLevel(c.Logging.SDKVerbosity); err != nil {
		return fmt.Errorf("logging.sdk_verbosity: %w", err)
	}

	return nil
}

// Kinds parses the configured event names.
func (d DiscordConfig) Kinds() ([]event.Kind, error) {
	kinds := make([]event.Kind, 0, len(d.Events))

	for _, name := range d.Events {
		kind, err := event.ParseKind(name)
		if err != nil {
			return nil, err
		}

		kinds = append(kinds, kind)
	}

	return kinds, nil
}
