// Package main provides the entry point for ts3-event-bridge.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/samcm/ts3-event-bridge/internal/bridge"
	"github.com/samcm/ts3-event-bridge/internal/clientlib"
	"github.com/samcm/ts3-event-bridge/internal/config"
	"github.com/samcm/ts3-event-bridge/internal/discord"
	"github.com/samcm/ts3-event-bridge/internal/host"
	"github.com/samcm/ts3-event-bridge/internal/httpapi"
	"github.com/samcm/ts3-event-bridge/internal/sdk"
	"github.com/samcm/ts3-event-bridge/internal/stream"
	"github.com/samcm/ts3-event-bridge/internal/teamspeak"
)

var (
	configPath string
	dryRun     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ts3-event-bridge",
	Short: "Bridge TeamSpeak client library events to listeners",
	Long:  "Runs the TeamSpeak client library, queues its callbacks from library threads and dispatches them on a single host loop to Discord and websocket subscribers.",
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (required)")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Connect once, print the server state and exit")

	rootCmd.MarkFlagRequired("config")
}

func run(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Setup logger
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
	}

	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	verbosity, err := sdk.ParseLogLevel(cfg.Logging.SDKVerbosity)
	if err != nil {
		return fmt.Errorf("invalid sdk verbosity: %w", err)
	}

	lib := teamspeak.NewClientLib(log, teamspeak.Config{
		Host:      cfg.TeamSpeak.Host,
		QueryPort: cfg.TeamSpeak.QueryPort,
		Username:  cfg.TeamSpeak.Username,
		Password:  cfg.TeamSpeak.Password,
		ServerID:  cfg.TeamSpeak.ServerID,
		Nickname:  cfg.TeamSpeak.Nickname,
	})

	if dryRun {
		return runDryRun(cmd.Context(), log, lib, cfg)
	}

	// Setup context with signal handling
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	events := bridge.NewService(log, bridge.Config{
		QueueCapacity: cfg.Bridge.QueueCapacity,
		DrainBatch:    cfg.Bridge.DrainBatch,
	})

	loop := host.NewLoop(log, host.Config{
		DrainInterval: cfg.Bridge.DrainInterval,
		DrainBatch:    cfg.Bridge.DrainBatch,
	}, events)

	lifecycle := clientlib.NewService(log, clientlib.Config{LogVerbosity: verbosity}, lib, events)

	hub := stream.NewHub(log)
	if err := hub.Register(events); err != nil {
		return err
	}

	if cfg.Discord.Enabled {
		kinds, err := cfg.Discord.Kinds()
		if err != nil {
			return err
		}

		relay := discord.NewService(log, discord.Config{
			Token:     cfg.Discord.Token,
			ChannelID: cfg.Discord.ChannelID,
			Events:    kinds,
		})

		if err := relay.Register(events); err != nil {
			return err
		}

		if err := relay.Start(ctx); err != nil {
			return fmt.Errorf("failed to start Discord relay: %w", err)
		}

		defer relay.Stop()
	}

	g, gctx := errgroup.WithContext(ctx)

	// The loop outlives gctx so teardown still runs on it. session stops it.
	g.Go(func() error {
		return loop.Run(context.Background())
	})

	if cfg.HTTP.Enabled {
		server := httpapi.NewServer(log, cfg.HTTP.ListenAddress, httpapi.NewMux(events, hub))

		g.Go(func() error {
			return server.Run(gctx)
		})
	}

	g.Go(func() error {
		return session(gctx, log, loop, lifecycle, sdk.ConnectParams{
			Address:          cfg.TeamSpeak.Host,
			Port:             cfg.TeamSpeak.QueryPort,
			Nickname:         cfg.TeamSpeak.Nickname,
			DefaultChannelID: cfg.TeamSpeak.ChannelID,
		})
	})

	err = g.Wait()

	hub.Close()
	log.Info("Shutdown complete")

	return err
}

// session initializes the library on the host loop, connects, and tears it
// all down once ctx is cancelled.
func session(ctx context.Context, log logrus.FieldLogger, loop *host.Loop, lifecycle clientlib.Service, params sdk.ConnectParams) error {
	var (
		handlerID uint64
		err       error
	)

	if derr := loop.Do(context.Background(), func() {
		if err = lifecycle.Init(ctx); err != nil {
			return
		}

		handlerID, err = lifecycle.Connect(ctx, params)
	}); derr != nil {
		loop.Stop()

		return derr
	}

	if err != nil {
		// Leave the library in a clean state before failing.
		_ = loop.Do(context.Background(), func() { _ = lifecycle.Destroy() })
		loop.Stop()

		return err
	}

	<-ctx.Done()

	log.Info("Shutting down")

	teardown := func() {
		if err := lifecycle.Disconnect(handlerID, "ts3-event-bridge shutting down"); err != nil {
			log.WithError(err).Warn("Error disconnecting")
		}

		if err := lifecycle.Destroy(); err != nil {
			log.WithError(err).Warn("Error destroying client library")
		}
	}

	if err := loop.Do(context.Background(), teardown); err != nil {
		teardown()
	}

	loop.Stop()

	return nil
}
