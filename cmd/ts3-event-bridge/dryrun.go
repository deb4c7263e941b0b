package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/samcm/ts3-event-bridge/internal/config"
	"github.com/samcm/ts3-event-bridge/internal/sdk"
	"github.com/samcm/ts3-event-bridge/internal/teamspeak"
)

// runDryRun connects once without arming a bridge and prints the server state.
func runDryRun(ctx context.Context, log logrus.FieldLogger, lib teamspeak.ClientLib, cfg *config.Config) error {
	log.Info("Running in dry-run mode")

	if err := lib.InitClientLib(sdk.Callbacks{}, sdk.LogCritical); err != nil {
		return fmt.Errorf("failed to initialize client library: %w", err)
	}

	defer lib.DestroyClientLib()

	handlerID, err := lib.SpawnServerConnectionHandler()
	if err != nil {
		return fmt.Errorf("failed to spawn server connection handler: %w", err)
	}

	if err := lib.StartConnection(ctx, handlerID, sdk.ConnectParams{}); err != nil {
		return fmt.Errorf("failed to connect to TeamSpeak: %w", err)
	}

	defer lib.StopConnection(handlerID, "dry run complete")

	state, err := lib.Snapshot(ctx, handlerID)
	if err != nil {
		return fmt.Errorf("failed to get TeamSpeak state: %w", err)
	}

	printState(os.Stdout, state, fmt.Sprintf("%s:%d", cfg.TeamSpeak.Host, cfg.TeamSpeak.QueryPort))

	return nil
}

func printState(w io.Writer, state *teamspeak.State, address string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔══════════════════════════════════════════════════════════════╗")
	title := fmt.Sprintf("TeamSpeak Status (%s)", state.ServerName)
	padding := (62 - len(title)) / 2

	if padding < 0 {
		padding = 0
	}

	fmt.Fprintf(w, "║%s%s%s║\n", strings.Repeat(" ", padding), title, strings.Repeat(" ", max(0, 62-padding-len(title))))
	fmt.Fprintln(w, "╠══════════════════════════════════════════════════════════════╣")
	fmt.Fprintf(w, "║  Query: %-54s ║\n", truncate(address, 54))
	fmt.Fprintf(w, "║  Handler: %-52d ║\n", state.HandlerID)
	fmt.Fprintln(w, "╠══════════════════════════════════════════════════════════════╣")

	hasUsers := false

	for _, ch := range state.Channels {
		if len(ch.Users) == 0 {
			continue
		}

		hasUsers = true
		fmt.Fprintf(w, "║  📁 %-55s (%d) ║\n", truncate(ch.Name, 50), len(ch.Users))

		for _, user := range ch.Users {
			display := user.Nickname
			if status := userStatus(user); status != "" {
				display = fmt.Sprintf("%s %s", user.Nickname, status)
			}

			fmt.Fprintf(w, "║      • %-55s ║\n", truncate(display, 50))
		}
	}

	if !hasUsers {
		fmt.Fprintln(w, "║  No users online                                             ║")
	}

	fmt.Fprintln(w, "╠══════════════════════════════════════════════════════════════╣")
	fmt.Fprintf(w, "║  %d/%d online • Uptime: %-38s ║\n", state.TotalUsers, state.MaxClients, formatDuration(state.Uptime))
	fmt.Fprintln(w, "╚══════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(w)
}

func userStatus(user teamspeak.User) string {
	var parts []string

	if user.IsRecording {
		parts = append(parts, "🔴REC")
	}

	if user.OutputMuted {
		parts = append(parts, "🔇")
	} else if user.InputMuted {
		parts = append(parts, "🎙️")
	}

	if user.Away {
		if user.AwayMessage != "" {
			parts = append(parts, fmt.Sprintf("💤(%s)", user.AwayMessage))
		} else {
			parts = append(parts, "💤")
		}
	}

	// Show idle time if > 5 minutes
	if user.IdleTime > 5*time.Minute {
		hours := int(user.IdleTime.Hours())
		minutes := int(user.IdleTime.Minutes()) % 60

		if hours > 0 {
			parts = append(parts, fmt.Sprintf("idle %dh%dm", hours, minutes))
		} else {
			parts = append(parts, fmt.Sprintf("idle %dm", minutes))
		}
	}

	return strings.Join(parts, " ")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	return string(runes[:n-3]) + "..."
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}

	return fmt.Sprintf("%dm", minutes)
}
