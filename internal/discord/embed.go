package discord

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/samcm/ts3-event-bridge/internal/event"
)

const (
	colorBlue   = 0x2B5B84 // TeamSpeak blue
	colorGreen  = 0x2ECC71
	colorOrange = 0xF39C12
	colorRed    = 0xE74C3C
	colorGray   = 0x95A5A6
)

// buildEmbed formats one notification. It returns nil for argument tuples it
// does not recognise so a malformed event is skipped rather than posted.
func buildEmbed(kind event.Kind, args []any, now time.Time) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Color:     colorBlue,
		Timestamp: now.Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: string(kind),
		},
	}

	switch kind {
	case event.KindConnectionStatusChanged:
		status, ok := arg[string](args, 1)
		if !ok {
			return nil
		}

		embed.Title = "Connection " + status
		embed.Color = statusColor(status)

	case event.KindTextMessage:
		mode, _ := arg[string](args, 1)
		name, ok := arg[string](args, 4)
		msg, ok2 := arg[string](args, 6)
		if !ok || !ok2 {
			return nil
		}

		embed.Author = &discordgo.MessageEmbedAuthor{Name: name}
		embed.Description = msg
		embed.Fields = []*discordgo.MessageEmbedField{{Name: "Target", Value: mode, Inline: true}}

	case event.KindClientMoved:
		clientID, ok := arg[uint16](args, 1)
		from, _ := arg[string](args, 2)
		to, _ := arg[string](args, 3)
		visibility, _ := arg[string](args, 4)
		if !ok {
			return nil
		}

		switch visibility {
		case "ENTER_VISIBILITY":
			embed.Title = fmt.Sprintf("Client %d connected", clientID)
			embed.Color = colorGreen
		case "LEAVE_VISIBILITY":
			embed.Title = fmt.Sprintf("Client %d disconnected", clientID)
			embed.Color = colorGray
		default:
			embed.Title = fmt.Sprintf("Client %d switched channel", clientID)
			embed.Description = fmt.Sprintf("#%s → #%s", from, to)
		}

	case event.KindClientMovedByOther, event.KindClientKickedFromChannel, event.KindClientKickedFromServer:
		clientID, ok := arg[uint16](args, 1)
		invoker, _ := arg[string](args, 6)
		msg, _ := arg[string](args, 8)
		if !ok {
			return nil
		}

		embed.Title = fmt.Sprintf("Client %d %s by %s", clientID, verb(kind), invoker)
		embed.Description = msg
		embed.Color = colorOrange

		if kind == event.KindClientKickedFromServer {
			embed.Color = colorRed
		}

	case event.KindServerStop:
		msg, _ := arg[string](args, 1)
		embed.Title = "Server stopped"
		embed.Description = msg
		embed.Color = colorRed

	default:
		embed.Title = string(kind)
		embed.Description = fmt.Sprint(args...)
	}

	return embed
}

func verb(kind event.Kind) string {
	switch kind {
	case event.KindClientKickedFromChannel:
		return "kicked from channel"
	case event.KindClientKickedFromServer:
		return "kicked from server"
	default:
		return "moved"
	}
}

func statusColor(status string) int {
	switch status {
	case "CONNECTION_ESTABLISHED":
		return colorGreen
	case "DISCONNECTED":
		return colorRed
	default:
		return colorOrange
	}
}

func arg[T any](args []any, i int) (T, bool) {
	var zero T

	if i >= len(args) {
		return zero, false
	}

	v, ok := args[i].(T)

	return v, ok
}
