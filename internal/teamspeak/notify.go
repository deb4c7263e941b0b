package teamspeak

import (
	"strconv"
	"strings"

	ts3 "github.com/multiplay/go-ts3"

	"github.com/samcm/ts3-event-bridge/internal/sdk"
)

// Client disconnect and move reasons sent with ServerQuery notifications.
const (
	reasonMoved          = 1
	reasonTimeout        = 3
	reasonChannelKick    = 4
	reasonServerKick     = 5
	reasonBan            = 6
	reasonServerShutdown = 11
)

type fields map[string]string

func (f fields) str(key string) string {
	return f[key]
}

func (f fields) u64(key string) uint64 {
	v, _ := strconv.ParseUint(f[key], 10, 64)
	return v
}

func (f fields) u16(key string) uint16 {
	v, _ := strconv.ParseUint(f[key], 10, 16)
	return uint16(v)
}

func (f fields) num(key string) int {
	v, _ := strconv.Atoi(f[key])
	return v
}

func (f fields) has(key string) bool {
	_, ok := f[key]
	return ok
}

func (f fields) invoker() (uint16, string, string) {
	return f.u16("invokerid"), f.str("invokername"), f.str("invokeruid")
}

// translate turns one ServerQuery notification into the matching library
// callback. It runs on the connection's watcher goroutine, which also owns
// the client to channel map. It returns false for notifications with no
// callback equivalent.
func (c *connection) translate(n ts3.Notification, cb *sdk.Callbacks) bool {
	f := fields(n.Data)
	id := c.id

	switch strings.TrimPrefix(n.Type, "notify") {
	case "cliententerview":
		clientID := f.u16("clid")
		to := f.u64("ctid")
		c.channels[clientID] = to

		if cb.OnClientMove != nil {
			cb.OnClientMove(id, clientID, 0, to, sdk.EnterVisibility, "")
		}

	case "clientleftview":
		clientID := f.u16("clid")
		from, ok := c.channels[clientID]
		if !ok {
			from = f.u64("cfid")
		}
		delete(c.channels, clientID)

		invokerID, invokerName, invokerUID := f.invoker()
		msg := f.str("reasonmsg")

		switch f.num("reasonid") {
		case reasonTimeout:
			if cb.OnClientMoveTimeout != nil {
				cb.OnClientMoveTimeout(id, clientID, from, 0, sdk.LeaveVisibility, msg)
			}
		case reasonChannelKick:
			if cb.OnClientKickFromChannel != nil {
				cb.OnClientKickFromChannel(id, clientID, from, 0, sdk.LeaveVisibility, invokerID, invokerName, invokerUID, msg)
			}
		case reasonServerKick, reasonBan:
			if cb.OnClientKickFromServer != nil {
				cb.OnClientKickFromServer(id, clientID, from, 0, sdk.LeaveVisibility, invokerID, invokerName, invokerUID, msg)
			}
		case reasonServerShutdown:
			if cb.OnServerStop != nil {
				cb.OnServerStop(id, msg)
			}
		default:
			if cb.OnClientMove != nil {
				cb.OnClientMove(id, clientID, from, 0, sdk.LeaveVisibility, msg)
			}
		}

	case "clientmoved":
		clientID := f.u16("clid")
		to := f.u64("ctid")
		from := c.channels[clientID]
		c.channels[clientID] = to

		invokerID, invokerName, invokerUID := f.invoker()
		msg := f.str("reasonmsg")

		switch {
		case f.num("reasonid") == reasonChannelKick:
			if cb.OnClientKickFromChannel != nil {
				cb.OnClientKickFromChannel(id, clientID, from, to, sdk.RetainVisibility, invokerID, invokerName, invokerUID, msg)
			}
		case f.num("reasonid") == reasonMoved && f.has("invokerid"):
			if cb.OnClientMoveMoved != nil {
				cb.OnClientMoveMoved(id, clientID, from, to, sdk.RetainVisibility, invokerID, invokerName, invokerUID, msg)
			}
		default:
			if cb.OnClientMove != nil {
				cb.OnClientMove(id, clientID, from, to, sdk.RetainVisibility, msg)
			}
		}

	case "textmessage":
		mode := sdk.TextMessageTargetMode(f.num("targetmode"))
		fromID, fromName, fromUID := f.invoker()

		if cb.OnTextMessage != nil {
			cb.OnTextMessage(id, mode, f.u16("target"), fromID, fromName, fromUID, f.str("msg"))
		}

	case "channelcreated":
		invokerID, invokerName, invokerUID := f.invoker()
		if cb.OnNewChannelCreated != nil {
			cb.OnNewChannelCreated(id, f.u64("cid"), f.u64("cpid"), invokerID, invokerName, invokerUID)
		}

	case "channeldeleted":
		invokerID, invokerName, invokerUID := f.invoker()
		if cb.OnDelChannel != nil {
			cb.OnDelChannel(id, f.u64("cid"), invokerID, invokerName, invokerUID)
		}

	case "channelmoved":
		invokerID, invokerName, invokerUID := f.invoker()
		if cb.OnChannelMove != nil {
			cb.OnChannelMove(id, f.u64("cid"), f.u64("cpid"), invokerID, invokerName, invokerUID)
		}

	case "channeledited":
		invokerID, invokerName, invokerUID := f.invoker()
		if cb.OnUpdateChannelEdited != nil {
			cb.OnUpdateChannelEdited(id, f.u64("cid"), invokerID, invokerName, invokerUID)
		}

	case "channeldescriptionchanged":
		if cb.OnChannelDescriptionUpdate != nil {
			cb.OnChannelDescriptionUpdate(id, f.u64("cid"))
		}

	case "serveredited":
		if cb.OnServerUpdated != nil {
			cb.OnServerUpdated(id)
		}

	default:
		return false
	}

	return true
}
