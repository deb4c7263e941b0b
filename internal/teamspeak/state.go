package teamspeak

import (
	"time"

	ts3 "github.com/multiplay/go-ts3"
)

// State is a point-in-time view of the virtual server behind one handler.
type State struct {
	HandlerID  uint64
	ServerName string
	Uptime     time.Duration
	Channels   []Channel
	TotalUsers int
	MaxClients int
}

// Channel represents a TeamSpeak channel with its users.
type Channel struct {
	ID       uint64
	Name     string
	ParentID uint64
	Order    int
	Users    []User
}

// User represents a connected TeamSpeak client.
type User struct {
	ID          uint16
	Nickname    string
	ChannelID   uint64
	InputMuted  bool
	OutputMuted bool // deafened
	Away        bool
	AwayMessage string
	IdleTime    time.Duration
	IsRecording bool
}

// buildState groups clients under their channels, skipping query clients.
func buildState(handlerID uint64, server *ts3.Server, channels []*ts3.Channel, clients []*ts3.OnlineClient) *State {
	index := make(map[uint64]int, len(channels))
	state := &State{
		HandlerID:  handlerID,
		ServerName: server.Name,
		Uptime:     time.Duration(server.Uptime) * time.Second,
		Channels:   make([]Channel, 0, len(channels)),
		MaxClients: server.MaxClients,
	}

	for _, ch := range channels {
		index[uint64(ch.ID)] = len(state.Channels)
		state.Channels = append(state.Channels, Channel{
			ID:       uint64(ch.ID),
			Name:     ch.ChannelName,
			ParentID: uint64(ch.ParentID),
			Order:    ch.ChannelOrder,
			Users:    make([]User, 0),
		})
	}

	for _, cl := range clients {
		if cl.Type == 1 {
			continue
		}

		user := User{
			ID:          uint16(cl.ID),
			Nickname:    cl.Nickname,
			ChannelID:   uint64(cl.ChannelID),
			Away:        cl.Away,
			AwayMessage: cl.AwayMessage,
		}

		// Extension fields are only present when requested from ClientList.
		if ext := cl.OnlineClientExt; ext != nil {
			if voice := ext.OnlineClientVoice; voice != nil {
				if voice.InputMuted != nil {
					user.InputMuted = *voice.InputMuted
				}

				if voice.OutputMuted != nil {
					user.OutputMuted = *voice.OutputMuted
				}

				if voice.IsRecording != nil {
					user.IsRecording = *voice.IsRecording
				}
			}

			if times := ext.OnlineClientTimes; times != nil && times.IdleTime != nil {
				user.IdleTime = time.Duration(*times.IdleTime) * time.Millisecond
			}
		}

		if i, ok := index[user.ChannelID]; ok {
			state.Channels[i].Users = append(state.Channels[i].Users, user)
		}

		state.TotalUsers++
	}

	return state
}
