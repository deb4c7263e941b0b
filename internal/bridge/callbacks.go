package bridge

import (
	"github.com/samcm/ts3-event-bridge/internal/event"
	"github.com/samcm/ts3-event-bridge/internal/sdk"
)

// Callbacks returns the native entry points to hand to InitClientLib. Each
// one only builds a payload and posts it; errors are already accounted for
// by Post and the library has no way to act on them.
func (s *service) Callbacks() sdk.Callbacks {
	post := func(p event.Payload) {
		_ = s.Post(p)
	}

	scope := func(id uint64) event.Scope {
		return event.Scope{HandlerID: id}
	}

	return sdk.Callbacks{
		OnConnectStatusChange: func(id uint64, status sdk.ConnectStatus, errno uint32) {
			post(event.ConnectionStatusChanged{Scope: scope(id), Status: status, ErrorNumber: errno})
		},
		OnServerProtocolVersion: func(id uint64, version int) {
			post(event.ServerProtocolVersion{Scope: scope(id), Version: version})
		},
		OnNewChannel: func(id uint64, channelID, parentID uint64) {
			post(event.NewChannel{Scope: scope(id), ChannelID: channelID, ParentID: parentID})
		},
		OnNewChannelCreated: func(id uint64, channelID, parentID uint64, invokerID uint16, invokerName, invokerUID string) {
			post(event.NewChannelCreated{
				Scope:     scope(id),
				ChannelID: channelID,
				ParentID:  parentID,
				Invoker:   event.Invoker{ID: invokerID, Name: invokerName, UID: invokerUID},
			})
		},
		OnDelChannel: func(id uint64, channelID uint64, invokerID uint16, invokerName, invokerUID string) {
			post(event.ChannelDeleted{
				Scope:     scope(id),
				ChannelID: channelID,
				Invoker:   event.Invoker{ID: invokerID, Name: invokerName, UID: invokerUID},
			})
		},
		OnChannelMove: func(id uint64, channelID, newParentID uint64, invokerID uint16, invokerName, invokerUID string) {
			post(event.ChannelMoved{
				Scope:       scope(id),
				ChannelID:   channelID,
				NewParentID: newParentID,
				Invoker:     event.Invoker{ID: invokerID, Name: invokerName, UID: invokerUID},
			})
		},
		OnUpdateChannelEdited: func(id uint64, channelID uint64, invokerID uint16, invokerName, invokerUID string) {
			post(event.ChannelEdited{
				Scope:     scope(id),
				ChannelID: channelID,
				Invoker:   event.Invoker{ID: invokerID, Name: invokerName, UID: invokerUID},
			})
		},
		OnChannelDescriptionUpdate: func(id uint64, channelID uint64) {
			post(event.ChannelDescriptionUpdated{Scope: scope(id), ChannelID: channelID})
		},
		OnUpdateClient: func(id uint64, clientID uint16, invokerID uint16, invokerName, invokerUID string) {
			post(event.ClientPropertiesUpdated{
				Scope:    scope(id),
				ClientID: clientID,
				Invoker:  event.Invoker{ID: invokerID, Name: invokerName, UID: invokerUID},
			})
		},
		OnClientMove: func(id uint64, clientID uint16, oldChannelID, newChannelID uint64, visibility sdk.Visibility, message string) {
			post(event.ClientMoved{
				Scope:   scope(id),
				Move:    event.Move{ClientID: clientID, OldChannelID: oldChannelID, NewChannelID: newChannelID, Visibility: visibility},
				Message: message,
			})
		},
		OnClientMoveTimeout: func(id uint64, clientID uint16, oldChannelID, newChannelID uint64, visibility sdk.Visibility, message string) {
			post(event.ClientMoveTimeout{
				Scope:   scope(id),
				Move:    event.Move{ClientID: clientID, OldChannelID: oldChannelID, NewChannelID: newChannelID, Visibility: visibility},
				Message: message,
			})
		},
		OnClientMoveMoved: func(id uint64, clientID uint16, oldChannelID, newChannelID uint64, visibility sdk.Visibility, moverID uint16, moverName, moverUID, message string) {
			post(event.ClientMovedByOther{
				Scope:   scope(id),
				Move:    event.Move{ClientID: clientID, OldChannelID: oldChannelID, NewChannelID: newChannelID, Visibility: visibility},
				Invoker: event.Invoker{ID: moverID, Name: moverName, UID: moverUID},
				Message: message,
			})
		},
		OnClientKickFromChannel: func(id uint64, clientID uint16, oldChannelID, newChannelID uint64, visibility sdk.Visibility, kickerID uint16, kickerName, kickerUID, message string) {
			post(event.ClientKickedFromChannel{
				Scope:   scope(id),
				Move:    event.Move{ClientID: clientID, OldChannelID: oldChannelID, NewChannelID: newChannelID, Visibility: visibility},
				Invoker: event.Invoker{ID: kickerID, Name: kickerName, UID: kickerUID},
				Message: message,
			})
		},
		OnClientKickFromServer: func(id uint64, clientID uint16, oldChannelID, newChannelID uint64, visibility sdk.Visibility, kickerID uint16, kickerName, kickerUID, message string) {
			post(event.ClientKickedFromServer{
				Scope:   scope(id),
				Move:    event.Move{ClientID: clientID, OldChannelID: oldChannelID, NewChannelID: newChannelID, Visibility: visibility},
				Invoker: event.Invoker{ID: kickerID, Name: kickerName, UID: kickerUID},
				Message: message,
			})
		},
		OnClientIDs: func(id uint64, uid string, clientID uint16, clientName string) {
			post(event.ClientIDsReceived{Scope: scope(id), UniqueIdentifier: uid, ClientID: clientID, ClientName: clientName})
		},
		OnTextMessage: func(id uint64, mode sdk.TextMessageTargetMode, toID, fromID uint16, fromName, fromUID, message string) {
			post(event.TextMessage{
				Scope:      scope(id),
				TargetMode: mode,
				ToID:       toID,
				From:       event.Invoker{ID: fromID, Name: fromName, UID: fromUID},
				Message:    message,
			})
		},
		OnTalkStatusChange: func(id uint64, status sdk.TalkStatus, whisper bool, clientID uint16) {
			post(event.TalkStatusChanged{Scope: scope(id), Status: status, IsReceivedWhisper: whisper, ClientID: clientID})
		},
		OnIgnoredWhisper: func(id uint64, clientID uint16) {
			post(event.IgnoredWhisper{Scope: scope(id), ClientID: clientID})
		},
		OnServerUpdated: func(id uint64) {
			post(event.ServerUpdated{Scope: scope(id)})
		},
		OnServerError: func(id uint64, message string, code uint32, returnCode, extra string) {
			post(event.ServerError{Scope: scope(id), ErrorMessage: message, ErrorCode: code, ReturnCode: returnCode, ExtraMessage: extra})
		},
		OnServerStop: func(id uint64, message string) {
			post(event.ServerStop{Scope: scope(id), ShutdownMessage: message})
		},
		OnConnectionInfo: func(id uint64, clientID uint16) {
			post(event.ConnectionInfo{Scope: scope(id), ClientID: clientID})
		},
		OnServerConnectionInfo: func(id uint64) {
			post(event.ServerConnectionInfo{Scope: scope(id)})
		},
		OnClientSelfVariableUpdate: func(id uint64, flag int, oldValue, newValue string) {
			post(event.ClientSelfVariableUpdated{Scope: scope(id), Flag: flag, OldValue: oldValue, NewValue: newValue})
		},
		OnFileTransferStatus: func(transferID uint16, status uint32, message string, remoteSize uint64, id uint64) {
			post(event.FileTransferStatus{
				Scope:          scope(id),
				TransferID:     transferID,
				Status:         status,
				StatusMessage:  message,
				RemoteFileSize: remoteSize,
			})
		},
		OnFileList: func(id uint64, channelID uint64, path, name string, size, datetime uint64, fileType int, incomplete uint64, returnCode string) {
			post(event.FileListReceived{
				Scope:          scope(id),
				ChannelID:      channelID,
				Path:           path,
				Name:           name,
				Size:           size,
				Datetime:       datetime,
				Type:           fileType,
				IncompleteSize: incomplete,
				ReturnCode:     returnCode,
			})
		},
		OnSoundDeviceListChanged: func(modeID string, playOrCapture int) {
			post(event.SoundDeviceListChanged{ModeID: modeID, PlayOrCapture: playOrCapture})
		},
		OnPlaybackShutdownComplete: func(id uint64) {
			post(event.PlaybackShutdownComplete{Scope: scope(id)})
		},
		OnUserLoggingMessage: func(message string, level sdk.LogLevel, channel string, id uint64, logTime, complete string) {
			post(event.UserLoggingMessage{
				Scope:          scope(id),
				Message:        message,
				Level:          level,
				Channel:        channel,
				Time:           logTime,
				CompleteString: complete,
			})
		},
	}
}
