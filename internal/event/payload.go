package event

import (
	"strconv"

	"github.com/samcm/ts3-event-bridge/internal/sdk"
)

// Payload is the fixed field set of one notification kind. The set of
// implementations is closed: only this package can add variants.
type Payload interface {
	Kind() Kind
	// Handler returns the server connection handler the event belongs to, or
	// zero for library-wide events.
	Handler() uint64
	// Args translates the payload into the listener argument tuple.
	Args() []any
	payload()
}

// Scope carries the server connection handler of handler-scoped events.
type Scope struct {
	HandlerID uint64
}

func (s Scope) Handler() uint64 { return s.HandlerID }

func (Scope) payload() {}

// Invoker identifies the client that caused an event.
type Invoker struct {
	ID   uint16
	Name string
	UID  string
}

func (i Invoker) args() []any {
	return []any{i.ID, i.Name, i.UID}
}

// id64 renders 64-bit identifiers as decimal strings so hosts with
// float64-only numbers keep them exact.
func id64(v uint64) string {
	return strconv.FormatUint(v, 10)
}

type ConnectionStatusChanged struct {
	Scope
	Status      sdk.ConnectStatus
	ErrorNumber uint32
}

func (ConnectionStatusChanged) Kind() Kind { return KindConnectionStatusChanged }

func (e ConnectionStatusChanged) Args() []any {
	return []any{e.HandlerID, e.Status.String()}
}

type ServerProtocolVersion struct {
	Scope
	Version int
}

func (ServerProtocolVersion) Kind() Kind { return KindServerProtocolVersion }

func (e ServerProtocolVersion) Args() []any {
	return []any{e.HandlerID, e.Version}
}

type NewChannel struct {
	Scope
	ChannelID uint64
	ParentID  uint64
}

func (NewChannel) Kind() Kind { return KindNewChannel }

func (e NewChannel) Args() []any {
	return []any{e.HandlerID, id64(e.ChannelID), id64(e.ParentID)}
}

type NewChannelCreated struct {
	Scope
	ChannelID uint64
	ParentID  uint64
	Invoker   Invoker
}

func (NewChannelCreated) Kind() Kind { return KindNewChannelCreated }

func (e NewChannelCreated) Args() []any {
	return append([]any{e.HandlerID, id64(e.ChannelID), id64(e.ParentID)}, e.Invoker.args()...)
}

type ChannelDeleted struct {
	Scope
	ChannelID uint64
	Invoker   Invoker
}

func (ChannelDeleted) Kind() Kind { return KindChannelDeleted }

func (e ChannelDeleted) Args() []any {
	return append([]any{e.HandlerID, id64(e.ChannelID)}, e.Invoker.args()...)
}

type ChannelMoved struct {
	Scope
	ChannelID   uint64
	NewParentID uint64
	Invoker     Invoker
}

func (ChannelMoved) Kind() Kind { return KindChannelMoved }

func (e ChannelMoved) Args() []any {
	return append([]any{e.HandlerID, id64(e.ChannelID), id64(e.NewParentID)}, e.Invoker.args()...)
}

type ChannelEdited struct {
	Scope
	ChannelID uint64
	Invoker   Invoker
}

func (ChannelEdited) Kind() Kind { return KindChannelEdited }

func (e ChannelEdited) Args() []any {
	return append([]any{e.HandlerID, id64(e.ChannelID)}, e.Invoker.args()...)
}

type ChannelDescriptionUpdated struct {
	Scope
	ChannelID uint64
}

func (ChannelDescriptionUpdated) Kind() Kind { return KindChannelDescriptionUpdated }

func (e ChannelDescriptionUpdated) Args() []any {
	return []any{e.HandlerID, id64(e.ChannelID)}
}

type ClientPropertiesUpdated struct {
	Scope
	ClientID uint16
	Invoker  Invoker
}

func (ClientPropertiesUpdated) Kind() Kind { return KindClientPropertiesUpdated }

func (e ClientPropertiesUpdated) Args() []any {
	return append([]any{e.HandlerID, e.ClientID}, e.Invoker.args()...)
}

// Move is the part shared by every client move notification.
type Move struct {
	ClientID     uint16
	OldChannelID uint64
	NewChannelID uint64
	Visibility   sdk.Visibility
}

func (m Move) args(handlerID uint64) []any {
	return []any{handlerID, m.ClientID, id64(m.OldChannelID), id64(m.NewChannelID), m.Visibility.String()}
}

type ClientMoved struct {
	Scope
	Move
	Message string
}

func (ClientMoved) Kind() Kind { return KindClientMoved }

func (e ClientMoved) Args() []any {
	return append(e.Move.args(e.HandlerID), e.Message)
}

type ClientMoveTimeout struct {
	Scope
	Move
	Message string
}

func (ClientMoveTimeout) Kind() Kind { return KindClientMoveTimeout }

func (e ClientMoveTimeout) Args() []any {
	return append(e.Move.args(e.HandlerID), e.Message)
}

type ClientMovedByOther struct {
	Scope
	Move
	Invoker Invoker
	Message string
}

func (ClientMovedByOther) Kind() Kind { return KindClientMovedByOther }

func (e ClientMovedByOther) Args() []any {
	return append(append(e.Move.args(e.HandlerID), e.Invoker.args()...), e.Message)
}

type ClientKickedFromChannel struct {
	Scope
	Move
	Invoker Invoker
	Message string
}

func (ClientKickedFromChannel) Kind() Kind { return KindClientKickedFromChannel }

func (e ClientKickedFromChannel) Args() []any {
	return append(append(e.Move.args(e.HandlerID), e.Invoker.args()...), e.Message)
}

type ClientKickedFromServer struct {
	Scope
	Move
	Invoker Invoker
	Message string
}

func (ClientKickedFromServer) Kind() Kind { return KindClientKickedFromServer }

func (e ClientKickedFromServer) Args() []any {
	return append(append(e.Move.args(e.HandlerID), e.Invoker.args()...), e.Message)
}

type ClientIDsReceived struct {
	Scope
	UniqueIdentifier string
	ClientID         uint16
	ClientName       string
}

func (ClientIDsReceived) Kind() Kind { return KindClientIDsReceived }

func (e ClientIDsReceived) Args() []any {
	return []any{e.HandlerID, e.UniqueIdentifier, e.ClientID, e.ClientName}
}

type TextMessage struct {
	Scope
	TargetMode sdk.TextMessageTargetMode
	ToID       uint16
	From       Invoker
	Message    string
}

func (TextMessage) Kind() Kind { return KindTextMessage }

func (e TextMessage) Args() []any {
	return append(append([]any{e.HandlerID, e.TargetMode.String(), e.ToID}, e.From.args()...), e.Message)
}

type TalkStatusChanged struct {
	Scope
	Status            sdk.TalkStatus
	IsReceivedWhisper bool
	ClientID          uint16
}

func (TalkStatusChanged) Kind() Kind { return KindTalkStatusChanged }

func (e TalkStatusChanged) Args() []any {
	return []any{e.HandlerID, e.Status.String(), e.IsReceivedWhisper, e.ClientID}
}

type IgnoredWhisper struct {
	Scope
	ClientID uint16
}

func (IgnoredWhisper) Kind() Kind { return KindIgnoredWhisper }

func (e IgnoredWhisper) Args() []any {
	return []any{e.HandlerID, e.ClientID}
}

type ServerUpdated struct {
	Scope
}

func (ServerUpdated) Kind() Kind { return KindServerUpdated }

func (e ServerUpdated) Args() []any {
	return []any{e.HandlerID}
}

type ServerError struct {
	Scope
	ErrorMessage string
	ErrorCode    uint32
	ReturnCode   string
	ExtraMessage string
}

func (ServerError) Kind() Kind { return KindServerError }

func (e ServerError) Args() []any {
	return []any{e.HandlerID, e.ErrorMessage, e.ErrorCode, e.ReturnCode, e.ExtraMessage}
}

type ServerStop struct {
	Scope
	ShutdownMessage string
}

func (ServerStop) Kind() Kind { return KindServerStop }

func (e ServerStop) Args() []any {
	return []any{e.HandlerID, e.ShutdownMessage}
}

type ConnectionInfo struct {
	Scope
	ClientID uint16
}

func (ConnectionInfo) Kind() Kind { return KindConnectionInfo }

func (e ConnectionInfo) Args() []any {
	return []any{e.HandlerID, e.ClientID}
}

type ServerConnectionInfo struct {
	Scope
}

func (ServerConnectionInfo) Kind() Kind { return KindServerConnectionInfo }

func (e ServerConnectionInfo) Args() []any {
	return []any{e.HandlerID}
}

type ClientSelfVariableUpdated struct {
	Scope
	Flag     int
	OldValue string
	NewValue string
}

func (ClientSelfVariableUpdated) Kind() Kind { return KindClientSelfVariableUpdated }

func (e ClientSelfVariableUpdated) Args() []any {
	return []any{e.HandlerID, e.Flag, e.OldValue, e.NewValue}
}

type FileTransferStatus struct {
	Scope
	TransferID     uint16
	Status         uint32
	StatusMessage  string
	RemoteFileSize uint64
}

func (FileTransferStatus) Kind() Kind { return KindFileTransferStatus }

func (e FileTransferStatus) Args() []any {
	return []any{e.TransferID, e.Status, e.StatusMessage, id64(e.RemoteFileSize), e.HandlerID}
}

type FileListReceived struct {
	Scope
	ChannelID      uint64
	Path           string
	Name           string
	Size           uint64
	Datetime       uint64
	Type           int
	IncompleteSize uint64
	ReturnCode     string
}

func (FileListReceived) Kind() Kind { return KindFileListReceived }

func (e FileListReceived) Args() []any {
	return []any{
		e.HandlerID, id64(e.ChannelID), e.Path, e.Name, id64(e.Size),
		id64(e.Datetime), e.Type, id64(e.IncompleteSize), e.ReturnCode,
	}
}

// SoundDeviceListChanged is library-wide and carries no handler.
type SoundDeviceListChanged struct {
	ModeID        string
	PlayOrCapture int
}

func (SoundDeviceListChanged) Kind() Kind { return KindSoundDeviceListChanged }

func (SoundDeviceListChanged) Handler() uint64 { return 0 }

func (e SoundDeviceListChanged) Args() []any {
	return []any{e.ModeID, e.PlayOrCapture}
}

func (SoundDeviceListChanged) payload() {}

type PlaybackShutdownComplete struct {
	Scope
}

func (PlaybackShutdownComplete) Kind() Kind { return KindPlaybackShutdownComplete }

func (e PlaybackShutdownComplete) Args() []any {
	return []any{e.HandlerID}
}

// UserLoggingMessage is scoped to a handler only when the log line was.
type UserLoggingMessage struct {
	Scope
	Message        string
	Level          sdk.LogLevel
	Channel        string
	Time           string
	CompleteString string
}

func (UserLoggingMessage) Kind() Kind { return KindUserLoggingMessage }

func (e UserLoggingMessage) Args() []any {
	return []any{e.Message, e.Level.String(), e.Channel, e.HandlerID, e.Time, e.CompleteString}
}
