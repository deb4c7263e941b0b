// Package event defines the notifications the client library can push and
// how each one is translated into listener arguments.
package event

import (
	"errors"
	"fmt"
)

// ErrUnknownEventKind is returned for event names outside the supported set.
var ErrUnknownEventKind = errors.New("unknown event kind")

// Kind is the name listeners register under.
type Kind string

const (
	KindConnectionStatusChanged   Kind = "connectionStatusChanged"
	KindServerProtocolVersion     Kind = "serverProtocolVersion"
	KindNewChannel                Kind = "newChannel"
	KindNewChannelCreated         Kind = "newChannelCreated"
	KindChannelDeleted            Kind = "channelDeleted"
	KindChannelMoved              Kind = "channelMoved"
	KindChannelEdited             Kind = "channelEdited"
	KindChannelDescriptionUpdated Kind = "channelDescriptionUpdated"
	KindClientPropertiesUpdated   Kind = "clientPropertiesUpdated"
	KindClientMoved               Kind = "clientMoved"
	KindClientMoveTimeout         Kind = "clientMoveTimeout"
	KindClientMovedByOther        Kind = "clientMovedByOther"
	KindClientKickedFromChannel   Kind = "clientKickedFromChannel"
	KindClientKickedFromServer    Kind = "clientKickedFromServer"
	KindClientIDsReceived         Kind = "clientIDsReceived"
	KindTextMessage               Kind = "textMessage"
	KindTalkStatusChanged         Kind = "talkStatusChanged"
	KindIgnoredWhisper            Kind = "ignoredWhisper"
	KindServerUpdated             Kind = "serverUpdated"
	KindServerError               Kind = "serverError"
	KindServerStop                Kind = "serverStop"
	KindConnectionInfo            Kind = "connectionInfo"
	KindServerConnectionInfo      Kind = "serverConnectionInfo"
	KindClientSelfVariableUpdated Kind = "clientSelfVariableUpdated"
	KindFileTransferStatus        Kind = "fileTransferStatus"
	KindFileListReceived          Kind = "fileListReceived"
	KindSoundDeviceListChanged    Kind = "soundDeviceListChanged"
	KindPlaybackShutdownComplete  Kind = "playbackShutdownComplete"
	KindUserLoggingMessage        Kind = "userLoggingMessage"
)

var kinds = []Kind{
	KindConnectionStatusChanged,
	KindServerProtocolVersion,
	KindNewChannel,
	KindNewChannelCreated,
	KindChannelDeleted,
	KindChannelMoved,
	KindChannelEdited,
	KindChannelDescriptionUpdated,
	KindClientPropertiesUpdated,
	KindClientMoved,
	KindClientMoveTimeout,
	KindClientMovedByOther,
	KindClientKickedFromChannel,
	KindClientKickedFromServer,
	KindClientIDsReceived,
	KindTextMessage,
	KindTalkStatusChanged,
	KindIgnoredWhisper,
	KindServerUpdated,
	KindServerError,
	KindServerStop,
	KindConnectionInfo,
	KindServerConnectionInfo,
	KindClientSelfVariableUpdated,
	KindFileTransferStatus,
	KindFileListReceived,
	KindSoundDeviceListChanged,
	KindPlaybackShutdownComplete,
	KindUserLoggingMessage,
}

var knownKinds = func() map[Kind]struct{} {
	m := make(map[Kind]struct{}, len(kinds))
	for _, k := range kinds {
		m[k] = struct{}{}
	}

	return m
}()

// Kinds returns every supported kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)

	return out
}

// ParseKind validates an event name.
func ParseKind(name string) (Kind, error) {
	k := Kind(name)
	if _, ok := knownKinds[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownEventKind, name)
	}

	return k, nil
}

// Valid reports whether k is a supported kind.
func (k Kind) Valid() bool {
	_, ok := knownKinds[k]
	return ok
}

func (k Kind) String() string {
	return string(k)
}
