package sdk

// Callbacks is the function table passed to InitClientLib. The library calls
// these from its own threads, possibly concurrently. A nil entry is skipped.
type Callbacks struct {
	OnConnectStatusChange      func(handlerID uint64, newStatus ConnectStatus, errorNumber uint32)
	OnServerProtocolVersion    func(handlerID uint64, protocolVersion int)
	OnNewChannel               func(handlerID uint64, channelID, channelParentID uint64)
	OnNewChannelCreated        func(handlerID uint64, channelID, channelParentID uint64, invokerID uint16, invokerName, invokerUID string)
	OnDelChannel               func(handlerID uint64, channelID uint64, invokerID uint16, invokerName, invokerUID string)
	OnChannelMove              func(handlerID uint64, channelID, newChannelParentID uint64, invokerID uint16, invokerName, invokerUID string)
	OnUpdateChannelEdited      func(handlerID uint64, channelID uint64, invokerID uint16, invokerName, invokerUID string)
	OnChannelDescriptionUpdate func(handlerID uint64, channelID uint64)
	OnUpdateClient             func(handlerID uint64, clientID uint16, invokerID uint16, invokerName, invokerUID string)
	OnClientMove               func(handlerID uint64, clientID uint16, oldChannelID, newChannelID uint64, visibility Visibility, moveMessage string)
	OnClientMoveTimeout        func(handlerID uint64, clientID uint16, oldChannelID, newChannelID uint64, visibility Visibility, timeoutMessage string)
	OnClientMoveMoved          func(handlerID uint64, clientID uint16, oldChannelID, newChannelID uint64, visibility Visibility, moverID uint16, moverName, moverUID, moveMessage string)
	OnClientKickFromChannel    func(handlerID uint64, clientID uint16, oldChannelID, newChannelID uint64, visibility Visibility, kickerID uint16, kickerName, kickerUID, kickMessage string)
	OnClientKickFromServer     func(handlerID uint64, clientID uint16, oldChannelID, newChannelID uint64, visibility Visibility, kickerID uint16, kickerName, kickerUID, kickMessage string)
	OnClientIDs                func(handlerID uint64, uniqueClientIdentifier string, clientID uint16, clientName string)
	OnTextMessage              func(handlerID uint64, targetMode TextMessageTargetMode, toID, fromID uint16, fromName, fromUID, message string)
	OnTalkStatusChange         func(handlerID uint64, status TalkStatus, isReceivedWhisper bool, clientID uint16)
	OnIgnoredWhisper           func(handlerID uint64, clientID uint16)
	OnServerUpdated            func(handlerID uint64)
	OnServerError              func(handlerID uint64, errorMessage string, errorCode uint32, returnCode, extraMessage string)
	OnServerStop               func(handlerID uint64, shutdownMessage string)
	OnConnectionInfo           func(handlerID uint64, clientID uint16)
	OnServerConnectionInfo     func(handlerID uint64)
	OnClientSelfVariableUpdate func(handlerID uint64, flag int, oldValue, newValue string)
	OnFileTransferStatus       func(transferID uint16, status uint32, statusMessage string, remoteFileSize uint64, handlerID uint64)
	OnFileList                 func(handlerID uint64, channelID uint64, path, name string, size uint64, datetime uint64, fileType int, incompleteSize uint64, returnCode string)
	OnSoundDeviceListChanged   func(modeID string, playOrCapture int)
	OnPlaybackShutdownComplete func(handlerID uint64)
	OnUserLoggingMessage       func(logMessage string, logLevel LogLevel, logChannel string, handlerID uint64, logTime string, completeLogString string)
}

