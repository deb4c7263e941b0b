package sdk

import "context"

// ClientLib is the subset of the client library's C interface the bridge
// drives. Implementations deliver events only through the Callbacks table
// passed to InitClientLib, and must stop calling it once DestroyClientLib
// returns.
type ClientLib interface {
	InitClientLib(cb Callbacks, verbosity LogLevel) error
	DestroyClientLib() error
	GetClientLibVersion() (string, error)
	GetClientLibVersionNumber() (uint64, error)

	SpawnServerConnectionHandler() (uint64, error)
	DestroyServerConnectionHandler(handlerID uint64) error
	// StartConnection joins params.DefaultChannelID when it is set.
	StartConnection(ctx context.Context, handlerID uint64, params ConnectParams) error
	StopConnection(handlerID uint64, quitMessage string) error
	GetConnectionStatus(handlerID uint64) (ConnectStatus, error)
	GetServerConnectionHandlerList() ([]uint64, error)

	LogMessage(message string, level LogLevel, channel string, handlerID uint64) error
	SetLogVerbosity(level LogLevel) error
}
