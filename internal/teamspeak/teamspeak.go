// Package teamspeak implements the client library interface on top of the
// TeamSpeak ServerQuery protocol. Each server connection handler owns one
// query connection and a watcher goroutine that turns server notifications
// into library callbacks.
package teamspeak

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	ts3 "github.com/multiplay/go-ts3"
	"github.com/sirupsen/logrus"

	"github.com/samcm/ts3-event-bridge/internal/sdk"
)

const (
	// Version is reported by GetClientLibVersion.
	Version = "serverquery 1.0.0 (go-ts3)"
	// VersionNumber is reported by GetClientLibVersionNumber.
	VersionNumber uint64 = 10000
)

var (
	errNotInitialized     = errors.New("library not initialized")
	errAlreadyInitialized = errors.New("library already initialized")
	errNotConnected       = errors.New("handler not connected")
	errAlreadyConnected   = errors.New("handler already connected")
)

// Config holds ServerQuery defaults used when ConnectParams leave them empty.
type Config struct {
	Host      string
	QueryPort int
	Username  string
	Password  string
	ServerID  int
	Nickname  string
}

// ClientLib is the ServerQuery backed library.
type ClientLib interface {
	sdk.ClientLib
	Snapshot(ctx context.Context, handlerID uint64) (*State, error)
}

// queryClient is the part of *ts3.Client the library uses.
type queryClient interface {
	Login(user, passwd string) error
	Use(id int) error
	SetNick(nick string) error
	Register(event ts3.NotifyCategory) error
	RegisterChannel(id uint) error
	Notifications() <-chan ts3.Notification
	Version() (*ts3.Version, error)
	Whoami() (*ts3.ConnectionInfo, error)
	ExecCmd(cmd *ts3.Cmd) ([]string, error)
	Close() error
	state() (*ts3.Server, []*ts3.Channel, []*ts3.OnlineClient, error)
}

type ts3Client struct {
	*ts3.Client
}

func (c ts3Client) state() (*ts3.Server, []*ts3.Channel, []*ts3.OnlineClient, error) {
	server, err := c.Server.Info()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get server info: %w", err)
	}

	channels, err := c.Server.ChannelList()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get channel list: %w", err)
	}

	clients, err := c.Server.ClientList(ts3.ClientVoice, ts3.ClientTimes, ts3.ClientAway)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get client list: %w", err)
	}

	return server, channels, clients, nil
}

func dialServerQuery(addr string) (queryClient, error) {
	client, err := ts3.NewClient(addr)
	if err != nil {
		return nil, err
	}

	return ts3Client{client}, nil
}

type lib struct {
	log         logrus.FieldLogger
	cfg         Config
	dial        func(addr string) (queryClient, error)
	mu          sync.RWMutex
	cb          *sdk.Callbacks
	verbosity   sdk.LogLevel
	connections map[uint64]*connection
	nextID      uint64
}

// connection is one server connection handler.
type connection struct {
	id       uint64
	mu       sync.Mutex
	client   queryClient
	status   sdk.ConnectStatus
	done     chan struct{}
	wg       sync.WaitGroup
	// channels tracks which channel each visible client is in. Only the
	// watcher goroutine touches it.
	channels map[uint16]uint64
}

// NewClientLib creates a new ServerQuery backed client library.
func NewClientLib(log logrus.FieldLogger, cfg Config) ClientLib {
	return &lib{
		log:         log.WithField("component", "teamspeak"),
		cfg:         cfg,
		dial:        dialServerQuery,
		connections: make(map[uint64]*connection),
	}
}

// emit calls into the callback table unless the library has been destroyed.
// Holding the read lock guarantees no callback runs after DestroyClientLib.
func (l *lib) emit(fn func(cb *sdk.Callbacks)) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.cb == nil {
		return
	}

	fn(l.cb)
}

func (l *lib) InitClientLib(cb sdk.Callbacks, verbosity sdk.LogLevel) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cb != nil {
		return sdk.NewError("initClientLib", sdk.ErrorUndefined, errAlreadyInitialized)
	}

	l.cb = &cb
	l.verbosity = verbosity

	l.log.WithField("verbosity", verbosity).Info("Client library initialized")

	return nil
}

func (l *lib) DestroyClientLib() error {
	l.mu.Lock()

	if l.cb == nil {
		l.mu.Unlock()
		return sdk.NewError("destroyClientLib", sdk.ErrorUndefined, errNotInitialized)
	}

	l.cb = nil
	connections := l.connections
	l.connections = make(map[uint64]*connection)
	l.mu.Unlock()

	for _, c := range connections {
		c.stop()
	}

	l.log.WithField("connections", len(connections)).Info("Client library destroyed")

	return nil
}

func (l *lib) GetClientLibVersion() (string, error) {
	return Version, nil
}

func (l *lib) GetClientLibVersionNumber() (uint64, error) {
	return VersionNumber, nil
}

func (l *lib) SpawnServerConnectionHandler() (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cb == nil {
		return 0, sdk.NewError("spawnNewServerConnectionHandler", sdk.ErrorUndefined, errNotInitialized)
	}

	l.nextID++
	l.connections[l.nextID] = &connection{id: l.nextID}

	return l.nextID, nil
}

func (l *lib) DestroyServerConnectionHandler(handlerID uint64) error {
	l.mu.Lock()
	c, ok := l.connections[handlerID]
	delete(l.connections, handlerID)
	l.mu.Unlock()

	if !ok {
		return sdk.NewError("destroyServerConnectionHandler", sdk.ErrorInvalidServerConnectionHandlerID, nil)
	}

	c.stop()

	return nil
}

func (l *lib) connection(op string, handlerID uint64) (*connection, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.cb == nil {
		return nil, sdk.NewError(op, sdk.ErrorUndefined, errNotInitialized)
	}

	c, ok := l.connections[handlerID]
	if !ok {
		return nil, sdk.NewError(op, sdk.ErrorInvalidServerConnectionHandlerID, nil)
	}

	return c, nil
}

func (l *lib) setStatus(c *connection, status sdk.ConnectStatus, errno uint32) {
	c.mu.Lock()
	c.status = status
	c.mu.Unlock()

	l.emit(func(cb *sdk.Callbacks) {
		if cb.OnConnectStatusChange != nil {
			cb.OnConnectStatusChange(c.id, status, errno)
		}
	})
}

// StartConnection dials ServerQuery, selects the virtual server and registers
// for notifications. Progress is reported through the connect status
// callback; on failure a server error event precedes DISCONNECTED.
func (l *lib) StartConnection(ctx context.Context, handlerID uint64, params sdk.ConnectParams) error {
	const op = "startConnection"

	c, err := l.connection(op, handlerID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	busy := c.client != nil
	c.mu.Unlock()

	if busy {
		return sdk.NewError(op, sdk.ErrorUndefined, errAlreadyConnected)
	}

	params = l.withDefaults(params)

	client, err := l.connect(ctx, c, params)
	if err != nil {
		l.emit(func(cb *sdk.Callbacks) {
			if cb.OnServerError != nil {
				cb.OnServerError(handlerID, sdk.ErrorMessage(sdk.ErrorFailedConnectionInitialisation),
					sdk.ErrorFailedConnectionInitialisation, "", err.Error())
			}
		})
		l.setStatus(c, sdk.StatusDisconnected, sdk.ErrorFailedConnectionInitialisation)

		return sdk.NewError(op, sdk.ErrorFailedConnectionInitialisation, err)
	}

	c.mu.Lock()
	c.client = client
	c.done = make(chan struct{})
	c.channels = make(map[uint16]uint64)
	c.mu.Unlock()

	c.wg.Add(1)

	go l.watch(c, client)

	l.setStatus(c, sdk.StatusConnectionEstablished, sdk.ErrorOK)
	l.logMessage(fmt.Sprintf("Connected to %s:%d", params.Address, params.Port), sdk.LogInfo, "Connection", handlerID)

	return nil
}

func (l *lib) withDefaults(params sdk.ConnectParams) sdk.ConnectParams {
	if params.Address == "" {
		params.Address = l.cfg.Host
	}

	if params.Port == 0 {
		params.Port = l.cfg.QueryPort
	}

	if params.Identity == "" {
		params.Identity = l.cfg.Username
	}

	if params.ServerPassword == "" {
		params.ServerPassword = l.cfg.Password
	}

	if params.Nickname == "" {
		params.Nickname = l.cfg.Nickname
	}

	return params
}

type dialResult struct {
	client queryClient
	err    error
}

// connect walks the connect status sequence. ServerQuery has no voice
// handshake, so the established states follow login and registration.
func (l *lib) connect(ctx context.Context, c *connection, params sdk.ConnectParams) (queryClient, error) {
	addr := fmt.Sprintf("%s:%d", params.Address, params.Port)
	log := l.log.WithFields(logrus.Fields{
		"handler": c.id,
		"address": addr,
	})

	log.Info("Connecting to TeamSpeak server")
	l.setStatus(c, sdk.StatusConnecting, sdk.ErrorOK)

	results := make(chan dialResult, 1)

	go func() {
		client, err := l.dial(addr)
		results <- dialResult{client: client, err: err}
	}()

	var client queryClient

	select {
	case r := <-results:
		if r.err != nil {
			return nil, fmt.Errorf("failed to connect to TeamSpeak: %w", r.err)
		}

		client = r.client
	case <-ctx.Done():
		go func() {
			if r := <-results; r.client != nil {
				r.client.Close()
			}
		}()

		return nil, ctx.Err()
	}

	l.setStatus(c, sdk.StatusConnected, sdk.ErrorOK)

	if v, err := client.Version(); err == nil {
		l.emit(func(cb *sdk.Callbacks) {
			if cb.OnServerProtocolVersion != nil {
				cb.OnServerProtocolVersion(c.id, v.Build)
			}
		})
	}

	if err := l.setup(client, params); err != nil {
		client.Close()
		return nil, err
	}

	l.setStatus(c, sdk.StatusConnectionEstablishing, sdk.ErrorOK)

	if err := register(client); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

func (l *lib) setup(client queryClient, params sdk.ConnectParams) error {
	if err := client.Login(params.Identity, params.ServerPassword); err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}

	if err := client.Use(l.cfg.ServerID); err != nil {
		return fmt.Errorf("failed to select virtual server %d: %w", l.cfg.ServerID, err)
	}

	if params.Nickname != "" {
		if err := client.SetNick(params.Nickname); err != nil {
			return fmt.Errorf("failed to set nickname: %w", err)
		}
	}

	if params.DefaultChannelID != 0 {
		if err := joinChannel(client, params.DefaultChannelID); err != nil {
			return fmt.Errorf("failed to join channel %d: %w", params.DefaultChannelID, err)
		}
	}

	return nil
}

// joinChannel moves the query client itself into a channel.
func joinChannel(client queryClient, channelID uint64) error {
	me, err := client.Whoami()
	if err != nil {
		return err
	}

	_, err = client.ExecCmd(ts3.NewCmd("clientmove").WithArgs(
		ts3.NewArg("clid", me.ClientID),
		ts3.NewArg("cid", channelID),
	))

	return err
}

func register(client queryClient) error {
	for _, category := range []ts3.NotifyCategory{
		ts3.ServerEvents,
		ts3.TextServerEvents,
		ts3.TextChannelEvents,
		ts3.TextPrivateEvents,
	} {
		if err := client.Register(category); err != nil {
			return fmt.Errorf("failed to register for %s events: %w", category, err)
		}
	}

	if err := client.RegisterChannel(0); err != nil {
		return fmt.Errorf("failed to register for channel events: %w", err)
	}

	return nil
}

// watch is the connection's notification thread. It exits when the
// connection is stopped or the query connection goes away.
func (l *lib) watch(c *connection, client queryClient) {
	defer c.wg.Done()

	notifications := client.Notifications()
	log := l.log.WithField("handler", c.id)

	for {
		select {
		case <-c.done:
			return
		case n, ok := <-notifications:
			if !ok {
				l.lost(c)
				return
			}

			handled := false
			l.emit(func(cb *sdk.Callbacks) {
				handled = c.translate(n, cb)
			})

			if !handled {
				log.WithField("type", n.Type).Debug("Ignoring notification")
			}
		}
	}
}

// lost handles a query connection that closed without StopConnection.
func (l *lib) lost(c *connection) {
	c.mu.Lock()
	client := c.client
	c.client = nil
	c.mu.Unlock()

	// A nil client means stop is already tearing the connection down.
	if client == nil {
		return
	}

	client.Close()

	l.logMessage("Connection lost", sdk.LogWarning, "Connection", c.id)
	l.setStatus(c, sdk.StatusDisconnected, sdk.ErrorUndefined)
}

// stop closes the query connection and waits for the watcher to exit.
func (c *connection) stop() bool {
	c.mu.Lock()
	client := c.client
	done := c.done
	c.client = nil
	c.mu.Unlock()

	if client == nil {
		return false
	}

	close(done)
	client.Close()
	c.wg.Wait()

	c.mu.Lock()
	c.status = sdk.StatusDisconnected
	c.mu.Unlock()

	return true
}

func (l *lib) StopConnection(handlerID uint64, quitMessage string) error {
	const op = "stopConnection"

	c, err := l.connection(op, handlerID)
	if err != nil {
		return err
	}

	if !c.stop() {
		return sdk.NewError(op, sdk.ErrorUndefined, errNotConnected)
	}

	l.logMessage(fmt.Sprintf("Disconnected: %s", quitMessage), sdk.LogInfo, "Connection", handlerID)
	l.setStatus(c, sdk.StatusDisconnected, sdk.ErrorOK)

	return nil
}

func (l *lib) GetConnectionStatus(handlerID uint64) (sdk.ConnectStatus, error) {
	c, err := l.connection("getConnectionStatus", handlerID)
	if err != nil {
		return sdk.StatusDisconnected, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.status, nil
}

func (l *lib) GetServerConnectionHandlerList() ([]uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.cb == nil {
		return nil, sdk.NewError("getServerConnectionHandlerList", sdk.ErrorUndefined, errNotInitialized)
	}

	ids := make([]uint64, 0, len(l.connections))
	for id := range l.connections {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids, nil
}

// Snapshot fetches the current server, channel and client state.
func (l *lib) Snapshot(ctx context.Context, handlerID uint64) (*State, error) {
	c, err := l.connection("snapshot", handlerID)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil, fmt.Errorf("not connected to TeamSpeak server")
	}

	server, channels, clients, err := c.client.state()
	if err != nil {
		return nil, err
	}

	return buildState(handlerID, server, channels, clients), nil
}
