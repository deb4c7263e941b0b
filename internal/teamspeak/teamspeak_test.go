package teamspeak

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	ts3 "github.com/multiplay/go-ts3"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samcm/ts3-event-bridge/internal/sdk"
)

type fakeQuery struct {
	mu         sync.Mutex
	notify     chan ts3.Notification
	loginErr   error
	registered []ts3.NotifyCategory
	nick       string
	commands   []string
	closed     bool
}

func newFakeQuery() *fakeQuery {
	return &fakeQuery{notify: make(chan ts3.Notification, 16)}
}

func (f *fakeQuery) Login(user, passwd string) error { return f.loginErr }

func (f *fakeQuery) Use(id int) error { return nil }

func (f *fakeQuery) SetNick(nick string) error {
	f.nick = nick
	return nil
}

func (f *fakeQuery) Register(event ts3.NotifyCategory) error {
	f.registered = append(f.registered, event)
	return nil
}

func (f *fakeQuery) RegisterChannel(id uint) error { return nil }

func (f *fakeQuery) Notifications() <-chan ts3.Notification { return f.notify }

func (f *fakeQuery) Version() (*ts3.Version, error) { return &ts3.Version{Build: 1536564584}, nil }

func (f *fakeQuery) Whoami() (*ts3.ConnectionInfo, error) {
	return &ts3.ConnectionInfo{ClientID: 42, ClientChannelID: 1}, nil
}

func (f *fakeQuery) ExecCmd(cmd *ts3.Cmd) ([]string, error) {
	f.commands = append(f.commands, cmd.String())
	return nil, nil
}

func (f *fakeQuery) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true

	return nil
}

func (f *fakeQuery) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.closed
}

func (f *fakeQuery) state() (*ts3.Server, []*ts3.Channel, []*ts3.OnlineClient, error) {
	muted, recording, idle := true, true, 600000

	return &ts3.Server{Name: "Test", MaxClients: 32, Uptime: 3600},
		[]*ts3.Channel{{ID: 1, ChannelName: "Lobby"}, {ID: 2, ChannelName: "AFK"}},
		[]*ts3.OnlineClient{
			{ID: 5, ChannelID: 1, Nickname: "alice"},
			{ID: 6, ChannelID: 1, Nickname: "serveradmin", Type: 1},
			{ID: 7, ChannelID: 2, Nickname: "bob"},
			{
				ID:        8,
				ChannelID: 2,
				Nickname:  "carol",
				OnlineClientExt: &ts3.OnlineClientExt{
					OnlineClientVoice: &ts3.OnlineClientVoice{InputMuted: &muted, IsRecording: &recording},
					OnlineClientTimes: &ts3.OnlineClientTimes{IdleTime: &idle},
				},
			},
		}, nil
}

// events collects callback invocations as readable strings.
type events struct {
	mu  sync.Mutex
	got []string
}

func (e *events) add(format string, args ...any) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.got = append(e.got, fmt.Sprintf(format, args...))
}

func (e *events) list() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]string(nil), e.got...)
}

func (e *events) callbacks() sdk.Callbacks {
	return sdk.Callbacks{
		OnConnectStatusChange: func(id uint64, s sdk.ConnectStatus, errno uint32) {
			e.add("status %d %s %d", id, s, errno)
		},
		OnServerProtocolVersion: func(id uint64, v int) {
			e.add("protocol %d %d", id, v)
		},
		OnServerError: func(id uint64, msg string, code uint32, _, _ string) {
			e.add("error %d 0x%04x", id, code)
		},
		OnClientMove: func(id uint64, clid uint16, from, to uint64, vis sdk.Visibility, msg string) {
			e.add("move %d %d %d->%d %s", id, clid, from, to, vis)
		},
		OnClientMoveTimeout: func(id uint64, clid uint16, from, to uint64, vis sdk.Visibility, msg string) {
			e.add("timeout %d %d %d", id, clid, from)
		},
		OnClientMoveMoved: func(id uint64, clid uint16, from, to uint64, vis sdk.Visibility, mid uint16, mname, muid, msg string) {
			e.add("moved %d %d %d->%d by %s", id, clid, from, to, mname)
		},
		OnClientKickFromChannel: func(id uint64, clid uint16, from, to uint64, vis sdk.Visibility, kid uint16, kname, kuid, msg string) {
			e.add("chankick %d %d %d->%d by %s: %s", id, clid, from, to, kname, msg)
		},
		OnClientKickFromServer: func(id uint64, clid uint16, from, to uint64, vis sdk.Visibility, kid uint16, kname, kuid, msg string) {
			e.add("serverkick %d %d by %s: %s", id, clid, kname, msg)
		},
		OnTextMessage: func(id uint64, mode sdk.TextMessageTargetMode, to, from uint16, name, uid, msg string) {
			e.add("text %d %s %d<-%s: %s", id, mode, to, name, msg)
		},
		OnNewChannelCreated: func(id uint64, cid, pid uint64, _ uint16, name, _ string) {
			e.add("created %d %d in %d by %s", id, cid, pid, name)
		},
		OnDelChannel: func(id uint64, cid uint64, _ uint16, name, _ string) {
			e.add("deleted %d %d by %s", id, cid, name)
		},
		OnServerUpdated: func(id uint64) {
			e.add("server %d", id)
		},
		OnServerStop: func(id uint64, msg string) {
			e.add("stop %d %s", id, msg)
		},
		OnUserLoggingMessage: func(msg string, level sdk.LogLevel, channel string, id uint64, _, complete string) {
			e.add("log %s %s %s", level, channel, msg)
		},
	}
}

func newTestLib(t *testing.T, query *fakeQuery) *lib {
	t.Helper()

	log, _ := logtest.NewNullLogger()
	l := NewClientLib(log, Config{Host: "ts.example.com", QueryPort: 10011, Username: "serveradmin", ServerID: 1}).(*lib)
	l.dial = func(addr string) (queryClient, error) {
		if query == nil {
			return nil, errors.New("connection refused")
		}

		return query, nil
	}

	return l
}

func TestStartConnectionReportsStatusSequence(t *testing.T) {
	query := newFakeQuery()
	l := newTestLib(t, query)
	ev := &events{}

	require.NoError(t, l.InitClientLib(ev.callbacks(), sdk.LogError))

	id, err := l.SpawnServerConnectionHandler()
	require.NoError(t, err)

	require.NoError(t, l.StartConnection(context.Background(), id, sdk.ConnectParams{Nickname: "bridge"}))

	assert.Equal(t, []string{
		"status 1 CONNECTING 0",
		"status 1 CONNECTED 0",
		"protocol 1 1536564584",
		"status 1 CONNECTION_ESTABLISHING 0",
		"status 1 CONNECTION_ESTABLISHED 0",
	}, ev.list())

	assert.Equal(t, "bridge", query.nick)
	assert.Contains(t, query.registered, ts3.TextPrivateEvents)

	status, err := l.GetConnectionStatus(id)
	require.NoError(t, err)
	assert.Equal(t, sdk.StatusConnectionEstablished, status)

	require.NoError(t, l.StopConnection(id, "bye"))
	assert.True(t, query.isClosed())
	assert.Equal(t, "status 1 DISCONNECTED 0", ev.list()[len(ev.list())-1])
}

func TestStartConnectionJoinsDefaultChannel(t *testing.T) {
	query := newFakeQuery()
	l := newTestLib(t, query)

	require.NoError(t, l.InitClientLib(sdk.Callbacks{}, sdk.LogError))

	id, err := l.SpawnServerConnectionHandler()
	require.NoError(t, err)

	require.NoError(t, l.StartConnection(context.Background(), id, sdk.ConnectParams{DefaultChannelID: 5}))
	assert.Equal(t, []string{"clientmove clid=42 cid=5\n"}, query.commands)

	require.NoError(t, l.StopConnection(id, "bye"))
}

func TestStartConnectionWithoutDefaultChannelStaysPut(t *testing.T) {
	query := newFakeQuery()
	l := newTestLib(t, query)

	require.NoError(t, l.InitClientLib(sdk.Callbacks{}, sdk.LogError))

	id, err := l.SpawnServerConnectionHandler()
	require.NoError(t, err)

	require.NoError(t, l.StartConnection(context.Background(), id, sdk.ConnectParams{}))
	assert.Empty(t, query.commands)

	require.NoError(t, l.StopConnection(id, "bye"))
}

func TestClientLibVersion(t *testing.T) {
	l := newTestLib(t, nil)

	version, err := l.GetClientLibVersion()
	require.NoError(t, err)
	assert.Equal(t, Version, version)

	number, err := l.GetClientLibVersionNumber()
	require.NoError(t, err)
	assert.Equal(t, VersionNumber, number)
}

func TestStartConnectionFailure(t *testing.T) {
	l := newTestLib(t, nil)
	ev := &events{}

	require.NoError(t, l.InitClientLib(ev.callbacks(), sdk.LogError))

	id, err := l.SpawnServerConnectionHandler()
	require.NoError(t, err)

	err = l.StartConnection(context.Background(), id, sdk.ConnectParams{})
	require.Error(t, err)
	assert.Equal(t, sdk.ErrorFailedConnectionInitialisation, sdk.Code(err))

	assert.Equal(t, []string{
		"status 1 CONNECTING 0",
		"error 1 0x0700",
		"status 1 DISCONNECTED 1792",
	}, ev.list())
}

func TestLoginFailureClosesClient(t *testing.T) {
	query := newFakeQuery()
	query.loginErr = errors.New("invalid loginname or password")

	l := newTestLib(t, query)
	require.NoError(t, l.InitClientLib(sdk.Callbacks{}, sdk.LogError))

	id, err := l.SpawnServerConnectionHandler()
	require.NoError(t, err)

	require.Error(t, l.StartConnection(context.Background(), id, sdk.ConnectParams{}))
	assert.True(t, query.isClosed())
}

func TestNotificationsBecomeCallbacks(t *testing.T) {
	query := newFakeQuery()
	l := newTestLib(t, query)
	ev := &events{}

	require.NoError(t, l.InitClientLib(ev.callbacks(), sdk.LogError))

	id, err := l.SpawnServerConnectionHandler()
	require.NoError(t, err)
	require.NoError(t, l.StartConnection(context.Background(), id, sdk.ConnectParams{}))

	before := len(ev.list())

	query.notify <- ts3.Notification{Type: "cliententerview", Data: map[string]string{"clid": "5", "ctid": "1", "cfid": "0", "reasonid": "0"}}
	query.notify <- ts3.Notification{Type: "clientmoved", Data: map[string]string{"clid": "5", "ctid": "2", "reasonid": "0"}}
	query.notify <- ts3.Notification{Type: "clientmoved", Data: map[string]string{"clid": "5", "ctid": "3", "reasonid": "1", "invokerid": "9", "invokername": "admin"}}
	query.notify <- ts3.Notification{Type: "clientmoved", Data: map[string]string{"clid": "5", "ctid": "1", "reasonid": "4", "invokerid": "9", "invokername": "admin", "reasonmsg": "out"}}
	query.notify <- ts3.Notification{Type: "textmessage", Data: map[string]string{"targetmode": "3", "msg": "hello world", "invokerid": "5", "invokername": "alice"}}
	query.notify <- ts3.Notification{Type: "notifychannelcreated", Data: map[string]string{"cid": "12", "cpid": "1", "invokername": "admin"}}
	query.notify <- ts3.Notification{Type: "channeldeleted", Data: map[string]string{"cid": "12", "invokername": "admin"}}
	query.notify <- ts3.Notification{Type: "serveredited", Data: map[string]string{"reasonid": "10"}}
	query.notify <- ts3.Notification{Type: "tokenused", Data: map[string]string{}}
	query.notify <- ts3.Notification{Type: "clientleftview", Data: map[string]string{"clid": "5", "cfid": "1", "ctid": "0", "reasonid": "5", "invokername": "admin", "reasonmsg": "spam"}}
	query.notify <- ts3.Notification{Type: "clientleftview", Data: map[string]string{"clid": "8", "cfid": "4", "ctid": "0", "reasonid": "3"}}

	require.Eventually(t, func() bool {
		return len(ev.list()) == before+10
	}, time.Second, time.Millisecond)

	assert.Equal(t, []string{
		"move 1 5 0->1 ENTER_VISIBILITY",
		"move 1 5 1->2 RETAIN_VISIBILITY",
		"moved 1 5 2->3 by admin",
		"chankick 1 5 3->1 by admin: out",
		"text 1 SERVER 0<-alice: hello world",
		"created 1 12 in 1 by admin",
		"deleted 1 12 by admin",
		"server 1",
		"serverkick 1 5 by admin: spam",
		"timeout 1 8 4",
	}, ev.list()[before:])

	require.NoError(t, l.DestroyClientLib())
}

func TestLostConnectionReportsDisconnected(t *testing.T) {
	query := newFakeQuery()
	l := newTestLib(t, query)
	ev := &events{}

	require.NoError(t, l.InitClientLib(ev.callbacks(), sdk.LogWarning))

	id, err := l.SpawnServerConnectionHandler()
	require.NoError(t, err)
	require.NoError(t, l.StartConnection(context.Background(), id, sdk.ConnectParams{}))

	close(query.notify)

	require.Eventually(t, func() bool {
		got := ev.list()
		return got[len(got)-1] == "status 1 DISCONNECTED 1"
	}, time.Second, time.Millisecond)

	assert.Contains(t, ev.list(), "log WARNING Connection Connection lost")
	assert.True(t, query.isClosed())
}

func TestNoCallbacksAfterDestroy(t *testing.T) {
	query := newFakeQuery()
	l := newTestLib(t, query)
	ev := &events{}

	require.NoError(t, l.InitClientLib(ev.callbacks(), sdk.LogError))

	id, err := l.SpawnServerConnectionHandler()
	require.NoError(t, err)
	require.NoError(t, l.StartConnection(context.Background(), id, sdk.ConnectParams{}))
	require.NoError(t, l.DestroyClientLib())

	count := len(ev.list())

	require.NoError(t, l.LogMessage("late", sdk.LogCritical, "Test", 0))
	assert.Len(t, ev.list(), count)

	_, err = l.SpawnServerConnectionHandler()
	assert.Error(t, err)
	assert.Error(t, l.DestroyClientLib())
}

func TestLogVerbosity(t *testing.T) {
	l := newTestLib(t, nil)
	ev := &events{}

	require.NoError(t, l.InitClientLib(ev.callbacks(), sdk.LogWarning))

	require.NoError(t, l.LogMessage("quiet", sdk.LogDebug, "Test", 0))
	require.NoError(t, l.LogMessage("loud", sdk.LogError, "Test", 0))
	require.NoError(t, l.SetLogVerbosity(sdk.LogDevel))
	require.NoError(t, l.LogMessage("now visible", sdk.LogDebug, "Test", 0))
	assert.Error(t, l.LogMessage("bad", sdk.LogLevel(42), "Test", 0))

	assert.Equal(t, []string{"log ERROR Test loud", "log DEBUG Test now visible"}, ev.list())
}

func TestHandlerList(t *testing.T) {
	l := newTestLib(t, nil)
	require.NoError(t, l.InitClientLib(sdk.Callbacks{}, sdk.LogError))

	for i := 0; i < 3; i++ {
		_, err := l.SpawnServerConnectionHandler()
		require.NoError(t, err)
	}

	require.NoError(t, l.DestroyServerConnectionHandler(2))

	ids, err := l.GetServerConnectionHandlerList()
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 3}, ids)

	err = l.DestroyServerConnectionHandler(2)
	assert.Equal(t, sdk.ErrorInvalidServerConnectionHandlerID, sdk.Code(err))
}

func TestSnapshot(t *testing.T) {
	query := newFakeQuery()
	l := newTestLib(t, query)
	require.NoError(t, l.InitClientLib(sdk.Callbacks{}, sdk.LogError))

	id, err := l.SpawnServerConnectionHandler()
	require.NoError(t, err)

	_, err = l.Snapshot(context.Background(), id)
	assert.Error(t, err)

	require.NoError(t, l.StartConnection(context.Background(), id, sdk.ConnectParams{}))

	state, err := l.Snapshot(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, "Test", state.ServerName)
	assert.Equal(t, time.Hour, state.Uptime)
	assert.Equal(t, 3, state.TotalUsers)
	require.Len(t, state.Channels, 2)
	require.Len(t, state.Channels[0].Users, 1)
	require.Len(t, state.Channels[1].Users, 2)

	// Clients without extension data keep zero voice and idle fields.
	alice := state.Channels[0].Users[0]
	assert.Equal(t, "alice", alice.Nickname)
	assert.False(t, alice.InputMuted)
	assert.False(t, alice.IsRecording)
	assert.Zero(t, alice.IdleTime)

	assert.Equal(t, uint16(7), state.Channels[1].Users[0].ID)

	carol := state.Channels[1].Users[1]
	assert.Equal(t, "carol", carol.Nickname)
	assert.True(t, carol.InputMuted)
	assert.False(t, carol.OutputMuted)
	assert.True(t, carol.IsRecording)
	assert.Equal(t, 10*time.Minute, carol.IdleTime)
}
