// Package sdk describes the TeamSpeak 3 client library interface: its enums,
// its callback table and the entry points the rest of the bridge calls.
package sdk

import (
	"fmt"
	"strings"
)

// ConnectStatus is the connection state reported by the connect status callback.
type ConnectStatus int

const (
	StatusDisconnected ConnectStatus = iota
	StatusConnecting
	StatusConnected
	StatusConnectionEstablishing
	StatusConnectionEstablished
)

func (s ConnectStatus) String() string {
	switch s {
	case StatusDisconnected:
		return "DISCONNECTED"
	case StatusConnecting:
		return "CONNECTING"
	case StatusConnected:
		return "CONNECTED"
	case StatusConnectionEstablishing:
		return "CONNECTION_ESTABLISHING"
	case StatusConnectionEstablished:
		return "CONNECTION_ESTABLISHED"
	default:
		return fmt.Sprintf("STATUS_%d", int(s))
	}
}

// Visibility describes how a client move changed what we can see.
type Visibility int

const (
	EnterVisibility Visibility = iota
	RetainVisibility
	LeaveVisibility
)

func (v Visibility) String() string {
	switch v {
	case EnterVisibility:
		return "ENTER_VISIBILITY"
	case RetainVisibility:
		return "RETAIN_VISIBILITY"
	case LeaveVisibility:
		return "LEAVE_VISIBILITY"
	default:
		return fmt.Sprintf("VISIBILITY_%d", int(v))
	}
}

// TextMessageTargetMode is the scope a text message was sent to.
type TextMessageTargetMode int

const (
	TargetClient TextMessageTargetMode = iota + 1
	TargetChannel
	TargetServer
)

func (m TextMessageTargetMode) String() string {
	switch m {
	case TargetClient:
		return "CLIENT"
	case TargetChannel:
		return "CHANNEL"
	case TargetServer:
		return "SERVER"
	default:
		return fmt.Sprintf("TARGET_%d", int(m))
	}
}

// TalkStatus is reported by the talk status callback.
type TalkStatus int

const (
	NotTalking TalkStatus = iota
	Talking
	TalkingWhileDisabled
)

func (t TalkStatus) String() string {
	switch t {
	case NotTalking:
		return "NOT_TALKING"
	case Talking:
		return "TALKING"
	case TalkingWhileDisabled:
		return "TALKING_WHILE_DISABLED"
	default:
		return fmt.Sprintf("TALK_STATUS_%d", int(t))
	}
}

// LogLevel mirrors the library's log severities. Lower is more severe.
type LogLevel int

const (
	LogCritical LogLevel = iota
	LogError
	LogWarning
	LogDebug
	LogInfo
	LogDevel
)

var logLevelNames = map[LogLevel]string{
	LogCritical: "CRITICAL",
	LogError:    "ERROR",
	LogWarning:  "WARNING",
	LogDebug:    "DEBUG",
	LogInfo:     "INFO",
	LogDevel:    "DEVEL",
}

func (l LogLevel) String() string {
	if name, ok := logLevelNames[l]; ok {
		return name
	}

	return fmt.Sprintf("LOG_%d", int(l))
}

// ParseLogLevel converts a level name such as "warning" into a LogLevel.
func ParseLogLevel(name string) (LogLevel, error) {
	for level, n := range logLevelNames {
		if strings.EqualFold(n, name) {
			return level, nil
		}
	}

	return 0, fmt.Errorf("unknown log level %q", name)
}

// ConnectParams are the arguments of startConnection.
type ConnectParams struct {
	Identity               string
	Address                string
	Port                   int
	Nickname               string
	DefaultChannel         []string
	DefaultChannelPassword string
	ServerPassword         string
	DefaultChannelID       uint64
}
