package teamspeak

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/samcm/ts3-event-bridge/internal/sdk"
)

const logTimeLayout = "2006-01-02 15:04:05.000000"

var logrusLevels = map[sdk.LogLevel]logrus.Level{
	sdk.LogCritical: logrus.ErrorLevel,
	sdk.LogError:    logrus.ErrorLevel,
	sdk.LogWarning:  logrus.WarnLevel,
	sdk.LogDebug:    logrus.DebugLevel,
	sdk.LogInfo:     logrus.InfoLevel,
	sdk.LogDevel:    logrus.TraceLevel,
}

// LogMessage writes a line to the library log. Lines at or above the
// configured verbosity are also delivered through the user logging callback.
func (l *lib) LogMessage(message string, level sdk.LogLevel, channel string, handlerID uint64) error {
	if _, ok := logrusLevels[level]; !ok {
		return sdk.NewError("logMessage", sdk.ErrorUndefined, fmt.Errorf("invalid log level %d", level))
	}

	l.logMessage(message, level, channel, handlerID)

	return nil
}

// SetLogVerbosity sets the least severe level delivered to the callback.
func (l *lib) SetLogVerbosity(level sdk.LogLevel) error {
	if _, ok := logrusLevels[level]; !ok {
		return sdk.NewError("setLogVerbosity", sdk.ErrorUndefined, fmt.Errorf("invalid log level %d", level))
	}

	l.mu.Lock()
	l.verbosity = level
	l.mu.Unlock()

	return nil
}

func (l *lib) logMessage(message string, level sdk.LogLevel, channel string, handlerID uint64) {
	l.log.WithFields(logrus.Fields{
		"channel": channel,
		"handler": handlerID,
	}).Log(logrusLevels[level], message)

	now := time.Now().Format(logTimeLayout)
	complete := fmt.Sprintf("%s|%-8s|%-14s|%3d|%s", now, level, channel, handlerID, message)

	l.emit(func(cb *sdk.Callbacks) {
		if level > l.verbosity || cb.OnUserLoggingMessage == nil {
			return
		}

		cb.OnUserLoggingMessage(message, level, channel, handlerID, now, complete)
	})
}
