package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"
)

// LogRecorder is a callback that stores events in an external datastore.
type LogRecorder func(le *LogEntry) error

// Logger captures shell events.
type Logger struct {
	Record LogRecorder

	// Now is the time source, defaults to time.Now.
	Now func() time.Time
}

// NewJsonLinesLogRecorder creates a Logger that exports logs in newline
// delimited JSON object format. It is safe for concurrent use.
func NewJsonLinesLogRecorder(w io.Writer) *Logger {
	var mu sync.Mutex
	return &Logger{
		Record: func(le *LogEntry) error {
			entry, err := json.Marshal(le)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

// NewNopLogger creates a Logger that drops all events.
func NewNopLogger() *Logger {
	return &Logger{
		Record: func(*LogEntry) error { return nil },
	}
}

func (l *Logger) now() time.Time {
	if l.Now == nil {
		return time.Now()
	}
	return l.Now()
}

func (l *Logger) record(sessionID string, le *LogEntry) error {
	le.TimestampMicros = l.now().UnixNano() / int64(time.Microsecond)
	le.SessionID = sessionID
	return l.Record(le)
}

// NewSession creates a logger with attached session ID.
func (l *Logger) NewSession() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: fmt.Sprintf("%d", rand.Uint64())}
}

// Sessionless creates a logger without a session ID.
func (l *Logger) Sessionless() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: ""}
}

// SessionLogger logs messages with a shared session ID.
type SessionLogger struct {
	*Logger
	sessionID string
}

// SessionID returns the ID attached to all events.
func (l *SessionLogger) SessionID() string {
	return l.sessionID
}

// RunCommand records an external program about to be launched.
func (l *SessionLogger) RunCommand(argv []string, background bool) error {
	return l.record(l.sessionID, &LogEntry{Type: EventRunCommand, Command: argv, Background: background})
}

// Builtin records a builtin invocation.
func (l *SessionLogger) Builtin(argv []string) error {
	return l.record(l.sessionID, &LogEntry{Type: EventBuiltin, Command: argv})
}

// LaunchFailure records a program that couldn't be started.
func (l *SessionLogger) LaunchFailure(argv []string, stage string, cause error) error {
	le := &LogEntry{Type: EventLaunchFailure, Command: argv, Stage: stage}
	if cause != nil {
		le.Error = cause.Error()
	}
	return l.record(l.sessionID, le)
}

// BackgroundSpawn records a background process being started.
func (l *SessionLogger) BackgroundSpawn(argv []string, pid int) error {
	return l.record(l.sessionID, &LogEntry{Type: EventBackgroundSpawn, Command: argv, Background: true, PID: pid})
}

// BackgroundExit records a reaped background process.
func (l *SessionLogger) BackgroundExit(pid, status int) error {
	return l.record(l.sessionID, &LogEntry{Type: EventBackgroundExit, Background: true, PID: pid, ExitStatus: &status})
}
