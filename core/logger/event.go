package logger

// EventType identifies the kind of a LogEntry.
type EventType string

const (
	EventRunCommand      EventType = "run_command"
	EventBuiltin         EventType = "builtin"
	EventLaunchFailure   EventType = "launch_failure"
	EventBackgroundSpawn EventType = "background_spawn"
	EventBackgroundExit  EventType = "background_exit"
)

// LogEntry is a single recorded event.
type LogEntry struct {
	TimestampMicros int64     `json:"timestamp_micros"`
	SessionID       string    `json:"session_id,omitempty"`
	Type            EventType `json:"type"`

	// Command holds the argument vector the event is about.
	Command    []string `json:"command,omitempty"`
	Background bool     `json:"background,omitempty"`
	PID        int      `json:"pid,omitempty"`
	// ExitStatus is set for background_exit events.
	ExitStatus *int `json:"exit_status,omitempty"`
	// Stage is the launch stage that failed, "create" or "exec".
	Stage string `json:"stage,omitempty"`
	Error string `json:"error,omitempty"`
}
