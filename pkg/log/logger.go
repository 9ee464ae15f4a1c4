package log

import "time"

// Logger is the interface applications implement to receive diagnostics.
// Pass nil or NoopLogger to disable diagnostics.
type Logger interface {
	// Log records a diagnostic event. Implementations must be thread-safe,
	// since independent negotiations may run in parallel.
	Log(event Event)
}

// NoopLogger discards all events. Use when diagnostics are disabled.
// NoopLogger is safe for concurrent use and usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// Emit delivers event to l, stamping the current time when the event has
// none. A nil l discards the event.
func Emit(l Logger, event Event) {
	if l == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	l.Log(event)
}

// Compile-time interface satisfaction check.
var _ Logger = NoopLogger{}
