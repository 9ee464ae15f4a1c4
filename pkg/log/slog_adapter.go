package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes diagnostics to an slog.Logger.
// Useful for development when you want to see negotiation failures in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at the level matching event.Level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("subsystem", event.Subsystem.String()),
	}

	if event.NegotiationID != "" {
		attrs = append(attrs, slog.String("negotiation_id", event.NegotiationID))
	}
	if event.Provider != "" {
		attrs = append(attrs, slog.String("provider", event.Provider))
	}

	if m := event.Mismatch; m != nil {
		attrs = append(attrs,
			slog.String("group", m.Group),
			slog.String("field", m.Field),
			slog.String("supported", m.Supported),
			slog.String("requested", m.Requested),
		)
	}

	a.logger.LogAttrs(context.Background(), SlogLevel(event.Level), event.Message, attrs...)
}

// SlogLevel maps a diagnostic level onto slog. Trace has no slog
// counterpart; it sits between Info and Warn.
func SlogLevel(l Level) slog.Level {
	switch l {
	case LevelWarn:
		return slog.LevelWarn
	case LevelInfo:
		return slog.LevelInfo
	case LevelDebug:
		return slog.LevelDebug
	case LevelTrace:
		return slog.LevelInfo + 2
	default:
		return slog.LevelInfo
	}
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
