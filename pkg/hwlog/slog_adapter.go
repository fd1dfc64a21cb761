package hwlog

import (
	"context"
	"log/slog"
)

// SlogAdapter writes hardware events to an slog.Logger. Useful for
// development when you want to see transitions and cycle data in console
// or a log file.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given
// slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger. Transitions and failures go out
// at Info/Error level, per-cycle data at Debug.
func (a *SlogAdapter) Log(event Event) {
	switch {
	case event.StateChange != nil:
		attrs := []slog.Attr{
			slog.String("old_state", event.StateChange.Old),
			slog.String("new_state", event.StateChange.New),
		}
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
		a.logger.LogAttrs(context.Background(), slog.LevelInfo, "lifecycle", attrs...)

	case event.Cycle != nil:
		attrs := []slog.Attr{slog.String("op", event.Cycle.Op)}
		if event.Cycle.Err != "" {
			attrs = append(attrs, slog.String("error", event.Cycle.Err))
			a.logger.LogAttrs(context.Background(), slog.LevelError, "cycle", attrs...)
			return
		}
		attrs = append(attrs, slog.Any("positions", event.Cycle.Positions))
		a.logger.LogAttrs(context.Background(), slog.LevelDebug, "cycle", attrs...)

	case event.Error != nil:
		a.logger.LogAttrs(context.Background(), slog.LevelError, "hardware",
			slog.String("op", event.Error.Op),
			slog.String("error", event.Error.Message),
		)
	}
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
