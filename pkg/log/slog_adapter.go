package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes supervisor events to an slog.Logger.
// Useful for development when you want to see bus activity in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	if event.TransactionID != "" {
		attrs = append(attrs, slog.String("txn_id", event.TransactionID))
	}
	if event.UnitID != 0 {
		attrs = append(attrs, slog.Int("unit_id", int(event.UnitID)))
	}
	if event.Category == CategoryFrame || event.Frame != nil {
		attrs = append(attrs, slog.String("direction", event.Direction.String()))
	}

	switch {
	case event.Frame != nil:
		attrs = append(attrs,
			slog.Int("function_code", int(event.Frame.FunctionCode)),
			slog.Int("frame_size", event.Frame.Size),
			slog.Bool("truncated", event.Frame.Truncated),
		)
	case event.Transaction != nil:
		attrs = append(attrs,
			slog.Int("function_code", int(event.Transaction.FunctionCode)),
			slog.Int("address", int(event.Transaction.Address)),
			slog.Int("quantity", int(event.Transaction.Quantity)),
			slog.Bool("success", event.Transaction.Success),
			slog.Duration("elapsed", event.Transaction.Elapsed),
		)
		if event.Transaction.Retried {
			attrs = append(attrs, slog.Bool("retried", true))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("entity", event.StateChange.Entity.String()),
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Discovery != nil:
		attrs = append(attrs,
			slog.Int("current", event.Discovery.Current),
			slog.Int("total", event.Discovery.Total),
			slog.Bool("found", event.Discovery.Found),
		)
	case event.Alert != nil:
		attrs = append(attrs,
			slog.String("code", event.Alert.Code),
			slog.String("level", event.Alert.Level),
			slog.Bool("acknowledged", event.Alert.Acknowledged),
			slog.Bool("auto", event.Alert.Auto),
		)
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "supervisor", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
