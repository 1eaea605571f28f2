package sim

import (
	"context"
	"log/slog"
	"reflect"
)

// LevelTrace is the log level used for per-event traces. It sits just above
// info so that it can be filtered out separately.
const LevelTrace = slog.LevelInfo + 1

// Trace logs a message at the trace level with the default logger.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// EventLogger is an hook that prints the event information
type EventLogger struct {
	logger *slog.Logger
}

// NewEventLogger returns a new EventLogger which will write in to the logger
func NewEventLogger(logger *slog.Logger) *EventLogger {
	h := new(EventLogger)
	h.logger = logger

	return h
}

// Func writes the event information into the logger
func (h *EventLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(Event)
	if !ok {
		return
	}

	args := []any{
		"time", evt.Time(),
		"event", reflect.TypeOf(evt).String(),
	}

	if named, ok := evt.Handler().(Named); ok {
		args = append(args, "handler", named.Name())
	}

	h.logger.Log(context.Background(), LevelTrace, "event", args...)
}
