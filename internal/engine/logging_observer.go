package engine

import (
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/leengari/recordstore/internal/domain/errors"
)

// LoggingObserver logs operation lifecycle events using structured logging.
// Starts are logged at debug level. Ends are logged at info on success,
// warn when the caller sent a bad request, and error otherwise.
type LoggingObserver struct {
	logger *slog.Logger
}

// NewLoggingObserver creates a new logging observer on the default logger
func NewLoggingObserver() *LoggingObserver {
	return NewLoggingObserverWith(slog.Default())
}

// NewLoggingObserverWith creates a logging observer on the given logger
func NewLoggingObserverWith(logger *slog.Logger) *LoggingObserver {
	return &LoggingObserver{logger: logger}
}

// OnEvent implements the Observer interface
func (lo *LoggingObserver) OnEvent(event Event) {
	switch data := event.Data.(type) {
	case *Operation:
		lo.logger.Debug("operation_lifecycle",
			"event", event.Type,
			"op_id", event.OpID,
			"op", data.Kind,
			"database", data.Database,
			"table", data.Table,
		)

	case Outcome:
		level := slog.LevelInfo
		if data.Err != nil {
			level = slog.LevelError
			if IsCallerError(data.Err) {
				level = slog.LevelWarn
			}
		}

		attrs := []any{
			"event", event.Type,
			"op_id", event.OpID,
			"op", data.Operation.Kind,
			"database", data.Operation.Database,
			"table", data.Operation.Table,
			"duration", data.Duration,
		}
		if data.Err != nil {
			attrs = append(attrs, "error", data.Err)
		}
		lo.logger.Log(context.Background(), level, "operation_lifecycle", attrs...)

	default:
		lo.logger.Info("operation_lifecycle",
			"event", event.Type,
			"op_id", event.OpID,
			"data", event.Data,
		)
	}
}

// IsCallerError reports whether err is one of the expected, caller-facing
// error kinds as opposed to a storage failure
func IsCallerError(err error) bool {
	for _, kind := range []error{
		errors.ErrAlreadyExists,
		errors.ErrNotFound,
		errors.ErrInvalidArgs,
		errors.ErrMissingField,
		errors.ErrInvalidValue,
		errors.ErrIndexOutOfRange,
		errors.ErrSchemaMismatch,
	} {
		if stderrors.Is(err, kind) {
			return true
		}
	}
	return false
}
