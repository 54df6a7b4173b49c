package log

import (
	"context"

	"github.com/on-the-ground/effect_stack_go/effects"
	"go.uber.org/zap"
)

// Level defines the severity level for log messages.
type Level string

const (
	// LogInfo is used for general informational messages.
	LogInfo Level = "info"

	// LogWarn is used for potentially harmful situations.
	LogWarn Level = "warn"

	// LogError is used for error events that might still allow the application to continue running.
	LogError Level = "error"

	// LogDebug is used for debugging messages with detailed internal information.
	LogDebug Level = "debug"
)

// Payload is the payload structure for the log effect.
// It contains the log level, message string, and optional structured fields.
type Payload struct {
	effects.Base
	Level   Level
	Message string
	Fields  map[string]interface{}
}

// InterpretFinal routes the message to zap's global logger when no log
// scope is active, so logging degrades to the process-wide logger instead
// of hard-failing outside a handler scope.
func (p Payload) InterpretFinal(_ context.Context) (any, error) {
	write(zap.L(), p)
	return nil, nil
}

// WithZapEffectHandler registers a log effect handler backed by the given
// zap.Logger. The logger is synced when the scope exits.
func WithZapEffectHandler(
	ctx context.Context,
	logger *zap.Logger,
) (context.Context, func() context.Context) {
	return effects.WithHandler(
		ctx,
		func(_ context.Context, payload Payload) (any, error) {
			write(logger, payload)
			return nil, nil
		},
		effects.WithName("zap_log_handler"),
		effects.WithOnExit(func() error {
			// console sinks fail fsync with EINVAL; nothing actionable
			_ = logger.Sync()
			return nil
		}),
	)
}

func write(logger *zap.Logger, payload Payload) {
	fields := make([]zap.Field, 0, len(payload.Fields))
	for k, v := range payload.Fields {
		fields = append(fields, zap.Any(k, v))
	}

	switch payload.Level {
	case LogInfo:
		logger.Info(payload.Message, fields...)
	case LogWarn:
		logger.Warn(payload.Message, fields...)
	case LogError:
		logger.Error(payload.Message, fields...)
	case LogDebug:
		logger.Debug(payload.Message, fields...)
	default:
		logger.Info(payload.Message, fields...)
	}
}

// Eff emits a structured log message through the innermost log scope.
func Eff(ctx context.Context, level Level, msg string, fields map[string]interface{}) {
	_, _ = effects.Send(ctx, Payload{
		Level:   level,
		Message: msg,
		Fields:  fields,
	})
}
