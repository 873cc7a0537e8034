package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

// Log is the process-wide logger. It is a no-op logger until Init is called,
// so packages can log from tests without setup.
var Log = zap.NewNop()

// Init builds a production JSON logger at the given level and installs it as Log.
func Init(level string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, err
		}
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	Log = l
	return l, nil
}

// WithRequestID stores the request id so FromContext can tag log lines with it.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// RequestID returns the request id stored in ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// FromContext returns Log annotated with the request id found in ctx.
func FromContext(ctx context.Context) *zap.Logger {
	if id := RequestID(ctx); id != "" {
		return Log.With(zap.String("request_id", id))
	}
	return Log
}
