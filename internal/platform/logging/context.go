package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Attribute keys shared by the request middleware and the exception manager.
const (
	KeyRequestID     = "request_id"
	KeyCorrelationID = "correlation_id"
	KeyTraceID       = "trace_id"
	KeyErrorID       = "error_id"
)

type ctxKey struct{}

var defaultLogger atomic.Pointer[slog.Logger]

func init() {
	defaultLogger.Store(slog.Default())
}

// FromContext returns the request logger stored in ctx, or the default
// logger when there is none. ctx may be nil.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
			return logger
		}
	}

	return defaultLogger.Load()
}

// HasLogger reports whether ctx carries a request logger.
func HasLogger(ctx context.Context) bool {
	if ctx == nil {
		return false
	}

	_, ok := ctx.Value(ctxKey{}).(*slog.Logger)

	return ok
}

// WithContext stores a logger in the context.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// WithAttrs returns a context whose logger carries attrs on every record.
func WithAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}

	return WithContext(ctx, FromContext(ctx).With(args...))
}

// WithRequestID adds the request id to the context logger.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return WithAttrs(ctx, slog.String(KeyRequestID, requestID))
}

// WithTraceID adds the trace id to the context logger.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return WithAttrs(ctx, slog.String(KeyTraceID, traceID))
}

// WithCorrelationID adds the correlation id to the context logger.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return WithAttrs(ctx, slog.String(KeyCorrelationID, correlationID))
}

// SetDefault sets the logger used when no logger is in context, and the
// slog default.
func SetDefault(logger *slog.Logger) {
	defaultLogger.Store(logger)
	slog.SetDefault(logger)
}
