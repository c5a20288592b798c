package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/gin-exception/internal/platform/logging"
	"github.com/jsamuelsen/gin-exception/pkg/exception"
)

type loggingConfig struct {
	skip          map[string]struct{}
	slowThreshold time.Duration
}

// LoggingOption configures Logging.
type LoggingOption func(*loggingConfig)

// WithSkipPaths disables request logging for the exact paths given.
func WithSkipPaths(paths ...string) LoggingOption {
	return func(cfg *loggingConfig) {
		for _, p := range paths {
			cfg.skip[p] = struct{}{}
		}
	}
}

// WithSlowThreshold raises successful requests slower than d to warn level.
func WithSlowThreshold(d time.Duration) LoggingOption {
	return func(cfg *loggingConfig) {
		cfg.slowThreshold = d
	}
}

// Logging returns middleware logging the start and completion of every
// request with the request-scoped logger. Paths under /-/ are never logged.
//
// The completion record carries the id and code of the exception rendered
// for the request, so it can be joined with the exception's own log record.
// The record level follows the status: error for 5xx, warn for 4xx.
//
// logger is used for requests whose context carries no logger.
func Logging(logger *slog.Logger, opts ...LoggingOption) gin.HandlerFunc {
	cfg := &loggingConfig{skip: map[string]struct{}{}}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, skip := cfg.skip[path]; skip || strings.HasPrefix(path, "/-/") {
			c.Next()
			return
		}

		if c.Request.URL.RawQuery != "" {
			path += "?" + c.Request.URL.RawQuery
		}

		ctx := c.Request.Context()
		reqLogger := logging.FromContext(ctx)
		if !logging.HasLogger(ctx) && logger != nil {
			reqLogger = logger
		}

		reqLogger.Info("request started",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("client_ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
		)

		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.Duration("latency", latency),
			slog.Int("bytes", c.Writer.Size()),
		}
		attrs = appendErrorAttrs(c, attrs)

		level := completionLevel(status)
		if cfg.slowThreshold > 0 && latency > cfg.slowThreshold {
			attrs = append(attrs, slog.Bool("slow", true))
			level = max(level, slog.LevelWarn)
		}

		reqLogger.Log(ctx, level, "request completed", attrs...)
	}
}

func completionLevel(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// appendErrorAttrs adds the last error recorded on c, with its id and code
// when it is an exception.HTTPError.
func appendErrorAttrs(c *gin.Context, attrs []any) []any {
	last := c.Errors.Last()
	if last == nil {
		return attrs
	}

	attrs = append(attrs, slog.String("error", last.Error()))

	var httpErr *exception.HTTPError
	if errors.As(last.Err, &httpErr) {
		attrs = append(attrs,
			slog.String(logging.KeyErrorID, httpErr.ID()),
			slog.String("error_code", httpErr.Code()),
		)
	}

	return attrs
}
