package middleware

import (
	"context"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/gin-exception/internal/platform/logging"
)

const (
	// HeaderRequestID carries the per-request id. It doubles as the id of
	// every error rendered for the request.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID carries the id of the business transaction a
	// request belongs to, propagated across services.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyRequestID is the gin context key of the request id.
	ContextKeyRequestID = "request_id"

	// ContextKeyCorrelationID is the gin context key of the correlation id.
	ContextKeyCorrelationID = "correlation_id"
)

type contextKey string

const (
	ctxKeyRequestID     contextKey = "request_id"
	ctxKeyCorrelationID contextKey = "correlation_id"
)

// Incoming ids are echoed in headers and error bodies, so only short
// token-like values are accepted.
var validID = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

type idConfig struct {
	header     string
	key        string
	ctxKey     contextKey
	enrich     func(ctx context.Context, id string) context.Context
	fallbackID func(c *gin.Context) string
}

// RequestID returns middleware that takes the request id from the
// X-Request-ID header or generates a UUID v4 when the header is missing or
// malformed. The id is stored in the gin and request contexts, echoed in
// the response header and attached to the request logger.
func RequestID() gin.HandlerFunc {
	return idMiddleware(idConfig{
		header: HeaderRequestID,
		key:    ContextKeyRequestID,
		ctxKey: ctxKeyRequestID,
		enrich: logging.WithRequestID,
	})
}

// CorrelationID returns middleware that propagates the X-Correlation-ID
// header. A request without one starts a new transaction identified by its
// request id, or by a fresh UUID v4 when RequestID did not run first.
func CorrelationID() gin.HandlerFunc {
	return idMiddleware(idConfig{
		header:     HeaderCorrelationID,
		key:        ContextKeyCorrelationID,
		ctxKey:     ctxKeyCorrelationID,
		enrich:     logging.WithCorrelationID,
		fallbackID: GetRequestID,
	})
}

func idMiddleware(cfg idConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(cfg.header)

		if id != "" && !validID.MatchString(id) {
			logging.FromContext(c.Request.Context()).Debug("ignoring malformed id header",
				"header", cfg.header,
				"length", len(id),
			)

			id = ""
		}

		if id == "" && cfg.fallbackID != nil {
			id = cfg.fallbackID(c)
		}

		if id == "" {
			id = uuid.New().String()
		}

		c.Set(cfg.key, id)
		c.Header(cfg.header, id)

		ctx := context.WithValue(c.Request.Context(), cfg.ctxKey, id)
		if cfg.enrich != nil {
			ctx = cfg.enrich(ctx, id)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetRequestID returns the request id, or "" when RequestID did not run.
// It is the error id source of the exception manager.
func GetRequestID(c *gin.Context) string {
	return getIDFromContext(c, ContextKeyRequestID)
}

// GetCorrelationID returns the correlation id, or "" when CorrelationID did not run.
func GetCorrelationID(c *gin.Context) string {
	return getIDFromContext(c, ContextKeyCorrelationID)
}

// RequestIDFromContext returns the request id stored in ctx.
func RequestIDFromContext(ctx context.Context) string {
	return idFromContext(ctx, ctxKeyRequestID)
}

// CorrelationIDFromContext returns the correlation id stored in ctx.
func CorrelationIDFromContext(ctx context.Context) string {
	return idFromContext(ctx, ctxKeyCorrelationID)
}

func getIDFromContext(c *gin.Context, key string) string {
	if id, exists := c.Get(key); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}

	return ""
}

func idFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(key).(string)

	return id
}
