package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/gin-exception/internal/platform/logging"
	"github.com/jsamuelsen/gin-exception/pkg/exception"
)

// ErrorRenderer turns an arbitrary error into a response.
// *exception.Manager implements it.
type ErrorRenderer interface {
	HandleError(c *gin.Context, err error) *exception.Response
}

// PanicError is the error rendered for a recovered panic.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}

	return nil
}

// Recovery returns middleware that recovers from panics.
// On panic, it:
//   - Logs the panic value with the full stack trace at ERROR level
//   - Renders a 500 through renderer, negotiated like any other error
//
// http.ErrAbortHandler is re-raised so the server can abort the connection.
func Recovery(renderer ErrorRenderer) gin.HandlerFunc {
	return RecoveryWithWriter(renderer, nil)
}

// RecoveryWithWriter is Recovery with a callback receiving the panic value and stack.
func RecoveryWithWriter(renderer ErrorRenderer, stackHandler func(err any, stack []byte)) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			if err, ok := r.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(r)
			}

			stack := debug.Stack()

			if stackHandler != nil {
				stackHandler(r, stack)
			}

			// Get context logger (has request_id, correlation_id)
			ctxLogger := logging.FromContext(c.Request.Context())

			var traceID string
			if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
				traceID = span.SpanContext().TraceID().String()
			}

			ctxLogger.Error("panic recovered",
				slog.Any("error", r),
				slog.String("stack", string(stack)),
				slog.String("path", c.Request.URL.Path),
				slog.String("method", c.Request.Method),
				slog.String(logging.KeyTraceID, traceID),
			)

			renderer.HandleError(c, &PanicError{Value: r, Stack: stack}).Render(c)
		}()

		c.Next()
	}
}
