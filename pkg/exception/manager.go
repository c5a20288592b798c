package exception

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
)

// LevelAlert is the severity of errors wrapping an unexpected failure.
// It sits above slog.LevelError.
const LevelAlert = slog.LevelError + 4

// HeaderRequestID is read to correlate manager-built errors with the request.
const HeaderRequestID = "X-Request-ID"

// Observer is notified of every error response the manager produces.
type Observer interface {
	ObserveException(ctx context.Context, err *HTTPError, resp *Response)
}

// Manager routes errors to the handler registered for their status code,
// falling back to a default handler, and logs them.
type Manager struct {
	defaultHandler Handler
	handlers       map[int]Handler
	logger         func(ctx context.Context) *slog.Logger
	observer       Observer
	bundle         *i18n.Bundle
	requestID      func(c *gin.Context) string
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger. Without one, logging is skipped.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger == nil {
			m.logger = nil
			return
		}

		m.logger = func(context.Context) *slog.Logger { return logger }
	}
}

// WithContextLogger resolves the logger from the request context, so errors
// are logged with whatever attributes earlier middleware attached.
func WithContextLogger(fn func(ctx context.Context) *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = fn
	}
}

// WithObserver registers an observer for produced responses.
func WithObserver(o Observer) ManagerOption {
	return func(m *Manager) {
		m.observer = o
	}
}

// WithBundle localizes the manager's default messages.
func WithBundle(bundle *i18n.Bundle) ManagerOption {
	return func(m *Manager) {
		m.bundle = bundle
	}
}

// WithRequestIDFunc overrides how the correlation id of manager-built errors is found.
func WithRequestIDFunc(fn func(c *gin.Context) string) ManagerOption {
	return func(m *Manager) {
		m.requestID = fn
	}
}

// NewManager creates a Manager around a default handler.
// It panics if defaultHandler is nil.
func NewManager(defaultHandler Handler, opts ...ManagerOption) *Manager {
	if defaultHandler == nil {
		panic("exception: nil default handler")
	}

	m := &Manager{
		defaultHandler: defaultHandler,
		handlers:       make(map[int]Handler),
		requestID:      requestIDFromHeaders,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// AddHandler registers h for status, replacing any previous registration.
func (m *Manager) AddHandler(status int, h Handler) {
	m.handlers[status] = h
}

// Handler returns the handler used for status.
func (m *Manager) Handler(status int) Handler {
	if h, ok := m.handlers[status]; ok {
		return h
	}

	return m.defaultHandler
}

// HandleError renders any error. Errors that are not HTTPErrors are wrapped
// into a 500 that keeps them as cause.
func (m *Manager) HandleError(c *gin.Context, err error) *Response {
	httpErr := Wrap(err, m.errorID(c))
	if httpErr == nil {
		httpErr = InternalServerError("", m.errorID(c))
	}

	if httpErr.Unexpected() && httpErr.Message() == defaultMessage(http.StatusInternalServerError) {
		// Rebuild with a localized message; the cause and id are kept.
		msg := m.localize(c, MessageInternalServerError, nil, httpErr.Message())
		if msg != httpErr.Message() {
			httpErr = InternalServerError(msg,
				WithID(httpErr.ID()),
				WithCause(httpErr.Cause()),
				WithMetadata(httpErr.Metadata()),
			)
		}
	}

	return m.HandleHTTPError(c, httpErr)
}

// HandleNotFound renders a not-found error. OPTIONS requests get a plain
// 200 instead so preflight requests never fail.
func (m *Manager) HandleNotFound(c *gin.Context) *Response {
	msg := m.localize(c, MessageNotFound, nil, defaultMessage(http.StatusNotFound))

	if isOptions(c) {
		return NewResponse(requestProto(c), http.StatusOK, "text/plain", msg)
	}

	return m.HandleHTTPError(c, NotFound(msg, m.errorID(c)))
}

// HandleNotAllowed renders a method-not-allowed error listing allowed.
// OPTIONS requests get a 200 listing the allowed methods instead.
func (m *Manager) HandleNotAllowed(c *gin.Context, allowed []string) *Response {
	list := strings.Join(allowed, ", ")

	var resp *Response
	if isOptions(c) {
		msg := m.localize(c, MessageAllowedMethods, map[string]any{"Allowed": list},
			"Allowed methods: "+list)
		resp = NewResponse(requestProto(c), http.StatusOK, "text/plain", msg)
	} else {
		method := c.Request.Method
		msg := m.localize(c, MessageMethodNotAllowed, map[string]any{"Method": method, "Allowed": list},
			fmt.Sprintf("Method %s not allowed. Must be one of: %s", method, list))
		resp = m.HandleHTTPError(c, MethodNotAllowed(msg,
			m.errorID(c),
			WithMetadata(map[string]any{"allowed_methods": allowed}),
		))
	}

	if list != "" {
		resp.Header.Set("Allow", list)
	}

	return resp
}

// HandleHTTPError logs err and renders it with the handler registered for
// its status code. A failing handler yields a plain-text 500.
func (m *Manager) HandleHTTPError(c *gin.Context, err *HTTPError) *Response {
	m.logException(c, err)

	resp, herr := m.Handler(err.StatusCode()).Handle(c, err)
	if herr != nil {
		m.logHandlerFailure(c, err, herr)
		resp = NewResponse(requestProto(c), http.StatusInternalServerError, "text/plain",
			m.localize(c, MessageInternalServerError, nil, defaultMessage(http.StatusInternalServerError)))
	}

	if m.observer != nil {
		m.observer.ObserveException(requestContext(c), err, resp)
	}

	return resp
}

// Severity returns the log level used for err.
func Severity(err *HTTPError) slog.Level {
	if err.Unexpected() {
		return LevelAlert
	}

	return slog.LevelError
}

func (m *Manager) logException(c *gin.Context, err *HTTPError) {
	// A broken log handler must not affect the response.
	defer func() { _ = recover() }()

	logger := m.loggerFor(c)
	if logger == nil {
		return
	}

	attrs := []any{
		slog.String("error_id", err.ID()),
		slog.Int("status", err.StatusCode()),
		slog.String("type", err.Type()),
	}
	if c.Request != nil {
		attrs = append(attrs,
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
		)
	}
	if cause := err.Cause(); cause != nil {
		attrs = append(attrs, slog.String("cause", cause.Error()))
	}

	logger.Log(requestContext(c), Severity(err), err.Message(), attrs...)
}

func (m *Manager) logHandlerFailure(c *gin.Context, err *HTTPError, herr error) {
	defer func() { _ = recover() }()

	logger := m.loggerFor(c)
	if logger == nil {
		return
	}

	logger.Log(requestContext(c), LevelAlert, "exception handler failed",
		slog.String("error_id", err.ID()),
		slog.Int("status", err.StatusCode()),
		slog.Any("error", herr),
	)
}

func (m *Manager) loggerFor(c *gin.Context) *slog.Logger {
	if m.logger == nil {
		return nil
	}

	return m.logger(requestContext(c))
}

func (m *Manager) errorID(c *gin.Context) Option {
	return WithID(m.requestID(c))
}

func requestIDFromHeaders(c *gin.Context) string {
	if id := c.Writer.Header().Get(HeaderRequestID); id != "" {
		return id
	}

	if c.Request != nil {
		return c.Request.Header.Get(HeaderRequestID)
	}

	return ""
}

func requestContext(c *gin.Context) context.Context {
	if c.Request == nil {
		return context.Background()
	}

	return c.Request.Context()
}

func isOptions(c *gin.Context) bool {
	return c.Request != nil && c.Request.Method == http.MethodOptions
}
