package exception

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
)

// Handler turns one HTTPError into a complete response.
type Handler interface {
	Handle(c *gin.Context, err *HTTPError) (*Response, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(c *gin.Context, err *HTTPError) (*Response, error)

// Handle calls f.
func (f HandlerFunc) Handle(c *gin.Context, err *HTTPError) (*Response, error) {
	return f(c, err)
}

// ExceptionHandler negotiates a content type against the registered
// formatters and renders the error with the matching one.
type ExceptionHandler struct {
	negotiator Negotiator
	logger     *slog.Logger
	formatters map[string]Formatter
	// order holds content types in first-registration order; it is the
	// negotiation priority and order[0] is the fallback type.
	order []string
}

// HandlerOption configures an ExceptionHandler.
type HandlerOption func(*ExceptionHandler)

// WithNegotiator replaces the default AcceptNegotiator.
func WithNegotiator(n Negotiator) HandlerOption {
	return func(h *ExceptionHandler) {
		h.negotiator = n
	}
}

// WithHandlerLogger makes the handler report swallowed negotiation failures at debug level.
func WithHandlerLogger(logger *slog.Logger) HandlerOption {
	return func(h *ExceptionHandler) {
		h.logger = logger
	}
}

// NewHandler creates an ExceptionHandler with no formatters.
func NewHandler(opts ...HandlerOption) *ExceptionHandler {
	h := &ExceptionHandler{
		negotiator: AcceptNegotiator(),
		formatters: make(map[string]Formatter),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// AddFormatter registers f under the content types it declares.
func (h *ExceptionHandler) AddFormatter(f Formatter) error {
	return h.register(f, f.ContentTypes())
}

// AddFormatterFor registers f under an explicit list of content types,
// ignoring the types f declares. An empty list is a configuration error.
func (h *ExceptionHandler) AddFormatterFor(f Formatter, contentTypes ...string) error {
	return h.register(f, contentTypes)
}

// MustAddFormatter is like AddFormatter but panics on error.
// Use it for wiring code where a bad formatter should abort startup.
func (h *ExceptionHandler) MustAddFormatter(f Formatter, contentTypes ...string) {
	var err error
	if len(contentTypes) == 0 {
		err = h.AddFormatter(f)
	} else {
		err = h.AddFormatterFor(f, contentTypes...)
	}

	if err != nil {
		panic(err)
	}
}

func (h *ExceptionHandler) register(f Formatter, contentTypes []string) error {
	types := make([]string, 0, len(contentTypes))
	for _, ct := range contentTypes {
		if ct = strings.TrimSpace(ct); ct != "" {
			types = append(types, ct)
		}
	}

	if len(types) == 0 {
		return fmt.Errorf("%w: %T", ErrNoContentTypes, f)
	}

	for _, ct := range types {
		if _, exists := h.formatters[ct]; !exists {
			h.order = append(h.order, ct)
		}

		h.formatters[ct] = f
	}

	return nil
}

// offers lists the registered types with wildcard patterns last, so a
// concrete type wins over a pattern matching the same Accept entry.
func (h *ExceptionHandler) offers() []string {
	offers := make([]string, 0, len(h.order))
	var patterns []string

	for _, ct := range h.order {
		if strings.Contains(ct, "*") {
			patterns = append(patterns, ct)
			continue
		}

		offers = append(offers, ct)
	}

	return append(offers, patterns...)
}

// ContentTypes returns the registered content types in priority order.
func (h *ExceptionHandler) ContentTypes() []string {
	return slices.Clone(h.order)
}

// Formatter returns the formatter registered under contentType.
func (h *ExceptionHandler) Formatter(contentType string) (Formatter, bool) {
	f, ok := h.formatters[contentType]
	return f, ok
}

// Validate reports a configuration error if no formatter is registered.
func (h *ExceptionHandler) Validate() error {
	if len(h.order) == 0 {
		return ErrNoFormatters
	}

	return nil
}

// Handle renders err in the content type negotiated for the request.
func (h *ExceptionHandler) Handle(c *gin.Context, err *HTTPError) (*Response, error) {
	negotiated, verr := h.negotiate(c)
	if verr != nil {
		return nil, verr
	}

	body, ferr := h.formatters[negotiated].Format(err, c.Request)
	if ferr != nil {
		return nil, fmt.Errorf("formatting %s: %w", negotiated, ferr)
	}

	return NewResponse(requestProto(c), err.StatusCode(), normalizeContentType(negotiated), body), nil
}

// ContentType returns the response content type Handle would use for c.
func (h *ExceptionHandler) ContentType(c *gin.Context) (string, error) {
	negotiated, err := h.negotiate(c)
	if err != nil {
		return "", err
	}

	return normalizeContentType(negotiated), nil
}

// negotiate returns the registered content type to use. The result is a
// registration key and may still carry a suffix wildcard.
func (h *ExceptionHandler) negotiate(c *gin.Context) (string, error) {
	if err := h.Validate(); err != nil {
		return "", err
	}

	contentType := h.order[0]

	if c.Request == nil || strings.TrimSpace(c.Request.Header.Get("Accept")) == "" {
		return contentType, nil
	}

	selected, err := h.negotiator.Negotiate(c, h.offers())
	if err != nil {
		if h.logger != nil {
			h.logger.DebugContext(c.Request.Context(), "content negotiation failed, using default type",
				slog.String("accept", c.Request.Header.Get("Accept")),
				slog.String("content_type", contentType),
				slog.Any("error", err),
			)
		}

		return contentType, nil
	}

	if _, ok := h.formatters[selected]; ok {
		contentType = selected
	}

	return contentType, nil
}
