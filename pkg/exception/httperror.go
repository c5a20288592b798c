package exception

import (
	"errors"
	"maps"
	"net/http"
	"runtime"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// maxStackDepth bounds the number of program counters captured per error.
const maxStackDepth = 32

// HTTPError is an error that drives an HTTP error response.
// It is immutable once constructed; accessors return copies of mutable state.
type HTTPError struct {
	id       string
	status   int
	message  string
	title    string
	cause    error
	metadata map[string]any
	stack    []uintptr
}

// Option configures an HTTPError at construction time.
type Option func(*HTTPError)

// WithTitle sets the classification label. Defaults to the status text.
func WithTitle(title string) Option {
	return func(e *HTTPError) {
		e.title = title
	}
}

// WithCause attaches the original error. Errors with a cause are treated
// as unexpected and logged at alert severity.
func WithCause(err error) Option {
	return func(e *HTTPError) {
		e.cause = err
	}
}

// WithMetadata attaches arbitrary metadata. The map is copied.
func WithMetadata(metadata map[string]any) Option {
	return func(e *HTTPError) {
		if len(metadata) == 0 {
			return
		}

		if e.metadata == nil {
			e.metadata = make(map[string]any, len(metadata))
		}

		maps.Copy(e.metadata, metadata)
	}
}

// WithID sets the correlation identifier. A random UUID is used otherwise.
func WithID(id string) Option {
	return func(e *HTTPError) {
		e.id = id
	}
}

// New creates an HTTPError. Status codes outside the 4xx/5xx range are
// coerced to 500. An empty message is replaced by the status default.
func New(status int, message string, opts ...Option) *HTTPError {
	return build(status, message, opts)
}

// build is called directly by every constructor so the captured stack
// always starts at the constructor's caller.
func build(status int, message string, opts []Option) *HTTPError {
	if status < http.StatusBadRequest || status > 599 {
		status = http.StatusInternalServerError
	}

	if message == "" {
		message = defaultMessage(status)
	}

	e := &HTTPError{
		status:  status,
		message: message,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.id == "" {
		e.id = uuid.NewString()
	}

	pcs := make([]uintptr, maxStackDepth)
	// Skip runtime.Callers, build and the exported constructor.
	n := runtime.Callers(3, pcs)
	e.stack = pcs[:n]

	return e
}

// Wrap converts err into an HTTPError. An HTTPError anywhere in the chain is
// returned as is; anything else becomes a 500 carrying err as its cause.
// Wrap returns nil for a nil error.
func Wrap(err error, opts ...Option) *HTTPError {
	if err == nil {
		return nil
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	return build(http.StatusInternalServerError, "", append([]Option{WithCause(err)}, opts...))
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return e.message
}

// Unwrap returns the original error, if any.
func (e *HTTPError) Unwrap() error {
	return e.cause
}

// ID returns the correlation identifier.
func (e *HTTPError) ID() string {
	return e.id
}

// StatusCode returns the HTTP status code.
func (e *HTTPError) StatusCode() int {
	return e.status
}

// HTTPStatus returns the HTTP status code. It lets formatters that look for
// a status-carrying error recognize HTTPError.
func (e *HTTPError) HTTPStatus() int {
	return e.status
}

// Message returns the human-readable message.
func (e *HTTPError) Message() string {
	return e.message
}

// Title returns the classification label.
func (e *HTTPError) Title() string {
	if e.title != "" {
		return e.title
	}

	if text := http.StatusText(e.status); text != "" {
		return text
	}

	return "HTTP Error " + strconv.Itoa(e.status)
}

// Type is an alias of Title used by text output.
func (e *HTTPError) Type() string {
	return e.Title()
}

// Code returns a machine-readable code derived from the status, e.g. NOT_FOUND.
func (e *HTTPError) Code() string {
	text := http.StatusText(e.status)
	if text == "" {
		return "HTTP_" + strconv.Itoa(e.status)
	}

	return strings.ToUpper(strings.NewReplacer(" ", "_", "-", "_", "'", "").Replace(text))
}

// Cause returns the original error, if any.
func (e *HTTPError) Cause() error {
	return e.cause
}

// Unexpected reports whether the error wraps an original error.
func (e *HTTPError) Unexpected() bool {
	return e.cause != nil
}

// Metadata returns a copy of the attached metadata.
func (e *HTTPError) Metadata() map[string]any {
	if len(e.metadata) == 0 {
		return nil
	}

	return maps.Clone(e.metadata)
}

// Details returns the metadata as an untyped value for structured formatters.
func (e *HTTPError) Details() any {
	if len(e.metadata) == 0 {
		return nil
	}

	return e.Metadata()
}

// Stack returns the program counters captured when the error was created.
func (e *HTTPError) Stack() []uintptr {
	return append([]uintptr(nil), e.stack...)
}

// defaultMessage returns the sentence-cased status text, e.g. "Not found".
func defaultMessage(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "HTTP error"
	}

	return text[:1] + strings.ToLower(text[1:])
}
