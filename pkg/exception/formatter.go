package exception

import "net/http"

// Formatter renders an HTTPError as a response body in one or more content types.
type Formatter interface {
	// Format renders err for req.
	Format(err *HTTPError, req *http.Request) (string, error)

	// ContentTypes returns the content types the formatter produces,
	// in the order they should be registered.
	ContentTypes() []string
}

// FormatterFunc adapts a function to the Formatter interface for a fixed set of content types.
type FormatterFunc struct {
	Types []string
	Fn    func(err *HTTPError, req *http.Request) (string, error)
}

// Format calls f.Fn.
func (f FormatterFunc) Format(err *HTTPError, req *http.Request) (string, error) {
	return f.Fn(err, req)
}

// ContentTypes returns f.Types.
func (f FormatterFunc) ContentTypes() []string {
	return f.Types
}
