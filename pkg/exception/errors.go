package exception

import "errors"

// Configuration errors. They surface at wiring time (AddFormatter, Validate)
// or from Handle when a handler was never given a formatter.
var (
	// ErrNoFormatters indicates a handler has no formatter registered.
	ErrNoFormatters = errors.New("no formatters defined")

	// ErrNoContentTypes indicates a formatter was registered without any usable content type.
	ErrNoContentTypes = errors.New("no content type defined for formatter")

	// ErrNotAcceptable indicates negotiation found no registered type matching the Accept header.
	ErrNotAcceptable = errors.New("no acceptable content type")
)
