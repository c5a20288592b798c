package formatter

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/gin-exception/pkg/exception"
)

// Envelope is the document rendered by the JSON, XML and YAML formatters.
type Envelope struct {
	XMLName xml.Name `json:"-" xml:"error" yaml:"-"`

	Error   ErrorDetail `json:"error" xml:"detail" yaml:"error"`
	TraceID string      `json:"traceId,omitempty" xml:"traceId,attr,omitempty" yaml:"traceId,omitempty"`
	Trace   []Frame     `json:"trace,omitempty" xml:"trace>frame,omitempty" yaml:"trace,omitempty"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	ID string `json:"id" xml:"id,attr" yaml:"id"`

	// Code is a machine-readable error code, e.g. "NOT_FOUND".
	Code string `json:"code" xml:"code" yaml:"code"`

	Type    string `json:"type" xml:"type" yaml:"type"`
	Message string `json:"message" xml:"message" yaml:"message"`

	// Details carries the error metadata.
	Details Metadata `json:"details,omitempty" xml:"details,omitempty" yaml:"details,omitempty"`
}

// NewEnvelope builds the document describing err. The trace id of the
// request span is included when one is recording.
func NewEnvelope(err *exception.HTTPError, req *http.Request, withTrace bool) *Envelope {
	env := &Envelope{
		Error: ErrorDetail{
			ID:      err.ID(),
			Code:    err.Code(),
			Type:    err.Type(),
			Message: err.Message(),
			Details: err.Metadata(),
		},
	}

	if req != nil {
		if span := trace.SpanFromContext(req.Context()); span.SpanContext().HasTraceID() {
			env.TraceID = span.SpanContext().TraceID().String()
		}
	}

	if withTrace {
		env.Trace = Frames(err)
	}

	return env
}

// JSON renders errors as an Envelope.
type JSON struct {
	opts options
}

// NewJSON creates a JSON formatter.
func NewJSON(opts ...Option) *JSON {
	return &JSON{opts: newOptions(opts)}
}

// ContentTypes implements exception.Formatter.
func (j *JSON) ContentTypes() []string {
	return []string{
		"application/json",
		"text/json",
		"application/x-json",
		"application/*+json",
	}
}

// Format implements exception.Formatter.
func (j *JSON) Format(err *exception.HTTPError, req *http.Request) (string, error) {
	out, merr := json.Marshal(NewEnvelope(err, req, j.opts.trace))
	if merr != nil {
		return "", fmt.Errorf("encoding json: %w", merr)
	}

	return string(out), nil
}
