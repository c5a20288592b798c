package formatter

import (
	"encoding/json"
	"fmt"
	"net/http"

	rerrors "rivaas.dev/errors"

	"github.com/jsamuelsen/gin-exception/pkg/exception"
)

// JSONAPI renders JSON:API error documents.
type JSONAPI struct {
	opts options
}

// NewJSONAPI creates a JSON:API formatter.
func NewJSONAPI(opts ...Option) *JSONAPI {
	return &JSONAPI{opts: newOptions(opts)}
}

// ContentTypes implements exception.Formatter.
func (j *JSONAPI) ContentTypes() []string {
	return []string{"application/vnd.api+json"}
}

type jsonAPIDocument struct {
	Errors []map[string]any `json:"errors"`
	Meta   map[string]any   `json:"meta,omitempty"`
}

// Format implements exception.Formatter.
func (j *JSONAPI) Format(err *exception.HTTPError, req *http.Request) (string, error) {
	var subject error = err
	if err.Metadata() == nil {
		subject = codedError{err}
	}

	resp := rerrors.NewJSONAPI().Format(requestOrEmpty(req), subject)

	// Re-decode to stamp the error id on every entry.
	raw, merr := json.Marshal(resp.Body)
	if merr != nil {
		return "", fmt.Errorf("encoding json:api document: %w", merr)
	}

	var doc jsonAPIDocument
	if uerr := json.Unmarshal(raw, &doc); uerr != nil {
		return "", fmt.Errorf("decoding json:api document: %w", uerr)
	}

	for _, e := range doc.Errors {
		e["id"] = err.ID()
		e["title"] = err.Title()
	}

	if j.opts.trace {
		doc.Meta = map[string]any{"trace": Frames(err)}
	}

	out, merr := json.Marshal(doc)
	if merr != nil {
		return "", fmt.Errorf("encoding json:api document: %w", merr)
	}

	return string(out), nil
}

// codedError hides Details so errors without metadata render as a single
// plain JSON:API entry.
type codedError struct {
	err *exception.HTTPError
}

func (e codedError) Error() string   { return e.err.Error() }
func (e codedError) HTTPStatus() int { return e.err.StatusCode() }
func (e codedError) Code() string    { return e.err.Code() }
