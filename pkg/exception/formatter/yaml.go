package formatter

import (
	"fmt"
	"net/http"

	"gopkg.in/yaml.v3"

	"github.com/jsamuelsen/gin-exception/pkg/exception"
)

// YAML renders errors as a YAML Envelope.
type YAML struct {
	opts options
}

// NewYAML creates a YAML formatter.
func NewYAML(opts ...Option) *YAML {
	return &YAML{opts: newOptions(opts)}
}

// ContentTypes implements exception.Formatter.
func (y *YAML) ContentTypes() []string {
	return []string{"application/x-yaml", "application/yaml", "text/yaml"}
}

// Format implements exception.Formatter.
func (y *YAML) Format(err *exception.HTTPError, req *http.Request) (string, error) {
	out, merr := yaml.Marshal(NewEnvelope(err, req, y.opts.trace))
	if merr != nil {
		return "", fmt.Errorf("encoding yaml: %w", merr)
	}

	return string(out), nil
}
