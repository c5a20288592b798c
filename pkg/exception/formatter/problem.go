package formatter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	rerrors "rivaas.dev/errors"

	"github.com/jsamuelsen/gin-exception/pkg/exception"
)

// Problem renders RFC 9457 problem details. The error id becomes the
// error_id extension and the request path the instance.
type Problem struct {
	baseURL string
	opts    options
}

// NewProblem creates a problem details formatter. Problem types are
// <baseURL>/<CODE>; an empty baseURL yields bare codes.
func NewProblem(baseURL string, opts ...Option) *Problem {
	return &Problem{baseURL: baseURL, opts: newOptions(opts)}
}

// ContentTypes implements exception.Formatter.
func (p *Problem) ContentTypes() []string {
	return []string{"application/problem+json"}
}

// Format implements exception.Formatter.
func (p *Problem) Format(err *exception.HTTPError, req *http.Request) (string, error) {
	f := rerrors.NewRFC9457(p.baseURL)
	f.ErrorIDGenerator = err.ID

	resp := f.Format(requestOrEmpty(req), err)

	body := resp.Body
	if pd, ok := body.(rerrors.ProblemDetail); ok {
		pd.Title = err.Title()
		if err.Metadata() == nil {
			delete(pd.Extensions, "errors")
		}
		if p.opts.trace {
			pd.Extensions["trace"] = Frames(err)
		}
		body = pd
	}

	out, merr := json.Marshal(body)
	if merr != nil {
		return "", fmt.Errorf("encoding problem details: %w", merr)
	}

	return string(out), nil
}

func requestOrEmpty(req *http.Request) *http.Request {
	if req != nil {
		return req
	}

	return &http.Request{URL: &url.URL{Path: "/"}}
}
