package formatter

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/Masterminds/sprig/v3"

	"github.com/jsamuelsen/gin-exception/pkg/exception"
)

const htmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{ .Error.Type }}</title>
  <style>body{margin:0;padding:30px;font:12px/1.5 Helvetica,Arial,Verdana,sans-serif}h1{margin:0;font-size:48px;font-weight:normal;line-height:48px}strong{display:inline-block;width:65px}</style>
</head>
<body>
  <h1>{{ .Error.Type }}</h1>
  <p>{{ .Error.Message }}</p>
  <p><strong>Code</strong> {{ .Error.Code }}<br><strong>ID</strong> {{ .Error.ID }}{{ with .TraceID }}<br><strong>Trace</strong> {{ . }}{{ end }}</p>
  {{- with .Error.Details }}
  <h2>Details</h2>
  <dl>
    {{- range $key := keys . | sortAlpha }}
    <dt>{{ $key }}</dt><dd>{{ index $.Error.Details $key | toString }}</dd>
    {{- end }}
  </dl>
  {{- end }}
  {{- with .Trace }}
  <h2>Stack trace</h2>
  <ol>
    {{- range . }}
    <li>{{ with .Owner }}{{ . }}-&gt;{{ end }}{{ .Function }}() <code>{{ .File }}:{{ .Line }}</code></li>
    {{- end }}
  </ol>
  {{- end }}
</body>
</html>
`

// HTML renders errors as a standalone HTML page.
type HTML struct {
	opts options
	tmpl *template.Template
}

// NewHTML creates an HTML formatter using the default page.
func NewHTML(opts ...Option) *HTML {
	h, err := NewHTMLTemplate(htmlPage, opts...)
	if err != nil {
		panic(err)
	}

	return h
}

// NewHTMLTemplate creates an HTML formatter rendering page, an html/template
// source executed with an *Envelope. Sprig functions are available.
func NewHTMLTemplate(page string, opts ...Option) (*HTML, error) {
	tmpl, err := template.New("exception").Funcs(sprig.HtmlFuncMap()).Parse(page)
	if err != nil {
		return nil, fmt.Errorf("parsing html template: %w", err)
	}

	return &HTML{opts: newOptions(opts), tmpl: tmpl}, nil
}

// ContentTypes implements exception.Formatter.
func (h *HTML) ContentTypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Format implements exception.Formatter.
func (h *HTML) Format(err *exception.HTTPError, req *http.Request) (string, error) {
	var buf bytes.Buffer
	if terr := h.tmpl.Execute(&buf, NewEnvelope(err, req, h.opts.trace)); terr != nil {
		return "", fmt.Errorf("rendering html: %w", terr)
	}

	return buf.String(), nil
}
