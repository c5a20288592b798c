package formatter

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/jsamuelsen/gin-exception/pkg/exception"
)

// dumpPrefix indents argument dumps under their frame.
const dumpPrefix = "   | "

// Text renders errors as a single plain-text line with an optional trace:
//
//	(<id>) <type>: <message>
type Text struct {
	opts options
	dump *spew.ConfigState
}

// NewText creates a plain-text formatter.
func NewText(opts ...Option) *Text {
	return &Text{
		opts: newOptions(opts),
		dump: &spew.ConfigState{
			Indent:                  "  ",
			SortKeys:                true,
			DisablePointerAddresses: true,
			DisableCapacities:       true,
		},
	}
}

// ContentTypes implements exception.Formatter.
func (t *Text) ContentTypes() []string {
	return []string{"text/plain"}
}

// Format implements exception.Formatter.
func (t *Text) Format(err *exception.HTTPError, _ *http.Request) (string, error) {
	var trace string
	if t.opts.trace {
		trace = "\n" + t.stackTrace(err)
	}

	return fmt.Sprintf("(%s) %s: %s%s\n", err.ID(), err.Type(), err.Message(), trace), nil
}

func (t *Text) stackTrace(err *exception.HTTPError) string {
	var b strings.Builder
	b.WriteString("Stack trace:\n")

	var args string
	if metadata := err.Metadata(); t.opts.traceArgs > 0 && metadata != nil {
		args = t.arguments(metadata)
	}

	for i, f := range Frames(err) {
		line := i + 1

		if f.Owner != "" {
			fmt.Fprintf(&b, "\n%3d. %s->%s() %s:%d", line, f.Owner, f.Function, f.File, f.Line)
		} else {
			fmt.Fprintf(&b, "\n%3d. %s() %s:%d", line, f.Function, f.File, f.Line)
		}

		if args != "" && line <= t.opts.traceArgs {
			b.WriteString(args)
		}
	}

	return b.String()
}

func (t *Text) arguments(metadata map[string]any) string {
	dump := t.dump.Sdump(metadata)
	if len(dump) > t.opts.argsLimit {
		return fmt.Sprintf("\n%sArguments dump length greater than %d Bytes. Discarded.", dumpPrefix, t.opts.argsLimit)
	}

	lines := strings.Split(strings.TrimRight(dump, "\n"), "\n")
	for i := range lines {
		lines[i] = dumpPrefix + lines[i]
	}

	return "\n" + strings.Join(lines, "\n")
}
