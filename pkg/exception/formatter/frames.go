package formatter

import (
	"runtime"
	"strings"

	"github.com/jsamuelsen/gin-exception/pkg/exception"
)

// Frame is one resolved entry of an error's call stack.
type Frame struct {
	// Owner is the receiver of a method, e.g. "handlers.(*Demo)". Empty for functions.
	Owner    string `json:"owner,omitempty" xml:"owner,attr,omitempty" yaml:"owner,omitempty"`
	Function string `json:"function" xml:"function,attr" yaml:"function"`
	File     string `json:"file" xml:"file,attr" yaml:"file"`
	Line     int    `json:"line" xml:"line,attr" yaml:"line"`
}

// Frames resolves the call stack captured when err was created.
func Frames(err *exception.HTTPError) []Frame {
	pcs := err.Stack()
	if len(pcs) == 0 {
		return nil
	}

	frames := make([]Frame, 0, len(pcs))
	iter := runtime.CallersFrames(pcs)

	for {
		f, more := iter.Next()
		if f.Function != "" {
			owner, function := splitFunction(f.Function)
			frames = append(frames, Frame{
				Owner:    owner,
				Function: function,
				File:     f.File,
				Line:     f.Line,
			})
		}

		if !more {
			break
		}
	}

	return frames
}

// splitFunction splits a fully qualified function name into a short
// receiver and the method name:
//
//	github.com/a/b/pkg.(*T).Do -> pkg.(*T), Do
//	github.com/a/b/pkg.Do      -> "", pkg.Do
func splitFunction(name string) (owner, function string) {
	short := name
	if i := strings.LastIndex(short, "/"); i >= 0 {
		short = short[i+1:]
	}

	dot := strings.Index(short, ".")
	if dot < 0 {
		return "", short
	}

	pkg, rest := short[:dot], short[dot+1:]
	if strings.HasPrefix(rest, "(") {
		if end := strings.Index(rest, ")."); end >= 0 {
			return pkg + "." + rest[:end+1], rest[end+2:]
		}
	}

	return "", short
}
