package formatter

// DefaultArgsLimit is the byte budget of a single argument dump in text traces.
const DefaultArgsLimit = 1 << 20

// Option configures a formatter.
type Option func(*options)

type options struct {
	trace     bool
	traceArgs int
	argsLimit int
}

func newOptions(opts []Option) options {
	o := options{argsLimit: DefaultArgsLimit}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithTrace includes the stack captured by the error in the output.
func WithTrace(enabled bool) Option {
	return func(o *options) {
		o.trace = enabled
	}
}

// WithTraceArgs attaches the error metadata dump to the first n frames of a
// text trace. Zero disables the dumps.
func WithTraceArgs(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.traceArgs = n
		}
	}
}

// WithArgsLimit bounds an argument dump to limit bytes. Larger dumps are
// replaced by a notice.
func WithArgsLimit(limit int) Option {
	return func(o *options) {
		if limit > 0 {
			o.argsLimit = limit
		}
	}
}
