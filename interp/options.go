package interp

import (
	"log/slog"

	"github.com/benoitkugler/bcdraw/bytecode"
)

const (
	// DefaultMaxDepth is the default limit on nested subroutine calls.
	DefaultMaxDepth = 64
	// DefaultMaxCalls is the default limit on the number of subroutine
	// calls made by one Draw.
	DefaultMaxCalls = 1 << 20
)

// Option configures the loading and execution of a program.
type Option func(*options)

type options struct {
	format   bytecode.Format
	maxDepth int
	maxCalls int
	logger   *slog.Logger
}

func defaultOptions() options {
	return options{
		format:   bytecode.DefaultFormat,
		maxDepth: DefaultMaxDepth,
		maxCalls: DefaultMaxCalls,
		logger:   nil, // Logger() at Load
	}
}

func newOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = Logger()
	}
	return o
}

// WithFormat sets the widths of the ids and lengths of the stream.
func WithFormat(format bytecode.Format) Option {
	return func(o *options) {
		o.format = format
	}
}

// WithMaxDepth sets the maximum nesting of subroutine calls.
// The top level program has depth 0. A negative value removes the limit.
//
// The depth alone does not bound the execution time: a subroutine calling
// another one twice, repeated over n levels, runs 2^n calls. See WithMaxCalls.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithMaxCalls sets the maximum number of subroutine calls
// made by one Draw, at any depth. A negative value removes the limit.
func WithMaxCalls(calls int) Option {
	return func(o *options) {
		o.maxCalls = calls
	}
}

// WithLogger sets the logger used instead of the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
