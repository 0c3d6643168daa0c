package interp

import (
	"context"
	"log/slog"
	"sync/atomic"
)

type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (d discard) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discard) WithGroup(string) slog.Handler           { return d }

var silent = slog.New(discard{})

var pkgLogger atomic.Pointer[slog.Logger] // nil means silent

// SetLogger sets the logger of the programs loaded without WithLogger.
// Programs only emit debug records. Nil, the default, disables logging.
func SetLogger(l *slog.Logger) { pkgLogger.Store(l) }

// Logger returns the logger set with SetLogger, or one discarding everything.
func Logger() *slog.Logger {
	if l := pkgLogger.Load(); l != nil {
		return l
	}
	return silent
}
