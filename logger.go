package quartz

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/quartzengine/quartz/control"
	"github.com/quartzengine/quartz/gpu"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message
// formatting entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any
// goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for the engine and all its
// subpackages. By default the engine produces no log output.
//
// Log levels used by the engine:
//   - [slog.LevelDebug]: internal diagnostics (device state, heuristics)
//   - [slog.LevelInfo]: lifecycle events and preemptive decisions
//   - [slog.LevelWarn]: resource pressure and non-fatal fallbacks
//   - [slog.LevelError]: cascading-failure detection
//
// SetLogger is safe for concurrent use; pass nil to restore silence.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	gpu.SetLogger(l)
	control.SetLogger(l)
}

// Logger returns the current engine logger.
func Logger() *slog.Logger { return loggerPtr.Load() }
