package quartz

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLoggerIsSilentAndCheap(t *testing.T) {
	l := Logger()
	assert.NotNil(t, l)
	// The nop handler reports disabled at every level so callers skip
	// formatting.
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
}

func TestSetLoggerPropagates(t *testing.T) {
	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	SetLogger(custom)
	t.Cleanup(func() { SetLogger(nil) })

	Logger().Info("engine up")
	assert.Contains(t, buf.String(), "engine up")
}

func TestSetLoggerNilRestoresSilence(t *testing.T) {
	SetLogger(slog.Default())
	SetLogger(nil)
	assert.False(t, Logger().Enabled(context.Background(), slog.LevelError))
}
