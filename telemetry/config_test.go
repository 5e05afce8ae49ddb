package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.yaml")
	content := `
summary_interval_secs: 30
window_size: 60
frame_time_buckets_ms: [8, 16, 33]
counters:
  - namespace: physics
    name: contacts.total
    description: Contacts resolved
    unit: count
gauges:
  - namespace: physics
    name: bodies.active
    description: Active bodies
    unit: count
    labels:
      island: main
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 30.0, cfg.SummaryIntervalSecs)
	assert.Equal(t, 60, cfg.WindowSize)
	assert.Equal(t, []float64{8, 16, 33}, cfg.FrameTimeBucketsMS)
	require.Len(t, cfg.Counters, 1)
	assert.Equal(t, "physics:contacts.total", cfg.Counters[0].ID().String())
	require.Len(t, cfg.Gauges, 1)
	assert.Equal(t, "physics:bodies.active[island=main]", cfg.Gauges[0].ID().String())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEngineMetricsUpdate(t *testing.T) {
	reg := NewRegistry()
	em, err := NewEngineMetrics(reg, DefaultConfig())
	require.NoError(t, err)

	em.Update(FrameStats{
		FrameTimeMS: 16.2,
		CPUTimeMS:   8.0,
		GPUTimeMS:   7.5,
		DrawCalls:   120,
		VRAMUsedMB:  512,
		VRAMPeakMB:  600,
	})
	em.Update(FrameStats{FrameTimeMS: 17.0, DrawCalls: 80})

	assert.Equal(t, uint64(2), em.FramesTotal.Value())
	assert.Equal(t, uint64(200), em.DrawCalls.Value())
	assert.InDelta(t, 17.0, em.FrameTimeMS.Value(), 1e-9)

	hist, err := reg.Get(NewMetricID("engine", "performance.frame_time_distribution"))
	require.NoError(t, err)
	assert.Len(t, hist.Value.Samples, 2)

	assert.NotEmpty(t, em.SummaryLines())
}

func TestDefaultConfigRegistersCleanly(t *testing.T) {
	reg := NewRegistry()
	_, err := NewEngineMetrics(reg, DefaultConfig())
	require.NoError(t, err)
	// Registering twice must be idempotent.
	_, err = NewEngineMetrics(reg, DefaultConfig())
	require.NoError(t, err)
}
