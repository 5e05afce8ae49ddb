package telemetry

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes the engine metric set registered at startup. It is
// usually loaded from a YAML file shipped with the application.
type Config struct {
	// SummaryIntervalSecs is the period between logged summaries.
	SummaryIntervalSecs float64 `yaml:"summary_interval_secs"`

	// WindowSize bounds the rolling sample windows kept by consumers
	// of the registry (frame-time analysis and similar).
	WindowSize int `yaml:"window_size"`

	// FrameTimeBucketsMS are the histogram bucket upper bounds, in
	// milliseconds, for the frame-time distribution.
	FrameTimeBucketsMS []float64 `yaml:"frame_time_buckets_ms"`

	// Counters and Gauges are additional metrics to pre-register.
	Counters []MetricSpec `yaml:"counters"`
	Gauges   []MetricSpec `yaml:"gauges"`
}

// MetricSpec names one metric in a Config.
type MetricSpec struct {
	Namespace   string            `yaml:"namespace"`
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Unit        string            `yaml:"unit"`
	Labels      map[string]string `yaml:"labels"`
}

// ID builds the MetricID for the spec.
func (s MetricSpec) ID() MetricID {
	id := NewMetricID(s.Namespace, s.Name)
	for k, v := range s.Labels {
		id = id.WithLabel(k, v)
	}
	return id
}

// DefaultConfig returns the built-in engine metric set.
func DefaultConfig() Config {
	return Config{
		SummaryIntervalSecs: DefaultSummaryInterval.Seconds(),
		WindowSize:          120,
		FrameTimeBucketsMS:  []float64{4, 8, 16.66, 33.33, 50, 100, 200},
		Counters: []MetricSpec{
			{Namespace: "engine", Name: "frames.total", Description: "Total frames presented", Unit: "count"},
			{Namespace: "renderer", Name: "draw_calls.total", Description: "Total draw calls issued", Unit: "count"},
		},
		Gauges: []MetricSpec{
			{Namespace: "engine", Name: "performance.frame_time_ms", Description: "Last frame time", Unit: "ms"},
			{Namespace: "engine", Name: "performance.cpu_time_ms", Description: "Last frame CPU time", Unit: "ms"},
			{Namespace: "engine", Name: "performance.gpu_time_ms", Description: "Last frame GPU time", Unit: "ms"},
			{Namespace: "memory", Name: "vram.used_mb", Description: "Allocated video memory", Unit: "MB"},
			{Namespace: "memory", Name: "vram.peak_mb", Description: "Peak video memory", Unit: "MB"},
		},
	}
}

// LoadConfig reads a Config from a YAML file. Missing fields fall back
// to DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("telemetry: read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("telemetry: parse config: %w", err)
	}
	if cfg.SummaryIntervalSecs <= 0 {
		cfg.SummaryIntervalSecs = DefaultSummaryInterval.Seconds()
	}
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = 120
	}
	return cfg, nil
}

// EngineMetrics bundles the pre-registered engine metric handles for
// the hot per-frame update path.
type EngineMetrics struct {
	registry  *Registry
	scheduler *Scheduler

	FramesTotal  CounterHandle
	DrawCalls    CounterHandle
	FrameTimeMS  GaugeHandle
	CPUTimeMS    GaugeHandle
	GPUTimeMS    GaugeHandle
	VRAMUsedMB   GaugeHandle
	VRAMPeakMB   GaugeHandle
	FrameTimeHis HistogramHandle
}

// FrameStats is one frame's worth of timing and submission statistics.
type FrameStats struct {
	FrameTimeMS float64
	CPUTimeMS   float64
	GPUTimeMS   float64
	DrawCalls   uint64
	VRAMUsedMB  float64
	VRAMPeakMB  float64
}

// NewEngineMetrics registers the configured metric set on the registry
// and returns the handle bundle.
func NewEngineMetrics(registry *Registry, cfg Config) (*EngineMetrics, error) {
	em := &EngineMetrics{
		registry:  registry,
		scheduler: NewScheduler(time.Duration(cfg.SummaryIntervalSecs * float64(time.Second))),
	}

	var err error
	for _, spec := range cfg.Counters {
		if _, err = registry.RegisterCounter(spec.ID(), spec.Description, spec.Unit); err != nil {
			return nil, err
		}
	}
	for _, spec := range cfg.Gauges {
		if _, err = registry.RegisterGauge(spec.ID(), spec.Description, spec.Unit); err != nil {
			return nil, err
		}
	}

	if em.FramesTotal, err = registry.RegisterCounter(
		NewMetricID("engine", "frames.total"), "Total frames presented", "count"); err != nil {
		return nil, err
	}
	if em.DrawCalls, err = registry.RegisterCounter(
		NewMetricID("renderer", "draw_calls.total"), "Total draw calls issued", "count"); err != nil {
		return nil, err
	}
	if em.FrameTimeMS, err = registry.RegisterGauge(
		NewMetricID("engine", "performance.frame_time_ms"), "Last frame time", "ms"); err != nil {
		return nil, err
	}
	if em.CPUTimeMS, err = registry.RegisterGauge(
		NewMetricID("engine", "performance.cpu_time_ms"), "Last frame CPU time", "ms"); err != nil {
		return nil, err
	}
	if em.GPUTimeMS, err = registry.RegisterGauge(
		NewMetricID("engine", "performance.gpu_time_ms"), "Last frame GPU time", "ms"); err != nil {
		return nil, err
	}
	if em.VRAMUsedMB, err = registry.RegisterGauge(
		NewMetricID("memory", "vram.used_mb"), "Allocated video memory", "MB"); err != nil {
		return nil, err
	}
	if em.VRAMPeakMB, err = registry.RegisterGauge(
		NewMetricID("memory", "vram.peak_mb"), "Peak video memory", "MB"); err != nil {
		return nil, err
	}
	if em.FrameTimeHis, err = registry.RegisterHistogram(
		NewMetricID("engine", "performance.frame_time_distribution"),
		"Frame time distribution", "ms", cfg.FrameTimeBucketsMS); err != nil {
		return nil, err
	}
	return em, nil
}

// Update records one frame of statistics.
func (em *EngineMetrics) Update(stats FrameStats) {
	em.FramesTotal.Inc(1)
	em.DrawCalls.Inc(stats.DrawCalls)
	em.FrameTimeMS.Set(stats.FrameTimeMS)
	em.CPUTimeMS.Set(stats.CPUTimeMS)
	em.GPUTimeMS.Set(stats.GPUTimeMS)
	em.VRAMUsedMB.Set(stats.VRAMUsedMB)
	em.VRAMPeakMB.Set(stats.VRAMPeakMB)
	em.FrameTimeHis.Observe(stats.FrameTimeMS)
}

// Registry returns the backing registry.
func (em *EngineMetrics) Registry() *Registry { return em.registry }

// Scheduler returns the summary scheduler.
func (em *EngineMetrics) Scheduler() *Scheduler { return em.scheduler }

// SummaryLines renders a one-line-per-metric snapshot for logging.
func (em *EngineMetrics) SummaryLines() []string {
	metrics := em.registry.Snapshot()
	lines := make([]string, 0, len(metrics))
	for _, m := range metrics {
		switch m.Value.Type {
		case TypeCounter:
			lines = append(lines, fmt.Sprintf("%s = %d %s", m.Metadata.ID, m.Value.Counter, m.Metadata.Unit))
		case TypeGauge:
			lines = append(lines, fmt.Sprintf("%s = %.3f %s", m.Metadata.ID, m.Value.Gauge, m.Metadata.Unit))
		case TypeHistogram:
			lines = append(lines, fmt.Sprintf("%s = %d samples", m.Metadata.ID, len(m.Value.Samples)))
		}
	}
	return lines
}
