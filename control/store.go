package control

import (
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/quartzengine/quartz/telemetry"
)

// DefaultWindowSize bounds each metric's rolling sample window.
const DefaultWindowSize = 120

// MetricStore keeps bounded rolling sample windows per metric and
// serves the statistical summaries the heuristic engine consumes.
type MetricStore struct {
	mu         sync.RWMutex
	windowSize int
	windows    map[string]*sampleWindow
}

// sampleWindow is a fixed-capacity ring of recent samples.
type sampleWindow struct {
	samples []float64
	head    int
	full    bool
}

func (w *sampleWindow) push(v float64, capacity int) {
	if len(w.samples) < capacity && !w.full {
		w.samples = append(w.samples, v)
		if len(w.samples) == capacity {
			w.full = true
			w.head = 0
		}
		return
	}
	w.samples[w.head] = v
	w.head = (w.head + 1) % len(w.samples)
}

// ordered returns the samples oldest-first.
func (w *sampleWindow) ordered() []float64 {
	if !w.full {
		return append([]float64(nil), w.samples...)
	}
	out := make([]float64, 0, len(w.samples))
	out = append(out, w.samples[w.head:]...)
	out = append(out, w.samples[:w.head]...)
	return out
}

// NewMetricStore creates a store with the default window size.
func NewMetricStore() *MetricStore {
	return NewMetricStoreWithWindow(DefaultWindowSize)
}

// NewMetricStoreWithWindow creates a store with a custom window size.
func NewMetricStoreWithWindow(size int) *MetricStore {
	if size <= 0 {
		size = DefaultWindowSize
	}
	return &MetricStore{
		windowSize: size,
		windows:    make(map[string]*sampleWindow),
	}
}

// Push appends a sample to the metric's rolling window, evicting the
// oldest sample once the window is full.
func (s *MetricStore) Push(id telemetry.MetricID, value float64) {
	key := id.String()
	s.mu.Lock()
	w, ok := s.windows[key]
	if !ok {
		w = &sampleWindow{}
		s.windows[key] = w
	}
	w.push(value, s.windowSize)
	s.mu.Unlock()
}

func (s *MetricStore) snapshot(id telemetry.MetricID) []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.windows[id.String()]
	if !ok {
		return nil
	}
	return w.ordered()
}

// SampleCount returns the number of samples currently windowed.
func (s *MetricStore) SampleCount(id telemetry.MetricID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.windows[id.String()]
	if !ok {
		return 0
	}
	return len(w.samples)
}

// Average returns the window mean, or zero with no samples.
func (s *MetricStore) Average(id telemetry.MetricID) float64 {
	samples := s.snapshot(id)
	if len(samples) == 0 {
		return 0
	}
	return stat.Mean(samples, nil)
}

// Variance returns the window sample variance, or zero with fewer
// than two samples.
func (s *MetricStore) Variance(id telemetry.MetricID) float64 {
	samples := s.snapshot(id)
	if len(samples) < 2 {
		return 0
	}
	return stat.Variance(samples, nil)
}

// Trend returns the rise of the least-squares fit across the window:
// the regression slope per sample scaled by the window length. A
// positive trend means the metric is worsening.
func (s *MetricStore) Trend(id telemetry.MetricID) float64 {
	samples := s.snapshot(id)
	if len(samples) < 2 {
		return 0
	}
	xs := make([]float64, len(samples))
	for i := range xs {
		xs[i] = float64(i)
	}
	_, slope := stat.LinearRegression(xs, samples, nil, false)
	return slope * float64(len(samples))
}
