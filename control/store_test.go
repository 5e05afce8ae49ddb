package control

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quartzengine/quartz/telemetry"
)

var testID = telemetry.NewMetricID("renderer", "frame_time")

func TestStoreAverageAndCount(t *testing.T) {
	s := NewMetricStore()
	assert.Zero(t, s.SampleCount(testID))
	assert.Zero(t, s.Average(testID))

	for _, v := range []float64{10, 20, 30} {
		s.Push(testID, v)
	}
	assert.Equal(t, 3, s.SampleCount(testID))
	assert.InDelta(t, 20, s.Average(testID), 1e-9)
}

func TestStoreVariance(t *testing.T) {
	s := NewMetricStore()
	for i := 0; i < 10; i++ {
		s.Push(testID, 16.6)
	}
	assert.InDelta(t, 0, s.Variance(testID), 1e-9)

	s2 := NewMetricStore()
	for i := 0; i < 20; i++ {
		if i%2 == 0 {
			s2.Push(testID, 5)
		} else {
			s2.Push(testID, 30)
		}
	}
	assert.Greater(t, s2.Variance(testID), 100.0)
}

func TestStoreTrend(t *testing.T) {
	s := NewMetricStore()
	for i := 0; i < 20; i++ {
		s.Push(testID, float64(i))
	}
	// Slope 1 per sample over a 20-sample window.
	assert.InDelta(t, 20, s.Trend(testID), 1e-6)

	flat := NewMetricStore()
	for i := 0; i < 20; i++ {
		flat.Push(testID, 7)
	}
	assert.InDelta(t, 0, flat.Trend(testID), 1e-9)
}

func TestStoreWindowEviction(t *testing.T) {
	s := NewMetricStoreWithWindow(4)
	for i := 1; i <= 6; i++ {
		s.Push(testID, float64(i))
	}
	// Window holds the last four samples: 3, 4, 5, 6.
	assert.Equal(t, 4, s.SampleCount(testID))
	assert.InDelta(t, 4.5, s.Average(testID), 1e-9)
}

func TestStoreSeparatesMetrics(t *testing.T) {
	s := NewMetricStore()
	other := telemetry.NewMetricID("physics", "step_time")
	s.Push(testID, 10)
	s.Push(other, 50)

	assert.InDelta(t, 10, s.Average(testID), 1e-9)
	assert.InDelta(t, 50, s.Average(other), 1e-9)
}
