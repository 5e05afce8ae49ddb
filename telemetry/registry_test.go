package telemetry

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricIDLabelOrderIsCanonical(t *testing.T) {
	a := NewMetricID("r", "t").WithLabel("b", "2").WithLabel("a", "1")
	b := NewMetricID("r", "t").WithLabel("a", "1").WithLabel("b", "2")
	assert.Equal(t, a, b)
	assert.True(t, a.Equal(b))
	assert.Equal(t, "r:t[a=1,b=2]", a.String())
}

func TestMetricIDFormat(t *testing.T) {
	assert.Equal(t, "engine:frames.total", NewMetricID("engine", "frames.total").String())
	id := NewMetricID("renderer", "triangles").
		WithLabel("quality", "high").
		WithLabel("pass", "main")
	assert.Equal(t, "renderer:triangles[pass=main,quality=high]", id.String())
}

func TestCounterMonotonicAcrossGoroutines(t *testing.T) {
	reg := NewRegistry()
	h, err := reg.RegisterCounter(NewMetricID("test", "ops"), "ops", "count")
	require.NoError(t, err)

	const workers = 8
	const perWorker = 1000
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				h.Inc(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(workers*perWorker), h.Value())
}

func TestCounterSaturatesAtMaxUint64(t *testing.T) {
	reg := NewRegistry()
	h, err := reg.RegisterCounter(NewMetricID("test", "sat"), "", "count")
	require.NoError(t, err)
	h.Inc(math.MaxUint64 - 1)
	h.Inc(10)
	assert.Equal(t, uint64(math.MaxUint64), h.Value())
}

func TestReRegisterReturnsOriginalHandle(t *testing.T) {
	reg := NewRegistry()
	id := NewMetricID("test", "again")
	h1, err := reg.RegisterCounter(id, "", "count")
	require.NoError(t, err)
	h1.Inc(5)

	h2, err := reg.RegisterCounter(id, "", "count")
	require.NoError(t, err)
	assert.Equal(t, uint64(5), h2.Value())

	h2.Inc(1)
	assert.Equal(t, uint64(6), h1.Value())
}

func TestRegisterTypeMismatch(t *testing.T) {
	reg := NewRegistry()
	id := NewMetricID("test", "kind")
	_, err := reg.RegisterCounter(id, "", "count")
	require.NoError(t, err)

	_, err = reg.RegisterGauge(id, "", "ms")
	var mismatch *TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, TypeGauge, mismatch.Expected)
	assert.Equal(t, TypeCounter, mismatch.Found)
}

func TestGaugeSetAndAdd(t *testing.T) {
	reg := NewRegistry()
	h, err := reg.RegisterGauge(NewMetricID("test", "g"), "", "ms")
	require.NoError(t, err)
	h.Set(4.5)
	h.Add(-1.5)
	assert.InDelta(t, 3.0, h.Value(), 1e-12)
}

func TestHistogramBucketSelection(t *testing.T) {
	reg := NewRegistry()
	h, err := reg.RegisterHistogram(NewMetricID("test", "h"), "", "ms", []float64{1, 5, 10})
	require.NoError(t, err)

	h.Observe(0.5) // bucket 0 (<=1)
	h.Observe(1)   // bucket 0 (bound is inclusive)
	h.Observe(3)   // bucket 1
	h.Observe(10)  // bucket 2
	h.Observe(99)  // overflow

	m, err := reg.Get(NewMetricID("test", "h"))
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 1, 1, 1}, m.Value.BucketCounts)
	assert.Len(t, m.Value.Samples, 5)
}

func TestHistogramRejectsNonIncreasingBounds(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.RegisterHistogram(NewMetricID("test", "bad"), "", "ms", []float64{1, 1, 2})
	var invalid *InvalidOperationError
	assert.ErrorAs(t, err, &invalid)
}

func TestGetUnknownMetric(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Get(NewMetricID("no", "such"))
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "no:such", notFound.ID.String())
}

func TestSnapshotEnumeratesAll(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.RegisterCounter(NewMetricID("a", "c"), "", "count")
	require.NoError(t, err)
	_, err = reg.RegisterGauge(NewMetricID("a", "g"), "", "ms")
	require.NoError(t, err)

	snap := reg.Snapshot()
	assert.Len(t, snap, 2)
	assert.Equal(t, 2, reg.Len())
}

func TestLastUpdatedMonotonic(t *testing.T) {
	reg := NewRegistry()
	id := NewMetricID("test", "ts")
	h, err := reg.RegisterCounter(id, "", "count")
	require.NoError(t, err)

	before, err := reg.Get(id)
	require.NoError(t, err)
	h.Inc(1)
	after, err := reg.Get(id)
	require.NoError(t, err)
	assert.False(t, after.Metadata.LastUpdated.Before(before.Metadata.LastUpdated))
}
