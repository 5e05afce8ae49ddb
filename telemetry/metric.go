// Package telemetry provides the typed metrics registry shared by the
// engine subsystems, the periodic summary scheduler, and the global
// resource-monitor registry.
//
// Metrics are identified by a structured [MetricID]: a namespace naming
// the producing subsystem ("engine", "renderer", "physics", "memory"),
// a dot-separated name, and sorted key-value labels for orthogonal
// dimensions.
package telemetry

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// MetricID uniquely identifies a metric. Labels are kept sorted by key
// so IDs with equivalent labels compare and hash identically.
type MetricID struct {
	Namespace string
	Name      string
	Labels    []Label
}

// Label is a single key-value dimension of a metric.
type Label struct {
	Key, Value string
}

// NewMetricID creates a MetricID with no labels.
func NewMetricID(namespace, name string) MetricID {
	return MetricID{Namespace: namespace, Name: name}
}

// WithLabel returns a copy of the ID with an added label, keeping the
// label list sorted by key.
func (id MetricID) WithLabel(key, value string) MetricID {
	labels := make([]Label, len(id.Labels), len(id.Labels)+1)
	copy(labels, id.Labels)
	labels = append(labels, Label{Key: key, Value: value})
	sort.Slice(labels, func(i, j int) bool { return labels[i].Key < labels[j].Key })
	id.Labels = labels
	return id
}

// Equal reports whether two IDs name the same metric.
func (id MetricID) Equal(o MetricID) bool {
	return id.String() == o.String()
}

// String formats the ID as "namespace:name" or
// "namespace:name[k=v,...]".
func (id MetricID) String() string {
	if len(id.Labels) == 0 {
		return id.Namespace + ":" + id.Name
	}
	var b strings.Builder
	b.WriteString(id.Namespace)
	b.WriteByte(':')
	b.WriteString(id.Name)
	b.WriteByte('[')
	for i, l := range id.Labels {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(l.Key)
		b.WriteByte('=')
		b.WriteString(l.Value)
	}
	b.WriteByte(']')
	return b.String()
}

// MetricType is the fundamental kind of a metric.
type MetricType int

const (
	// TypeCounter is a value that only ever increases.
	TypeCounter MetricType = iota
	// TypeGauge is a value that can go up or down.
	TypeGauge
	// TypeHistogram tracks the distribution of observed samples.
	TypeHistogram
)

// String returns the metric type name.
func (t MetricType) String() string {
	switch t {
	case TypeCounter:
		return "Counter"
	case TypeGauge:
		return "Gauge"
	case TypeHistogram:
		return "Histogram"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// MetricValue is a snapshot of a metric's current value. Exactly one
// field set is meaningful, selected by Type.
type MetricValue struct {
	Type    MetricType
	Counter uint64
	Gauge   float64

	// Histogram state. BucketCounts has one entry per bound plus a
	// final overflow (+Inf) bucket.
	Samples      []float64
	BucketBounds []float64
	BucketCounts []uint64
}

// AsFloat returns the value as a float64 for counters and gauges.
func (v MetricValue) AsFloat() (float64, bool) {
	switch v.Type {
	case TypeCounter:
		return float64(v.Counter), true
	case TypeGauge:
		return v.Gauge, true
	default:
		return 0, false
	}
}

// MetricMetadata carries the static description of a metric plus its
// update timestamps. LastUpdated is monotonic per metric.
type MetricMetadata struct {
	ID          MetricID
	Type        MetricType
	Description string
	Unit        string
	CreatedAt   time.Time
	LastUpdated time.Time
}

// Metric pairs a value snapshot with its metadata.
type Metric struct {
	Metadata MetricMetadata
	Value    MetricValue
}

// NotFoundError reports a lookup of an unregistered metric.
type NotFoundError struct {
	ID MetricID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("telemetry: metric not found: %s", e.ID)
}

// TypeMismatchError reports an operation against a metric of the wrong
// type.
type TypeMismatchError struct {
	Expected, Found MetricType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("telemetry: type mismatch: expected %s, found %s", e.Expected, e.Found)
}

// StorageError reports a failure in the backing store.
type StorageError struct {
	Msg string
}

func (e *StorageError) Error() string {
	return "telemetry: storage error: " + e.Msg
}

// InvalidOperationError reports a structurally invalid request, such as
// non-increasing histogram bounds.
type InvalidOperationError struct {
	Msg string
}

func (e *InvalidOperationError) Error() string {
	return "telemetry: invalid operation: " + e.Msg
}
