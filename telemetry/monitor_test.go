package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMonitor struct {
	id    string
	usage ResourceUsage
}

func (m *fakeMonitor) MonitorID() string                  { return m.id }
func (m *fakeMonitor) ResourceType() MonitoredResourceType { return ResourceVRAM }
func (m *fakeMonitor) Usage() ResourceUsage                { return m.usage }

func TestMonitorRegistryIdempotentByID(t *testing.T) {
	t.Cleanup(DrainMonitors)

	first := &fakeMonitor{id: "gpu0", usage: ResourceUsage{CurrentBytes: 1}}
	second := &fakeMonitor{id: "gpu0", usage: ResourceUsage{CurrentBytes: 2}}
	RegisterMonitor(first)
	RegisterMonitor(second)

	got, ok := Monitor("gpu0")
	require.True(t, ok)
	assert.Equal(t, uint64(2), got.Usage().CurrentBytes)
	assert.Len(t, Monitors(), 1)
}

func TestMonitorRegistryDrain(t *testing.T) {
	RegisterMonitor(&fakeMonitor{id: "a"})
	RegisterMonitor(&fakeMonitor{id: "b"})
	DrainMonitors()
	assert.Empty(t, Monitors())

	_, ok := Monitor("a")
	assert.False(t, ok)

	UnregisterMonitor("a") // removing an absent monitor is a no-op
}
