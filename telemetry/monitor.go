package telemetry

import "sync"

// MonitoredResourceType classifies what a resource monitor reports on.
type MonitoredResourceType int

const (
	// ResourceVRAM is video memory tracked by a graphics device.
	ResourceVRAM MonitoredResourceType = iota
	// ResourceSystemRAM is host memory.
	ResourceSystemRAM
	// ResourceCustom covers subsystem-specific resources.
	ResourceCustom
)

// ResourceUsage is a monitor's point-in-time report. Capacity may be
// zero when the backend does not surface it.
type ResourceUsage struct {
	CurrentBytes  uint64
	PeakBytes     uint64
	CapacityBytes uint64
}

// ResourceMonitor is implemented by subsystems that expose resource
// usage for cross-component discovery (the graphics device registers
// one for VRAM).
type ResourceMonitor interface {
	// MonitorID uniquely identifies the monitor. Registration is
	// idempotent by this ID.
	MonitorID() string

	// ResourceType classifies the monitored resource.
	ResourceType() MonitoredResourceType

	// Usage reports current consumption.
	Usage() ResourceUsage
}

// monitorRegistry is the process-wide monitor table. It is initialized
// before the first registration and drained on shutdown.
var monitorRegistry = struct {
	mu       sync.RWMutex
	monitors map[string]ResourceMonitor
}{monitors: make(map[string]ResourceMonitor)}

// RegisterMonitor adds a monitor to the global registry. Registering a
// monitor whose ID is already present replaces the previous entry, so
// registration is idempotent by monitor ID.
func RegisterMonitor(m ResourceMonitor) {
	monitorRegistry.mu.Lock()
	monitorRegistry.monitors[m.MonitorID()] = m
	monitorRegistry.mu.Unlock()
}

// UnregisterMonitor removes a monitor by ID.
func UnregisterMonitor(id string) {
	monitorRegistry.mu.Lock()
	delete(monitorRegistry.monitors, id)
	monitorRegistry.mu.Unlock()
}

// Monitor returns the monitor registered under id, if any.
func Monitor(id string) (ResourceMonitor, bool) {
	monitorRegistry.mu.RLock()
	m, ok := monitorRegistry.monitors[id]
	monitorRegistry.mu.RUnlock()
	return m, ok
}

// Monitors returns all registered monitors.
func Monitors() []ResourceMonitor {
	monitorRegistry.mu.RLock()
	out := make([]ResourceMonitor, 0, len(monitorRegistry.monitors))
	for _, m := range monitorRegistry.monitors {
		out = append(out, m)
	}
	monitorRegistry.mu.RUnlock()
	return out
}

// DrainMonitors removes every registered monitor. Called on engine
// shutdown.
func DrainMonitors() {
	monitorRegistry.mu.Lock()
	monitorRegistry.monitors = make(map[string]ResourceMonitor)
	monitorRegistry.mu.Unlock()
}
