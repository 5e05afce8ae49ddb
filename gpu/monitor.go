package gpu

import "github.com/quartzengine/quartz/telemetry"

// ResourceType classifies the device's monitored resource as VRAM.
func (d *HeadlessDevice) ResourceType() telemetry.MonitoredResourceType {
	return telemetry.ResourceVRAM
}

// Usage reports VRAM consumption for the resource-monitor registry.
func (d *HeadlessDevice) Usage() telemetry.ResourceUsage {
	u := d.vram.usage()
	return telemetry.ResourceUsage{
		CurrentBytes:  u.AllocatedBytes,
		PeakBytes:     u.PeakBytes,
		CapacityBytes: u.CapacityBytes,
	}
}

var _ telemetry.ResourceMonitor = (*HeadlessDevice)(nil)
