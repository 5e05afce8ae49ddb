package gpu

import "sync/atomic"

// VRAMUsage is a point-in-time video memory report.
type VRAMUsage struct {
	// AllocatedBytes is the current total of live buffer and texture
	// allocations.
	AllocatedBytes uint64
	// PeakBytes is the high-water mark of AllocatedBytes.
	PeakBytes uint64
	// CapacityBytes is the adapter's reported capacity, or zero when
	// the backend does not surface it.
	CapacityBytes uint64
}

// vramTracker maintains the atomic allocation counters shared by all
// device implementations. The peak is advanced with a
// monotonic-maximum CAS loop.
type vramTracker struct {
	allocated atomic.Uint64
	peak      atomic.Uint64
	capacity  atomic.Uint64
}

func (t *vramTracker) add(bytes uint64) {
	current := t.allocated.Add(bytes)
	for {
		peak := t.peak.Load()
		if current <= peak || t.peak.CompareAndSwap(peak, current) {
			return
		}
	}
}

func (t *vramTracker) sub(bytes uint64) {
	t.allocated.Add(^(bytes - 1))
}

func (t *vramTracker) usage() VRAMUsage {
	return VRAMUsage{
		AllocatedBytes: t.allocated.Load(),
		PeakBytes:      t.peak.Load(),
		CapacityBytes:  t.capacity.Load(),
	}
}

// textureSizeBytes computes the VRAM cost of a texture: bytes per
// pixel times width, height and depth-or-layers. Mip chains and
// block-compressed layouts are not modeled by this approximation.
func textureSizeBytes(desc *TextureDescriptor) uint64 {
	return desc.Format.BytesPerPixel() *
		uint64(desc.Size.Width) *
		uint64(desc.Size.Height) *
		uint64(desc.Size.DepthOrArrayLayers)
}
