// Package gpu defines the backend-agnostic graphics device contract:
// opaque resource handles, creation descriptors, the [Device] and
// command-encoding interfaces, VRAM accounting, and the error taxonomy
// shared by every backend adapter.
//
// The package also ships [HeadlessDevice], a complete in-process
// implementation that validates descriptors, compiles WGSL through
// naga, tracks VRAM, and records command streams. It backs tests and
// tools that need full device semantics without GPU hardware.
package gpu

// Resource handles are opaque numeric IDs, unique per device instance
// and never reused for the lifetime of the device. The zero value is
// never a valid handle.

// ShaderModuleID is an opaque handle to a compiled shader module.
type ShaderModuleID uint64

// PipelineLayoutID is an opaque handle to a pipeline layout.
type PipelineLayoutID uint64

// RenderPipelineID is an opaque handle to a render pipeline.
type RenderPipelineID uint64

// ComputePipelineID is an opaque handle to a compute pipeline.
type ComputePipelineID uint64

// BufferID is an opaque handle to a GPU buffer.
type BufferID uint64

// TextureID is an opaque handle to a GPU texture.
type TextureID uint64

// TextureViewID is an opaque handle to a texture view.
type TextureViewID uint64

// SamplerID is an opaque handle to a sampler.
type SamplerID uint64

// BindGroupLayoutID is an opaque handle to a bind group layout.
type BindGroupLayoutID uint64

// BindGroupID is an opaque handle to a bind group.
type BindGroupID uint64

// CommandBufferID is an opaque handle to a finished but unsubmitted
// command recording. Submission consumes the handle.
type CommandBufferID uint64

// TimestampHook is an opaque identifier reserved by the telemetry
// subsystem for timestamp writes inside command streams.
type TimestampHook uint32

// InvalidID is the zero value shared by every handle type.
const InvalidID = 0
