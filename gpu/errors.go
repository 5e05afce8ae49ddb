package gpu

import (
	"errors"
	"fmt"
)

// Resource errors shared across the device surface.
var (
	// ErrNotFound is returned when a handle does not name a live
	// resource, including destroy calls on unknown handles and
	// submission of already-submitted command buffers.
	ErrNotFound = errors.New("gpu: resource not found")

	// ErrOutOfBounds is returned when a buffer write exceeds the
	// target buffer's size.
	ErrOutOfBounds = errors.New("gpu: access out of bounds")

	// ErrInvalidDescriptor is returned when a creation descriptor is
	// structurally invalid.
	ErrInvalidDescriptor = errors.New("gpu: invalid descriptor")
)

// Render-system level errors. SurfaceLost and SurfaceOutdated are
// recoverable: reconfigure the surface and retry. OutOfMemory is fatal
// for the current frame's recording only; the device remains usable
// once the offending handles are destroyed.
var (
	ErrSurfaceLost     = errors.New("gpu: surface lost")
	ErrSurfaceOutdated = errors.New("gpu: surface outdated")
	ErrOutOfMemory     = errors.New("gpu: out of memory")
	ErrTimeout         = errors.New("gpu: timeout")
)

// DeviceInitError reports a failure to bring up a device.
type DeviceInitError struct {
	Msg string
}

func (e *DeviceInitError) Error() string {
	return "gpu: device initialization failed: " + e.Msg
}

// BackendError wraps an error surfaced verbatim from the backing GPU
// implementation, including lock poisoning and driver failures.
type BackendError struct {
	Msg string
}

func (e *BackendError) Error() string {
	return "gpu: backend error: " + e.Msg
}

// ShaderCompileError reports a WGSL module that failed to compile.
type ShaderCompileError struct {
	Label   string
	Message string
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("gpu: shader %q failed to compile: %s", e.Label, e.Message)
}

// ShaderNotFoundError reports an attempt to destroy an unknown shader
// module. Pipelines that reference an unknown module get
// InvalidShaderModuleForPipelineError instead.
type ShaderNotFoundError struct {
	ID ShaderModuleID
}

func (e *ShaderNotFoundError) Error() string {
	return fmt.Sprintf("gpu: shader module %d not found", e.ID)
}

func (e *ShaderNotFoundError) Unwrap() error { return ErrNotFound }

// InvalidRenderPipelineError reports an operation against an unknown
// render pipeline.
type InvalidRenderPipelineError struct {
	ID RenderPipelineID
}

func (e *InvalidRenderPipelineError) Error() string {
	return fmt.Sprintf("gpu: invalid render pipeline %d", e.ID)
}

func (e *InvalidRenderPipelineError) Unwrap() error { return ErrNotFound }

// InvalidComputePipelineError reports an operation against an unknown
// compute pipeline.
type InvalidComputePipelineError struct {
	ID ComputePipelineID
}

func (e *InvalidComputePipelineError) Error() string {
	return fmt.Sprintf("gpu: invalid compute pipeline %d", e.ID)
}

func (e *InvalidComputePipelineError) Unwrap() error { return ErrNotFound }

// InvalidShaderModuleForPipelineError reports a pipeline descriptor
// whose shader reference does not name a live module.
type InvalidShaderModuleForPipelineError struct {
	ID    ShaderModuleID
	Label string
}

func (e *InvalidShaderModuleForPipelineError) Error() string {
	return fmt.Sprintf("gpu: pipeline %q references invalid shader module %d", e.Label, e.ID)
}

func (e *InvalidShaderModuleForPipelineError) Unwrap() error { return ErrNotFound }

// MissingFragmentEntryPointError reports a render pipeline descriptor
// whose fragment stage has an empty entry point. A fragment entry point
// whose module is not a live shader module is reported as
// InvalidShaderModuleForPipelineError.
type MissingFragmentEntryPointError struct {
	Label  string
	Shader ShaderModuleID
}

func (e *MissingFragmentEntryPointError) Error() string {
	return fmt.Sprintf("gpu: pipeline %q: fragment shader %d has no entry point", e.Label, e.Shader)
}

// EntryPointNotFoundError reports a shader module that compiles but
// does not export the requested entry point. Entry-point presence is
// verified at pipeline creation, not at draw time.
type EntryPointNotFoundError struct {
	Label      string
	EntryPoint string
}

func (e *EntryPointNotFoundError) Error() string {
	return fmt.Sprintf("gpu: shader %q has no entry point %q", e.Label, e.EntryPoint)
}
