package gpu

// Device is the backend-agnostic graphics device contract. The device
// is the sole owner of backend resources; callers hold opaque handles.
//
// Synchronous creation and destroy calls never block on the GPU.
// Destroying an unknown handle fails with [ErrNotFound] rather than
// panicking; errors from the backing implementation are surfaced
// verbatim, never swallowed.
//
// Each resource table has its own lock, held only for a single lookup,
// insert or delete. Creation calls that touch multiple resource tables
// never hold two table locks at once, which precludes lock-order
// deadlocks between concurrent creators.
type Device interface {
	// CreateShaderModule compiles WGSL source into a shader module.
	CreateShaderModule(desc *ShaderModuleDescriptor) (ShaderModuleID, error)

	// DestroyShaderModule releases a shader module.
	DestroyShaderModule(id ShaderModuleID) error

	// CreatePipelineLayout creates a pipeline layout; every referenced
	// bind group layout must exist.
	CreatePipelineLayout(desc *PipelineLayoutDescriptor) (PipelineLayoutID, error)

	// DestroyPipelineLayout releases a pipeline layout.
	DestroyPipelineLayout(id PipelineLayoutID) error

	// CreateRenderPipeline creates a render pipeline. Entry-point
	// presence is verified here, not at draw time.
	CreateRenderPipeline(desc *RenderPipelineDescriptor) (RenderPipelineID, error)

	// DestroyRenderPipeline releases a render pipeline.
	DestroyRenderPipeline(id RenderPipelineID) error

	// CreateComputePipeline creates a compute pipeline.
	CreateComputePipeline(desc *ComputePipelineDescriptor) (ComputePipelineID, error)

	// DestroyComputePipeline releases a compute pipeline.
	DestroyComputePipeline(id ComputePipelineID) error

	// CreateBuffer allocates a buffer and adds its size to the VRAM
	// accounting.
	CreateBuffer(desc *BufferDescriptor) (BufferID, error)

	// CreateBufferWithData allocates a buffer and uploads data in one
	// step. The descriptor size must cover the data.
	CreateBufferWithData(desc *BufferDescriptor, data []byte) (BufferID, error)

	// DestroyBuffer releases a buffer and subtracts its size from the
	// VRAM accounting.
	DestroyBuffer(id BufferID) error

	// WriteBuffer enqueues a queue-side upload. offset+len(data) must
	// not exceed the buffer size.
	WriteBuffer(id BufferID, offset uint64, data []byte) error

	// WriteBufferAsync uploads asynchronously. The returned channel
	// receives exactly one result once the backend's map callback has
	// run. The data slice is copied internally, so the caller need not
	// preserve it. Abandoning the channel does not abort the upload;
	// the write completes regardless.
	WriteBufferAsync(id BufferID, offset uint64, data []byte) <-chan error

	// CreateTexture allocates a texture and adds
	// BytesPerPixel(format) * width * height * depthOrLayers to the
	// VRAM accounting.
	CreateTexture(desc *TextureDescriptor) (TextureID, error)

	// DestroyTexture releases a texture.
	DestroyTexture(id TextureID) error

	// WriteTexture uploads texel data to a texture region.
	WriteTexture(id TextureID, data []byte, layout TextureDataLayout, origin Origin3D, size Extent3D) error

	// CreateTextureView creates a view onto an existing texture.
	CreateTextureView(texture TextureID, desc *TextureViewDescriptor) (TextureViewID, error)

	// DestroyTextureView releases a texture view.
	DestroyTextureView(id TextureViewID) error

	// CreateSampler creates a sampler; a compare function produces a
	// comparison sampler.
	CreateSampler(desc *SamplerDescriptor) (SamplerID, error)

	// DestroySampler releases a sampler.
	DestroySampler(id SamplerID) error

	// CreateBindGroupLayout creates a bind group layout.
	CreateBindGroupLayout(desc *BindGroupLayoutDescriptor) (BindGroupLayoutID, error)

	// DestroyBindGroupLayout releases a bind group layout.
	DestroyBindGroupLayout(id BindGroupLayoutID) error

	// CreateBindGroup binds resources to the slots of a layout. Every
	// referenced handle must exist and each entry's resource kind must
	// match the layout's entry.
	CreateBindGroup(desc *BindGroupDescriptor) (BindGroupID, error)

	// DestroyBindGroup releases a bind group.
	DestroyBindGroup(id BindGroupID) error

	// CreateCommandEncoder starts a new command recording. Encoders
	// are not thread-safe; each worker thread owns its encoders
	// exclusively.
	CreateCommandEncoder(label string) CommandEncoder

	// SubmitCommandBuffer moves a finished recording to the GPU queue.
	// Submission is ordered by call order; after return the handle is
	// no longer referenceable, and re-submission fails with
	// ErrNotFound.
	SubmitCommandBuffer(id CommandBufferID) error

	// SurfaceFormat reports the swapchain texture format when a
	// surface is configured.
	SurfaceFormat() (TextureFormat, bool)

	// AdapterInfo describes the selected adapter.
	AdapterInfo() AdapterInfo

	// SupportsFeature reports availability of a feature tag such as
	// FeatureGPUTimestamps.
	SupportsFeature(name string) bool

	// VRAMUsage reports current, peak, and capacity byte counts.
	// Capacity is zero when the backend does not surface it.
	VRAMUsage() VRAMUsage
}

// CommandEncoder records GPU work. Finish consumes the encoder; a
// finished recording is transferable to another goroutine for
// submission.
type CommandEncoder interface {
	// BeginRenderPass starts a render pass over the described
	// attachments.
	BeginRenderPass(desc *RenderPassDescriptor) (RenderPassEncoder, error)

	// BeginComputePass starts a compute pass.
	BeginComputePass(desc *ComputePassDescriptor) (ComputePassEncoder, error)

	// CopyBufferToBuffer records a buffer-to-buffer copy.
	CopyBufferToBuffer(src BufferID, srcOffset uint64, dst BufferID, dstOffset, size uint64) error

	// CopyBufferToTexture records a buffer-to-texture copy.
	CopyBufferToTexture(src BufferID, layout TextureDataLayout, dst TextureID, origin Origin3D, size Extent3D) error

	// CopyTextureToBuffer records a texture-to-buffer copy.
	CopyTextureToBuffer(src TextureID, origin Origin3D, dst BufferID, layout TextureDataLayout, size Extent3D) error

	// CopyTextureToTexture records a texture-to-texture copy.
	CopyTextureToTexture(src TextureID, srcOrigin Origin3D, dst TextureID, dstOrigin Origin3D, size Extent3D) error

	// WriteTimestamp records a timestamp write against an opaque hook
	// reserved by the telemetry subsystem.
	WriteTimestamp(hook TimestampHook) error

	// Finish ends the recording and returns the command buffer
	// handle. The encoder must not be used afterward.
	Finish() (CommandBufferID, error)
}

// RenderPassEncoder records draw commands inside a render pass.
type RenderPassEncoder interface {
	SetPipeline(id RenderPipelineID) error
	SetBindGroup(index uint32, group BindGroupID, dynamicOffsets []uint32) error
	SetVertexBuffer(slot uint32, buffer BufferID, offset, size uint64) error
	SetIndexBuffer(buffer BufferID, format IndexFormat, offset, size uint64) error
	SetViewport(x, y, width, height, minDepth, maxDepth float32)
	SetScissorRect(x, y, width, height uint32)

	// Draw draws vertexCount vertices starting at firstVertex for
	// instanceCount instances starting at firstInstance.
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)

	// DrawIndexed draws indexCount indices starting at firstIndex,
	// offset by baseVertex, for instanceCount instances.
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)

	// End closes the pass, returning control to the encoder.
	End() error
}

// ComputePassEncoder records dispatches inside a compute pass.
type ComputePassEncoder interface {
	SetPipeline(id ComputePipelineID) error
	SetBindGroup(index uint32, group BindGroupID, dynamicOffsets []uint32) error
	Dispatch(x, y, z uint32)
	End() error
}
