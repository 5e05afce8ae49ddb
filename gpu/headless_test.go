package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const computeWGSL = `
@compute @workgroup_size(1)
fn cs_main() {
}
`

const renderWGSL = `
@vertex
fn vs_main(@builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 1.0, 1.0, 1.0);
}
`

func newTestDevice(t *testing.T) *HeadlessDevice {
	t.Helper()
	return NewHeadlessDevice()
}

func createRenderShader(t *testing.T, d *HeadlessDevice) ShaderModuleID {
	t.Helper()
	id, err := d.CreateShaderModule(&ShaderModuleDescriptor{Label: "test_render", WGSL: renderWGSL})
	require.NoError(t, err)
	return id
}

func TestShaderModuleCompileFailure(t *testing.T) {
	d := newTestDevice(t)
	_, err := d.CreateShaderModule(&ShaderModuleDescriptor{Label: "broken", WGSL: "this is not wgsl"})
	var compileErr *ShaderCompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, "broken", compileErr.Label)
}

func TestShaderModuleEmptySource(t *testing.T) {
	d := newTestDevice(t)
	_, err := d.CreateShaderModule(&ShaderModuleDescriptor{Label: "empty"})
	assert.ErrorIs(t, err, ErrInvalidDescriptor)
}

func TestShaderModuleLifecycle(t *testing.T) {
	d := newTestDevice(t)
	id := createRenderShader(t, d)
	require.NoError(t, d.DestroyShaderModule(id))

	err := d.DestroyShaderModule(id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHandlesAreNeverReused(t *testing.T) {
	d := newTestDevice(t)
	a, err := d.CreateBuffer(&BufferDescriptor{Size: 16, Usage: BufferUsageUniform})
	require.NoError(t, err)
	require.NoError(t, d.DestroyBuffer(a))

	b, err := d.CreateBuffer(&BufferDescriptor{Size: 16, Usage: BufferUsageUniform})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestBufferVRAMAccounting(t *testing.T) {
	d := newTestDevice(t)
	before := d.VRAMUsage().AllocatedBytes

	id, err := d.CreateBuffer(&BufferDescriptor{Size: 4096, Usage: BufferUsageStorage})
	require.NoError(t, err)
	assert.Equal(t, before+4096, d.VRAMUsage().AllocatedBytes)
	assert.GreaterOrEqual(t, d.VRAMUsage().PeakBytes, before+4096)

	require.NoError(t, d.DestroyBuffer(id))
	assert.Equal(t, before, d.VRAMUsage().AllocatedBytes)
	// The peak is a high-water mark and does not recede.
	assert.GreaterOrEqual(t, d.VRAMUsage().PeakBytes, before+4096)
}

func TestTextureVRAMAccounting(t *testing.T) {
	d := newTestDevice(t)
	desc := &TextureDescriptor{
		Label:         "color",
		Size:          Extent3D{Width: 64, Height: 32, DepthOrArrayLayers: 2},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     TextureDimension2D,
		Format:        TextureFormatRGBA8Unorm,
		Usage:         TextureUsageSampled | TextureUsageCopyDst,
	}
	id, err := d.CreateTexture(desc)
	require.NoError(t, err)

	want := uint64(4 * 64 * 32 * 2)
	assert.Equal(t, want, d.VRAMUsage().AllocatedBytes)

	require.NoError(t, d.DestroyTexture(id))
	assert.Equal(t, uint64(0), d.VRAMUsage().AllocatedBytes)
}

func TestWriteBufferBounds(t *testing.T) {
	d := newTestDevice(t)
	id, err := d.CreateBuffer(&BufferDescriptor{Size: 8, Usage: BufferUsageCopyDst})
	require.NoError(t, err)

	require.NoError(t, d.WriteBuffer(id, 0, []byte{1, 2, 3, 4, 5, 6, 7, 8}))
	assert.ErrorIs(t, d.WriteBuffer(id, 4, []byte{1, 2, 3, 4, 5}), ErrOutOfBounds)
	assert.ErrorIs(t, d.WriteBuffer(BufferID(999), 0, []byte{1}), ErrNotFound)
}

func TestCreateBufferWithData(t *testing.T) {
	d := newTestDevice(t)
	payload := []byte{9, 8, 7, 6}
	id, err := d.CreateBufferWithData(&BufferDescriptor{Size: 4, Usage: BufferUsageVertex}, payload)
	require.NoError(t, err)

	got, err := d.BufferData(id)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	_, err = d.CreateBufferWithData(&BufferDescriptor{Size: 2, Usage: BufferUsageVertex}, payload)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestWriteBufferAsyncCompletes(t *testing.T) {
	d := newTestDevice(t)
	id, err := d.CreateBuffer(&BufferDescriptor{Size: 4, Usage: BufferUsageCopyDst})
	require.NoError(t, err)

	// The device copies the slice, so mutating it afterwards must not
	// affect the upload.
	data := []byte{1, 2, 3, 4}
	done := d.WriteBufferAsync(id, 0, data)
	data[0] = 99

	require.NoError(t, <-done)
	got, err := d.BufferData(id)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, got)
}

func TestRenderPipelineFragmentWithoutEntryPoint(t *testing.T) {
	d := newTestDevice(t)
	shader := createRenderShader(t, d)

	_, err := d.CreateRenderPipeline(&RenderPipelineDescriptor{
		Label:    "missing_fs_entry",
		Vertex:   VertexState{Module: shader, EntryPoint: "vs_main"},
		Fragment: &FragmentState{Module: shader},
	})
	var missing *MissingFragmentEntryPointError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, shader, missing.Shader)
}

func TestRenderPipelineUnknownShader(t *testing.T) {
	d := newTestDevice(t)
	_, err := d.CreateRenderPipeline(&RenderPipelineDescriptor{
		Label:  "bad_shader",
		Vertex: VertexState{Module: ShaderModuleID(42), EntryPoint: "vs_main"},
	})
	var invalid *InvalidShaderModuleForPipelineError
	require.ErrorAs(t, err, &invalid)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRenderPipelineEntryPointCheckedAtCreation(t *testing.T) {
	d := newTestDevice(t)
	shader := createRenderShader(t, d)
	_, err := d.CreateRenderPipeline(&RenderPipelineDescriptor{
		Label:  "no_such_entry",
		Vertex: VertexState{Module: shader, EntryPoint: "vs_missing"},
	})
	var notFound *EntryPointNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "vs_missing", notFound.EntryPoint)
}

func TestRenderPipelineSuccess(t *testing.T) {
	d := newTestDevice(t)
	shader := createRenderShader(t, d)
	id, err := d.CreateRenderPipeline(&RenderPipelineDescriptor{
		Label:  "lit",
		Vertex: VertexState{Module: shader, EntryPoint: "vs_main"},
		Fragment: &FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets:    []ColorTargetState{{Format: TextureFormatBGRA8Unorm, WriteMask: ColorWriteMaskAll}},
		},
		Primitive:   PrimitiveState{Topology: PrimitiveTopologyTriangleList, FrontFace: FrontFaceCCW, CullMode: CullModeBack},
		Multisample: MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
	})
	require.NoError(t, err)
	assert.NotEqual(t, RenderPipelineID(InvalidID), id)
}

func TestComputePipelineLifecycle(t *testing.T) {
	d := newTestDevice(t)
	shader, err := d.CreateShaderModule(&ShaderModuleDescriptor{Label: "cs", WGSL: computeWGSL})
	require.NoError(t, err)

	id, err := d.CreateComputePipeline(&ComputePipelineDescriptor{
		Label: "cull", Module: shader, EntryPoint: "cs_main",
	})
	require.NoError(t, err)
	require.NoError(t, d.DestroyComputePipeline(id))

	var invalid *InvalidComputePipelineError
	assert.ErrorAs(t, d.DestroyComputePipeline(id), &invalid)
}

func TestBindGroupValidation(t *testing.T) {
	d := newTestDevice(t)
	layout, err := d.CreateBindGroupLayout(&BindGroupLayoutDescriptor{
		Label: "globals",
		Entries: []BindGroupLayoutEntry{
			{Binding: 0, Visibility: ShaderStageVertex | ShaderStageFragment, Type: BindingTypeUniformBuffer},
		},
	})
	require.NoError(t, err)

	buf, err := d.CreateBuffer(&BufferDescriptor{Size: 256, Usage: BufferUsageUniform})
	require.NoError(t, err)

	// Valid bind group.
	bg, err := d.CreateBindGroup(&BindGroupDescriptor{
		Layout:  layout,
		Entries: []BindGroupEntry{{Binding: 0, Buffer: &BufferBinding{Buffer: buf}}},
	})
	require.NoError(t, err)
	assert.NotEqual(t, BindGroupID(InvalidID), bg)

	// Unknown buffer handle.
	_, err = d.CreateBindGroup(&BindGroupDescriptor{
		Layout:  layout,
		Entries: []BindGroupEntry{{Binding: 0, Buffer: &BufferBinding{Buffer: BufferID(777)}}},
	})
	assert.ErrorIs(t, err, ErrNotFound)

	// Resource kind mismatch: sampler where a buffer is expected.
	sampler, err := d.CreateSampler(&SamplerDescriptor{LODMaxClamp: 32})
	require.NoError(t, err)
	_, err = d.CreateBindGroup(&BindGroupDescriptor{
		Layout:  layout,
		Entries: []BindGroupEntry{{Binding: 0, Sampler: sampler}},
	})
	assert.ErrorIs(t, err, ErrInvalidDescriptor)

	// Binding index missing from the layout.
	_, err = d.CreateBindGroup(&BindGroupDescriptor{
		Layout:  layout,
		Entries: []BindGroupEntry{{Binding: 5, Buffer: &BufferBinding{Buffer: buf}}},
	})
	assert.ErrorIs(t, err, ErrInvalidDescriptor)
}

func TestDuplicateLayoutBindingRejected(t *testing.T) {
	d := newTestDevice(t)
	_, err := d.CreateBindGroupLayout(&BindGroupLayoutDescriptor{
		Entries: []BindGroupLayoutEntry{
			{Binding: 0, Type: BindingTypeUniformBuffer},
			{Binding: 0, Type: BindingTypeSampler},
		},
	})
	assert.ErrorIs(t, err, ErrInvalidDescriptor)
}

func TestPipelineLayoutRequiresLiveLayouts(t *testing.T) {
	d := newTestDevice(t)
	_, err := d.CreatePipelineLayout(&PipelineLayoutDescriptor{
		BindGroupLayouts: []BindGroupLayoutID{BindGroupLayoutID(3)},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitConsumesCommandBuffer(t *testing.T) {
	d := newTestDevice(t)
	enc := d.CreateCommandEncoder("frame")
	id, err := enc.Finish()
	require.NoError(t, err)

	require.NoError(t, d.SubmitCommandBuffer(id))
	assert.ErrorIs(t, d.SubmitCommandBuffer(id), ErrNotFound)
	assert.ErrorIs(t, d.SubmitCommandBuffer(CommandBufferID(12345)), ErrNotFound)
	assert.Equal(t, []CommandBufferID{id}, d.SubmittedOrder())
}

func TestSubmissionOrderIsCallOrder(t *testing.T) {
	d := newTestDevice(t)
	var ids []CommandBufferID
	for i := 0; i < 3; i++ {
		enc := d.CreateCommandEncoder("batch")
		id, err := enc.Finish()
		require.NoError(t, err)
		ids = append(ids, id)
	}
	for _, id := range ids {
		require.NoError(t, d.SubmitCommandBuffer(id))
	}
	assert.Equal(t, ids, d.SubmittedOrder())
}

func TestEncoderCopyReplayedOnSubmit(t *testing.T) {
	d := newTestDevice(t)
	src, err := d.CreateBufferWithData(&BufferDescriptor{Size: 4, Usage: BufferUsageCopySrc}, []byte{1, 2, 3, 4})
	require.NoError(t, err)
	dst, err := d.CreateBuffer(&BufferDescriptor{Size: 4, Usage: BufferUsageCopyDst})
	require.NoError(t, err)

	enc := d.CreateCommandEncoder("copy")
	require.NoError(t, enc.CopyBufferToBuffer(src, 0, dst, 0, 4))
	id, err := enc.Finish()
	require.NoError(t, err)

	// The copy is not applied until submission.
	pre, err := d.BufferData(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0}, pre)

	require.NoError(t, d.SubmitCommandBuffer(id))
	post, err := d.BufferData(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, post)
}

func TestEncoderCopyBoundsChecked(t *testing.T) {
	d := newTestDevice(t)
	src, err := d.CreateBuffer(&BufferDescriptor{Size: 4, Usage: BufferUsageCopySrc})
	require.NoError(t, err)
	dst, err := d.CreateBuffer(&BufferDescriptor{Size: 4, Usage: BufferUsageCopyDst})
	require.NoError(t, err)

	enc := d.CreateCommandEncoder("bad_copy")
	assert.ErrorIs(t, enc.CopyBufferToBuffer(src, 2, dst, 0, 4), ErrOutOfBounds)
}

func TestEncoderRejectsUseAfterFinish(t *testing.T) {
	d := newTestDevice(t)
	enc := d.CreateCommandEncoder("done")
	_, err := enc.Finish()
	require.NoError(t, err)

	_, err = enc.Finish()
	assert.ErrorIs(t, err, ErrEncoderFinished)
	assert.ErrorIs(t, enc.WriteTimestamp(1), ErrEncoderFinished)
}

func TestRenderPassRecording(t *testing.T) {
	d := newTestDevice(t)
	shader := createRenderShader(t, d)
	pipeline, err := d.CreateRenderPipeline(&RenderPipelineDescriptor{
		Label:       "pass_pipeline",
		Vertex:      VertexState{Module: shader, EntryPoint: "vs_main"},
		Multisample: MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
	})
	require.NoError(t, err)

	tex, err := d.CreateTexture(&TextureDescriptor{
		Size:          Extent3D{Width: 8, Height: 8, DepthOrArrayLayers: 1},
		MipLevelCount: 1, SampleCount: 1,
		Dimension: TextureDimension2D,
		Format:    TextureFormatBGRA8Unorm,
		Usage:     TextureUsageColorAttachment,
	})
	require.NoError(t, err)
	view, err := d.CreateTextureView(tex, &TextureViewDescriptor{Aspect: TextureAspectAll})
	require.NoError(t, err)

	vb, err := d.CreateBuffer(&BufferDescriptor{Size: 64, Usage: BufferUsageVertex})
	require.NoError(t, err)

	enc := d.CreateCommandEncoder("draw")
	pass, err := enc.BeginRenderPass(&RenderPassDescriptor{
		ColorAttachments: []RenderPassColorAttachment{{
			View: view, LoadOp: LoadOpClear, StoreOp: StoreOpStore,
		}},
	})
	require.NoError(t, err)

	require.NoError(t, pass.SetPipeline(pipeline))
	require.NoError(t, pass.SetVertexBuffer(0, vb, 0, 64))
	pass.SetViewport(0, 0, 8, 8, 0, 1)
	pass.Draw(3, 1, 0, 0)
	require.NoError(t, pass.End())

	// The encoder is locked while a pass is open; after End it can
	// finish.
	id, err := enc.Finish()
	require.NoError(t, err)

	cb, ok := d.CommandBuffer(id)
	require.True(t, ok)
	kinds := make([]CommandKind, 0, len(cb.Commands))
	for _, c := range cb.Commands {
		kinds = append(kinds, c.Kind)
	}
	assert.Equal(t, []CommandKind{
		CmdBeginRenderPass, CmdSetRenderPipeline, CmdSetVertexBuffer,
		CmdSetViewport, CmdDraw, CmdEndPass,
	}, kinds)
}

func TestComputePassRecording(t *testing.T) {
	d := newTestDevice(t)
	shader, err := d.CreateShaderModule(&ShaderModuleDescriptor{Label: "cs", WGSL: computeWGSL})
	require.NoError(t, err)
	pipeline, err := d.CreateComputePipeline(&ComputePipelineDescriptor{Module: shader, EntryPoint: "cs_main"})
	require.NoError(t, err)

	enc := d.CreateCommandEncoder("compute")
	pass, err := enc.BeginComputePass(&ComputePassDescriptor{Label: "cull"})
	require.NoError(t, err)
	require.NoError(t, pass.SetPipeline(pipeline))
	pass.Dispatch(16, 1, 1)
	require.NoError(t, pass.End())

	id, err := enc.Finish()
	require.NoError(t, err)
	cb, ok := d.CommandBuffer(id)
	require.True(t, ok)
	require.Len(t, cb.Commands, 4)
	assert.Equal(t, uint32(16), cb.Commands[2].GroupsX)
}

func TestFinishWithOpenPassFails(t *testing.T) {
	d := newTestDevice(t)
	enc := d.CreateCommandEncoder("open_pass")
	_, err := enc.BeginComputePass(&ComputePassDescriptor{})
	require.NoError(t, err)
	_, err = enc.Finish()
	assert.ErrorIs(t, err, ErrPassOpen)
}

func TestTextureViewValidation(t *testing.T) {
	d := newTestDevice(t)
	tex, err := d.CreateTexture(&TextureDescriptor{
		Size:          Extent3D{Width: 16, Height: 16, DepthOrArrayLayers: 1},
		MipLevelCount: 2, SampleCount: 1,
		Dimension: TextureDimension2D,
		Format:    TextureFormatRGBA8Unorm,
		Usage:     TextureUsageSampled,
	})
	require.NoError(t, err)

	_, err = d.CreateTextureView(TextureID(404), &TextureViewDescriptor{})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = d.CreateTextureView(tex, &TextureViewDescriptor{BaseMipLevel: 5})
	assert.ErrorIs(t, err, ErrOutOfBounds)

	view, err := d.CreateTextureView(tex, &TextureViewDescriptor{BaseMipLevel: 1})
	require.NoError(t, err)

	src, err := d.ViewTexture(view)
	require.NoError(t, err)
	assert.Equal(t, tex, src)
}

func TestAdapterInfoAndFeatures(t *testing.T) {
	d := newTestDevice(t)
	info := d.AdapterInfo()
	assert.Equal(t, DeviceTypeCPU, info.Device)
	assert.True(t, d.SupportsFeature(FeatureGPUTimestamps))
	assert.False(t, d.SupportsFeature(FeatureTextureCompressionBC))

	_, ok := d.SurfaceFormat()
	assert.False(t, ok)
}
