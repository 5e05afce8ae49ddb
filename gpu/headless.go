package gpu

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gogpu/naga"
)

// HeadlessDevice is an in-process Device implementation with full
// contract semantics and no GPU behind it: descriptors are validated,
// WGSL is compiled through naga, VRAM is accounted, buffers have real
// backing stores, and command streams are recorded and replayed at
// submission. It backs tests, tools, and server-side asset pipelines.
//
// Resource tables are guarded by one mutex each. A table lock is held
// only for a single lookup, insert or delete, and no operation holds
// two table locks at once, so multi-table operations cannot deadlock.
type HeadlessDevice struct {
	info     AdapterInfo
	features map[string]bool

	nextShaderID         atomic.Uint64
	nextPipelineLayoutID atomic.Uint64
	nextRenderPipelineID atomic.Uint64
	nextComputePipeID    atomic.Uint64
	nextBufferID         atomic.Uint64
	nextTextureID        atomic.Uint64
	nextViewID           atomic.Uint64
	nextSamplerID        atomic.Uint64
	nextBGLayoutID       atomic.Uint64
	nextBindGroupID      atomic.Uint64
	nextCommandBufID     atomic.Uint64

	shaderMu sync.RWMutex
	shaders  map[ShaderModuleID]*headlessShader

	pipelineLayoutMu sync.RWMutex
	pipelineLayouts  map[PipelineLayoutID]*PipelineLayoutDescriptor

	renderPipelineMu sync.RWMutex
	renderPipelines  map[RenderPipelineID]*RenderPipelineDescriptor

	computePipelineMu sync.RWMutex
	computePipelines  map[ComputePipelineID]*ComputePipelineDescriptor

	bufferMu sync.RWMutex
	buffers  map[BufferID]*headlessBuffer

	textureMu sync.RWMutex
	textures  map[TextureID]*headlessTexture

	viewMu sync.RWMutex
	views  map[TextureViewID]*headlessView

	samplerMu sync.RWMutex
	samplers  map[SamplerID]*SamplerDescriptor

	bgLayoutMu       sync.RWMutex
	bindGroupLayouts map[BindGroupLayoutID]*BindGroupLayoutDescriptor

	bindGroupMu sync.RWMutex
	bindGroups  map[BindGroupID]*BindGroupDescriptor

	// submitMu also guards the command buffer table so an entry is
	// removed before replay, precluding a double submit.
	submitMu       sync.Mutex
	commandBuffers map[CommandBufferID]*RecordedCommandBuffer
	submitted      []CommandBufferID

	vram vramTracker
}

type headlessShader struct {
	desc  ShaderModuleDescriptor
	spirv []byte
}

type headlessBuffer struct {
	desc BufferDescriptor
	mu   sync.Mutex
	data []byte
}

type headlessTexture struct {
	desc      TextureDescriptor
	sizeBytes uint64
}

type headlessView struct {
	texture TextureID
	desc    TextureViewDescriptor
}

// NewHeadlessDevice creates a headless device. The adapter reports a
// CPU device so consumers pick conservative rendering strategies.
func NewHeadlessDevice() *HeadlessDevice {
	return &HeadlessDevice{
		info: AdapterInfo{
			Name:    "quartz-headless",
			Backend: BackendUnknown,
			Device:  DeviceTypeCPU,
		},
		features: map[string]bool{
			FeatureGPUTimestamps: true,
		},
		shaders:          make(map[ShaderModuleID]*headlessShader),
		pipelineLayouts:  make(map[PipelineLayoutID]*PipelineLayoutDescriptor),
		renderPipelines:  make(map[RenderPipelineID]*RenderPipelineDescriptor),
		computePipelines: make(map[ComputePipelineID]*ComputePipelineDescriptor),
		buffers:          make(map[BufferID]*headlessBuffer),
		textures:         make(map[TextureID]*headlessTexture),
		views:            make(map[TextureViewID]*headlessView),
		samplers:         make(map[SamplerID]*SamplerDescriptor),
		bindGroupLayouts: make(map[BindGroupLayoutID]*BindGroupLayoutDescriptor),
		bindGroups:       make(map[BindGroupID]*BindGroupDescriptor),
		commandBuffers:   make(map[CommandBufferID]*RecordedCommandBuffer),
	}
}

// hasEntryPoint scans WGSL source for a function declaration with the
// given name. Presence is checked at pipeline creation so a missing
// entry point surfaces before any draw is recorded.
func hasEntryPoint(source, name string) bool {
	rest := source
	for {
		idx := strings.Index(rest, "fn ")
		if idx < 0 {
			return false
		}
		rest = rest[idx+3:]
		trimmed := strings.TrimLeft(rest, " \t")
		if strings.HasPrefix(trimmed, name) {
			after := trimmed[len(name):]
			after = strings.TrimLeft(after, " \t")
			if strings.HasPrefix(after, "(") {
				return true
			}
		}
	}
}

// CreateShaderModule compiles the WGSL source with naga and stores the
// module on success.
func (d *HeadlessDevice) CreateShaderModule(desc *ShaderModuleDescriptor) (ShaderModuleID, error) {
	if desc == nil || desc.WGSL == "" {
		return InvalidID, fmt.Errorf("%w: empty shader source", ErrInvalidDescriptor)
	}
	spirv, err := naga.Compile(desc.WGSL)
	if err != nil {
		return InvalidID, &ShaderCompileError{Label: desc.Label, Message: err.Error()}
	}

	id := ShaderModuleID(d.nextShaderID.Add(1))
	d.shaderMu.Lock()
	d.shaders[id] = &headlessShader{desc: *desc, spirv: spirv}
	d.shaderMu.Unlock()

	slogger().Debug("headless: created shader module", "id", uint64(id), "label", desc.Label)
	return id, nil
}

// DestroyShaderModule releases a shader module.
func (d *HeadlessDevice) DestroyShaderModule(id ShaderModuleID) error {
	d.shaderMu.Lock()
	defer d.shaderMu.Unlock()
	if _, ok := d.shaders[id]; !ok {
		return &ShaderNotFoundError{ID: id}
	}
	delete(d.shaders, id)
	return nil
}

// CreatePipelineLayout validates every referenced bind group layout.
func (d *HeadlessDevice) CreatePipelineLayout(desc *PipelineLayoutDescriptor) (PipelineLayoutID, error) {
	if desc == nil {
		return InvalidID, fmt.Errorf("%w: nil pipeline layout descriptor", ErrInvalidDescriptor)
	}
	d.bgLayoutMu.RLock()
	for _, bgl := range desc.BindGroupLayouts {
		if _, ok := d.bindGroupLayouts[bgl]; !ok {
			d.bgLayoutMu.RUnlock()
			return InvalidID, fmt.Errorf("%w: bind group layout %d", ErrNotFound, bgl)
		}
	}
	d.bgLayoutMu.RUnlock()

	id := PipelineLayoutID(d.nextPipelineLayoutID.Add(1))
	cp := *desc
	cp.BindGroupLayouts = append([]BindGroupLayoutID(nil), desc.BindGroupLayouts...)
	d.pipelineLayoutMu.Lock()
	d.pipelineLayouts[id] = &cp
	d.pipelineLayoutMu.Unlock()
	return id, nil
}

// DestroyPipelineLayout releases a pipeline layout.
func (d *HeadlessDevice) DestroyPipelineLayout(id PipelineLayoutID) error {
	d.pipelineLayoutMu.Lock()
	defer d.pipelineLayoutMu.Unlock()
	if _, ok := d.pipelineLayouts[id]; !ok {
		return fmt.Errorf("%w: pipeline layout %d", ErrNotFound, id)
	}
	delete(d.pipelineLayouts, id)
	return nil
}

// validateStage checks a shader reference and its entry point.
func (d *HeadlessDevice) validateStage(label string, module ShaderModuleID, entryPoint string) error {
	d.shaderMu.RLock()
	shader, ok := d.shaders[module]
	d.shaderMu.RUnlock()
	if !ok {
		return &InvalidShaderModuleForPipelineError{ID: module, Label: label}
	}
	if !hasEntryPoint(shader.desc.WGSL, entryPoint) {
		return &EntryPointNotFoundError{Label: shader.desc.Label, EntryPoint: entryPoint}
	}
	return nil
}

// CreateRenderPipeline validates shader references, entry points, and
// the fragment-stage pairing rule.
func (d *HeadlessDevice) CreateRenderPipeline(desc *RenderPipelineDescriptor) (RenderPipelineID, error) {
	if desc == nil {
		return InvalidID, fmt.Errorf("%w: nil render pipeline descriptor", ErrInvalidDescriptor)
	}
	if desc.Vertex.EntryPoint == "" {
		return InvalidID, fmt.Errorf("%w: vertex entry point is required", ErrInvalidDescriptor)
	}
	if err := d.validateStage(desc.Label, desc.Vertex.Module, desc.Vertex.EntryPoint); err != nil {
		return InvalidID, err
	}
	if desc.Fragment != nil {
		if desc.Fragment.EntryPoint == "" {
			return InvalidID, &MissingFragmentEntryPointError{Label: desc.Label, Shader: desc.Fragment.Module}
		}
		if err := d.validateStage(desc.Label, desc.Fragment.Module, desc.Fragment.EntryPoint); err != nil {
			return InvalidID, err
		}
	}
	if desc.Layout != InvalidID {
		d.pipelineLayoutMu.RLock()
		_, ok := d.pipelineLayouts[desc.Layout]
		d.pipelineLayoutMu.RUnlock()
		if !ok {
			return InvalidID, fmt.Errorf("%w: pipeline layout %d", ErrNotFound, desc.Layout)
		}
	}
	if desc.Primitive.PolygonMode == PolygonModeLine && !d.SupportsFeature(FeaturePolygonModeLine) {
		return InvalidID, fmt.Errorf("%w: polygon mode line not supported", ErrInvalidDescriptor)
	}

	id := RenderPipelineID(d.nextRenderPipelineID.Add(1))
	cp := *desc
	d.renderPipelineMu.Lock()
	d.renderPipelines[id] = &cp
	d.renderPipelineMu.Unlock()

	slogger().Debug("headless: created render pipeline", "id", uint64(id), "label", desc.Label)
	return id, nil
}

// DestroyRenderPipeline releases a render pipeline.
func (d *HeadlessDevice) DestroyRenderPipeline(id RenderPipelineID) error {
	d.renderPipelineMu.Lock()
	defer d.renderPipelineMu.Unlock()
	if _, ok := d.renderPipelines[id]; !ok {
		return &InvalidRenderPipelineError{ID: id}
	}
	delete(d.renderPipelines, id)
	return nil
}

// CreateComputePipeline validates the shader reference and entry
// point.
func (d *HeadlessDevice) CreateComputePipeline(desc *ComputePipelineDescriptor) (ComputePipelineID, error) {
	if desc == nil {
		return InvalidID, fmt.Errorf("%w: nil compute pipeline descriptor", ErrInvalidDescriptor)
	}
	if err := d.validateStage(desc.Label, desc.Module, desc.EntryPoint); err != nil {
		return InvalidID, err
	}
	if desc.Layout != InvalidID {
		d.pipelineLayoutMu.RLock()
		_, ok := d.pipelineLayouts[desc.Layout]
		d.pipelineLayoutMu.RUnlock()
		if !ok {
			return InvalidID, fmt.Errorf("%w: pipeline layout %d", ErrNotFound, desc.Layout)
		}
	}

	id := ComputePipelineID(d.nextComputePipeID.Add(1))
	cp := *desc
	d.computePipelineMu.Lock()
	d.computePipelines[id] = &cp
	d.computePipelineMu.Unlock()
	return id, nil
}

// DestroyComputePipeline releases a compute pipeline.
func (d *HeadlessDevice) DestroyComputePipeline(id ComputePipelineID) error {
	d.computePipelineMu.Lock()
	defer d.computePipelineMu.Unlock()
	if _, ok := d.computePipelines[id]; !ok {
		return &InvalidComputePipelineError{ID: id}
	}
	delete(d.computePipelines, id)
	return nil
}

// CreateBuffer allocates a zeroed backing store and accounts the VRAM.
func (d *HeadlessDevice) CreateBuffer(desc *BufferDescriptor) (BufferID, error) {
	if desc == nil || desc.Size == 0 {
		return InvalidID, fmt.Errorf("%w: buffer size must be positive", ErrInvalidDescriptor)
	}

	id := BufferID(d.nextBufferID.Add(1))
	buf := &headlessBuffer{
		desc: *desc,
		data: make([]byte, desc.Size),
	}
	d.bufferMu.Lock()
	d.buffers[id] = buf
	d.bufferMu.Unlock()

	d.vram.add(desc.Size)
	return id, nil
}

// CreateBufferWithData allocates and uploads in one step.
func (d *HeadlessDevice) CreateBufferWithData(desc *BufferDescriptor, data []byte) (BufferID, error) {
	if desc != nil && uint64(len(data)) > desc.Size {
		return InvalidID, fmt.Errorf("%w: data exceeds buffer size", ErrOutOfBounds)
	}
	id, err := d.CreateBuffer(desc)
	if err != nil {
		return InvalidID, err
	}
	if len(data) > 0 {
		if err := d.WriteBuffer(id, 0, data); err != nil {
			_ = d.DestroyBuffer(id)
			return InvalidID, err
		}
	}
	return id, nil
}

// DestroyBuffer releases a buffer and returns its bytes to the VRAM
// accounting.
func (d *HeadlessDevice) DestroyBuffer(id BufferID) error {
	d.bufferMu.Lock()
	buf, ok := d.buffers[id]
	if ok {
		delete(d.buffers, id)
	}
	d.bufferMu.Unlock()
	if !ok {
		return fmt.Errorf("%w: buffer %d", ErrNotFound, id)
	}
	d.vram.sub(buf.desc.Size)
	return nil
}

// WriteBuffer copies data into the backing store, bounds-checked.
func (d *HeadlessDevice) WriteBuffer(id BufferID, offset uint64, data []byte) error {
	d.bufferMu.RLock()
	buf, ok := d.buffers[id]
	d.bufferMu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: buffer %d", ErrNotFound, id)
	}
	if offset+uint64(len(data)) > buf.desc.Size {
		return fmt.Errorf("%w: write of %d bytes at offset %d into buffer of %d bytes",
			ErrOutOfBounds, len(data), offset, buf.desc.Size)
	}
	buf.mu.Lock()
	copy(buf.data[offset:], data)
	buf.mu.Unlock()
	return nil
}

// WriteBufferAsync copies the input immediately and completes the
// returned channel once the write has been applied. The channel is
// buffered, so an abandoned receiver does not block the upload.
func (d *HeadlessDevice) WriteBufferAsync(id BufferID, offset uint64, data []byte) <-chan error {
	done := make(chan error, 1)
	owned := append([]byte(nil), data...)
	go func() {
		done <- d.WriteBuffer(id, offset, owned)
	}()
	return done
}

// BufferData returns a copy of a buffer's backing store. Test and tool
// helper; not part of the Device contract.
func (d *HeadlessDevice) BufferData(id BufferID) ([]byte, error) {
	d.bufferMu.RLock()
	buf, ok := d.buffers[id]
	d.bufferMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: buffer %d", ErrNotFound, id)
	}
	buf.mu.Lock()
	defer buf.mu.Unlock()
	return append([]byte(nil), buf.data...), nil
}

// CreateTexture validates the descriptor and accounts the VRAM.
func (d *HeadlessDevice) CreateTexture(desc *TextureDescriptor) (TextureID, error) {
	if desc == nil || desc.Size.Width == 0 || desc.Size.Height == 0 || desc.Size.DepthOrArrayLayers == 0 {
		return InvalidID, fmt.Errorf("%w: texture extent must be positive", ErrInvalidDescriptor)
	}
	if desc.MipLevelCount == 0 || desc.SampleCount == 0 {
		return InvalidID, fmt.Errorf("%w: mip and sample counts must be positive", ErrInvalidDescriptor)
	}

	size := textureSizeBytes(desc)
	id := TextureID(d.nextTextureID.Add(1))
	cp := *desc
	d.textureMu.Lock()
	d.textures[id] = &headlessTexture{desc: cp, sizeBytes: size}
	d.textureMu.Unlock()

	d.vram.add(size)
	slogger().Debug("headless: created texture", "id", uint64(id), "label", desc.Label, "bytes", size)
	return id, nil
}

// DestroyTexture releases a texture and its VRAM.
func (d *HeadlessDevice) DestroyTexture(id TextureID) error {
	d.textureMu.Lock()
	tex, ok := d.textures[id]
	if ok {
		delete(d.textures, id)
	}
	d.textureMu.Unlock()
	if !ok {
		return fmt.Errorf("%w: texture %d", ErrNotFound, id)
	}
	d.vram.sub(tex.sizeBytes)
	return nil
}

// WriteTexture validates the target and region.
func (d *HeadlessDevice) WriteTexture(id TextureID, data []byte, layout TextureDataLayout, origin Origin3D, size Extent3D) error {
	d.textureMu.RLock()
	tex, ok := d.textures[id]
	d.textureMu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: texture %d", ErrNotFound, id)
	}
	if origin.X+size.Width > tex.desc.Size.Width ||
		origin.Y+size.Height > tex.desc.Size.Height ||
		origin.Z+size.DepthOrArrayLayers > tex.desc.Size.DepthOrArrayLayers {
		return fmt.Errorf("%w: texture write region out of range", ErrOutOfBounds)
	}
	needed := uint64(size.Height) * uint64(size.DepthOrArrayLayers) * uint64(layout.BytesPerRow)
	if layout.BytesPerRow != 0 && uint64(len(data)) < layout.Offset+needed {
		return fmt.Errorf("%w: texture data shorter than region", ErrOutOfBounds)
	}
	return nil
}

// CreateTextureView checks that the parent texture exists and that the
// base mip level is below its mip count; mip and array-layer counts are
// not checked.
func (d *HeadlessDevice) CreateTextureView(texture TextureID, desc *TextureViewDescriptor) (TextureViewID, error) {
	if desc == nil {
		return InvalidID, fmt.Errorf("%w: nil texture view descriptor", ErrInvalidDescriptor)
	}
	d.textureMu.RLock()
	tex, ok := d.textures[texture]
	d.textureMu.RUnlock()
	if !ok {
		return InvalidID, fmt.Errorf("%w: texture %d", ErrNotFound, texture)
	}
	if desc.BaseMipLevel >= tex.desc.MipLevelCount {
		return InvalidID, fmt.Errorf("%w: base mip %d of %d", ErrOutOfBounds, desc.BaseMipLevel, tex.desc.MipLevelCount)
	}

	id := TextureViewID(d.nextViewID.Add(1))
	cp := *desc
	d.viewMu.Lock()
	d.views[id] = &headlessView{texture: texture, desc: cp}
	d.viewMu.Unlock()
	return id, nil
}

// DestroyTextureView releases a texture view.
func (d *HeadlessDevice) DestroyTextureView(id TextureViewID) error {
	d.viewMu.Lock()
	defer d.viewMu.Unlock()
	if _, ok := d.views[id]; !ok {
		return fmt.Errorf("%w: texture view %d", ErrNotFound, id)
	}
	delete(d.views, id)
	return nil
}

// ViewTexture resolves a view back to its source texture. Helper for
// validation layers above the device.
func (d *HeadlessDevice) ViewTexture(id TextureViewID) (TextureID, error) {
	d.viewMu.RLock()
	defer d.viewMu.RUnlock()
	view, ok := d.views[id]
	if !ok {
		return InvalidID, fmt.Errorf("%w: texture view %d", ErrNotFound, id)
	}
	return view.texture, nil
}

// CreateSampler rejects an inverted LOD clamp range; border color and
// anisotropy are not checked.
func (d *HeadlessDevice) CreateSampler(desc *SamplerDescriptor) (SamplerID, error) {
	if desc == nil {
		return InvalidID, fmt.Errorf("%w: nil sampler descriptor", ErrInvalidDescriptor)
	}
	if desc.LODMaxClamp < desc.LODMinClamp {
		return InvalidID, fmt.Errorf("%w: LOD clamp range inverted", ErrInvalidDescriptor)
	}

	id := SamplerID(d.nextSamplerID.Add(1))
	cp := *desc
	d.samplerMu.Lock()
	d.samplers[id] = &cp
	d.samplerMu.Unlock()
	return id, nil
}

// DestroySampler releases a sampler.
func (d *HeadlessDevice) DestroySampler(id SamplerID) error {
	d.samplerMu.Lock()
	defer d.samplerMu.Unlock()
	if _, ok := d.samplers[id]; !ok {
		return fmt.Errorf("%w: sampler %d", ErrNotFound, id)
	}
	delete(d.samplers, id)
	return nil
}

// CreateBindGroupLayout stores the layout after basic validation.
func (d *HeadlessDevice) CreateBindGroupLayout(desc *BindGroupLayoutDescriptor) (BindGroupLayoutID, error) {
	if desc == nil {
		return InvalidID, fmt.Errorf("%w: nil bind group layout descriptor", ErrInvalidDescriptor)
	}
	seen := make(map[uint32]bool, len(desc.Entries))
	for _, e := range desc.Entries {
		if seen[e.Binding] {
			return InvalidID, fmt.Errorf("%w: duplicate binding %d", ErrInvalidDescriptor, e.Binding)
		}
		seen[e.Binding] = true
	}

	id := BindGroupLayoutID(d.nextBGLayoutID.Add(1))
	cp := *desc
	cp.Entries = append([]BindGroupLayoutEntry(nil), desc.Entries...)
	d.bgLayoutMu.Lock()
	d.bindGroupLayouts[id] = &cp
	d.bgLayoutMu.Unlock()
	return id, nil
}

// DestroyBindGroupLayout releases a bind group layout.
func (d *HeadlessDevice) DestroyBindGroupLayout(id BindGroupLayoutID) error {
	d.bgLayoutMu.Lock()
	defer d.bgLayoutMu.Unlock()
	if _, ok := d.bindGroupLayouts[id]; !ok {
		return fmt.Errorf("%w: bind group layout %d", ErrNotFound, id)
	}
	delete(d.bindGroupLayouts, id)
	return nil
}

// CreateBindGroup validates every bound resource against the layout.
// Resource tables are consulted in declaration order: buffers,
// texture views, samplers, then the layout table.
func (d *HeadlessDevice) CreateBindGroup(desc *BindGroupDescriptor) (BindGroupID, error) {
	if desc == nil {
		return InvalidID, fmt.Errorf("%w: nil bind group descriptor", ErrInvalidDescriptor)
	}

	d.bufferMu.RLock()
	for _, e := range desc.Entries {
		if e.Buffer != nil {
			if _, ok := d.buffers[e.Buffer.Buffer]; !ok {
				d.bufferMu.RUnlock()
				return InvalidID, fmt.Errorf("%w: buffer %d", ErrNotFound, e.Buffer.Buffer)
			}
		}
	}
	d.bufferMu.RUnlock()

	d.viewMu.RLock()
	for _, e := range desc.Entries {
		if e.TextureView != InvalidID {
			if _, ok := d.views[e.TextureView]; !ok {
				d.viewMu.RUnlock()
				return InvalidID, fmt.Errorf("%w: texture view %d", ErrNotFound, e.TextureView)
			}
		}
	}
	d.viewMu.RUnlock()

	d.samplerMu.RLock()
	for _, e := range desc.Entries {
		if e.Sampler != InvalidID {
			if _, ok := d.samplers[e.Sampler]; !ok {
				d.samplerMu.RUnlock()
				return InvalidID, fmt.Errorf("%w: sampler %d", ErrNotFound, e.Sampler)
			}
		}
	}
	d.samplerMu.RUnlock()

	d.bgLayoutMu.RLock()
	layout, ok := d.bindGroupLayouts[desc.Layout]
	d.bgLayoutMu.RUnlock()
	if !ok {
		return InvalidID, fmt.Errorf("%w: bind group layout %d", ErrNotFound, desc.Layout)
	}

	layoutByBinding := make(map[uint32]BindGroupLayoutEntry, len(layout.Entries))
	for _, e := range layout.Entries {
		layoutByBinding[e.Binding] = e
	}
	for _, e := range desc.Entries {
		le, ok := layoutByBinding[e.Binding]
		if !ok {
			return InvalidID, fmt.Errorf("%w: binding %d not in layout", ErrInvalidDescriptor, e.Binding)
		}
		if err := checkBindingKind(le.Type, e); err != nil {
			return InvalidID, err
		}
	}

	id := BindGroupID(d.nextBindGroupID.Add(1))
	cp := *desc
	cp.Entries = append([]BindGroupEntry(nil), desc.Entries...)
	d.bindGroupMu.Lock()
	d.bindGroups[id] = &cp
	d.bindGroupMu.Unlock()
	return id, nil
}

func checkBindingKind(layoutType BindingType, e BindGroupEntry) error {
	var want string
	switch layoutType {
	case BindingTypeUniformBuffer, BindingTypeStorageBuffer, BindingTypeReadOnlyStorageBuffer:
		if e.Buffer == nil {
			want = "buffer"
		}
	case BindingTypeSampler, BindingTypeComparisonSampler:
		if e.Sampler == InvalidID {
			want = "sampler"
		}
	case BindingTypeTexture, BindingTypeStorageTexture:
		if e.TextureView == InvalidID {
			want = "texture view"
		}
	}
	if want != "" {
		return fmt.Errorf("%w: binding %d expects a %s", ErrInvalidDescriptor, e.Binding, want)
	}
	return nil
}

// DestroyBindGroup releases a bind group.
func (d *HeadlessDevice) DestroyBindGroup(id BindGroupID) error {
	d.bindGroupMu.Lock()
	defer d.bindGroupMu.Unlock()
	if _, ok := d.bindGroups[id]; !ok {
		return fmt.Errorf("%w: bind group %d", ErrNotFound, id)
	}
	delete(d.bindGroups, id)
	return nil
}

// CreateCommandEncoder starts a new recording.
func (d *HeadlessDevice) CreateCommandEncoder(label string) CommandEncoder {
	return &headlessEncoder{device: d, label: label}
}

// SubmitCommandBuffer removes the recording from the table before
// replay, so a second submission of the same handle fails with
// ErrNotFound and cannot corrupt state.
func (d *HeadlessDevice) SubmitCommandBuffer(id CommandBufferID) error {
	d.submitMu.Lock()
	cb, ok := d.commandBuffers[id]
	if ok {
		delete(d.commandBuffers, id)
		d.submitted = append(d.submitted, id)
	}
	d.submitMu.Unlock()
	if !ok {
		return fmt.Errorf("%w: command buffer %d", ErrNotFound, id)
	}

	// Replay buffer copies so data movement is observable. Pass state
	// commands have no headless effect.
	for _, cmd := range cb.Commands {
		if cmd.Kind != CmdCopyBufferToBuffer {
			continue
		}
		if err := d.executeBufferCopy(cmd); err != nil {
			return err
		}
	}
	return nil
}

func (d *HeadlessDevice) executeBufferCopy(cmd RecordedCommand) error {
	d.bufferMu.RLock()
	src, srcOK := d.buffers[cmd.SrcBuffer]
	dst, dstOK := d.buffers[cmd.DstBuffer]
	d.bufferMu.RUnlock()
	if !srcOK {
		return fmt.Errorf("%w: buffer %d", ErrNotFound, cmd.SrcBuffer)
	}
	if !dstOK {
		return fmt.Errorf("%w: buffer %d", ErrNotFound, cmd.DstBuffer)
	}

	src.mu.Lock()
	data := append([]byte(nil), src.data[cmd.SrcOffset:cmd.SrcOffset+cmd.Size]...)
	src.mu.Unlock()
	dst.mu.Lock()
	copy(dst.data[cmd.DstOffset:], data)
	dst.mu.Unlock()
	return nil
}

// SubmittedOrder returns the command buffer IDs in submission order.
// Test and tool helper.
func (d *HeadlessDevice) SubmittedOrder() []CommandBufferID {
	d.submitMu.Lock()
	defer d.submitMu.Unlock()
	return append([]CommandBufferID(nil), d.submitted...)
}

// CommandBuffer returns a finished, unsubmitted recording for
// inspection. Test and tool helper.
func (d *HeadlessDevice) CommandBuffer(id CommandBufferID) (*RecordedCommandBuffer, bool) {
	d.submitMu.Lock()
	defer d.submitMu.Unlock()
	cb, ok := d.commandBuffers[id]
	return cb, ok
}

// SurfaceFormat reports no surface: the headless device never
// presents.
func (d *HeadlessDevice) SurfaceFormat() (TextureFormat, bool) {
	return TextureFormatUndefined, false
}

// AdapterInfo describes the headless adapter.
func (d *HeadlessDevice) AdapterInfo() AdapterInfo { return d.info }

// SupportsFeature reports availability of a feature tag.
func (d *HeadlessDevice) SupportsFeature(name string) bool { return d.features[name] }

// VRAMUsage reports current, peak, and capacity byte counts.
func (d *HeadlessDevice) VRAMUsage() VRAMUsage { return d.vram.usage() }

// MonitorID identifies this device in the global resource-monitor
// registry.
func (d *HeadlessDevice) MonitorID() string { return "gpu.headless.vram" }
