package wgpuadapter

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/quartzengine/quartz/gpu"
	"github.com/quartzengine/quartz/telemetry"
)

// submitTimeout bounds the fence wait after a queue submission.
const submitTimeout = 5 * time.Second

// Device implements gpu.Device over a hal device/queue pair. Handle
// tables map the contract's opaque IDs to live hal objects; each table
// has its own mutex, held only for a single lookup, insert or delete,
// and no operation holds two table locks at once.
type Device struct {
	device hal.Device
	queue  hal.Queue
	info   gpu.AdapterInfo

	nextID atomic.Uint64

	shaderMu sync.RWMutex
	shaders  map[gpu.ShaderModuleID]*shaderEntry

	pipelineLayoutMu sync.RWMutex
	pipelineLayouts  map[gpu.PipelineLayoutID]hal.PipelineLayout

	renderPipelineMu sync.RWMutex
	renderPipelines  map[gpu.RenderPipelineID]hal.RenderPipeline

	computePipelineMu sync.RWMutex
	computePipelines  map[gpu.ComputePipelineID]hal.ComputePipeline

	bufferMu sync.RWMutex
	buffers  map[gpu.BufferID]*bufferEntry

	textureMu sync.RWMutex
	textures  map[gpu.TextureID]*textureEntry

	viewMu sync.RWMutex
	views  map[gpu.TextureViewID]hal.TextureView

	samplerMu sync.RWMutex
	samplers  map[gpu.SamplerID]hal.Sampler

	bgLayoutMu       sync.RWMutex
	bindGroupLayouts map[gpu.BindGroupLayoutID]hal.BindGroupLayout

	bindGroupMu sync.RWMutex
	bindGroups  map[gpu.BindGroupID]hal.BindGroup

	// submitMu guards the command buffer table; the entry is removed
	// before hand-off to the queue to preclude double submission.
	submitMu       sync.Mutex
	commandBuffers map[gpu.CommandBufferID]hal.CommandBuffer

	vramAllocated atomic.Uint64
	vramPeak      atomic.Uint64
}

type shaderEntry struct {
	module hal.ShaderModule
	wgsl   string
	label  string
}

type bufferEntry struct {
	buffer hal.Buffer
	size   uint64
}

type textureEntry struct {
	texture hal.Texture
	size    uint64
}

// New wraps a hal device/queue pair obtained from the application's
// GPU bring-up.
func New(device hal.Device, queue hal.Queue, info gpu.AdapterInfo) (*Device, error) {
	if device == nil || queue == nil {
		return nil, &gpu.DeviceInitError{Msg: "hal device and queue are required"}
	}
	return &Device{
		device:           device,
		queue:            queue,
		info:             info,
		shaders:          make(map[gpu.ShaderModuleID]*shaderEntry),
		pipelineLayouts:  make(map[gpu.PipelineLayoutID]hal.PipelineLayout),
		renderPipelines:  make(map[gpu.RenderPipelineID]hal.RenderPipeline),
		computePipelines: make(map[gpu.ComputePipelineID]hal.ComputePipeline),
		buffers:          make(map[gpu.BufferID]*bufferEntry),
		textures:         make(map[gpu.TextureID]*textureEntry),
		views:            make(map[gpu.TextureViewID]hal.TextureView),
		samplers:         make(map[gpu.SamplerID]hal.Sampler),
		bindGroupLayouts: make(map[gpu.BindGroupLayoutID]hal.BindGroupLayout),
		bindGroups:       make(map[gpu.BindGroupID]hal.BindGroup),
		commandBuffers:   make(map[gpu.CommandBufferID]hal.CommandBuffer),
	}, nil
}

func (d *Device) newID() uint64 { return d.nextID.Add(1) }

func (d *Device) trackVRAM(bytes uint64) {
	current := d.vramAllocated.Add(bytes)
	for {
		peak := d.vramPeak.Load()
		if current <= peak || d.vramPeak.CompareAndSwap(peak, current) {
			return
		}
	}
}

func (d *Device) releaseVRAM(bytes uint64) {
	d.vramAllocated.Add(^(bytes - 1))
}

// hasEntryPoint scans WGSL source for a function declaration.
func hasEntryPoint(source, name string) bool {
	for rest := source; ; {
		idx := strings.Index(rest, "fn ")
		if idx < 0 {
			return false
		}
		rest = rest[idx+3:]
		trimmed := strings.TrimLeft(rest, " \t")
		if strings.HasPrefix(trimmed, name) &&
			strings.HasPrefix(strings.TrimLeft(trimmed[len(name):], " \t"), "(") {
			return true
		}
	}
}

// CreateShaderModule validates the WGSL with naga before handing the
// source to the hal, so compile errors surface with the contract's
// error type instead of a backend string.
func (d *Device) CreateShaderModule(desc *gpu.ShaderModuleDescriptor) (gpu.ShaderModuleID, error) {
	if desc == nil || desc.WGSL == "" {
		return gpu.InvalidID, fmt.Errorf("%w: empty shader source", gpu.ErrInvalidDescriptor)
	}
	if _, err := naga.Compile(desc.WGSL); err != nil {
		return gpu.InvalidID, &gpu.ShaderCompileError{Label: desc.Label, Message: err.Error()}
	}

	module, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  desc.Label,
		Source: hal.ShaderSource{WGSL: desc.WGSL},
	})
	if err != nil {
		return gpu.InvalidID, &gpu.BackendError{Msg: err.Error()}
	}

	id := gpu.ShaderModuleID(d.newID())
	d.shaderMu.Lock()
	d.shaders[id] = &shaderEntry{module: module, wgsl: desc.WGSL, label: desc.Label}
	d.shaderMu.Unlock()
	return id, nil
}

// DestroyShaderModule releases a shader module.
func (d *Device) DestroyShaderModule(id gpu.ShaderModuleID) error {
	d.shaderMu.Lock()
	entry, ok := d.shaders[id]
	if ok {
		delete(d.shaders, id)
	}
	d.shaderMu.Unlock()
	if !ok {
		return &gpu.ShaderNotFoundError{ID: id}
	}
	d.device.DestroyShaderModule(entry.module)
	return nil
}

func (d *Device) shader(id gpu.ShaderModuleID) (*shaderEntry, bool) {
	d.shaderMu.RLock()
	defer d.shaderMu.RUnlock()
	e, ok := d.shaders[id]
	return e, ok
}

// CreatePipelineLayout resolves every referenced bind group layout.
func (d *Device) CreatePipelineLayout(desc *gpu.PipelineLayoutDescriptor) (gpu.PipelineLayoutID, error) {
	if desc == nil {
		return gpu.InvalidID, fmt.Errorf("%w: nil pipeline layout descriptor", gpu.ErrInvalidDescriptor)
	}
	halLayouts := make([]hal.BindGroupLayout, 0, len(desc.BindGroupLayouts))
	d.bgLayoutMu.RLock()
	for _, bgl := range desc.BindGroupLayouts {
		l, ok := d.bindGroupLayouts[bgl]
		if !ok {
			d.bgLayoutMu.RUnlock()
			return gpu.InvalidID, fmt.Errorf("%w: bind group layout %d", gpu.ErrNotFound, bgl)
		}
		halLayouts = append(halLayouts, l)
	}
	d.bgLayoutMu.RUnlock()

	layout, err := d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            desc.Label,
		BindGroupLayouts: halLayouts,
	})
	if err != nil {
		return gpu.InvalidID, &gpu.BackendError{Msg: err.Error()}
	}

	id := gpu.PipelineLayoutID(d.newID())
	d.pipelineLayoutMu.Lock()
	d.pipelineLayouts[id] = layout
	d.pipelineLayoutMu.Unlock()
	return id, nil
}

// DestroyPipelineLayout releases a pipeline layout.
func (d *Device) DestroyPipelineLayout(id gpu.PipelineLayoutID) error {
	d.pipelineLayoutMu.Lock()
	layout, ok := d.pipelineLayouts[id]
	if ok {
		delete(d.pipelineLayouts, id)
	}
	d.pipelineLayoutMu.Unlock()
	if !ok {
		return fmt.Errorf("%w: pipeline layout %d", gpu.ErrNotFound, id)
	}
	d.device.DestroyPipelineLayout(layout)
	return nil
}

// CreateRenderPipeline verifies shader references and entry points at
// creation time, then builds the hal pipeline.
func (d *Device) CreateRenderPipeline(desc *gpu.RenderPipelineDescriptor) (gpu.RenderPipelineID, error) {
	if desc == nil {
		return gpu.InvalidID, fmt.Errorf("%w: nil render pipeline descriptor", gpu.ErrInvalidDescriptor)
	}
	if desc.Vertex.EntryPoint == "" {
		return gpu.InvalidID, fmt.Errorf("%w: vertex entry point is required", gpu.ErrInvalidDescriptor)
	}

	vertexShader, ok := d.shader(desc.Vertex.Module)
	if !ok {
		return gpu.InvalidID, &gpu.InvalidShaderModuleForPipelineError{ID: desc.Vertex.Module, Label: desc.Label}
	}
	if !hasEntryPoint(vertexShader.wgsl, desc.Vertex.EntryPoint) {
		return gpu.InvalidID, &gpu.EntryPointNotFoundError{Label: vertexShader.label, EntryPoint: desc.Vertex.EntryPoint}
	}

	halDesc := &hal.RenderPipelineDescriptor{
		Label: desc.Label,
		Vertex: hal.VertexState{
			Module:     vertexShader.module,
			EntryPoint: desc.Vertex.EntryPoint,
			Buffers:    convertVertexLayouts(desc.Vertex.Buffers),
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  convertTopology(desc.Primitive.Topology),
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  convertCullMode(desc.Primitive.CullMode),
		},
		Multisample: gputypes.MultisampleState{
			Count: desc.Multisample.Count,
			Mask:  uint64(desc.Multisample.Mask),
		},
	}

	if desc.Fragment != nil {
		if desc.Fragment.EntryPoint == "" {
			return gpu.InvalidID, &gpu.MissingFragmentEntryPointError{Label: desc.Label, Shader: desc.Fragment.Module}
		}
		fragShader, ok := d.shader(desc.Fragment.Module)
		if !ok {
			return gpu.InvalidID, &gpu.InvalidShaderModuleForPipelineError{ID: desc.Fragment.Module, Label: desc.Label}
		}
		if !hasEntryPoint(fragShader.wgsl, desc.Fragment.EntryPoint) {
			return gpu.InvalidID, &gpu.EntryPointNotFoundError{Label: fragShader.label, EntryPoint: desc.Fragment.EntryPoint}
		}
		targets := make([]gputypes.ColorTargetState, 0, len(desc.Fragment.Targets))
		for _, t := range desc.Fragment.Targets {
			targets = append(targets, gputypes.ColorTargetState{
				Format:    convertTextureFormat(t.Format),
				WriteMask: gputypes.ColorWriteMaskAll,
			})
		}
		halDesc.Fragment = &hal.FragmentState{
			Module:     fragShader.module,
			EntryPoint: desc.Fragment.EntryPoint,
			Targets:    targets,
		}
	}

	if desc.Layout != gpu.InvalidID {
		d.pipelineLayoutMu.RLock()
		layout, ok := d.pipelineLayouts[desc.Layout]
		d.pipelineLayoutMu.RUnlock()
		if !ok {
			return gpu.InvalidID, fmt.Errorf("%w: pipeline layout %d", gpu.ErrNotFound, desc.Layout)
		}
		halDesc.Layout = layout
	}

	if ds := desc.DepthStencil; ds != nil {
		halDesc.DepthStencil = &hal.DepthStencilState{
			Format:            convertTextureFormat(ds.Format),
			DepthWriteEnabled: ds.DepthWriteEnable,
			DepthCompare:      convertCompare(ds.DepthCompare),
			StencilFront:      convertStencilFace(ds.StencilFront),
			StencilBack:       convertStencilFace(ds.StencilBack),
			StencilReadMask:   ds.StencilReadMask,
			StencilWriteMask:  ds.StencilWriteMask,
		}
	}

	pipeline, err := d.device.CreateRenderPipeline(halDesc)
	if err != nil {
		return gpu.InvalidID, &gpu.BackendError{Msg: err.Error()}
	}

	id := gpu.RenderPipelineID(d.newID())
	d.renderPipelineMu.Lock()
	d.renderPipelines[id] = pipeline
	d.renderPipelineMu.Unlock()
	return id, nil
}

// DestroyRenderPipeline releases a render pipeline.
func (d *Device) DestroyRenderPipeline(id gpu.RenderPipelineID) error {
	d.renderPipelineMu.Lock()
	pipeline, ok := d.renderPipelines[id]
	if ok {
		delete(d.renderPipelines, id)
	}
	d.renderPipelineMu.Unlock()
	if !ok {
		return &gpu.InvalidRenderPipelineError{ID: id}
	}
	d.device.DestroyRenderPipeline(pipeline)
	return nil
}

// CreateComputePipeline verifies the shader and entry point, then
// builds the hal pipeline.
func (d *Device) CreateComputePipeline(desc *gpu.ComputePipelineDescriptor) (gpu.ComputePipelineID, error) {
	if desc == nil {
		return gpu.InvalidID, fmt.Errorf("%w: nil compute pipeline descriptor", gpu.ErrInvalidDescriptor)
	}
	shader, ok := d.shader(desc.Module)
	if !ok {
		return gpu.InvalidID, &gpu.InvalidShaderModuleForPipelineError{ID: desc.Module, Label: desc.Label}
	}
	if !hasEntryPoint(shader.wgsl, desc.EntryPoint) {
		return gpu.InvalidID, &gpu.EntryPointNotFoundError{Label: shader.label, EntryPoint: desc.EntryPoint}
	}

	halDesc := &hal.ComputePipelineDescriptor{
		Label: desc.Label,
		Compute: hal.ComputeState{
			Module:     shader.module,
			EntryPoint: desc.EntryPoint,
		},
	}
	if desc.Layout != gpu.InvalidID {
		d.pipelineLayoutMu.RLock()
		layout, ok := d.pipelineLayouts[desc.Layout]
		d.pipelineLayoutMu.RUnlock()
		if !ok {
			return gpu.InvalidID, fmt.Errorf("%w: pipeline layout %d", gpu.ErrNotFound, desc.Layout)
		}
		halDesc.Layout = layout
	}

	pipeline, err := d.device.CreateComputePipeline(halDesc)
	if err != nil {
		return gpu.InvalidID, &gpu.BackendError{Msg: err.Error()}
	}

	id := gpu.ComputePipelineID(d.newID())
	d.computePipelineMu.Lock()
	d.computePipelines[id] = pipeline
	d.computePipelineMu.Unlock()
	return id, nil
}

// DestroyComputePipeline releases a compute pipeline.
func (d *Device) DestroyComputePipeline(id gpu.ComputePipelineID) error {
	d.computePipelineMu.Lock()
	pipeline, ok := d.computePipelines[id]
	if ok {
		delete(d.computePipelines, id)
	}
	d.computePipelineMu.Unlock()
	if !ok {
		return &gpu.InvalidComputePipelineError{ID: id}
	}
	d.device.DestroyComputePipeline(pipeline)
	return nil
}

// CreateBuffer allocates a hal buffer and tracks its VRAM.
func (d *Device) CreateBuffer(desc *gpu.BufferDescriptor) (gpu.BufferID, error) {
	if desc == nil || desc.Size == 0 {
		return gpu.InvalidID, fmt.Errorf("%w: buffer size must be positive", gpu.ErrInvalidDescriptor)
	}
	buffer, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label:            desc.Label,
		Size:             desc.Size,
		Usage:            convertBufferUsage(desc.Usage),
		MappedAtCreation: desc.MappedAtCreation,
	})
	if err != nil {
		return gpu.InvalidID, &gpu.BackendError{Msg: err.Error()}
	}

	id := gpu.BufferID(d.newID())
	d.bufferMu.Lock()
	d.buffers[id] = &bufferEntry{buffer: buffer, size: desc.Size}
	d.bufferMu.Unlock()

	d.trackVRAM(desc.Size)
	return id, nil
}

// CreateBufferWithData allocates and uploads in one step.
func (d *Device) CreateBufferWithData(desc *gpu.BufferDescriptor, data []byte) (gpu.BufferID, error) {
	if desc != nil && uint64(len(data)) > desc.Size {
		return gpu.InvalidID, fmt.Errorf("%w: data exceeds buffer size", gpu.ErrOutOfBounds)
	}
	id, err := d.CreateBuffer(desc)
	if err != nil {
		return gpu.InvalidID, err
	}
	if len(data) > 0 {
		if err := d.WriteBuffer(id, 0, data); err != nil {
			_ = d.DestroyBuffer(id)
			return gpu.InvalidID, err
		}
	}
	return id, nil
}

// DestroyBuffer releases a buffer and its VRAM.
func (d *Device) DestroyBuffer(id gpu.BufferID) error {
	d.bufferMu.Lock()
	entry, ok := d.buffers[id]
	if ok {
		delete(d.buffers, id)
	}
	d.bufferMu.Unlock()
	if !ok {
		return fmt.Errorf("%w: buffer %d", gpu.ErrNotFound, id)
	}
	d.device.DestroyBuffer(entry.buffer)
	d.releaseVRAM(entry.size)
	return nil
}

func (d *Device) buffer(id gpu.BufferID) (*bufferEntry, bool) {
	d.bufferMu.RLock()
	defer d.bufferMu.RUnlock()
	e, ok := d.buffers[id]
	return e, ok
}

// WriteBuffer bounds-checks and enqueues a queue-side upload.
func (d *Device) WriteBuffer(id gpu.BufferID, offset uint64, data []byte) error {
	entry, ok := d.buffer(id)
	if !ok {
		return fmt.Errorf("%w: buffer %d", gpu.ErrNotFound, id)
	}
	if offset+uint64(len(data)) > entry.size {
		return fmt.Errorf("%w: write of %d bytes at offset %d into buffer of %d bytes",
			gpu.ErrOutOfBounds, len(data), offset, entry.size)
	}
	d.queue.WriteBuffer(entry.buffer, offset, data)
	return nil
}

// WriteBufferAsync copies the data and performs the upload from a
// separate goroutine, completing the returned channel when the
// queue-side write has been issued. Abandoning the channel does not
// abort the upload.
func (d *Device) WriteBufferAsync(id gpu.BufferID, offset uint64, data []byte) <-chan error {
	done := make(chan error, 1)
	owned := append([]byte(nil), data...)
	go func() {
		done <- d.WriteBuffer(id, offset, owned)
	}()
	return done
}

// CreateTexture allocates a hal texture and tracks its VRAM.
func (d *Device) CreateTexture(desc *gpu.TextureDescriptor) (gpu.TextureID, error) {
	if desc == nil || desc.Size.Width == 0 || desc.Size.Height == 0 || desc.Size.DepthOrArrayLayers == 0 {
		return gpu.InvalidID, fmt.Errorf("%w: texture extent must be positive", gpu.ErrInvalidDescriptor)
	}
	texture, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              desc.Size.Width,
			Height:             desc.Size.Height,
			DepthOrArrayLayers: desc.Size.DepthOrArrayLayers,
		},
		MipLevelCount: desc.MipLevelCount,
		SampleCount:   desc.SampleCount,
		Dimension:     convertTextureDimension(desc.Dimension),
		Format:        convertTextureFormat(desc.Format),
		Usage:         convertTextureUsage(desc.Usage),
	})
	if err != nil {
		return gpu.InvalidID, &gpu.BackendError{Msg: err.Error()}
	}

	size := desc.Format.BytesPerPixel() *
		uint64(desc.Size.Width) * uint64(desc.Size.Height) * uint64(desc.Size.DepthOrArrayLayers)

	id := gpu.TextureID(d.newID())
	d.textureMu.Lock()
	d.textures[id] = &textureEntry{texture: texture, size: size}
	d.textureMu.Unlock()

	d.trackVRAM(size)
	return id, nil
}

// DestroyTexture releases a texture and its VRAM.
func (d *Device) DestroyTexture(id gpu.TextureID) error {
	d.textureMu.Lock()
	entry, ok := d.textures[id]
	if ok {
		delete(d.textures, id)
	}
	d.textureMu.Unlock()
	if !ok {
		return fmt.Errorf("%w: texture %d", gpu.ErrNotFound, id)
	}
	d.device.DestroyTexture(entry.texture)
	d.releaseVRAM(entry.size)
	return nil
}

// WriteTexture uploads texel data through the queue.
func (d *Device) WriteTexture(id gpu.TextureID, data []byte, layout gpu.TextureDataLayout, origin gpu.Origin3D, size gpu.Extent3D) error {
	d.textureMu.RLock()
	entry, ok := d.textures[id]
	d.textureMu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: texture %d", gpu.ErrNotFound, id)
	}
	d.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: entry.texture, MipLevel: 0},
		data,
		&hal.ImageDataLayout{
			Offset:       layout.Offset,
			BytesPerRow:  layout.BytesPerRow,
			RowsPerImage: layout.RowsPerImage,
		},
		&hal.Extent3D{
			Width:              size.Width,
			Height:             size.Height,
			DepthOrArrayLayers: size.DepthOrArrayLayers,
		},
	)
	return nil
}

// CreateTextureView builds a view onto a live texture.
func (d *Device) CreateTextureView(texture gpu.TextureID, desc *gpu.TextureViewDescriptor) (gpu.TextureViewID, error) {
	if desc == nil {
		return gpu.InvalidID, fmt.Errorf("%w: nil texture view descriptor", gpu.ErrInvalidDescriptor)
	}
	d.textureMu.RLock()
	entry, ok := d.textures[texture]
	d.textureMu.RUnlock()
	if !ok {
		return gpu.InvalidID, fmt.Errorf("%w: texture %d", gpu.ErrNotFound, texture)
	}

	view, err := d.device.CreateTextureView(entry.texture, &hal.TextureViewDescriptor{
		Label:           desc.Label,
		Format:          convertTextureFormat(desc.Format),
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		BaseMipLevel:    desc.BaseMipLevel,
		MipLevelCount:   desc.MipLevelCount,
		BaseArrayLayer:  desc.BaseArrayLayer,
		ArrayLayerCount: desc.ArrayLayerCount,
	})
	if err != nil {
		return gpu.InvalidID, &gpu.BackendError{Msg: err.Error()}
	}

	id := gpu.TextureViewID(d.newID())
	d.viewMu.Lock()
	d.views[id] = view
	d.viewMu.Unlock()
	return id, nil
}

// DestroyTextureView releases a texture view.
func (d *Device) DestroyTextureView(id gpu.TextureViewID) error {
	d.viewMu.Lock()
	view, ok := d.views[id]
	if ok {
		delete(d.views, id)
	}
	d.viewMu.Unlock()
	if !ok {
		return fmt.Errorf("%w: texture view %d", gpu.ErrNotFound, id)
	}
	d.device.DestroyTextureView(view)
	return nil
}

// CreateSampler builds a hal sampler.
func (d *Device) CreateSampler(desc *gpu.SamplerDescriptor) (gpu.SamplerID, error) {
	if desc == nil {
		return gpu.InvalidID, fmt.Errorf("%w: nil sampler descriptor", gpu.ErrInvalidDescriptor)
	}
	sampler, err := d.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        desc.Label,
		AddressModeU: convertAddressMode(desc.AddressModeU),
		AddressModeV: convertAddressMode(desc.AddressModeV),
		AddressModeW: convertAddressMode(desc.AddressModeW),
		MagFilter:    convertFilterMode(desc.MagFilter),
		MinFilter:    convertFilterMode(desc.MinFilter),
		MipmapFilter: convertFilterMode(desc.MipmapFilter),
	})
	if err != nil {
		return gpu.InvalidID, &gpu.BackendError{Msg: err.Error()}
	}

	id := gpu.SamplerID(d.newID())
	d.samplerMu.Lock()
	d.samplers[id] = sampler
	d.samplerMu.Unlock()
	return id, nil
}

// DestroySampler releases a sampler.
func (d *Device) DestroySampler(id gpu.SamplerID) error {
	d.samplerMu.Lock()
	sampler, ok := d.samplers[id]
	if ok {
		delete(d.samplers, id)
	}
	d.samplerMu.Unlock()
	if !ok {
		return fmt.Errorf("%w: sampler %d", gpu.ErrNotFound, id)
	}
	d.device.DestroySampler(sampler)
	return nil
}

// CreateBindGroupLayout builds a hal bind group layout.
func (d *Device) CreateBindGroupLayout(desc *gpu.BindGroupLayoutDescriptor) (gpu.BindGroupLayoutID, error) {
	if desc == nil {
		return gpu.InvalidID, fmt.Errorf("%w: nil bind group layout descriptor", gpu.ErrInvalidDescriptor)
	}
	entries := make([]gputypes.BindGroupLayoutEntry, 0, len(desc.Entries))
	for _, e := range desc.Entries {
		entries = append(entries, convertLayoutEntry(e))
	}
	layout, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   desc.Label,
		Entries: entries,
	})
	if err != nil {
		return gpu.InvalidID, &gpu.BackendError{Msg: err.Error()}
	}

	id := gpu.BindGroupLayoutID(d.newID())
	d.bgLayoutMu.Lock()
	d.bindGroupLayouts[id] = layout
	d.bgLayoutMu.Unlock()
	return id, nil
}

// DestroyBindGroupLayout releases a bind group layout.
func (d *Device) DestroyBindGroupLayout(id gpu.BindGroupLayoutID) error {
	d.bgLayoutMu.Lock()
	layout, ok := d.bindGroupLayouts[id]
	if ok {
		delete(d.bindGroupLayouts, id)
	}
	d.bgLayoutMu.Unlock()
	if !ok {
		return fmt.Errorf("%w: bind group layout %d", gpu.ErrNotFound, id)
	}
	d.device.DestroyBindGroupLayout(layout)
	return nil
}

// CreateBindGroup resolves resources in table order (buffers, views,
// samplers, layouts) and builds the hal bind group.
func (d *Device) CreateBindGroup(desc *gpu.BindGroupDescriptor) (gpu.BindGroupID, error) {
	if desc == nil {
		return gpu.InvalidID, fmt.Errorf("%w: nil bind group descriptor", gpu.ErrInvalidDescriptor)
	}

	entries := make([]gputypes.BindGroupEntry, 0, len(desc.Entries))
	d.bufferMu.RLock()
	for _, e := range desc.Entries {
		if e.Buffer == nil {
			continue
		}
		entry, ok := d.buffers[e.Buffer.Buffer]
		if !ok {
			d.bufferMu.RUnlock()
			return gpu.InvalidID, fmt.Errorf("%w: buffer %d", gpu.ErrNotFound, e.Buffer.Buffer)
		}
		entries = append(entries, gputypes.BindGroupEntry{
			Binding: e.Binding,
			Resource: gputypes.BufferBinding{
				Buffer: entry.buffer.NativeHandle(),
				Offset: e.Buffer.Offset,
				Size:   e.Buffer.Size,
			},
		})
	}
	d.bufferMu.RUnlock()

	d.viewMu.RLock()
	for _, e := range desc.Entries {
		if e.TextureView == gpu.InvalidID {
			continue
		}
		if _, ok := d.views[e.TextureView]; !ok {
			d.viewMu.RUnlock()
			return gpu.InvalidID, fmt.Errorf("%w: texture view %d", gpu.ErrNotFound, e.TextureView)
		}
	}
	d.viewMu.RUnlock()

	d.samplerMu.RLock()
	for _, e := range desc.Entries {
		if e.Sampler == gpu.InvalidID {
			continue
		}
		if _, ok := d.samplers[e.Sampler]; !ok {
			d.samplerMu.RUnlock()
			return gpu.InvalidID, fmt.Errorf("%w: sampler %d", gpu.ErrNotFound, e.Sampler)
		}
	}
	d.samplerMu.RUnlock()

	d.bgLayoutMu.RLock()
	layout, ok := d.bindGroupLayouts[desc.Layout]
	d.bgLayoutMu.RUnlock()
	if !ok {
		return gpu.InvalidID, fmt.Errorf("%w: bind group layout %d", gpu.ErrNotFound, desc.Layout)
	}

	group, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   desc.Label,
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return gpu.InvalidID, &gpu.BackendError{Msg: err.Error()}
	}

	id := gpu.BindGroupID(d.newID())
	d.bindGroupMu.Lock()
	d.bindGroups[id] = group
	d.bindGroupMu.Unlock()
	return id, nil
}

// DestroyBindGroup releases a bind group.
func (d *Device) DestroyBindGroup(id gpu.BindGroupID) error {
	d.bindGroupMu.Lock()
	group, ok := d.bindGroups[id]
	if ok {
		delete(d.bindGroups, id)
	}
	d.bindGroupMu.Unlock()
	if !ok {
		return fmt.Errorf("%w: bind group %d", gpu.ErrNotFound, id)
	}
	d.device.DestroyBindGroup(group)
	return nil
}

// CreateCommandEncoder opens a hal encoder and begins recording.
func (d *Device) CreateCommandEncoder(label string) gpu.CommandEncoder {
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err == nil {
		err = encoder.BeginEncoding(label)
	}
	return &commandEncoder{device: d, label: label, encoder: encoder, err: err}
}

// SubmitCommandBuffer removes the entry before hand-off, submits with
// a fence, and waits for completion so resource destruction after
// return is always safe.
func (d *Device) SubmitCommandBuffer(id gpu.CommandBufferID) error {
	d.submitMu.Lock()
	cb, ok := d.commandBuffers[id]
	if ok {
		delete(d.commandBuffers, id)
	}
	d.submitMu.Unlock()
	if !ok {
		return fmt.Errorf("%w: command buffer %d", gpu.ErrNotFound, id)
	}
	defer d.device.FreeCommandBuffer(cb)

	fence, err := d.device.CreateFence()
	if err != nil {
		return &gpu.BackendError{Msg: err.Error()}
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cb}, fence, 1); err != nil {
		return &gpu.BackendError{Msg: err.Error()}
	}
	done, err := d.device.Wait(fence, 1, submitTimeout)
	if err != nil {
		return &gpu.BackendError{Msg: err.Error()}
	}
	if !done {
		return gpu.ErrTimeout
	}
	return nil
}

// SurfaceFormat reports no surface; presentation is owned by the
// application shell, not the device.
func (d *Device) SurfaceFormat() (gpu.TextureFormat, bool) {
	return gpu.TextureFormatUndefined, false
}

// AdapterInfo describes the selected adapter.
func (d *Device) AdapterInfo() gpu.AdapterInfo { return d.info }

// SupportsFeature reports feature availability for this backend. The
// hal does not surface optional features yet, so every tag reads as
// unavailable and callers stay on the universal paths.
func (d *Device) SupportsFeature(name string) bool {
	return false
}

// VRAMUsage reports current and peak allocation. The hal does not
// surface adapter capacity, so it reads as zero.
func (d *Device) VRAMUsage() gpu.VRAMUsage {
	return gpu.VRAMUsage{
		AllocatedBytes: d.vramAllocated.Load(),
		PeakBytes:      d.vramPeak.Load(),
	}
}

// MonitorID identifies this device in the resource-monitor registry.
func (d *Device) MonitorID() string { return "gpu.wgpu.vram" }

// ResourceType classifies the monitored resource as VRAM.
func (d *Device) ResourceType() telemetry.MonitoredResourceType {
	return telemetry.ResourceVRAM
}

// Usage reports VRAM consumption for the resource-monitor registry.
func (d *Device) Usage() telemetry.ResourceUsage {
	u := d.VRAMUsage()
	return telemetry.ResourceUsage{
		CurrentBytes: u.AllocatedBytes,
		PeakBytes:    u.PeakBytes,
	}
}

// convertStencilFace maps a stencil face configuration onto the hal's
// operation set.
func convertStencilFace(s gpu.StencilFaceState) hal.StencilFaceState {
	op := func(o gpu.StencilOperation) hal.StencilOperation {
		switch o {
		case gpu.StencilOperationIncrementWrap:
			return hal.StencilOperationIncrementWrap
		case gpu.StencilOperationDecrementWrap:
			return hal.StencilOperationDecrementWrap
		default:
			return hal.StencilOperationKeep
		}
	}
	return hal.StencilFaceState{
		Compare:     convertCompare(s.Compare),
		FailOp:      op(s.FailOp),
		DepthFailOp: op(s.DepthFailOp),
		PassOp:      op(s.PassOp),
	}
}

var (
	_ gpu.Device                = (*Device)(nil)
	_ telemetry.ResourceMonitor = (*Device)(nil)
)
