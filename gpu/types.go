package gpu

// BufferUsage is a bitmask specifying how a buffer will be used.
type BufferUsage uint32

// Buffer usage flags.
const (
	BufferUsageMapRead BufferUsage = 1 << iota
	BufferUsageMapWrite
	BufferUsageCopySrc
	BufferUsageCopyDst
	BufferUsageIndex
	BufferUsageVertex
	BufferUsageUniform
	BufferUsageStorage
	BufferUsageIndirect
)

// BufferDescriptor describes a buffer to create.
type BufferDescriptor struct {
	Label string
	// Size is the buffer size in bytes.
	Size uint64
	// Usage specifies how the buffer will be used.
	Usage BufferUsage
	// MappedAtCreation creates the buffer pre-mapped for writing.
	MappedAtCreation bool
}

// TextureFormat specifies the format of texture data.
type TextureFormat uint32

// Texture formats.
const (
	TextureFormatUndefined TextureFormat = iota
	TextureFormatR8Unorm
	TextureFormatRG8Unorm
	TextureFormatRGBA8Unorm
	TextureFormatRGBA8UnormSRGB
	TextureFormatBGRA8Unorm
	TextureFormatBGRA8UnormSRGB
	TextureFormatR16Float
	TextureFormatR32Float
	TextureFormatRG32Float
	TextureFormatRGBA16Float
	TextureFormatRGBA32Float
	TextureFormatDepth16Unorm
	TextureFormatDepth32Float
	TextureFormatDepth24PlusStencil8
)

// BytesPerPixel returns the per-pixel size of the format used for VRAM
// accounting. Block-compressed formats are not represented in this
// table; callers that need precise accounting for compressed textures
// must correct for the block layout themselves.
func (f TextureFormat) BytesPerPixel() uint64 {
	switch f {
	case TextureFormatR8Unorm:
		return 1
	case TextureFormatRG8Unorm, TextureFormatR16Float, TextureFormatDepth16Unorm:
		return 2
	case TextureFormatRGBA8Unorm, TextureFormatRGBA8UnormSRGB,
		TextureFormatBGRA8Unorm, TextureFormatBGRA8UnormSRGB,
		TextureFormatR32Float, TextureFormatDepth32Float,
		TextureFormatDepth24PlusStencil8:
		return 4
	case TextureFormatRG32Float, TextureFormatRGBA16Float:
		return 8
	case TextureFormatRGBA32Float:
		return 16
	default:
		return 4
	}
}

// TextureUsage is a bitmask specifying how a texture will be used.
type TextureUsage uint32

// Texture usage flags.
const (
	TextureUsageCopySrc TextureUsage = 1 << iota
	TextureUsageCopyDst
	TextureUsageSampled
	TextureUsageStorage
	TextureUsageColorAttachment
	TextureUsageDepthStencilAttachment
)

// TextureDimension is the dimensionality of a texture.
type TextureDimension uint32

// Texture dimensions.
const (
	TextureDimension1D TextureDimension = iota + 1
	TextureDimension2D
	TextureDimension3D
)

// Extent3D is a texture size: width, height, and depth or array layer
// count.
type Extent3D struct {
	Width              uint32
	Height             uint32
	DepthOrArrayLayers uint32
}

// Origin3D is an offset into a texture.
type Origin3D struct {
	X, Y, Z uint32
}

// TextureDescriptor describes a texture to create.
type TextureDescriptor struct {
	Label         string
	Size          Extent3D
	MipLevelCount uint32
	SampleCount   uint32
	Dimension     TextureDimension
	Format        TextureFormat
	Usage         TextureUsage
	// ViewFormats lists additional formats views of this texture may
	// use.
	ViewFormats []TextureFormat
}

// TextureAspect selects the plane of a texture a view exposes.
type TextureAspect uint32

// Texture aspects.
const (
	TextureAspectAll TextureAspect = iota
	TextureAspectDepthOnly
	TextureAspectStencilOnly
)

// TextureViewDimension is the dimensionality a view presents.
type TextureViewDimension uint32

// Texture view dimensions.
const (
	TextureViewDimensionUndefined TextureViewDimension = iota
	TextureViewDimension1D
	TextureViewDimension2D
	TextureViewDimension2DArray
	TextureViewDimensionCube
	TextureViewDimension3D
)

// TextureViewDescriptor describes a view onto an existing texture.
// Zero mip/layer counts select all remaining levels/layers.
type TextureViewDescriptor struct {
	Label           string
	Format          TextureFormat // TextureFormatUndefined inherits from the texture
	Dimension       TextureViewDimension
	Aspect          TextureAspect
	BaseMipLevel    uint32
	MipLevelCount   uint32
	BaseArrayLayer  uint32
	ArrayLayerCount uint32
}

// AddressMode controls sampling outside the [0, 1] coordinate range.
type AddressMode uint32

// Address modes.
const (
	AddressModeClampToEdge AddressMode = iota
	AddressModeRepeat
	AddressModeMirrorRepeat
	AddressModeClampToBorder
)

// FilterMode selects texel filtering.
type FilterMode uint32

// Filter modes.
const (
	FilterModeNearest FilterMode = iota
	FilterModeLinear
)

// CompareFunction is a depth/stencil or sampler comparison.
type CompareFunction uint32

// Compare functions. CompareFunctionUndefined on a sampler descriptor
// creates an ordinary (non-comparison) sampler.
const (
	CompareFunctionUndefined CompareFunction = iota
	CompareFunctionNever
	CompareFunctionLess
	CompareFunctionEqual
	CompareFunctionLessEqual
	CompareFunctionGreater
	CompareFunctionNotEqual
	CompareFunctionGreaterEqual
	CompareFunctionAlways
)

// BorderColor is the sampled color outside the texture when the
// address mode is clamp-to-border.
type BorderColor uint32

// Border colors.
const (
	BorderColorTransparentBlack BorderColor = iota
	BorderColorOpaqueBlack
	BorderColorOpaqueWhite
)

// SamplerDescriptor describes a sampler. A non-undefined Compare
// function creates a comparison sampler for shadow mapping.
type SamplerDescriptor struct {
	Label           string
	AddressModeU    AddressMode
	AddressModeV    AddressMode
	AddressModeW    AddressMode
	MagFilter       FilterMode
	MinFilter       FilterMode
	MipmapFilter    FilterMode
	LODMinClamp     float32
	LODMaxClamp     float32
	Compare         CompareFunction
	AnisotropyClamp uint16
	BorderColor     BorderColor
}

// ShaderModuleDescriptor supplies WGSL source for compilation.
type ShaderModuleDescriptor struct {
	Label string
	// WGSL is the shader source text.
	WGSL string
}

// PipelineLayoutDescriptor lists the bind group layouts a pipeline
// uses, by group index.
type PipelineLayoutDescriptor struct {
	Label            string
	BindGroupLayouts []BindGroupLayoutID
}

// PrimitiveTopology selects how vertices assemble into primitives.
type PrimitiveTopology uint32

// Primitive topologies.
const (
	PrimitiveTopologyTriangleList PrimitiveTopology = iota
	PrimitiveTopologyTriangleStrip
	PrimitiveTopologyLineList
	PrimitiveTopologyLineStrip
	PrimitiveTopologyPointList
)

// FrontFace selects the winding of front-facing triangles. The engine
// default is counter-clockwise.
type FrontFace uint32

// Front face windings.
const (
	FrontFaceCCW FrontFace = iota
	FrontFaceCW
)

// CullMode selects which faces are culled.
type CullMode uint32

// Cull modes.
const (
	CullModeNone CullMode = iota
	CullModeFront
	CullModeBack
)

// PolygonMode selects fill, line, or point rasterization.
type PolygonMode uint32

// Polygon modes.
const (
	PolygonModeFill PolygonMode = iota
	PolygonModeLine
	PolygonModePoint
)

// IndexFormat is the element type of an index buffer.
type IndexFormat uint32

// Index formats.
const (
	IndexFormatUint16 IndexFormat = iota
	IndexFormatUint32
)

// PrimitiveState configures primitive assembly and rasterization.
type PrimitiveState struct {
	Topology         PrimitiveTopology
	FrontFace        FrontFace
	CullMode         CullMode
	PolygonMode      PolygonMode
	UnclippedDepth   bool
	Conservative     bool
	// StripIndexFormat must be set for strip topologies when indexed
	// drawing is used.
	StripIndexFormat *IndexFormat
}

// VertexFormat is the data type of one vertex attribute.
type VertexFormat uint32

// Vertex formats.
const (
	VertexFormatFloat32 VertexFormat = iota
	VertexFormatFloat32x2
	VertexFormatFloat32x3
	VertexFormatFloat32x4
	VertexFormatUint32
	VertexFormatUint32x2
	VertexFormatUint32x4
	VertexFormatSint32
	VertexFormatUnorm8x4
)

// VertexStepMode selects per-vertex or per-instance advancement.
type VertexStepMode uint32

// Vertex step modes.
const (
	VertexStepModeVertex VertexStepMode = iota
	VertexStepModeInstance
)

// VertexAttribute binds a format at an offset to a shader location.
type VertexAttribute struct {
	Format         VertexFormat
	Offset         uint64
	ShaderLocation uint32
}

// VertexBufferLayout describes one vertex buffer slot.
type VertexBufferLayout struct {
	ArrayStride uint64
	StepMode    VertexStepMode
	Attributes  []VertexAttribute
}

// BlendFactor scales a blend input.
type BlendFactor uint32

// Blend factors.
const (
	BlendFactorZero BlendFactor = iota
	BlendFactorOne
	BlendFactorSrc
	BlendFactorOneMinusSrc
	BlendFactorSrcAlpha
	BlendFactorOneMinusSrcAlpha
	BlendFactorDst
	BlendFactorOneMinusDst
	BlendFactorDstAlpha
	BlendFactorOneMinusDstAlpha
)

// BlendOperation combines the scaled blend inputs.
type BlendOperation uint32

// Blend operations.
const (
	BlendOperationAdd BlendOperation = iota
	BlendOperationSubtract
	BlendOperationReverseSubtract
	BlendOperationMin
	BlendOperationMax
)

// BlendComponent configures blending for one channel set.
type BlendComponent struct {
	SrcFactor BlendFactor
	DstFactor BlendFactor
	Operation BlendOperation
}

// BlendState configures color and alpha blending independently.
type BlendState struct {
	Color BlendComponent
	Alpha BlendComponent
}

// ColorWriteMask selects which channels a pipeline writes.
type ColorWriteMask uint32

// Color write mask bits.
const (
	ColorWriteMaskRed ColorWriteMask = 1 << iota
	ColorWriteMaskGreen
	ColorWriteMaskBlue
	ColorWriteMaskAlpha

	ColorWriteMaskAll = ColorWriteMaskRed | ColorWriteMaskGreen |
		ColorWriteMaskBlue | ColorWriteMaskAlpha
	ColorWriteMaskNone ColorWriteMask = 0
)

// ColorTargetState configures one color attachment of a render
// pipeline.
type ColorTargetState struct {
	Format    TextureFormat
	Blend     *BlendState
	WriteMask ColorWriteMask
}

// StencilOperation is applied to the stencil buffer on test results.
type StencilOperation uint32

// Stencil operations.
const (
	StencilOperationKeep StencilOperation = iota
	StencilOperationZero
	StencilOperationReplace
	StencilOperationInvert
	StencilOperationIncrementClamp
	StencilOperationDecrementClamp
	StencilOperationIncrementWrap
	StencilOperationDecrementWrap
)

// StencilFaceState configures stencil behavior for one face
// orientation.
type StencilFaceState struct {
	Compare     CompareFunction
	FailOp      StencilOperation
	DepthFailOp StencilOperation
	PassOp      StencilOperation
}

// DepthBiasState configures depth bias applied during rasterization.
type DepthBiasState struct {
	Constant   int32
	SlopeScale float32
	Clamp      float32
}

// DepthStencilState configures the depth-stencil attachment of a
// render pipeline.
type DepthStencilState struct {
	Format           TextureFormat
	DepthWriteEnable bool
	DepthCompare     CompareFunction
	StencilFront     StencilFaceState
	StencilBack      StencilFaceState
	StencilReadMask  uint32
	StencilWriteMask uint32
	Bias             DepthBiasState
}

// MultisampleState configures MSAA for a render pipeline.
type MultisampleState struct {
	Count                  uint32
	Mask                   uint32
	AlphaToCoverageEnabled bool
}

// VertexState references the vertex stage of a render pipeline.
type VertexState struct {
	Module     ShaderModuleID
	EntryPoint string
	Buffers    []VertexBufferLayout
}

// FragmentState references the optional fragment stage of a render
// pipeline. When present, both Module and EntryPoint are required.
type FragmentState struct {
	Module     ShaderModuleID
	EntryPoint string
	Targets    []ColorTargetState
}

// RenderPipelineDescriptor describes a render pipeline.
type RenderPipelineDescriptor struct {
	Label        string
	Layout       PipelineLayoutID // InvalidID derives an implicit layout
	Vertex       VertexState
	Fragment     *FragmentState
	Primitive    PrimitiveState
	DepthStencil *DepthStencilState
	Multisample  MultisampleState
}

// ComputePipelineDescriptor describes a compute pipeline.
type ComputePipelineDescriptor struct {
	Label      string
	Layout     PipelineLayoutID // InvalidID derives an implicit layout
	Module     ShaderModuleID
	EntryPoint string
}

// ShaderStage is a bitmask of pipeline stages a binding is visible to.
type ShaderStage uint32

// Shader stages.
const (
	ShaderStageVertex ShaderStage = 1 << iota
	ShaderStageFragment
	ShaderStageCompute
)

// BindingType is the kind of resource bound at a layout slot.
type BindingType uint32

// Binding types.
const (
	BindingTypeUniformBuffer BindingType = iota + 1
	BindingTypeStorageBuffer
	BindingTypeReadOnlyStorageBuffer
	BindingTypeSampler
	BindingTypeComparisonSampler
	BindingTypeTexture
	BindingTypeStorageTexture
)

// TextureSampleType is how a shader samples a bound texture.
type TextureSampleType uint32

// Texture sample types.
const (
	TextureSampleTypeFloat TextureSampleType = iota
	TextureSampleTypeDepth
	TextureSampleTypeSint
	TextureSampleTypeUint
)

// BindGroupLayoutEntry describes one binding slot of a layout.
type BindGroupLayoutEntry struct {
	Binding    uint32
	Visibility ShaderStage
	Type       BindingType

	// Buffer binding options.
	HasDynamicOffset bool
	MinBindingSize   uint64

	// Texture binding options.
	SampleType    TextureSampleType
	ViewDimension TextureViewDimension
	Multisampled  bool
}

// BindGroupLayoutDescriptor describes a bind group layout.
type BindGroupLayoutDescriptor struct {
	Label   string
	Entries []BindGroupLayoutEntry
}

// BufferBinding references a slice of a buffer. A zero Size binds the
// remainder of the buffer from Offset.
type BufferBinding struct {
	Buffer BufferID
	Offset uint64
	Size   uint64
}

// BindGroupEntry binds one resource to a layout slot. Exactly one of
// Buffer, TextureView, or Sampler must be set.
type BindGroupEntry struct {
	Binding     uint32
	Buffer      *BufferBinding
	TextureView TextureViewID
	Sampler     SamplerID
}

// BindGroupDescriptor describes a bind group.
type BindGroupDescriptor struct {
	Label   string
	Layout  BindGroupLayoutID
	Entries []BindGroupEntry
}

// LoadOp selects how an attachment is initialized at pass start.
type LoadOp uint32

// Load operations.
const (
	LoadOpLoad LoadOp = iota
	LoadOpClear
)

// StoreOp selects what happens to an attachment at pass end.
type StoreOp uint32

// Store operations.
const (
	StoreOpStore StoreOp = iota
	StoreOpDiscard
)

// Color is a clear color in linear space.
type Color struct {
	R, G, B, A float64
}

// RenderPassColorAttachment configures one color attachment of a
// render pass.
type RenderPassColorAttachment struct {
	View           TextureViewID
	ResolveTarget  TextureViewID // InvalidID when unused
	LoadOp         LoadOp
	ClearValue     Color
	StoreOp        StoreOp
	BaseArrayLayer uint32
}

// RenderPassDepthStencilAttachment configures the depth-stencil
// attachment of a render pass.
type RenderPassDepthStencilAttachment struct {
	View              TextureViewID
	DepthLoadOp       LoadOp
	DepthStoreOp      StoreOp
	DepthClearValue   float32
	StencilLoadOp     LoadOp
	StencilStoreOp    StoreOp
	StencilClearValue uint32
}

// RenderPassDescriptor describes a render pass.
type RenderPassDescriptor struct {
	Label                  string
	ColorAttachments       []RenderPassColorAttachment
	DepthStencilAttachment *RenderPassDepthStencilAttachment
}

// ComputePassTimestampWrites hooks timestamp queries to pass
// boundaries.
type ComputePassTimestampWrites struct {
	BeginHook TimestampHook
	EndHook   TimestampHook
}

// ComputePassDescriptor describes a compute pass.
type ComputePassDescriptor struct {
	Label           string
	TimestampWrites *ComputePassTimestampWrites
}

// TextureDataLayout describes the memory layout of texture data in a
// buffer for copy operations.
type TextureDataLayout struct {
	Offset       uint64
	BytesPerRow  uint32
	RowsPerImage uint32
}

// BackendType identifies the underlying graphics API.
type BackendType uint32

// Backend types.
const (
	BackendUnknown BackendType = iota
	BackendVulkan
	BackendMetal
	BackendDX12
	BackendOpenGL
	BackendWebGPU
)

// String returns the backend name.
func (b BackendType) String() string {
	switch b {
	case BackendVulkan:
		return "Vulkan"
	case BackendMetal:
		return "Metal"
	case BackendDX12:
		return "DX12"
	case BackendOpenGL:
		return "OpenGL"
	case BackendWebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// DeviceType classifies the physical device.
type DeviceType uint32

// Device types.
const (
	DeviceTypeUnknown DeviceType = iota
	DeviceTypeIntegrated
	DeviceTypeDiscrete
	DeviceTypeVirtual
	DeviceTypeCPU
)

// String returns the device type name.
func (d DeviceType) String() string {
	switch d {
	case DeviceTypeIntegrated:
		return "Integrated"
	case DeviceTypeDiscrete:
		return "Discrete"
	case DeviceTypeVirtual:
		return "Virtual"
	case DeviceTypeCPU:
		return "CPU"
	default:
		return "Unknown"
	}
}

// AdapterInfo is the user-facing description of the selected adapter.
// Consumers may switch rendering strategies on Backend and Device.
type AdapterInfo struct {
	Name    string
	Backend BackendType
	Device  DeviceType
}

// Feature tags accepted by Device.SupportsFeature.
const (
	FeatureGPUTimestamps        = "gpu_timestamps"
	FeatureTextureCompressionBC = "texture_compression_bc"
	FeaturePolygonModeLine      = "polygon_mode_line"
	FeatureAnisotropicFiltering = "anisotropic_filtering"
)
