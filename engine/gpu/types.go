package gpu

// ShaderFormat identifies the bytecode format of a shader blob.
type ShaderFormat int

const (
	ShaderFormatInvalid ShaderFormat = iota
	// ShaderFormatWGSL is WGSL source text.
	ShaderFormatWGSL
	// ShaderFormatSPIRV is a SPIR-V binary module.
	ShaderFormatSPIRV
)

func (f ShaderFormat) String() string {
	switch f {
	case ShaderFormatWGSL:
		return "wgsl"
	case ShaderFormatSPIRV:
		return "spirv"
	default:
		return "invalid"
	}
}

// ShaderStage identifies the pipeline stage a shader runs in.
type ShaderStage int

const (
	ShaderStageVertex ShaderStage = iota
	ShaderStageFragment
)

func (s ShaderStage) String() string {
	if s == ShaderStageFragment {
		return "fragment"
	}
	return "vertex"
}

// BufferUsage describes how a device-local buffer is read by the GPU.
type BufferUsage uint32

const (
	BufferUsageVertex BufferUsage = 1 << iota
	BufferUsageIndex
)

// TransferBufferUsage describes the direction of a staging buffer.
type TransferBufferUsage int

const (
	// TransferBufferUsageUpload is written by the host and read by copy passes.
	TransferBufferUsageUpload TransferBufferUsage = iota
)

// VertexElementFormat is the type of one vertex attribute.
type VertexElementFormat int

const (
	VertexElementFormatInvalid VertexElementFormat = iota
	// VertexElementFormatFloat4 is four 32-bit floats.
	VertexElementFormatFloat4
)

// Size returns the size of one element in bytes.
func (f VertexElementFormat) Size() uint32 {
	if f == VertexElementFormatFloat4 {
		return 16
	}
	return 0
}

// VertexInputRate selects per-vertex or per-instance attribute stepping.
type VertexInputRate int

const (
	VertexInputRateVertex VertexInputRate = iota
	VertexInputRateInstance
)

// PrimitiveType is the primitive assembly topology.
type PrimitiveType int

const (
	PrimitiveTypeTriangleList PrimitiveType = iota
	PrimitiveTypeTriangleStrip
	PrimitiveTypeLineList
	PrimitiveTypeLineStrip
	PrimitiveTypePointList
)

// FillMode selects solid or wireframe rasterization.
type FillMode int

const (
	FillModeFill FillMode = iota
	FillModeLine
)

// CullMode selects which triangle faces are discarded.
type CullMode int

const (
	CullModeNone CullMode = iota
	CullModeFront
	CullModeBack
)

// FrontFace selects the winding that counts as front facing.
type FrontFace int

const (
	FrontFaceCounterClockwise FrontFace = iota
	FrontFaceClockwise
)

// BlendFactor is a blend equation multiplier.
type BlendFactor int

const (
	BlendFactorZero BlendFactor = iota
	BlendFactorOne
	BlendFactorSrcColor
	BlendFactorOneMinusSrcColor
	BlendFactorDstColor
	BlendFactorOneMinusDstColor
	BlendFactorSrcAlpha
	BlendFactorOneMinusSrcAlpha
	BlendFactorDstAlpha
	BlendFactorOneMinusDstAlpha
)

// BlendOp combines the weighted source and destination.
type BlendOp int

const (
	BlendOpAdd BlendOp = iota
	BlendOpSubtract
	BlendOpReverseSubtract
	BlendOpMin
	BlendOpMax
)

// ColorComponent is a mask of writable color channels.
type ColorComponent uint32

const (
	ColorComponentR ColorComponent = 1 << iota
	ColorComponentG
	ColorComponentB
	ColorComponentA

	ColorComponentAll = ColorComponentR | ColorComponentG | ColorComponentB | ColorComponentA
)

// LoadOp selects what happens to a color target at the start of a render pass.
type LoadOp int

const (
	LoadOpLoad LoadOp = iota
	LoadOpClear
	LoadOpDontCare
)

// StoreOp selects what happens to a color target at the end of a render pass.
type StoreOp int

const (
	StoreOpStore StoreOp = iota
	StoreOpDontCare
)

// IndexElementSize is the width of one index.
type IndexElementSize int

const (
	IndexElementSize16Bit IndexElementSize = iota
	IndexElementSize32Bit
)

// TextureFormat is the pixel format of a texture or swapchain image.
type TextureFormat int

const (
	TextureFormatInvalid TextureFormat = iota
	TextureFormatB8G8R8A8Unorm
	TextureFormatB8G8R8A8UnormSrgb
	TextureFormatR8G8B8A8Unorm
	TextureFormatR8G8B8A8UnormSrgb
)

func (f TextureFormat) String() string {
	switch f {
	case TextureFormatB8G8R8A8Unorm:
		return "b8g8r8a8_unorm"
	case TextureFormatB8G8R8A8UnormSrgb:
		return "b8g8r8a8_unorm_srgb"
	case TextureFormatR8G8B8A8Unorm:
		return "r8g8b8a8_unorm"
	case TextureFormatR8G8B8A8UnormSrgb:
		return "r8g8b8a8_unorm_srgb"
	default:
		return "invalid"
	}
}

// ShaderCreateInfo describes one shader stage. Code is opaque to the core;
// only the backend interprets it according to Format.
type ShaderCreateInfo struct {
	Name               string
	Code               []byte
	EntryPoint         string
	Format             ShaderFormat
	Stage              ShaderStage
	NumSamplers        uint32
	NumStorageTextures uint32
	NumStorageBuffers  uint32
	NumUniformBuffers  uint32
}

// BufferCreateInfo describes a device-local buffer.
type BufferCreateInfo struct {
	Name  string
	Usage BufferUsage
	Size  uint32
}

// TransferBufferCreateInfo describes a host-visible staging buffer.
type TransferBufferCreateInfo struct {
	Usage TransferBufferUsage
	Size  uint32
}

// VertexBufferDescription describes one bound vertex buffer slot.
type VertexBufferDescription struct {
	Slot      uint32
	Pitch     uint32
	InputRate VertexInputRate
}

// VertexAttribute describes one attribute read from a vertex buffer slot.
type VertexAttribute struct {
	Location   uint32
	BufferSlot uint32
	Format     VertexElementFormat
	Offset     uint32
}

// VertexInputState is the complete vertex fetch layout of a pipeline.
type VertexInputState struct {
	Buffers    []VertexBufferDescription
	Attributes []VertexAttribute
}

// ColorTargetBlendState is the blend equation for one color target.
type ColorTargetBlendState struct {
	SrcColorBlendFactor BlendFactor
	DstColorBlendFactor BlendFactor
	ColorBlendOp        BlendOp
	SrcAlphaBlendFactor BlendFactor
	DstAlphaBlendFactor BlendFactor
	AlphaBlendOp        BlendOp
	ColorWriteMask      ColorComponent
	EnableBlend         bool
}

// ColorTargetDescription is one color attachment of a pipeline.
type ColorTargetDescription struct {
	Format     TextureFormat
	BlendState ColorTargetBlendState
}

// RasterizerState configures triangle setup.
type RasterizerState struct {
	FillMode  FillMode
	CullMode  CullMode
	FrontFace FrontFace
}

// GraphicsPipelineTargetInfo is the attachment layout a pipeline renders into.
type GraphicsPipelineTargetInfo struct {
	ColorTargets          []ColorTargetDescription
	HasDepthStencilTarget bool
}

// GraphicsPipelineCreateInfo describes an immutable graphics pipeline.
type GraphicsPipelineCreateInfo struct {
	Name             string
	VertexShader     Shader
	FragmentShader   Shader
	VertexInputState VertexInputState
	PrimitiveType    PrimitiveType
	RasterizerState  RasterizerState
	TargetInfo       GraphicsPipelineTargetInfo
}

// FColor is a floating point RGBA color.
type FColor struct {
	R, G, B, A float32
}

// ColorTargetInfo is one color attachment of a render pass.
type ColorTargetInfo struct {
	Texture    Texture
	ClearColor FColor
	LoadOp     LoadOp
	StoreOp    StoreOp
}

// Viewport maps normalized device coordinates onto the render target.
type Viewport struct {
	X, Y, W, H         float32
	MinDepth, MaxDepth float32
}

// BufferBinding binds a buffer starting at Offset.
type BufferBinding struct {
	Buffer Buffer
	Offset uint32
}

// BufferRegion is a byte range of a device-local buffer.
type BufferRegion struct {
	Buffer Buffer
	Offset uint32
	Size   uint32
}

// TransferBufferLocation is a byte offset into a staging buffer.
type TransferBufferLocation struct {
	TransferBuffer TransferBuffer
	Offset         uint32
}

// SwapchainTexture is the image acquired for one frame. Texture is null when the
// window currently has no presentable image, for example while minimized.
type SwapchainTexture struct {
	Texture Texture
	Width   uint32
	Height  uint32
}
