package pipeline

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-cube/engine/gpu"
	"github.com/Carmen-Shannon/oxy-cube/engine/model"
)

var (
	// ErrMissingShader is returned by Build when either shader stage is unset.
	ErrMissingShader = errors.New("vertex and fragment shaders are required")
	// ErrInvalidTargetFormat is returned by Build for TextureFormatInvalid.
	ErrInvalidTargetFormat = errors.New("invalid color target format")
)

// pipeline is the implementation of the Pipeline interface.
// It holds the configuration a graphics pipeline is created from.
type pipeline struct {
	name string

	vertexShader, fragmentShader gpu.Shader

	vertexLayout gpu.VertexInputState

	blendEnabled bool
	blendState   gpu.ColorTargetBlendState
	cullMode     gpu.CullMode
	frontFace    gpu.FrontFace
	topology     gpu.PrimitiveType
	fillMode     gpu.FillMode
	writeMask    gpu.ColorComponent
}

// Pipeline describes an immutable graphics pipeline: shader stages, vertex
// layout, rasterizer and blend state. Build turns the description into a GPU
// object for a given swapchain format.
type Pipeline interface {
	// Name returns the debug name of the pipeline.
	//
	// Returns:
	//   - string: the pipeline name
	Name() string

	// Shaders returns the vertex and fragment shader handles.
	//
	// Returns:
	//   - gpu.Shader: the vertex shader
	//   - gpu.Shader: the fragment shader
	Shaders() (vertex, fragment gpu.Shader)

	// CreateInfo returns the descriptor Build passes to the device.
	//
	// Parameters:
	//   - targetFormat: the pixel format of the single color target
	//
	// Returns:
	//   - gpu.GraphicsPipelineCreateInfo: the complete pipeline descriptor
	CreateInfo(targetFormat gpu.TextureFormat) gpu.GraphicsPipelineCreateInfo

	// Build creates the pipeline on the device. Any failure is an init error;
	// there is no fallback pipeline.
	//
	// Parameters:
	//   - device: the device to create the pipeline on
	//   - targetFormat: the pixel format of the swapchain the pipeline renders into
	//
	// Returns:
	//   - *gpu.OwnedGraphicsPipeline: the owned pipeline handle
	//   - error: a KindInit error if the description is incomplete or creation fails
	Build(device gpu.Device, targetFormat gpu.TextureFormat) (*gpu.OwnedGraphicsPipeline, error)
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a pipeline description. The defaults describe the cube
// pipeline: the model.Vertex layout, src-alpha blending, triangle list, back-face
// culling with counter-clockwise front faces, fill rasterization, no depth target.
//
// Parameters:
//   - name: debug name for the pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline description
func NewPipeline(name string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		name:         name,
		vertexLayout: model.VertexInputState(),
		blendEnabled: true,
		blendState:   DefaultBlendState(),
		cullMode:     gpu.CullModeBack,
		frontFace:    gpu.FrontFaceCounterClockwise,
		topology:     gpu.PrimitiveTypeTriangleList,
		fillMode:     gpu.FillModeFill,
		writeMask:    gpu.ColorComponentAll,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DefaultBlendState is standard alpha blending: color is src*srcA + dst*(1-srcA),
// alpha is src + dst.
func DefaultBlendState() gpu.ColorTargetBlendState {
	return gpu.ColorTargetBlendState{
		SrcColorBlendFactor: gpu.BlendFactorSrcAlpha,
		DstColorBlendFactor: gpu.BlendFactorOneMinusSrcAlpha,
		ColorBlendOp:        gpu.BlendOpAdd,
		SrcAlphaBlendFactor: gpu.BlendFactorOne,
		DstAlphaBlendFactor: gpu.BlendFactorOne,
		AlphaBlendOp:        gpu.BlendOpAdd,
	}
}

func (p *pipeline) Name() string {
	return p.name
}

func (p *pipeline) Shaders() (gpu.Shader, gpu.Shader) {
	return p.vertexShader, p.fragmentShader
}

func (p *pipeline) CreateInfo(targetFormat gpu.TextureFormat) gpu.GraphicsPipelineCreateInfo {
	blend := p.blendState
	blend.EnableBlend = p.blendEnabled
	blend.ColorWriteMask = p.writeMask

	return gpu.GraphicsPipelineCreateInfo{
		Name:             p.name,
		VertexShader:     p.vertexShader,
		FragmentShader:   p.fragmentShader,
		VertexInputState: p.vertexLayout,
		PrimitiveType:    p.topology,
		RasterizerState: gpu.RasterizerState{
			FillMode:  p.fillMode,
			CullMode:  p.cullMode,
			FrontFace: p.frontFace,
		},
		TargetInfo: gpu.GraphicsPipelineTargetInfo{
			ColorTargets: []gpu.ColorTargetDescription{{
				Format:     targetFormat,
				BlendState: blend,
			}},
		},
	}
}

func (p *pipeline) Build(device gpu.Device, targetFormat gpu.TextureFormat) (*gpu.OwnedGraphicsPipeline, error) {
	if p.vertexShader.IsNull() || p.fragmentShader.IsNull() {
		return nil, gpu.InitError("build pipeline "+p.name, ErrMissingShader)
	}
	if targetFormat == gpu.TextureFormatInvalid {
		return nil, gpu.InitError("build pipeline "+p.name, ErrInvalidTargetFormat)
	}
	return gpu.NewOwnedGraphicsPipeline(device, p.CreateInfo(targetFormat))
}
