package pipeline

import "github.com/Carmen-Shannon/oxy-cube/engine/gpu"

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithVertexShader sets the vertex shader for this pipeline.
//
// Parameters:
//   - s: the vertex shader handle
//
// Returns:
//   - PipelineBuilderOption: a function that sets the vertex shader for this pipeline
func WithVertexShader(s gpu.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexShader = s
	}
}

// WithFragmentShader sets the fragment shader for this pipeline.
//
// Parameters:
//   - s: the fragment shader handle
//
// Returns:
//   - PipelineBuilderOption: a function that sets the fragment shader for this pipeline
func WithFragmentShader(s gpu.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.fragmentShader = s
	}
}

// WithVertexLayout replaces the vertex fetch layout.
//
// Parameters:
//   - layout: the vertex buffers and attributes read by the vertex shader
//
// Returns:
//   - PipelineBuilderOption: a function that sets the vertex layout for this pipeline
func WithVertexLayout(layout gpu.VertexInputState) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexLayout = layout
	}
}

// WithBlendEnabled sets whether blending is enabled for this pipeline.
//
// Parameters:
//   - enabled: a boolean indicating whether blending should be enabled
//
// Returns:
//   - PipelineBuilderOption: a function that sets the blend enabled state for this pipeline
func WithBlendEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendEnabled = enabled
	}
}

// WithBlendState sets the blend equation. EnableBlend and ColorWriteMask are
// ignored; use WithBlendEnabled and WithWriteMask for those.
//
// Parameters:
//   - state: the blend factors and operations for the color target
//
// Returns:
//   - PipelineBuilderOption: a function that sets the blend state for this pipeline
func WithBlendState(state gpu.ColorTargetBlendState) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendState = state
	}
}

// WithCullMode sets the cull mode for this pipeline.
//
// Parameters:
//   - mode: the cull mode (gpu.CullModeNone, gpu.CullModeFront, gpu.CullModeBack)
//
// Returns:
//   - PipelineBuilderOption: a function that sets the cull mode for this pipeline
func WithCullMode(mode gpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// WithFrontFace sets the front face winding order for this pipeline.
//
// Parameters:
//   - frontFace: the winding that counts as front facing
//
// Returns:
//   - PipelineBuilderOption: a function that sets the front face for this pipeline
func WithFrontFace(frontFace gpu.FrontFace) PipelineBuilderOption {
	return func(p *pipeline) {
		p.frontFace = frontFace
	}
}

// WithTopology sets the primitive topology for this pipeline.
//
// Parameters:
//   - topology: the primitive type (e.g. gpu.PrimitiveTypeTriangleList, gpu.PrimitiveTypeLineList)
//
// Returns:
//   - PipelineBuilderOption: a function that sets the primitive topology for this pipeline
func WithTopology(topology gpu.PrimitiveType) PipelineBuilderOption {
	return func(p *pipeline) {
		p.topology = topology
	}
}

// WithFillMode sets solid or wireframe rasterization.
func WithFillMode(mode gpu.FillMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.fillMode = mode
	}
}

// WithWriteMask sets the color write mask for this pipeline.
//
// Parameters:
//   - mask: the writable color channels (e.g. gpu.ColorComponentAll)
//
// Returns:
//   - PipelineBuilderOption: a function that sets the color write mask for this pipeline
func WithWriteMask(mask gpu.ColorComponent) PipelineBuilderOption {
	return func(p *pipeline) {
		p.writeMask = mask
	}
}
