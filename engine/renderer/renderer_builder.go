package renderer

import (
	"github.com/Carmen-Shannon/oxy-cube/engine/gpu"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/shader"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithClearColor sets the color the render pass clears to each frame.
//
// Parameters:
//   - c: the clear color
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option to a renderer
func WithClearColor(c gpu.FColor) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = c
	}
}

// WithShaders replaces the embedded cube program. The vertex blob must read the
// world transform from uniform slot 0 and the model transform from slot 1.
//
// Parameters:
//   - vertex: the vertex stage blob
//   - fragment: the fragment stage blob
//
// Returns:
//   - RendererBuilderOption: a function that applies the shader option to a renderer
func WithShaders(vertex, fragment shader.Blob) RendererBuilderOption {
	return func(r *renderer) {
		r.vertexBlob = &vertex
		r.fragmentBlob = &fragment
	}
}

// WithPipelineOptions adds options applied to the pipeline description before
// the renderer sets its shaders.
//
// Parameters:
//   - opts: pipeline builder options such as pipeline.WithCullMode
//
// Returns:
//   - RendererBuilderOption: a function that applies the pipeline options to a renderer
func WithPipelineOptions(opts ...pipeline.PipelineBuilderOption) RendererBuilderOption {
	return func(r *renderer) {
		r.pipelineOptions = append(r.pipelineOptions, opts...)
	}
}
