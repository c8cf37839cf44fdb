package renderer

import (
	"errors"
	"log"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine/gpu"
	"github.com/Carmen-Shannon/oxy-cube/engine/model"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-cube/engine/resource"
)

// Vertex uniform slots read by the cube vertex shader.
const (
	WorldUniformSlot uint32 = 0
	ModelUniformSlot uint32 = 1
)

// DefaultClearColor is the background the render pass clears to.
var DefaultClearColor = gpu.FColor{R: 0.1, G: 0.2, B: 0.3, A: 1}

// ErrFrameInProgress is returned by Render while a recorded frame awaits Submit.
var ErrFrameInProgress = errors.New("previous frame not submitted")

// WorldTransformer computes the world transform for a render target size.
type WorldTransformer interface {
	WorldTransform(width, height uint32) common.Mat4
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	device gpu.Device
	window gpu.Window

	clearColor      gpu.FColor
	vertexBlob      *shader.Blob
	fragmentBlob    *shader.Blob
	pipelineOptions []pipeline.PipelineBuilderOption

	// resources holds everything created by NewRenderer, window claim first.
	resources resource.Stack

	vertexShader   *gpu.OwnedShader
	fragmentShader *gpu.OwnedShader
	vertexBuffer   *gpu.OwnedBuffer
	indexBuffer    *gpu.OwnedBuffer
	pipeline       *gpu.OwnedGraphicsPipeline
	numIndices     uint32

	pending gpu.CommandBuffer
}

// Renderer draws one indexed mesh per frame with a single pipeline. It owns the
// window claim and every device-scoped resource it created; Release gives them
// back in reverse creation order.
//
// A frame is recorded by Render and then submitted by Submit, which blocks until
// the GPU finished it. Only one frame is ever in flight.
type Renderer interface {
	// Driver returns the name of the GPU backend.
	//
	// Returns:
	//   - string: the backend name reported by the device
	Driver() string

	// Render records one frame: acquires a command buffer and the swapchain image,
	// clears it, binds the pipeline and mesh, pushes the world transform for the
	// acquired image size and the model transform, and issues one indexed draw.
	// When no swapchain image is available the command buffer is cancelled and the
	// frame is skipped.
	//
	// Parameters:
	//   - camera: computes the world transform from the acquired image size
	//   - modelTransform: the model matrix of the mesh
	//
	// Returns:
	//   - bool: false if the frame was skipped
	//   - error: a KindFrame error if recording failed
	Render(camera WorldTransformer, modelTransform common.Mat4) (bool, error)

	// Submit submits the frame recorded by Render, waits on its fence and
	// releases the fence. It does nothing if no frame is pending.
	//
	// Returns:
	//   - error: a KindFrame error if submission or the fence wait failed
	Submit() error

	// Release cancels any pending frame and releases every resource the renderer
	// created, newest first, ending with the window claim. Safe to call twice.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer claims the window and creates the shaders, mesh buffers and
// pipeline, uploading the mesh in between. On failure everything already
// created is released before the error is returned, and the device and window
// stay with the caller.
//
// Parameters:
//   - device: the device to create resources on
//   - window: the window to present into
//   - mesh: the vertex and index data to draw
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the ready renderer
//   - error: a KindInit or KindUpload error
func NewRenderer(device gpu.Device, window gpu.Window, mesh model.MeshData, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		device:     device,
		window:     window,
		clearColor: DefaultClearColor,
	}
	for _, opt := range options {
		opt(r)
	}

	if err := r.setup(mesh); err != nil {
		r.resources.Release()
		return nil, err
	}
	return r, nil
}

func (r *renderer) setup(mesh model.MeshData) error {
	log.Printf("[Renderer] GPU backend: %s", r.device.Driver())

	if err := r.device.ClaimWindow(r.window); err != nil {
		return gpu.InitError("claim window", err)
	}
	r.resources.PushFunc(func() { r.device.ReleaseWindow(r.window) })

	vertexBlob, fragmentBlob, err := r.shaderBlobs()
	if err != nil {
		return gpu.InitError("load shaders", err)
	}
	if r.vertexShader, err = vertexBlob.Create(r.device); err != nil {
		return err
	}
	r.resources.Push(r.vertexShader)
	if r.fragmentShader, err = fragmentBlob.Create(r.device); err != nil {
		return err
	}
	r.resources.Push(r.fragmentShader)

	vertexData, indexData := mesh.VertexBytes(), mesh.IndexBytes()
	if len(vertexData) == 0 || len(indexData) == 0 {
		return gpu.InitError("create mesh buffers", ErrEmptyUpload)
	}
	if r.vertexBuffer, err = gpu.NewOwnedBuffer(r.device, gpu.BufferCreateInfo{
		Name:  "vertex",
		Usage: gpu.BufferUsageVertex,
		Size:  uint32(len(vertexData)),
	}); err != nil {
		return err
	}
	r.resources.Push(r.vertexBuffer)
	if r.indexBuffer, err = gpu.NewOwnedBuffer(r.device, gpu.BufferCreateInfo{
		Name:  "index",
		Usage: gpu.BufferUsageIndex,
		Size:  uint32(len(indexData)),
	}); err != nil {
		return err
	}
	r.resources.Push(r.indexBuffer)

	if err := UploadMesh(r.device,
		gpu.BufferRegion{Buffer: r.vertexBuffer.Get(), Size: uint32(len(vertexData))},
		gpu.BufferRegion{Buffer: r.indexBuffer.Get(), Size: uint32(len(indexData))},
		vertexData, indexData,
	); err != nil {
		return err
	}
	r.numIndices = uint32(len(mesh.Indices))

	opts := append(r.pipelineOptions[:len(r.pipelineOptions):len(r.pipelineOptions)],
		pipeline.WithVertexShader(r.vertexShader.Get()),
		pipeline.WithFragmentShader(r.fragmentShader.Get()),
	)
	format := r.device.SwapchainTextureFormat(r.window)
	if r.pipeline, err = pipeline.NewPipeline("cube", opts...).Build(r.device, format); err != nil {
		return err
	}
	r.resources.Push(r.pipeline)
	return nil
}

func (r *renderer) shaderBlobs() (shader.Blob, shader.Blob, error) {
	vertex, fragment, err := shader.CubeProgram()
	if err != nil {
		return shader.Blob{}, shader.Blob{}, err
	}
	if r.vertexBlob != nil {
		vertex = *r.vertexBlob
	}
	if r.fragmentBlob != nil {
		fragment = *r.fragmentBlob
	}
	return vertex, fragment, nil
}

func (r *renderer) Driver() string {
	return r.device.Driver()
}

func (r *renderer) Render(camera WorldTransformer, modelTransform common.Mat4) (bool, error) {
	if r.pending != nil {
		return false, gpu.FrameError("render", ErrFrameInProgress)
	}

	cmd, err := r.device.AcquireCommandBuffer()
	if err != nil {
		return false, gpu.FrameError("acquire command buffer", err)
	}
	swapchain, err := cmd.AcquireSwapchainTexture(r.window)
	if err != nil {
		cmd.Cancel()
		return false, gpu.FrameError("acquire swapchain texture", err)
	}
	if swapchain.Texture.IsNull() {
		cmd.Cancel()
		return false, nil
	}

	pass, err := cmd.BeginRenderPass([]gpu.ColorTargetInfo{{
		Texture:    swapchain.Texture,
		ClearColor: r.clearColor,
		LoadOp:     gpu.LoadOpClear,
		StoreOp:    gpu.StoreOpStore,
	}})
	if err != nil {
		cmd.Cancel()
		return false, gpu.FrameError("begin render pass", err)
	}

	pass.BindGraphicsPipeline(r.pipeline.Get())
	pass.SetViewport(gpu.Viewport{
		W:        float32(swapchain.Width),
		H:        float32(swapchain.Height),
		MaxDepth: 1,
	})
	pass.BindVertexBuffers(0, gpu.BufferBinding{Buffer: r.vertexBuffer.Get()})
	pass.BindIndexBuffer(gpu.BufferBinding{Buffer: r.indexBuffer.Get()}, gpu.IndexElementSize32Bit)

	world := camera.WorldTransform(swapchain.Width, swapchain.Height)
	cmd.PushVertexUniformData(WorldUniformSlot, common.SliceToBytes(world[:]))
	cmd.PushVertexUniformData(ModelUniformSlot, common.SliceToBytes(modelTransform[:]))

	pass.DrawIndexedPrimitives(r.numIndices, 1, 0, 0, 0)
	pass.End()

	r.pending = cmd
	return true, nil
}

func (r *renderer) Submit() error {
	cmd := r.pending
	if cmd == nil {
		return nil
	}
	r.pending = nil

	fence, err := cmd.SubmitAndAcquireFence()
	if err != nil {
		cmd.Cancel()
		return gpu.FrameError("submit frame", err)
	}
	defer r.device.ReleaseFence(fence)

	if err := r.device.WaitForFences(true, fence); err != nil {
		return gpu.FrameError("wait for frame fence", err)
	}
	return nil
}

func (r *renderer) Release() {
	if r.pending != nil {
		r.pending.Cancel()
		r.pending = nil
	}
	r.resources.Release()
}
