// Package gpu defines an explicit GPU command model: opaque handles, command
// buffers recorded into copy and render passes, and fences that signal when a
// submission completed. The renderer is written against these interfaces only;
// NewWGPUDevice provides the WebGPU implementation and package gputest an
// in-memory one.
package gpu

// Window is the presentation surface a Device renders into.
type Window interface {
	// FramebufferSize returns the drawable size in pixels.
	FramebufferSize() (width, height int)
}

// Device creates and releases GPU objects and hands out command buffers.
// Every object created by a Device must be released before Destroy is called.
type Device interface {
	// Driver returns the name of the active GPU backend.
	Driver() string

	// ClaimWindow binds the window's swapchain to this device. Only one window may be claimed.
	ClaimWindow(w Window) error
	// ReleaseWindow unbinds a window claimed with ClaimWindow.
	ReleaseWindow(w Window)
	// SwapchainTextureFormat returns the pixel format of the claimed window's swapchain.
	SwapchainTextureFormat(w Window) TextureFormat

	CreateShader(info ShaderCreateInfo) (Shader, error)
	ReleaseShader(s Shader)

	CreateBuffer(info BufferCreateInfo) (Buffer, error)
	ReleaseBuffer(b Buffer)

	CreateTransferBuffer(info TransferBufferCreateInfo) (TransferBuffer, error)
	ReleaseTransferBuffer(tb TransferBuffer)

	// MapTransferBuffer exposes the staging memory to the host. The returned slice
	// is only valid until UnmapTransferBuffer. cycle requests a fresh backing
	// allocation if the buffer is still in use by the GPU.
	MapTransferBuffer(tb TransferBuffer, cycle bool) ([]byte, error)
	UnmapTransferBuffer(tb TransferBuffer)

	CreateGraphicsPipeline(info GraphicsPipelineCreateInfo) (GraphicsPipeline, error)
	ReleaseGraphicsPipeline(p GraphicsPipeline)

	// AcquireCommandBuffer returns a fresh command buffer. It must be either
	// submitted or cancelled.
	AcquireCommandBuffer() (CommandBuffer, error)

	// WaitForFences blocks until all (waitAll) or any of the fences signaled.
	WaitForFences(waitAll bool, fences ...Fence) error
	ReleaseFence(f Fence)

	// Destroy tears the device down. It must be the last call on the device.
	Destroy()
}

// CommandBuffer records passes for one submission.
type CommandBuffer interface {
	// BeginCopyPass starts a pass that records buffer uploads.
	BeginCopyPass() (CopyPass, error)
	// BeginRenderPass starts a pass that draws into the given color targets.
	BeginRenderPass(targets []ColorTargetInfo) (RenderPass, error)
	// AcquireSwapchainTexture acquires the window's next image. The returned
	// texture is null without an error when no image is available.
	AcquireSwapchainTexture(w Window) (SwapchainTexture, error)
	// PushVertexUniformData sets the contents of a vertex stage uniform slot for
	// subsequent draws recorded in this command buffer.
	PushVertexUniformData(slot uint32, data []byte)
	// SubmitAndAcquireFence submits the command buffer and returns a fence that
	// signals on completion. The command buffer is unusable afterwards.
	SubmitAndAcquireFence() (Fence, error)
	// Cancel abandons an unsubmitted command buffer and everything it acquired.
	Cancel()
}

// CopyPass records data transfers.
type CopyPass interface {
	// UploadToBuffer copies dst.Size bytes from the staging location into dst.
	UploadToBuffer(src TransferBufferLocation, dst BufferRegion, cycle bool)
	End()
}

// RenderPass records draw state and draw calls.
type RenderPass interface {
	BindGraphicsPipeline(p GraphicsPipeline)
	SetViewport(v Viewport)
	BindVertexBuffers(firstSlot uint32, bindings ...BufferBinding)
	BindIndexBuffer(binding BufferBinding, size IndexElementSize)
	DrawIndexedPrimitives(numIndices, numInstances, firstIndex uint32, vertexOffset int32, firstInstance uint32)
	End()
}
