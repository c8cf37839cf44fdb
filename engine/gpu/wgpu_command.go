package gpu

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// errPassOpen is returned when a pass is begun while another is still recording.
var errPassOpen = errors.New("previous pass has not ended")

type wgpuCommandBuffer struct {
	d         *wgpuDevice
	encoder   *wgpu.CommandEncoder
	swapchain Texture
	passOpen  bool
	finished  bool
	// err is the first recording failure; it is returned by SubmitAndAcquireFence.
	err error
}

var _ CommandBuffer = &wgpuCommandBuffer{}

// fail records err unless an earlier failure is already recorded.
func (c *wgpuCommandBuffer) fail(err error) {
	if err != nil && c.err == nil {
		c.err = err
	}
}

func (c *wgpuCommandBuffer) BeginCopyPass() (CopyPass, error) {
	if c.finished {
		return nil, errors.New("command buffer already submitted")
	}
	if c.passOpen {
		return nil, errPassOpen
	}
	c.passOpen = true
	return &wgpuCopyPass{cmd: c}, nil
}

func (c *wgpuCommandBuffer) BeginRenderPass(targets []ColorTargetInfo) (RenderPass, error) {
	if c.finished {
		return nil, errors.New("command buffer already submitted")
	}
	if c.passOpen {
		return nil, errPassOpen
	}

	c.d.mu.Lock()
	attachments := make([]wgpu.RenderPassColorAttachment, 0, len(targets))
	for _, t := range targets {
		img, ok := c.d.textures[t.Texture]
		if !ok {
			c.d.mu.Unlock()
			return nil, fmt.Errorf("render target %s is not a live texture", t.Texture)
		}
		attachments = append(attachments, wgpu.RenderPassColorAttachment{
			View:    img.view,
			LoadOp:  toWGPULoadOp(t.LoadOp),
			StoreOp: toWGPUStoreOp(t.StoreOp),
			ClearValue: wgpu.Color{
				R: float64(t.ClearColor.R),
				G: float64(t.ClearColor.G),
				B: float64(t.ClearColor.B),
				A: float64(t.ClearColor.A),
			},
		})
	}
	c.d.mu.Unlock()

	pass := c.encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: attachments,
	})
	c.passOpen = true
	return &wgpuRenderPass{cmd: c, pass: pass}, nil
}

// AcquireSwapchainTexture takes the surface's current image. The surface is
// reconfigured first when the framebuffer size changed since it was last
// configured, and a zero-sized framebuffer yields a null texture.
func (c *wgpuCommandBuffer) AcquireSwapchainTexture(w Window) (SwapchainTexture, error) {
	d := c.d
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.window == nil || Window(d.window) != w {
		return SwapchainTexture{}, ErrNoWindow
	}
	if !c.swapchain.IsNull() {
		return SwapchainTexture{}, errors.New("swapchain texture already acquired for this command buffer")
	}

	width, height := w.FramebufferSize()
	if width <= 0 || height <= 0 {
		return SwapchainTexture{}, nil
	}
	if width != d.surfaceWidth || height != d.surfaceHeight {
		if err := d.configureSurface(width, height); err != nil {
			return SwapchainTexture{}, err
		}
	}

	texture, err := d.surface.GetCurrentTexture()
	if err != nil {
		return SwapchainTexture{}, err
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return SwapchainTexture{}, err
	}

	h := Texture(d.id())
	d.textures[h] = &wgpuSwapchainImage{texture: texture, view: view}
	c.swapchain = h
	return SwapchainTexture{
		Texture: h,
		Width:   uint32(d.surfaceWidth),
		Height:  uint32(d.surfaceHeight),
	}, nil
}

func (c *wgpuCommandBuffer) PushVertexUniformData(slot uint32, data []byte) {
	if slot >= maxVertexUniformSlots {
		c.fail(fmt.Errorf("uniform slot %d out of range (max %d)", slot, maxVertexUniformSlots-1))
		return
	}
	if len(data) > uniformSlotStride {
		c.fail(fmt.Errorf("uniform slot %d: %d bytes exceeds %d", slot, len(data), uniformSlotStride))
		return
	}
	if err := c.d.queue.WriteBuffer(c.d.uniforms, uint64(slot)*uniformSlotStride, data); err != nil {
		c.fail(fmt.Errorf("push uniform slot %d: %w", slot, err))
	}
}

func (c *wgpuCommandBuffer) SubmitAndAcquireFence() (Fence, error) {
	if c.finished {
		return 0, errors.New("command buffer already submitted")
	}
	if c.passOpen {
		c.Cancel()
		return 0, errPassOpen
	}
	if c.err != nil {
		c.Cancel()
		return 0, c.err
	}

	commandBuffer, err := c.encoder.Finish(nil)
	if err != nil {
		c.Cancel()
		return 0, err
	}
	c.d.queue.Submit(commandBuffer)
	commandBuffer.Release()
	c.encoder.Release()
	c.encoder = nil

	d := c.d
	d.mu.Lock()
	defer d.mu.Unlock()

	if img, ok := d.textures[c.swapchain]; ok {
		d.surface.Present()
		img.view.Release()
		img.texture.Release()
		delete(d.textures, c.swapchain)
	}
	c.finished = true
	d.recording = false

	f := Fence(d.id())
	d.fences[f] = struct{}{}
	return f, nil
}

func (c *wgpuCommandBuffer) Cancel() {
	if c.finished {
		return
	}
	c.finished = true
	if c.encoder != nil {
		c.encoder.Release()
		c.encoder = nil
	}

	d := c.d
	d.mu.Lock()
	defer d.mu.Unlock()

	if img, ok := d.textures[c.swapchain]; ok {
		img.view.Release()
		img.texture.Release()
		delete(d.textures, c.swapchain)
	}
	d.recording = false
}

type wgpuCopyPass struct {
	cmd   *wgpuCommandBuffer
	ended bool
}

var _ CopyPass = &wgpuCopyPass{}

func (p *wgpuCopyPass) UploadToBuffer(src TransferBufferLocation, dst BufferRegion, cycle bool) {
	if p.ended {
		return
	}
	d := p.cmd.d
	d.mu.Lock()
	t, okSrc := d.transfers[src.TransferBuffer]
	buf, okDst := d.buffers[dst.Buffer]
	d.mu.Unlock()
	if !okSrc || !okDst {
		p.cmd.fail(fmt.Errorf("upload from %s to %s: unknown buffer", src.TransferBuffer, dst.Buffer))
		return
	}
	if err := p.cmd.encoder.CopyBufferToBuffer(t.buffer, uint64(src.Offset), buf, uint64(dst.Offset), uint64(dst.Size)); err != nil {
		p.cmd.fail(fmt.Errorf("upload to %s: %w", dst.Buffer, err))
	}
}

func (p *wgpuCopyPass) End() {
	if p.ended {
		return
	}
	p.ended = true
	p.cmd.passOpen = false
}

type wgpuRenderPass struct {
	cmd   *wgpuCommandBuffer
	pass  *wgpu.RenderPassEncoder
	ended bool
}

var _ RenderPass = &wgpuRenderPass{}

func (p *wgpuRenderPass) BindGraphicsPipeline(gp GraphicsPipeline) {
	d := p.cmd.d
	d.mu.Lock()
	pl, ok := d.pipelines[gp]
	d.mu.Unlock()
	if !ok {
		return
	}
	p.pass.SetPipeline(pl.pipeline)
	if pl.bindGroup != nil {
		p.pass.SetBindGroup(0, pl.bindGroup, nil)
	}
}

func (p *wgpuRenderPass) SetViewport(v Viewport) {
	p.pass.SetViewport(v.X, v.Y, v.W, v.H, v.MinDepth, v.MaxDepth)
}

func (p *wgpuRenderPass) BindVertexBuffers(firstSlot uint32, bindings ...BufferBinding) {
	d := p.cmd.d
	for i, b := range bindings {
		d.mu.Lock()
		buf, ok := d.buffers[b.Buffer]
		d.mu.Unlock()
		if !ok {
			continue
		}
		p.pass.SetVertexBuffer(firstSlot+uint32(i), buf, uint64(b.Offset), wgpu.WholeSize)
	}
}

func (p *wgpuRenderPass) BindIndexBuffer(binding BufferBinding, size IndexElementSize) {
	d := p.cmd.d
	d.mu.Lock()
	buf, ok := d.buffers[binding.Buffer]
	d.mu.Unlock()
	if !ok {
		return
	}
	p.pass.SetIndexBuffer(buf, toWGPUIndexFormat(size), uint64(binding.Offset), wgpu.WholeSize)
}

func (p *wgpuRenderPass) DrawIndexedPrimitives(numIndices, numInstances, firstIndex uint32, vertexOffset int32, firstInstance uint32) {
	p.pass.DrawIndexed(numIndices, numInstances, firstIndex, vertexOffset, firstInstance)
}

func (p *wgpuRenderPass) End() {
	if p.ended {
		return
	}
	p.ended = true
	p.pass.End()
	p.cmd.passOpen = false
}
