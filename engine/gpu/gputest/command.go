package gputest

import (
	"errors"
	"maps"
	"slices"

	"github.com/Carmen-Shannon/oxy-cube/engine/gpu"
)

type commandBuffer struct {
	d        *Device
	sub      Submission
	uniforms map[uint32][]byte
	passOpen bool
	done     bool
}

func (c *commandBuffer) checkOpen(op string) bool {
	c.d.record(op)
	if c.done {
		c.d.violation("%s on a finished command buffer", op)
		return false
	}
	return true
}

func (c *commandBuffer) BeginCopyPass() (gpu.CopyPass, error) {
	if !c.checkOpen("BeginCopyPass") {
		return nil, errors.New("command buffer finished")
	}
	if err := c.d.fail("BeginCopyPass"); err != nil {
		return nil, err
	}
	if c.passOpen {
		c.d.violation("BeginCopyPass while a pass is open")
	}
	c.passOpen = true
	return &copyPass{cmd: c}, nil
}

func (c *commandBuffer) BeginRenderPass(targets []gpu.ColorTargetInfo) (gpu.RenderPass, error) {
	if !c.checkOpen("BeginRenderPass") {
		return nil, errors.New("command buffer finished")
	}
	if err := c.d.fail("BeginRenderPass"); err != nil {
		return nil, err
	}
	if c.passOpen {
		c.d.violation("BeginRenderPass while a pass is open")
	}
	for _, t := range targets {
		if !c.d.textures[t.Texture] {
			c.d.violation("BeginRenderPass with unknown target %s", t.Texture)
		}
	}
	c.passOpen = true
	c.sub.Targets = append(c.sub.Targets, slices.Clone(targets))
	return &renderPass{cmd: c}, nil
}

func (c *commandBuffer) AcquireSwapchainTexture(w gpu.Window) (gpu.SwapchainTexture, error) {
	if !c.checkOpen("AcquireSwapchainTexture") {
		return gpu.SwapchainTexture{}, errors.New("command buffer finished")
	}
	if err := c.d.fail("AcquireSwapchainTexture"); err != nil {
		return gpu.SwapchainTexture{}, err
	}
	if c.d.window == nil || c.d.window != w {
		return gpu.SwapchainTexture{}, gpu.ErrNoWindow
	}
	if c.d.NullSwapchain {
		return gpu.SwapchainTexture{}, nil
	}
	width, height := w.FramebufferSize()
	h := gpu.Texture(c.d.id())
	c.d.textures[h] = true
	c.sub.Swapchain = gpu.SwapchainTexture{Texture: h, Width: uint32(width), Height: uint32(height)}
	return c.sub.Swapchain, nil
}

func (c *commandBuffer) PushVertexUniformData(slot uint32, data []byte) {
	if !c.checkOpen("PushVertexUniformData") {
		return
	}
	c.uniforms[slot] = slices.Clone(data)
}

// SubmitAndAcquireFence performs the recorded copies, then retires the swapchain
// image as presented.
func (c *commandBuffer) SubmitAndAcquireFence() (gpu.Fence, error) {
	if !c.checkOpen("SubmitAndAcquireFence") {
		return 0, errors.New("command buffer finished")
	}
	if err := c.d.fail("SubmitAndAcquireFence"); err != nil {
		return 0, err
	}
	if c.passOpen {
		c.d.violation("SubmitAndAcquireFence with an open pass")
	}

	for _, cp := range c.sub.Copies {
		t, okSrc := c.d.transfers[cp.Src.TransferBuffer]
		dst, okDst := c.d.buffers[cp.Dst.Buffer]
		if !okSrc || !okDst {
			c.d.violation("copy between released handles")
			continue
		}
		if t.mapped {
			c.d.violation("copy from mapped %s", cp.Src.TransferBuffer)
		}
		src := t.data[cp.Src.Offset : cp.Src.Offset+cp.Dst.Size]
		copy(dst[cp.Dst.Offset:cp.Dst.Offset+cp.Dst.Size], src)
	}

	c.done = true
	c.d.recording = false
	delete(c.d.textures, c.sub.Swapchain.Texture)

	f := gpu.Fence(c.d.id())
	c.d.fences[f] = false
	c.sub.Fence = f
	c.d.submissions = append(c.d.submissions, c.sub)
	return f, nil
}

func (c *commandBuffer) Cancel() {
	c.d.record("Cancel")
	if c.done {
		return
	}
	if c.passOpen {
		c.d.violation("Cancel with an open pass")
	}
	c.done = true
	c.d.recording = false
	delete(c.d.textures, c.sub.Swapchain.Texture)
}

type copyPass struct {
	cmd   *commandBuffer
	ended bool
}

func (p *copyPass) UploadToBuffer(src gpu.TransferBufferLocation, dst gpu.BufferRegion, cycle bool) {
	d := p.cmd.d
	d.record("UploadToBuffer")
	if p.ended {
		d.violation("UploadToBuffer after End")
		return
	}
	t, okSrc := d.transfers[src.TransferBuffer]
	buf, okDst := d.buffers[dst.Buffer]
	if !okSrc || !okDst {
		d.violation("UploadToBuffer with unknown handles")
		return
	}
	if uint64(src.Offset)+uint64(dst.Size) > uint64(len(t.data)) {
		d.violation("UploadToBuffer reads past the end of %s", src.TransferBuffer)
		return
	}
	if uint64(dst.Offset)+uint64(dst.Size) > uint64(len(buf)) {
		d.violation("UploadToBuffer writes past the end of %s", dst.Buffer)
		return
	}
	p.cmd.sub.Copies = append(p.cmd.sub.Copies, Copy{Src: src, Dst: dst})
}

func (p *copyPass) End() {
	p.cmd.d.record("EndCopyPass")
	if p.ended {
		p.cmd.d.violation("copy pass ended twice")
		return
	}
	p.ended = true
	p.cmd.passOpen = false
}

type renderPass struct {
	cmd      *commandBuffer
	ended    bool
	pipeline gpu.GraphicsPipeline
	viewport gpu.Viewport
	vertex   []gpu.BufferBinding
	index    gpu.BufferBinding
	size     gpu.IndexElementSize
}

func (p *renderPass) BindGraphicsPipeline(gp gpu.GraphicsPipeline) {
	p.cmd.d.record("BindGraphicsPipeline")
	if _, ok := p.cmd.d.pipelines[gp]; !ok {
		p.cmd.d.violation("BindGraphicsPipeline of unknown %s", gp)
	}
	p.pipeline = gp
}

func (p *renderPass) SetViewport(v gpu.Viewport) {
	p.cmd.d.record("SetViewport")
	p.viewport = v
}

func (p *renderPass) BindVertexBuffers(firstSlot uint32, bindings ...gpu.BufferBinding) {
	p.cmd.d.record("BindVertexBuffers")
	need := int(firstSlot) + len(bindings)
	for len(p.vertex) < need {
		p.vertex = append(p.vertex, gpu.BufferBinding{})
	}
	copy(p.vertex[firstSlot:], bindings)
}

func (p *renderPass) BindIndexBuffer(binding gpu.BufferBinding, size gpu.IndexElementSize) {
	p.cmd.d.record("BindIndexBuffer")
	p.index = binding
	p.size = size
}

func (p *renderPass) DrawIndexedPrimitives(numIndices, numInstances, firstIndex uint32, vertexOffset int32, firstInstance uint32) {
	d := p.cmd.d
	d.record("DrawIndexedPrimitives")
	if p.ended {
		d.violation("DrawIndexedPrimitives after End")
		return
	}
	if p.pipeline.IsNull() {
		d.violation("DrawIndexedPrimitives without a pipeline")
	}
	p.cmd.sub.Draws = append(p.cmd.sub.Draws, Draw{
		Pipeline:      p.pipeline,
		VertexBuffers: slices.Clone(p.vertex),
		IndexBuffer:   p.index,
		IndexSize:     p.size,
		Viewport:      p.viewport,
		Uniforms:      maps.Clone(p.cmd.uniforms),
		NumIndices:    numIndices,
		NumInstances:  numInstances,
		FirstIndex:    firstIndex,
		VertexOffset:  vertexOffset,
		FirstInstance: firstInstance,
	})
}

func (p *renderPass) End() {
	p.cmd.d.record("EndRenderPass")
	if p.ended {
		p.cmd.d.violation("render pass ended twice")
		return
	}
	p.ended = true
	p.cmd.passOpen = false
}
