package gpu

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// uniformSlotStride is the WebGPU minimum uniform buffer offset alignment.
	uniformSlotStride = 256
	// maxVertexUniformSlots bounds the number of vertex uniform slots a shader may declare.
	maxVertexUniformSlots = 4
	// maxMapPolls bounds the number of device polls spent waiting for a buffer map.
	maxMapPolls = 1024
)

// SurfaceWindow is a Window that can describe its native surface to WebGPU.
type SurfaceWindow interface {
	Window
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
}

type wgpuShader struct {
	module      *wgpu.ShaderModule
	entryPoint  string
	stage       ShaderStage
	numUniforms uint32
}

type wgpuTransferBuffer struct {
	buffer *wgpu.Buffer
	size   uint64
	mapped bool
}

type wgpuPipeline struct {
	pipeline        *wgpu.RenderPipeline
	layout          *wgpu.PipelineLayout
	bindGroupLayout *wgpu.BindGroupLayout
	bindGroup       *wgpu.BindGroup
}

type wgpuSwapchainImage struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

// wgpuDevice implements Device on top of WebGPU. Handles are indices into
// per-kind tables; the wgpu objects never leave this package.
//
// WebGPU has no push constants, so vertex uniform slots are emulated with a
// device-owned uniform buffer holding one uniformSlotStride region per slot and
// a group 0 bind group per pipeline that binds slot i at binding i.
type wgpuDevice struct {
	mu *sync.Mutex

	label                string
	forceFallbackAdapter bool
	presentMode          wgpu.PresentMode

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	driver   string

	window        SurfaceWindow
	surface       *wgpu.Surface
	surfaceFormat wgpu.TextureFormat
	surfaceWidth  int
	surfaceHeight int

	uniforms *wgpu.Buffer

	nextID    uint64
	shaders   map[Shader]*wgpuShader
	buffers   map[Buffer]*wgpu.Buffer
	transfers map[TransferBuffer]*wgpuTransferBuffer
	pipelines map[GraphicsPipeline]*wgpuPipeline
	textures  map[Texture]*wgpuSwapchainImage
	fences    map[Fence]struct{}
	recording bool
}

var _ Device = &wgpuDevice{}

// NewWGPUDevice creates a WebGPU instance, adapter, device and queue. The calling
// goroutine is locked to its OS thread, since the windowing system and the
// surface must be driven from the thread that created them.
//
// Parameters:
//   - options: functional options such as WithPresentMode
//
// Returns:
//   - Device: the created device
//   - error: a KindInit error if any step failed; nothing is leaked on failure
func NewWGPUDevice(options ...WGPUDeviceOption) (Device, error) {
	runtime.LockOSThread()

	d := &wgpuDevice{
		mu:          &sync.Mutex{},
		label:       "oxy-cube device",
		presentMode: wgpu.PresentModeFifo,
		shaders:     make(map[Shader]*wgpuShader),
		buffers:     make(map[Buffer]*wgpu.Buffer),
		transfers:   make(map[TransferBuffer]*wgpuTransferBuffer),
		pipelines:   make(map[GraphicsPipeline]*wgpuPipeline),
		textures:    make(map[Texture]*wgpuSwapchainImage),
		fences:      make(map[Fence]struct{}),
	}
	for _, opt := range options {
		opt(d)
	}

	d.instance = wgpu.CreateInstance(nil)
	if d.instance == nil {
		return nil, InitError("create instance", errors.New("webgpu instance unavailable"))
	}

	adapter, err := d.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: d.forceFallbackAdapter,
	})
	if err != nil {
		d.instance.Release()
		return nil, InitError("request adapter", err)
	}
	d.adapter = adapter

	info := adapter.GetInfo()
	d.driver = fmt.Sprintf("%v", info.BackendType)
	if info.Name != "" {
		d.driver = fmt.Sprintf("%v (%s)", info.BackendType, info.Name)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: d.label,
	})
	if err != nil {
		d.adapter.Release()
		d.instance.Release()
		return nil, InitError("request device", err)
	}
	d.device = device
	d.queue = device.GetQueue()

	uniforms, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "vertex uniform slots",
		Size:  uniformSlotStride * maxVertexUniformSlots,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		d.queue.Release()
		d.device.Release()
		d.adapter.Release()
		d.instance.Release()
		return nil, InitError("create uniform buffer", err)
	}
	d.uniforms = uniforms

	return d, nil
}

func (d *wgpuDevice) id() uint64 {
	d.nextID++
	return d.nextID
}

func (d *wgpuDevice) Driver() string {
	return d.driver
}

func (d *wgpuDevice) ClaimWindow(w Window) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.window != nil {
		return InitError("claim window", errors.New("a window is already claimed"))
	}
	sw, ok := w.(SurfaceWindow)
	if !ok {
		return InitError("claim window", fmt.Errorf("%T cannot provide a WebGPU surface", w))
	}

	surface := d.instance.CreateSurface(sw.SurfaceDescriptor())
	if surface == nil {
		return InitError("claim window", errors.New("surface creation failed"))
	}
	d.surface = surface
	d.window = sw

	width, height := sw.FramebufferSize()
	if err := d.configureSurface(width, height); err != nil {
		d.surface.Release()
		d.surface = nil
		d.window = nil
		return InitError("claim window", err)
	}
	return nil
}

// configureSurface (re)configures the swapchain for the given framebuffer size.
// The caller must hold d.mu.
func (d *wgpuDevice) configureSurface(width, height int) error {
	capabilities := d.surface.GetCapabilities(d.adapter)
	if len(capabilities.Formats) == 0 || len(capabilities.AlphaModes) == 0 {
		return errors.New("surface is not compatible with the adapter")
	}
	d.surfaceFormat = capabilities.Formats[0]

	d.surface.Configure(d.adapter, d.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      d.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: d.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})
	d.surfaceWidth, d.surfaceHeight = width, height
	return nil
}

func (d *wgpuDevice) ReleaseWindow(w Window) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.window == nil || Window(d.window) != w {
		return
	}
	d.surface.Release()
	d.surface = nil
	d.window = nil
}

func (d *wgpuDevice) SwapchainTextureFormat(w Window) TextureFormat {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.window == nil || Window(d.window) != w {
		return TextureFormatInvalid
	}
	return fromWGPUTextureFormat(d.surfaceFormat)
}

func (d *wgpuDevice) CreateShader(info ShaderCreateInfo) (Shader, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if info.NumUniformBuffers > maxVertexUniformSlots {
		return 0, fmt.Errorf("shader %q declares %d uniform slots, at most %d are supported", info.Name, info.NumUniformBuffers, maxVertexUniformSlots)
	}
	if info.Stage == ShaderStageFragment && info.NumUniformBuffers > 0 {
		return 0, fmt.Errorf("shader %q: fragment uniform slots are not supported", info.Name)
	}

	desc := &wgpu.ShaderModuleDescriptor{Label: info.Name}
	switch info.Format {
	case ShaderFormatWGSL:
		desc.WGSLDescriptor = &wgpu.ShaderModuleWGSLDescriptor{Code: string(info.Code)}
	case ShaderFormatSPIRV:
		desc.SPIRVDescriptor = &wgpu.ShaderModuleSPIRVDescriptor{Code: info.Code}
	default:
		return 0, fmt.Errorf("shader %q: unsupported format %s", info.Name, info.Format)
	}

	module, err := d.device.CreateShaderModule(desc)
	if err != nil {
		return 0, err
	}

	h := Shader(d.id())
	d.shaders[h] = &wgpuShader{
		module:      module,
		entryPoint:  info.EntryPoint,
		stage:       info.Stage,
		numUniforms: info.NumUniformBuffers,
	}
	return h, nil
}

func (d *wgpuDevice) ReleaseShader(s Shader) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if sh, ok := d.shaders[s]; ok {
		sh.module.Release()
		delete(d.shaders, s)
	}
}

func (d *wgpuDevice) CreateBuffer(info BufferCreateInfo) (Buffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	usage := wgpu.BufferUsageCopyDst
	if info.Usage&BufferUsageVertex != 0 {
		usage |= wgpu.BufferUsageVertex
	}
	if info.Usage&BufferUsageIndex != 0 {
		usage |= wgpu.BufferUsageIndex
	}

	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: info.Name,
		Size:  common.AlignUp(uint64(info.Size), 4),
		Usage: usage,
	})
	if err != nil {
		return 0, err
	}

	h := Buffer(d.id())
	d.buffers[h] = buf
	return h, nil
}

func (d *wgpuDevice) ReleaseBuffer(b Buffer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if buf, ok := d.buffers[b]; ok {
		buf.Release()
		delete(d.buffers, b)
	}
}

func (d *wgpuDevice) CreateTransferBuffer(info TransferBufferCreateInfo) (TransferBuffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if info.Usage != TransferBufferUsageUpload {
		return 0, fmt.Errorf("unsupported transfer buffer usage %d", int(info.Usage))
	}

	size := common.AlignUp(uint64(info.Size), 4)
	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "staging",
		Size:  size,
		Usage: wgpu.BufferUsageMapWrite | wgpu.BufferUsageCopySrc,
	})
	if err != nil {
		return 0, err
	}

	h := TransferBuffer(d.id())
	d.transfers[h] = &wgpuTransferBuffer{buffer: buf, size: size}
	return h, nil
}

func (d *wgpuDevice) ReleaseTransferBuffer(tb TransferBuffer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.transfers[tb]; ok {
		if t.mapped {
			t.buffer.Unmap()
		}
		t.buffer.Release()
		delete(d.transfers, tb)
	}
}

// MapTransferBuffer blocks until the staging buffer is host writable. WebGPU
// staging buffers cannot be renamed, so cycle has no effect: the wait for
// device idle already guarantees the old contents are no longer read.
func (d *wgpuDevice) MapTransferBuffer(tb TransferBuffer, cycle bool) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	t, ok := d.transfers[tb]
	if !ok {
		return nil, fmt.Errorf("unknown %s", tb)
	}
	if t.mapped {
		return nil, fmt.Errorf("%s is already mapped", tb)
	}

	done := false
	var status wgpu.BufferMapAsyncStatus
	err := t.buffer.MapAsync(wgpu.MapModeWrite, 0, t.size, func(s wgpu.BufferMapAsyncStatus) {
		status = s
		done = true
	})
	if err != nil {
		return nil, fmt.Errorf("%s: map: %w", tb, err)
	}
	for polls := 0; !done; polls++ {
		if polls == maxMapPolls {
			return nil, fmt.Errorf("%s: map did not complete", tb)
		}
		d.device.Poll(true, nil)
	}
	if status != wgpu.BufferMapAsyncStatusSuccess {
		return nil, fmt.Errorf("%s: map failed with status %v", tb, status)
	}

	t.mapped = true
	return t.buffer.GetMappedRange(0, uint(t.size)), nil
}

func (d *wgpuDevice) UnmapTransferBuffer(tb TransferBuffer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.transfers[tb]; ok && t.mapped {
		t.buffer.Unmap()
		t.mapped = false
	}
}

func (d *wgpuDevice) CreateGraphicsPipeline(info GraphicsPipelineCreateInfo) (GraphicsPipeline, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	vs, ok := d.shaders[info.VertexShader]
	if !ok || vs.stage != ShaderStageVertex {
		return 0, fmt.Errorf("pipeline %q: %s is not a vertex shader", info.Name, info.VertexShader)
	}
	fs, ok := d.shaders[info.FragmentShader]
	if !ok || fs.stage != ShaderStageFragment {
		return 0, fmt.Errorf("pipeline %q: %s is not a fragment shader", info.Name, info.FragmentShader)
	}
	if info.TargetInfo.HasDepthStencilTarget {
		return 0, fmt.Errorf("pipeline %q: depth-stencil targets are not supported", info.Name)
	}
	if info.RasterizerState.FillMode != FillModeFill {
		return 0, fmt.Errorf("pipeline %q: only solid fill is supported", info.Name)
	}

	vertexLayouts, err := d.vertexLayouts(info.VertexInputState)
	if err != nil {
		return 0, fmt.Errorf("pipeline %q: %w", info.Name, err)
	}

	targets := make([]wgpu.ColorTargetState, 0, len(info.TargetInfo.ColorTargets))
	for _, ct := range info.TargetInfo.ColorTargets {
		format, err := toWGPUTextureFormat(ct.Format)
		if err != nil {
			return 0, fmt.Errorf("pipeline %q: %w", info.Name, err)
		}
		targets = append(targets, wgpu.ColorTargetState{
			Format:    format,
			Blend:     toWGPUBlendState(ct.BlendState),
			WriteMask: toWGPUWriteMask(ct.BlendState.ColorWriteMask),
		})
	}

	p := &wgpuPipeline{}
	if err := d.createUniformBindings(info.Name, vs.numUniforms, p); err != nil {
		p.release()
		return 0, err
	}

	var groupLayouts []*wgpu.BindGroupLayout
	if p.bindGroupLayout != nil {
		groupLayouts = []*wgpu.BindGroupLayout{p.bindGroupLayout}
	}
	p.layout, err = d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            info.Name + " layout",
		BindGroupLayouts: groupLayouts,
	})
	if err != nil {
		p.release()
		return 0, fmt.Errorf("pipeline %q: %w", info.Name, err)
	}

	p.pipeline, err = d.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  info.Name,
		Layout: p.layout,
		Vertex: wgpu.VertexState{
			Module:     vs.module,
			EntryPoint: vs.entryPoint,
			Buffers:    vertexLayouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs.module,
			EntryPoint: fs.entryPoint,
			Targets:    targets,
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  toWGPUTopology(info.PrimitiveType),
			FrontFace: toWGPUFrontFace(info.RasterizerState.FrontFace),
			CullMode:  toWGPUCullMode(info.RasterizerState.CullMode),
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		p.release()
		return 0, fmt.Errorf("pipeline %q: %w", info.Name, err)
	}

	h := GraphicsPipeline(d.id())
	d.pipelines[h] = p
	return h, nil
}

func (d *wgpuDevice) vertexLayouts(state VertexInputState) ([]wgpu.VertexBufferLayout, error) {
	layouts := make([]wgpu.VertexBufferLayout, len(state.Buffers))
	slots := make(map[uint32]int, len(state.Buffers))
	for i, b := range state.Buffers {
		slots[b.Slot] = i
		layouts[i] = wgpu.VertexBufferLayout{
			ArrayStride: uint64(b.Pitch),
			StepMode:    toWGPUStepMode(b.InputRate),
		}
	}
	for _, a := range state.Attributes {
		i, ok := slots[a.BufferSlot]
		if !ok {
			return nil, fmt.Errorf("attribute at location %d reads undeclared buffer slot %d", a.Location, a.BufferSlot)
		}
		format, err := toWGPUVertexFormat(a.Format)
		if err != nil {
			return nil, err
		}
		layouts[i].Attributes = append(layouts[i].Attributes, wgpu.VertexAttribute{
			Format:         format,
			Offset:         uint64(a.Offset),
			ShaderLocation: a.Location,
		})
	}
	return layouts, nil
}

// createUniformBindings builds the group 0 layout and bind group for n vertex uniform slots.
func (d *wgpuDevice) createUniformBindings(name string, n uint32, p *wgpuPipeline) error {
	if n == 0 {
		return nil
	}

	layoutEntries := make([]wgpu.BindGroupLayoutEntry, n)
	groupEntries := make([]wgpu.BindGroupEntry, n)
	for i := uint32(0); i < n; i++ {
		layoutEntries[i] = wgpu.BindGroupLayoutEntry{
			Binding:    i,
			Visibility: wgpu.ShaderStageVertex,
		}
		layoutEntries[i].Buffer.Type = wgpu.BufferBindingTypeUniform
		groupEntries[i] = wgpu.BindGroupEntry{
			Binding: i,
			Buffer:  d.uniforms,
			Offset:  uint64(i) * uniformSlotStride,
			Size:    uniformSlotStride,
		}
	}

	var err error
	p.bindGroupLayout, err = d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   name + " uniform slots",
		Entries: layoutEntries,
	})
	if err != nil {
		return fmt.Errorf("pipeline %q: uniform layout: %w", name, err)
	}
	p.bindGroup, err = d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   name + " uniform slots",
		Layout:  p.bindGroupLayout,
		Entries: groupEntries,
	})
	if err != nil {
		return fmt.Errorf("pipeline %q: uniform bind group: %w", name, err)
	}
	return nil
}

func (p *wgpuPipeline) release() {
	if p.pipeline != nil {
		p.pipeline.Release()
	}
	if p.layout != nil {
		p.layout.Release()
	}
	if p.bindGroup != nil {
		p.bindGroup.Release()
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
	}
}

func (d *wgpuDevice) ReleaseGraphicsPipeline(gp GraphicsPipeline) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pipelines[gp]; ok {
		p.release()
		delete(d.pipelines, gp)
	}
}

func (d *wgpuDevice) AcquireCommandBuffer() (CommandBuffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.recording {
		return nil, errors.New("a command buffer is already recording")
	}
	encoder, err := d.device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, err
	}
	d.recording = true
	return &wgpuCommandBuffer{d: d, encoder: encoder}, nil
}

// WaitForFences blocks until the queue drained. Every fence handed out refers to
// a submission on the single queue, so waiting for idle satisfies waitAll and any.
func (d *wgpuDevice) WaitForFences(waitAll bool, fences ...Fence) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, f := range fences {
		if _, ok := d.fences[f]; !ok {
			return fmt.Errorf("unknown %s", f)
		}
	}
	d.device.Poll(true, nil)
	return nil
}

func (d *wgpuDevice) ReleaseFence(f Fence) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.fences, f)
}

// Destroy releases the device-owned uniform storage and the WebGPU objects. Any
// handle still live at this point is a leak by the caller and is released too.
func (d *wgpuDevice) Destroy() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for h, p := range d.pipelines {
		p.release()
		delete(d.pipelines, h)
	}
	for h, t := range d.transfers {
		t.buffer.Release()
		delete(d.transfers, h)
	}
	for h, b := range d.buffers {
		b.Release()
		delete(d.buffers, h)
	}
	for h, s := range d.shaders {
		s.module.Release()
		delete(d.shaders, h)
	}
	if d.surface != nil {
		d.surface.Release()
		d.surface = nil
		d.window = nil
	}
	if d.uniforms != nil {
		d.uniforms.Release()
		d.uniforms = nil
	}
	if d.queue != nil {
		d.queue.Release()
		d.queue = nil
	}
	if d.device != nil {
		d.device.Release()
		d.device = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
	if d.instance != nil {
		d.instance.Release()
		d.instance = nil
	}
}
