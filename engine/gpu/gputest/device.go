// Package gputest provides an in-memory gpu.Device that records every call,
// keeps buffer contents on the host so uploads can be read back, and can be told
// to fail any fallible operation.
package gputest

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/Carmen-Shannon/oxy-cube/engine/gpu"
)

// ErrInjected is returned by every operation selected with FailOn.
var ErrInjected = errors.New("injected failure")

// Draw is one recorded DrawIndexedPrimitives call with the state bound at that time.
type Draw struct {
	Pipeline      gpu.GraphicsPipeline
	VertexBuffers []gpu.BufferBinding
	IndexBuffer   gpu.BufferBinding
	IndexSize     gpu.IndexElementSize
	Viewport      gpu.Viewport
	Uniforms      map[uint32][]byte
	NumIndices    uint32
	NumInstances  uint32
	FirstIndex    uint32
	VertexOffset  int32
	FirstInstance uint32
}

// Copy is one recorded UploadToBuffer call.
type Copy struct {
	Src gpu.TransferBufferLocation
	Dst gpu.BufferRegion
}

// Submission is everything recorded into one submitted command buffer.
type Submission struct {
	Fence     gpu.Fence
	Copies    []Copy
	Targets   [][]gpu.ColorTargetInfo
	Draws     []Draw
	Swapchain gpu.SwapchainTexture
}

type transferBuffer struct {
	data   []byte
	mapped bool
}

// Device is a recording gpu.Device. The zero value is not usable; use NewDevice.
type Device struct {
	// DriverName is returned by Driver.
	DriverName string
	// Format is returned by SwapchainTextureFormat for the claimed window.
	Format gpu.TextureFormat
	// NullSwapchain makes AcquireSwapchainTexture return a null texture.
	NullSwapchain bool

	calls       []string
	invalid     []string
	submissions []Submission
	failOn      map[string]bool

	nextID    uint64
	window    gpu.Window
	destroyed bool
	recording bool

	shaders   map[gpu.Shader]gpu.ShaderCreateInfo
	buffers   map[gpu.Buffer][]byte
	transfers map[gpu.TransferBuffer]*transferBuffer
	pipelines map[gpu.GraphicsPipeline]gpu.GraphicsPipelineCreateInfo
	fences    map[gpu.Fence]bool
	textures  map[gpu.Texture]bool
	releases  map[uint64]int
}

var _ gpu.Device = &Device{}

// NewDevice returns an empty recording device.
func NewDevice() *Device {
	return &Device{
		DriverName: "gputest",
		Format:     gpu.TextureFormatB8G8R8A8Unorm,
		failOn:     make(map[string]bool),
		shaders:    make(map[gpu.Shader]gpu.ShaderCreateInfo),
		buffers:    make(map[gpu.Buffer][]byte),
		transfers:  make(map[gpu.TransferBuffer]*transferBuffer),
		pipelines:  make(map[gpu.GraphicsPipeline]gpu.GraphicsPipelineCreateInfo),
		fences:     make(map[gpu.Fence]bool),
		textures:   make(map[gpu.Texture]bool),
		releases:   make(map[uint64]int),
	}
}

// FailOn makes every later call of the named operation fail with ErrInjected.
// Operation names are the gpu interface method names, for example
// "MapTransferBuffer" or "SubmitAndAcquireFence".
func (d *Device) FailOn(op string) {
	d.failOn[op] = true
}

// ClearFailures removes every injected failure.
func (d *Device) ClearFailures() {
	clear(d.failOn)
}

// Calls returns the ordered log of device, command buffer and pass calls. Each
// entry is the method name, followed by the handle for release calls.
func (d *Device) Calls() []string {
	return slices.Clone(d.calls)
}

// Invalid returns protocol violations observed so far, such as double releases,
// use of unknown handles or calls after Destroy.
func (d *Device) Invalid() []string {
	return slices.Clone(d.invalid)
}

// Submissions returns every submitted command buffer in submission order.
func (d *Device) Submissions() []Submission {
	return slices.Clone(d.submissions)
}

// Live returns the number of created handles that were not released yet.
func (d *Device) Live() int {
	return len(d.shaders) + len(d.buffers) + len(d.transfers) + len(d.pipelines) + len(d.fences) + len(d.textures)
}

// Destroyed reports whether Destroy was called.
func (d *Device) Destroyed() bool {
	return d.destroyed
}

// Window returns the currently claimed window, or nil.
func (d *Device) Window() gpu.Window {
	return d.window
}

// ReleaseCount returns how many times the handle with the given id was released.
func (d *Device) ReleaseCount(id uint64) int {
	return d.releases[id]
}

// BufferContents returns a copy of a live buffer's bytes.
func (d *Device) BufferContents(b gpu.Buffer) ([]byte, bool) {
	data, ok := d.buffers[b]
	return slices.Clone(data), ok
}

// BufferSize returns the size of a live buffer, or 0.
func (d *Device) BufferSize(b gpu.Buffer) int {
	return len(d.buffers[b])
}

// TransferBufferSize returns the size of a live transfer buffer, or -1.
func (d *Device) TransferBufferSize(tb gpu.TransferBuffer) int {
	t, ok := d.transfers[tb]
	if !ok {
		return -1
	}
	return len(t.data)
}

// Pipeline returns the create info a live pipeline was built from.
func (d *Device) Pipeline(p gpu.GraphicsPipeline) (gpu.GraphicsPipelineCreateInfo, bool) {
	info, ok := d.pipelines[p]
	return info, ok
}

// Shaders returns the create infos of every live shader.
func (d *Device) Shaders() []gpu.ShaderCreateInfo {
	out := make([]gpu.ShaderCreateInfo, 0, len(d.shaders))
	for _, k := range slices.Sorted(maps.Keys(d.shaders)) {
		out = append(out, d.shaders[k])
	}
	return out
}

func (d *Device) record(op string) {
	d.calls = append(d.calls, op)
	if d.destroyed {
		d.violation("%s after Destroy", op)
	}
}

func (d *Device) violation(format string, args ...any) {
	d.invalid = append(d.invalid, fmt.Sprintf(format, args...))
}

func (d *Device) fail(op string) error {
	if d.failOn[op] {
		return fmt.Errorf("%s: %w", op, ErrInjected)
	}
	return nil
}

func (d *Device) id() uint64 {
	d.nextID++
	return d.nextID
}

func (d *Device) released(op string, id uint64, known bool) {
	d.calls = append(d.calls, fmt.Sprintf("%s #%d", op, id))
	if d.destroyed {
		d.violation("%s #%d after Destroy", op, id)
	}
	d.releases[id]++
	if !known {
		d.violation("%s of unknown or released handle #%d", op, id)
	}
}

func (d *Device) Driver() string {
	d.record("Driver")
	return d.DriverName
}

func (d *Device) ClaimWindow(w gpu.Window) error {
	d.record("ClaimWindow")
	if err := d.fail("ClaimWindow"); err != nil {
		return err
	}
	if d.window != nil {
		return errors.New("window already claimed")
	}
	d.window = w
	return nil
}

func (d *Device) ReleaseWindow(w gpu.Window) {
	d.record("ReleaseWindow")
	if d.window == nil || d.window != w {
		d.violation("ReleaseWindow of unclaimed window")
		return
	}
	d.window = nil
}

func (d *Device) SwapchainTextureFormat(w gpu.Window) gpu.TextureFormat {
	d.record("SwapchainTextureFormat")
	if d.window == nil || d.window != w {
		return gpu.TextureFormatInvalid
	}
	return d.Format
}

func (d *Device) CreateShader(info gpu.ShaderCreateInfo) (gpu.Shader, error) {
	d.record("CreateShader")
	if err := d.fail("CreateShader"); err != nil {
		return 0, err
	}
	if len(info.Code) == 0 || info.EntryPoint == "" {
		return 0, errors.New("empty shader code or entry point")
	}
	h := gpu.Shader(d.id())
	d.shaders[h] = info
	return h, nil
}

func (d *Device) ReleaseShader(s gpu.Shader) {
	_, ok := d.shaders[s]
	d.released("ReleaseShader", uint64(s), ok)
	delete(d.shaders, s)
}

func (d *Device) CreateBuffer(info gpu.BufferCreateInfo) (gpu.Buffer, error) {
	d.record("CreateBuffer")
	if err := d.fail("CreateBuffer"); err != nil {
		return 0, err
	}
	if info.Size == 0 {
		return 0, errors.New("zero sized buffer")
	}
	h := gpu.Buffer(d.id())
	d.buffers[h] = make([]byte, info.Size)
	return h, nil
}

func (d *Device) ReleaseBuffer(b gpu.Buffer) {
	_, ok := d.buffers[b]
	d.released("ReleaseBuffer", uint64(b), ok)
	delete(d.buffers, b)
}

func (d *Device) CreateTransferBuffer(info gpu.TransferBufferCreateInfo) (gpu.TransferBuffer, error) {
	d.record("CreateTransferBuffer")
	if err := d.fail("CreateTransferBuffer"); err != nil {
		return 0, err
	}
	if info.Size == 0 {
		return 0, errors.New("zero sized transfer buffer")
	}
	h := gpu.TransferBuffer(d.id())
	d.transfers[h] = &transferBuffer{data: make([]byte, info.Size)}
	return h, nil
}

func (d *Device) ReleaseTransferBuffer(tb gpu.TransferBuffer) {
	t, ok := d.transfers[tb]
	d.released("ReleaseTransferBuffer", uint64(tb), ok)
	if ok && t.mapped {
		d.violation("ReleaseTransferBuffer of mapped #%d", uint64(tb))
	}
	delete(d.transfers, tb)
}

func (d *Device) MapTransferBuffer(tb gpu.TransferBuffer, cycle bool) ([]byte, error) {
	d.record("MapTransferBuffer")
	if err := d.fail("MapTransferBuffer"); err != nil {
		return nil, err
	}
	t, ok := d.transfers[tb]
	if !ok {
		d.violation("MapTransferBuffer of unknown #%d", uint64(tb))
		return nil, errors.New("unknown transfer buffer")
	}
	if t.mapped {
		d.violation("MapTransferBuffer of mapped #%d", uint64(tb))
		return nil, errors.New("already mapped")
	}
	t.mapped = true
	return t.data, nil
}

func (d *Device) UnmapTransferBuffer(tb gpu.TransferBuffer) {
	d.record("UnmapTransferBuffer")
	t, ok := d.transfers[tb]
	if !ok || !t.mapped {
		d.violation("UnmapTransferBuffer of unmapped #%d", uint64(tb))
		return
	}
	t.mapped = false
}

func (d *Device) CreateGraphicsPipeline(info gpu.GraphicsPipelineCreateInfo) (gpu.GraphicsPipeline, error) {
	d.record("CreateGraphicsPipeline")
	if err := d.fail("CreateGraphicsPipeline"); err != nil {
		return 0, err
	}
	if _, ok := d.shaders[info.VertexShader]; !ok {
		return 0, errors.New("unknown vertex shader")
	}
	if _, ok := d.shaders[info.FragmentShader]; !ok {
		return 0, errors.New("unknown fragment shader")
	}
	h := gpu.GraphicsPipeline(d.id())
	d.pipelines[h] = info
	return h, nil
}

func (d *Device) ReleaseGraphicsPipeline(p gpu.GraphicsPipeline) {
	_, ok := d.pipelines[p]
	d.released("ReleaseGraphicsPipeline", uint64(p), ok)
	delete(d.pipelines, p)
}

func (d *Device) AcquireCommandBuffer() (gpu.CommandBuffer, error) {
	d.record("AcquireCommandBuffer")
	if err := d.fail("AcquireCommandBuffer"); err != nil {
		return nil, err
	}
	if d.recording {
		d.violation("AcquireCommandBuffer while another command buffer is recording")
	}
	d.recording = true
	return &commandBuffer{d: d, uniforms: make(map[uint32][]byte)}, nil
}

func (d *Device) WaitForFences(waitAll bool, fences ...gpu.Fence) error {
	d.record("WaitForFences")
	if err := d.fail("WaitForFences"); err != nil {
		return err
	}
	for _, f := range fences {
		if _, ok := d.fences[f]; !ok {
			d.violation("WaitForFences on unknown %s", f)
			return errors.New("unknown fence")
		}
		d.fences[f] = true
	}
	return nil
}

func (d *Device) ReleaseFence(f gpu.Fence) {
	_, ok := d.fences[f]
	d.released("ReleaseFence", uint64(f), ok)
	delete(d.fences, f)
}

// Signaled reports whether a live fence was waited on successfully.
func (d *Device) Signaled(f gpu.Fence) bool {
	return d.fences[f]
}

func (d *Device) Destroy() {
	d.record("Destroy")
	if d.destroyed {
		d.violation("Destroy called twice")
	}
	if d.window != nil {
		d.violation("Destroy with a claimed window")
	}
	if n := d.Live(); n > 0 {
		d.violation("Destroy with %d live handles", n)
	}
	d.destroyed = true
}
