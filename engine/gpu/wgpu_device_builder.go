package gpu

import "github.com/cogentcore/webgpu/wgpu"

// PresentMode selects how acquired swapchain images are queued for display.
type PresentMode int

const (
	// PresentModeVsync waits for vertical blank (FIFO).
	PresentModeVsync PresentMode = iota
	// PresentModeImmediate presents as soon as possible and may tear.
	PresentModeImmediate
)

func (m PresentMode) wgpu() wgpu.PresentMode {
	if m == PresentModeImmediate {
		return wgpu.PresentModeImmediate
	}
	return wgpu.PresentModeFifo
}

// WGPUDeviceOption configures NewWGPUDevice.
type WGPUDeviceOption func(*wgpuDevice)

// WithPresentMode sets the swapchain present mode.
//
// Parameters:
//   - mode: PresentModeVsync (default) or PresentModeImmediate
//
// Returns:
//   - WGPUDeviceOption: a function that sets the present mode for this device
func WithPresentMode(mode PresentMode) WGPUDeviceOption {
	return func(d *wgpuDevice) {
		d.presentMode = mode.wgpu()
	}
}

// WithForceFallbackAdapter requests the software adapter instead of a hardware GPU.
//
// Parameters:
//   - force: true to request the fallback adapter
//
// Returns:
//   - WGPUDeviceOption: a function that sets the adapter preference for this device
func WithForceFallbackAdapter(force bool) WGPUDeviceOption {
	return func(d *wgpuDevice) {
		d.forceFallbackAdapter = force
	}
}

// WithDeviceLabel sets the debug label of the WebGPU device.
func WithDeviceLabel(label string) WGPUDeviceOption {
	return func(d *wgpuDevice) {
		d.label = label
	}
}
