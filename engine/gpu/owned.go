package gpu

import "github.com/Carmen-Shannon/oxy-cube/engine/resource"

// Device-scoped owning wrappers. Each releases its handle through the device
// that created it, exactly once.
type (
	OwnedShader           = resource.DeviceOwned[Device, Shader]
	OwnedBuffer           = resource.DeviceOwned[Device, Buffer]
	OwnedTransferBuffer   = resource.DeviceOwned[Device, TransferBuffer]
	OwnedGraphicsPipeline = resource.DeviceOwned[Device, GraphicsPipeline]
)

// OwnedDevice is the self-contained wrapper for a Device. Releasing it destroys the device.
type OwnedDevice = resource.Owned[Device]

// NewOwnedDevice wraps d so that Release calls d.Destroy.
func NewOwnedDevice(d Device) *OwnedDevice {
	return resource.NewOwned(d, Device.Destroy)
}

// NewOwnedShader creates a shader on d and wraps it.
func NewOwnedShader(d Device, info ShaderCreateInfo) (*OwnedShader, error) {
	h, err := d.CreateShader(info)
	if h, err = resource.Check(h, err); err != nil {
		return nil, InitError("create shader "+info.Name, err)
	}
	return resource.NewDeviceOwned(d, h, Device.ReleaseShader), nil
}

// NewOwnedBuffer creates a device-local buffer on d and wraps it.
func NewOwnedBuffer(d Device, info BufferCreateInfo) (*OwnedBuffer, error) {
	h, err := d.CreateBuffer(info)
	if h, err = resource.Check(h, err); err != nil {
		return nil, InitError("create buffer "+info.Name, err)
	}
	return resource.NewDeviceOwned(d, h, Device.ReleaseBuffer), nil
}

// NewOwnedTransferBuffer creates a staging buffer on d and wraps it.
// Failures are reported as upload errors since staging only happens during uploads.
func NewOwnedTransferBuffer(d Device, info TransferBufferCreateInfo) (*OwnedTransferBuffer, error) {
	h, err := d.CreateTransferBuffer(info)
	if h, err = resource.Check(h, err); err != nil {
		return nil, UploadError("create transfer buffer", err)
	}
	return resource.NewDeviceOwned(d, h, Device.ReleaseTransferBuffer), nil
}

// NewOwnedGraphicsPipeline creates a pipeline on d and wraps it.
func NewOwnedGraphicsPipeline(d Device, info GraphicsPipelineCreateInfo) (*OwnedGraphicsPipeline, error) {
	h, err := d.CreateGraphicsPipeline(info)
	if h, err = resource.Check(h, err); err != nil {
		return nil, InitError("create graphics pipeline "+info.Name, err)
	}
	return resource.NewDeviceOwned(d, h, Device.ReleaseGraphicsPipeline), nil
}
