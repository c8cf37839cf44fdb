// Package resource provides ownership wrappers for GPU handles. A wrapper is the
// only owner of its handle: the release primitive runs exactly once, either
// through an explicit Release or through the Stack the wrapper was pushed onto.
package resource

import "errors"

// ErrNullHandle is returned by Check when a creation call reported success but
// produced the null handle.
var ErrNullHandle = errors.New("creation returned a null handle")

// Releaser is anything that can give back an acquired resource.
type Releaser interface {
	Release()
}

// Check validates the result of a creation call once. A creation error is returned
// unchanged, and a null handle without an error becomes ErrNullHandle, so callers
// never wrap a null handle.
//
// Parameters:
//   - h: the handle returned by the creation call
//   - err: the error returned by the creation call
//
// Returns:
//   - H: the validated handle
//   - error: the creation error or ErrNullHandle
func Check[H comparable](h H, err error) (H, error) {
	var zero H
	if err != nil {
		return zero, err
	}
	if h == zero {
		return zero, ErrNullHandle
	}
	return h, nil
}

// Owned owns a self-contained handle whose release primitive needs no parent,
// such as a window or the device itself.
type Owned[H comparable] struct {
	handle   H
	release  func(H)
	released bool
}

var _ Releaser = &Owned[int]{}

// NewOwned wraps h. h must already be validated with Check.
func NewOwned[H comparable](h H, release func(H)) *Owned[H] {
	return &Owned[H]{handle: h, release: release}
}

// Get returns the raw handle. It is the zero handle after Release.
func (o *Owned[H]) Get() H {
	if o == nil || o.released {
		var zero H
		return zero
	}
	return o.handle
}

// Released reports whether the release primitive already ran.
func (o *Owned[H]) Released() bool {
	return o == nil || o.released
}

// Release runs the release primitive. Subsequent calls do nothing.
func (o *Owned[H]) Release() {
	if o == nil || o.released {
		return
	}
	o.released = true
	if o.release != nil {
		o.release(o.handle)
	}
}

// DeviceOwned owns a handle that can only be released through the device that
// created it. The device reference is held for the wrapper's lifetime, so the
// owner must release every DeviceOwned before destroying the device.
type DeviceOwned[D any, H comparable] struct {
	device   D
	handle   H
	release  func(D, H)
	released bool
}

var _ Releaser = &DeviceOwned[any, int]{}

// NewDeviceOwned wraps h together with the device it belongs to. release is
// typically a method expression such as gpu.Device.ReleaseBuffer.
func NewDeviceOwned[D any, H comparable](device D, h H, release func(D, H)) *DeviceOwned[D, H] {
	return &DeviceOwned[D, H]{device: device, handle: h, release: release}
}

// Get returns the raw handle. It is the zero handle after Release.
func (o *DeviceOwned[D, H]) Get() H {
	if o == nil || o.released {
		var zero H
		return zero
	}
	return o.handle
}

// Device returns the device the handle belongs to.
func (o *DeviceOwned[D, H]) Device() D {
	return o.device
}

// Released reports whether the release primitive already ran.
func (o *DeviceOwned[D, H]) Released() bool {
	return o == nil || o.released
}

// Release hands the handle back to its device. Subsequent calls do nothing.
func (o *DeviceOwned[D, H]) Release() {
	if o == nil || o.released {
		return
	}
	o.released = true
	if o.release != nil {
		o.release(o.device, o.handle)
	}
}
