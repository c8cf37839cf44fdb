package camera

import "github.com/Carmen-Shannon/oxy-cube/common"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithPosition sets the initial camera position.
//
// Parameters:
//   - p: world-space position
//
// Returns:
//   - CameraControllerOption: functional option to set the position
func WithPosition(p common.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.position = p
	}
}

// WithTarget sets the initial look-at point.
//
// Parameters:
//   - t: world-space target
//
// Returns:
//   - CameraControllerOption: functional option to set the target
func WithTarget(t common.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = t
	}
}

// WithStep sets the distance moved per key release.
//
// Parameters:
//   - step: translation distance in world units
//
// Returns:
//   - CameraControllerOption: functional option to set the step
func WithStep(step float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.step = step
	}
}
