package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-cube/common"
)

// DefaultStep is the distance moved per key release.
const DefaultStep = 5.0

// CameraController owns the camera position and target. Translations move both
// together, so the viewing direction never changes.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - common.Vec3: world-space camera position
	Position() common.Vec3

	// Target returns the look-at point.
	//
	// Returns:
	//   - common.Vec3: world-space target position
	Target() common.Vec3

	// SetPosition sets the camera's world-space position directly.
	SetPosition(p common.Vec3)

	// SetTarget sets the look-at point directly.
	SetTarget(t common.Vec3)

	// Translate moves position and target by delta.
	Translate(delta common.Vec3)

	// HandleKeyUp applies the translation bound to a released key:
	// Q/A move along +X/-X, W/S along +Y/-Y and E/D along +Z/-Z.
	//
	// Parameters:
	//   - key: the released key code (see common.KeyQ etc.)
	//
	// Returns:
	//   - bool: true if the key is bound and the camera moved
	HandleKeyUp(key int) bool
}

type cameraControllerImpl struct {
	mu *sync.Mutex

	position common.Vec3
	target   common.Vec3
	step     float32
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a controller at (0, 50, -50) looking at the
// origin, moving DefaultStep units per key release.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:       &sync.Mutex{},
		position: common.Vec3{0, 50, -50},
		step:     DefaultStep,
	}
	for _, opt := range options {
		opt(cc)
	}
	return cc
}

func (cc *cameraControllerImpl) Position() common.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) Target() common.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *cameraControllerImpl) SetPosition(p common.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position = p
}

func (cc *cameraControllerImpl) SetTarget(t common.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = t
}

func (cc *cameraControllerImpl) Translate(delta common.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position = cc.position.Add(delta)
	cc.target = cc.target.Add(delta)
}

func (cc *cameraControllerImpl) HandleKeyUp(key int) bool {
	var delta common.Vec3
	switch key {
	case common.KeyQ:
		delta[0] = cc.step
	case common.KeyA:
		delta[0] = -cc.step
	case common.KeyW:
		delta[1] = cc.step
	case common.KeyS:
		delta[1] = -cc.step
	case common.KeyE:
		delta[2] = cc.step
	case common.KeyD:
		delta[2] = -cc.step
	default:
		return false
	}
	cc.Translate(delta)
	return true
}
