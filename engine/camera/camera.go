package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-cube/common"
)

type cameraImpl struct {
	mu *sync.Mutex

	projection Projection
	controller CameraController
}

// Camera combines lens settings with a CameraController that owns position and target.
type Camera interface {
	// Projection returns the lens parameters.
	//
	// Returns:
	//   - Projection: field of view, clip planes and up vector
	Projection() Projection

	// Controller returns the attached CameraController.
	//
	// Returns:
	//   - CameraController: the attached controller
	Controller() CameraController

	// WorldTransform computes the world transform for the controller's current
	// position and target and the given render target size.
	//
	// Parameters:
	//   - width, height: render target size in pixels
	//
	// Returns:
	//   - common.Mat4: column-major view-projection matrix
	WorldTransform(width, height uint32) common.Mat4

	// SetFov sets the vertical field of view in radians.
	SetFov(fov float32)

	// SetController attaches a CameraController to the camera.
	SetController(ctrl CameraController)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with DefaultProjection and a default controller
// positioned at (0, 50, -50) looking at the origin.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:         &sync.Mutex{},
		projection: DefaultProjection,
	}
	for _, option := range options {
		option(c)
	}
	if c.controller == nil {
		c.controller = NewCameraController()
	}
	return c
}

func (c *cameraImpl) Projection() Projection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) WorldTransform(width, height uint32) common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return WorldTransform(c.projection, c.controller.Position(), c.controller.Target(), width, height)
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projection.FovY = fov
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
}
