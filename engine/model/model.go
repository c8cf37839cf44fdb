package model

import (
	"time"

	"github.com/Carmen-Shannon/oxy-cube/common"
)

// model is the implementation of the Model interface.
type model struct {
	name    string
	mesh    MeshData
	rotator *Rotator
}

// Model is a static mesh spinning about its local Y axis.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Mesh retrieves the mesh to upload.
	//
	// Returns:
	//   - MeshData: the vertex and index data
	Mesh() MeshData

	// Angle retrieves the current rotation in degrees, in [0, 360).
	//
	// Returns:
	//   - float64: the rotation angle
	Angle() float64

	// Update advances the rotation by the elapsed frame time.
	//
	// Parameters:
	//   - elapsed: time since the previous update
	Update(elapsed time.Duration)

	// Transform returns the model matrix for the current rotation.
	//
	// Returns:
	//   - common.Mat4: column-major model matrix
	Transform() common.Mat4
}

var _ Model = &model{}

// NewModel creates a Model. Without options it is the default cube: half extent
// 10 at the origin, spinning at DefaultRotationSpeed.
//
// Parameters:
//   - options: functional options such as WithMesh and WithRotationSpeed
//
// Returns:
//   - Model: the model
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{
		name:    "cube",
		rotator: NewRotator(DefaultRotationSpeed),
	}
	for _, opt := range options {
		opt(m)
	}
	if len(m.mesh.Vertices) == 0 {
		m.mesh = NewCube(common.Vec3{}, 10)
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Mesh() MeshData {
	return m.mesh
}

func (m *model) Angle() float64 {
	return m.rotator.Angle()
}

func (m *model) Update(elapsed time.Duration) {
	m.rotator.Advance(elapsed)
}

func (m *model) Transform() common.Mat4 {
	return m.rotator.LocalTransform()
}
