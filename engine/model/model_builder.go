package model

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithMesh is an option builder that sets the mesh of the Model.
//
// Parameters:
//   - mesh: the vertex and index data
//
// Returns:
//   - ModelBuilderOption: a function that applies the mesh option to a model
func WithMesh(mesh MeshData) ModelBuilderOption {
	return func(m *model) {
		m.mesh = mesh
	}
}

// WithRotationSpeed is an option builder that sets the spin rate of the Model.
//
// Parameters:
//   - degreesPerMs: rotation speed in degrees per millisecond
//
// Returns:
//   - ModelBuilderOption: a function that applies the speed option to a model
func WithRotationSpeed(degreesPerMs float64) ModelBuilderOption {
	return func(m *model) {
		m.rotator = NewRotator(degreesPerMs)
	}
}
