// Package shader holds shader blobs: opaque bytecode plus the metadata the
// explicit GPU API needs to create a shader stage. The cube program ships
// embedded; blobs can also be loaded from disk.
package shader

import (
	"embed"
	"fmt"

	"github.com/Carmen-Shannon/oxy-cube/engine/gpu"
)

//go:embed assets/cube.wgsl
var assets embed.FS

// Blob is one shader stage ready to hand to a device. Code is never
// interpreted here beyond WGSL reflection; the backend compiles it.
type Blob struct {
	// Name is a debug label for the stage.
	Name string
	// Code is the WGSL source text or SPIR-V binary.
	Code []byte
	// EntryPoint is the function the stage starts at.
	EntryPoint string
	// Format identifies how Code is encoded.
	Format gpu.ShaderFormat
	// Stage is the pipeline stage the blob is compiled for.
	Stage gpu.ShaderStage

	NumSamplers        uint32
	NumStorageTextures uint32
	NumStorageBuffers  uint32
	NumUniformBuffers  uint32
}

// CreateInfo converts the blob into a device shader description.
func (b Blob) CreateInfo() gpu.ShaderCreateInfo {
	return gpu.ShaderCreateInfo{
		Name:               b.Name,
		Code:               b.Code,
		EntryPoint:         b.EntryPoint,
		Format:             b.Format,
		Stage:              b.Stage,
		NumSamplers:        b.NumSamplers,
		NumStorageTextures: b.NumStorageTextures,
		NumStorageBuffers:  b.NumStorageBuffers,
		NumUniformBuffers:  b.NumUniformBuffers,
	}
}

// Create compiles the blob on d and returns the owning wrapper.
//
// Parameters:
//   - d: the device that will own the shader
//
// Returns:
//   - *gpu.OwnedShader: the created shader
//   - error: a gpu.KindInit error if creation failed
func (b Blob) Create(d gpu.Device) (*gpu.OwnedShader, error) {
	return gpu.NewOwnedShader(d, b.CreateInfo())
}

// FromWGSL builds a blob from WGSL source, reflecting the entry point and
// resource counts for the stage.
//
// Parameters:
//   - name: debug label
//   - source: WGSL source code
//   - stage: the stage to build
//   - entryPoint: entry point name, or "" to use the first entry point of the stage
//
// Returns:
//   - Blob: the reflected blob
//   - error: if reflection failed
func FromWGSL(name string, source []byte, stage gpu.ShaderStage, entryPoint string) (Blob, error) {
	r, err := ReflectWGSL(string(source), stage, entryPoint)
	if err != nil {
		return Blob{}, fmt.Errorf("shader %s: %w", name, err)
	}
	return Blob{
		Name:               name,
		Code:               source,
		EntryPoint:         r.EntryPoint,
		Format:             gpu.ShaderFormatWGSL,
		Stage:              stage,
		NumSamplers:        r.NumSamplers,
		NumStorageTextures: r.NumStorageTextures,
		NumStorageBuffers:  r.NumStorageBuffers,
		NumUniformBuffers:  r.NumUniformBuffers,
	}, nil
}

// CubeProgram returns the embedded vertex and fragment blobs of the cube
// program. The vertex stage reads the world transform from uniform slot 0 and
// the model transform from slot 1.
func CubeProgram() (vertex, fragment Blob, err error) {
	src, err := assets.ReadFile("assets/cube.wgsl")
	if err != nil {
		return Blob{}, Blob{}, err
	}
	if vertex, err = FromWGSL("cube.vert", src, gpu.ShaderStageVertex, "vs_main"); err != nil {
		return Blob{}, Blob{}, err
	}
	if fragment, err = FromWGSL("cube.frag", src, gpu.ShaderStageFragment, "fs_main"); err != nil {
		return Blob{}, Blob{}, err
	}
	return vertex, fragment, nil
}
