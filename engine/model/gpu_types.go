package model

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-cube/engine/gpu"
)

// VertexSize is the size in bytes of one Vertex as laid out in a vertex buffer.
const VertexSize = 32

// Vertex is the GPU-aligned representation of a single cube vertex.
// Size: 32 bytes, no padding.
type Vertex struct {
	Position [4]float32 // offset  0: position in model space, w unused (16 bytes)
	Color    [4]float32 // offset 16: RGBA color (16 bytes)
}

// Size returns the size of the Vertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (v *Vertex) Size() int {
	return int(unsafe.Sizeof(*v))
}

// marshalTo writes the vertex little-endian into buf, which must hold VertexSize bytes.
func (v *Vertex) marshalTo(buf []byte) {
	for i, f := range v.Position {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	for i, f := range v.Color {
		binary.LittleEndian.PutUint32(buf[16+i*4:], math.Float32bits(f))
	}
}

// VertexInputState returns the vertex fetch layout matching Vertex: one buffer
// in slot 0 with a 32 byte pitch, position at location 0 and color at location 1.
func VertexInputState() gpu.VertexInputState {
	return gpu.VertexInputState{
		Buffers: []gpu.VertexBufferDescription{{
			Slot:      0,
			Pitch:     VertexSize,
			InputRate: gpu.VertexInputRateVertex,
		}},
		Attributes: []gpu.VertexAttribute{
			{Location: 0, BufferSlot: 0, Format: gpu.VertexElementFormatFloat4, Offset: 0},
			{Location: 1, BufferSlot: 0, Format: gpu.VertexElementFormatFloat4, Offset: 16},
		},
	}
}
