package model

import (
	"encoding/binary"

	"github.com/Carmen-Shannon/oxy-cube/common"
)

// MeshData is an indexed triangle list.
type MeshData struct {
	Vertices []Vertex
	Indices  []uint32
}

// Cube corner indices into the vertex list. B/F is back (-z) or front (+z),
// T/B is top (+y) or bottom (-y), L/R is left (-x) or right (+x).
const (
	cornerBTL = iota
	cornerBTR
	cornerBBL
	cornerBBR
	cornerFTL
	cornerFTR
	cornerFBL
	cornerFBR
)

var (
	red     = [4]float32{1, 0, 0, 1}
	green   = [4]float32{0, 1, 0, 1}
	blue    = [4]float32{0, 0, 1, 1}
	yellow  = [4]float32{1, 1, 0, 1}
	magenta = [4]float32{1, 0, 1, 1}
	cyan    = [4]float32{0, 1, 1, 1}
	white   = [4]float32{1, 1, 1, 1}
	black   = [4]float32{0, 0, 0, 1}
)

// NewCube builds an axis aligned cube with one distinctly colored vertex per
// corner and two triangles per face.
//
// Parameters:
//   - center: the cube center
//   - halfExtent: half the edge length, must be > 0
//
// Returns:
//   - MeshData: 8 vertices and 36 indices
func NewCube(center common.Vec3, halfExtent float32) MeshData {
	lo := center.Sub(common.Vec3{halfExtent, halfExtent, halfExtent})
	hi := center.Add(common.Vec3{halfExtent, halfExtent, halfExtent})

	corner := func(x, y, z float32, color [4]float32) Vertex {
		return Vertex{Position: [4]float32{x, y, z, 0}, Color: color}
	}

	m := MeshData{
		Vertices: []Vertex{
			cornerBTL: corner(lo[0], hi[1], lo[2], red),
			cornerBTR: corner(hi[0], hi[1], lo[2], green),
			cornerBBL: corner(lo[0], lo[1], lo[2], blue),
			cornerBBR: corner(hi[0], lo[1], lo[2], yellow),
			cornerFTL: corner(lo[0], hi[1], hi[2], magenta),
			cornerFTR: corner(hi[0], hi[1], hi[2], cyan),
			cornerFBL: corner(lo[0], lo[1], hi[2], white),
			cornerFBR: corner(hi[0], lo[1], hi[2], black),
		},
		Indices: make([]uint32, 0, 36),
	}

	m.appendQuad(cornerBTL, cornerBTR, cornerBBL, cornerBBR) // back
	m.appendQuad(cornerFTL, cornerFBL, cornerFTR, cornerFBR) // front
	m.appendQuad(cornerBTL, cornerFTL, cornerBTR, cornerFTR) // top
	m.appendQuad(cornerBBL, cornerBBR, cornerFBL, cornerFBR) // bottom
	m.appendQuad(cornerFTL, cornerBTL, cornerFBL, cornerBBL) // left
	m.appendQuad(cornerFTR, cornerFBR, cornerBTR, cornerBBR) // right
	return m
}

// appendQuad adds the triangles (v0, v1, v2) and (v3, v2, v1).
func (m *MeshData) appendQuad(v0, v1, v2, v3 uint32) {
	m.Indices = append(m.Indices, v0, v1, v2, v3, v2, v1)
}

// VertexBytes returns the little-endian vertex buffer contents.
func (m MeshData) VertexBytes() []byte {
	buf := make([]byte, len(m.Vertices)*VertexSize)
	for i := range m.Vertices {
		m.Vertices[i].marshalTo(buf[i*VertexSize:])
	}
	return buf
}

// IndexBytes returns the little-endian 32-bit index buffer contents.
func (m MeshData) IndexBytes() []byte {
	buf := make([]byte, len(m.Indices)*4)
	for i, idx := range m.Indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}
