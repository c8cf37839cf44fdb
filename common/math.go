package common

import "math"

// Mat4 is a 4x4 matrix stored as 16 floats in column-major order, the layout
// WGSL expects for a mat4x4<f32> uniform.
type Mat4 [16]float32

// Vec3 is a three component float vector.
type Vec3 [3]float32

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

// Length returns the euclidean length of v.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])))
}

// Normalize returns v scaled to unit length. The zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return Vec3{v[0] / l, v[1] / l, v[2] / l}
}

// DegToRad converts an angle in degrees to radians.
func DegToRad(deg float32) float32 {
	return deg * math.Pi / 180
}

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// Mul4 multiplies two 4x4 matrices and stores the result in out.
// All matrices are stored in column-major order.
// Result: out = a * b
//
// Parameters:
//   - out: destination slice (must be at least 16 elements, may alias a or b)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for i := 0; i < 4; i++ { // column of B
		for j := 0; j < 4; j++ { // row of A
			sum := float32(0)
			for k := 0; k < 4; k++ {
				sum += a[k*4+j] * b[i*4+k]
			}
			buf[i*4+j] = sum
		}
	}
	copy(out, buf[:])
}

// TransformPoint multiplies the column-major matrix m by the homogeneous point (x, y, z, w).
func TransformPoint(m []float32, x, y, z, w float32) [4]float32 {
	var out [4]float32
	for row := 0; row < 4; row++ {
		out[row] = m[row]*x + m[4+row]*y + m[8+row]*z + m[12+row]*w
	}
	return out
}

// Perspective creates a right-handed perspective projection matrix mapping
// view-space depth into the [0, 1] clip range used by WebGPU.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
func Perspective(out []float32, fovY, aspect, near, far float32) {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	Identity(out)

	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	out[15] = 0.0
}

// LookToRH creates a right-handed view matrix for a camera at eye facing along dir.
// dir does not need to be normalized, but must not be parallel to up.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - eye: camera position in world space
//   - dir: viewing direction
//   - up: up vector defining camera roll
func LookToRH(out []float32, eye, dir, up Vec3) {
	f := dir.Normalize()

	// s = f x up
	s := Vec3{
		f[1]*up[2] - f[2]*up[1],
		f[2]*up[0] - f[0]*up[2],
		f[0]*up[1] - f[1]*up[0],
	}.Normalize()

	// u = s x f
	u := Vec3{
		s[1]*f[2] - s[2]*f[1],
		s[2]*f[0] - s[0]*f[2],
		s[0]*f[1] - s[1]*f[0],
	}

	out[0], out[4], out[8], out[12] = s[0], s[1], s[2], -(s[0]*eye[0] + s[1]*eye[1] + s[2]*eye[2])
	out[1], out[5], out[9], out[13] = u[0], u[1], u[2], -(u[0]*eye[0] + u[1]*eye[1] + u[2]*eye[2])
	out[2], out[6], out[10], out[14] = -f[0], -f[1], -f[2], f[0]*eye[0]+f[1]*eye[1]+f[2]*eye[2]
	out[3], out[7], out[11], out[15] = 0, 0, 0, 1
}
