package camera

import "github.com/Carmen-Shannon/oxy-cube/common"

// Projection holds the lens parameters of the world transform.
type Projection struct {
	// FovY is the vertical field of view in radians.
	FovY float32
	Near float32
	Far  float32
	Up   common.Vec3
}

// DefaultProjection is a 45 degree lens with near 1, far 10000 and a -Y up vector.
var DefaultProjection = Projection{
	FovY: common.DegToRad(45),
	Near: 1,
	Far:  10000,
	Up:   common.Vec3{0, -1, 0},
}

// WorldTransform computes the combined view-projection matrix for a camera at
// position looking at target, rendered into a width x height target:
//
//	flipX * perspective(fov, width/height, near, far) * lookTo(position, normalize(target-position), up)
//
// flipX negates clip-space X, which together with the -Y up vector yields a
// right-handed image. The function is pure: identical inputs give bit-identical output.
//
// Parameters:
//   - p: lens parameters
//   - position: camera position in world space
//   - target: point the camera looks at, must differ from position
//   - width, height: render target size in pixels, must be > 0
//
// Returns:
//   - common.Mat4: the column-major world transform
func WorldTransform(p Projection, position, target common.Vec3, width, height uint32) common.Mat4 {
	var view, proj, flip, out common.Mat4

	common.LookToRH(view[:], position, target.Sub(position).Normalize(), p.Up)
	common.Perspective(proj[:], p.FovY, float32(width)/float32(height), p.Near, p.Far)

	common.Identity(flip[:])
	flip[0] = -1

	common.Mul4(out[:], proj[:], view[:])
	common.Mul4(out[:], flip[:], out[:])
	return out
}
