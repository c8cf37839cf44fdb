package model

import (
	"math"
	"time"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/xlab/linmath"
)

// DefaultRotationSpeed is the default spin rate in degrees per millisecond.
const DefaultRotationSpeed = 32.0 / 1000.0

// Rotator accumulates a rotation angle about the Y axis. The angle is kept in [0, 360).
type Rotator struct {
	angle float64 // degrees
	speed float64 // degrees per millisecond
}

// NewRotator returns a Rotator at angle 0 spinning at speed degrees per millisecond.
func NewRotator(speed float64) *Rotator {
	return &Rotator{speed: speed}
}

// Angle returns the current angle in degrees.
func (r *Rotator) Angle() float64 {
	return r.angle
}

// Speed returns the spin rate in degrees per millisecond.
func (r *Rotator) Speed() float64 {
	return r.speed
}

// Advance adds speed * elapsed milliseconds to the angle and wraps it into [0, 360).
// Sub-millisecond parts of elapsed are kept.
func (r *Rotator) Advance(elapsed time.Duration) {
	ms := float64(elapsed) / float64(time.Millisecond)
	a := math.Mod(r.angle+r.speed*ms, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	r.angle = a
}

// LocalTransform returns the model matrix for the current angle: a right-handed
// rotation about the Y axis, column-major. A positive angle takes +X towards -Z.
func (r *Rotator) LocalTransform() common.Mat4 {
	var identity, rotated linmath.Mat4x4
	identity.Identity()
	// linmath's RotateY turns the other way, so the angle is negated.
	rotated.RotateY(&identity, -common.DegToRad(float32(r.angle)))
	return fromLinmath(&rotated)
}

// fromLinmath flattens a linmath matrix (indexed [column][row]) into a column-major Mat4.
func fromLinmath(m *linmath.Mat4x4) common.Mat4 {
	var out common.Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			out[c*4+r] = m[c][r]
		}
	}
	return out
}
