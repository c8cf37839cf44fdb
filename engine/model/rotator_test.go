package model

import (
	"math"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-cube/common"
)

func circularDistance(a, b float64) float64 {
	d := math.Abs(a - b)
	return math.Min(d, 360-d)
}

func TestRotatorStaysInRange(t *testing.T) {
	r := NewRotator(DefaultRotationSpeed)
	steps := []time.Duration{0, 16 * time.Millisecond, 999 * time.Millisecond, 11250 * time.Millisecond, time.Hour, 3 * time.Microsecond}
	for _, s := range steps {
		r.Advance(s)
		if a := r.Angle(); a < 0 || a >= 360 {
			t.Fatalf("angle %v out of [0, 360) after advancing %v", a, s)
		}
	}
}

func TestRotatorFullTurn(t *testing.T) {
	fullTurn := time.Duration(360/DefaultRotationSpeed) * time.Millisecond

	tests := []struct {
		name  string
		start time.Duration
		steps int
	}{
		{"single step", 0, 1},
		{"many steps", 0, 1125},
		{"offset start", 1234 * time.Millisecond, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRotator(DefaultRotationSpeed)
			r.Advance(tt.start)
			start := r.Angle()

			for i := 0; i < tt.steps; i++ {
				r.Advance(fullTurn / time.Duration(tt.steps))
			}
			if d := circularDistance(r.Angle(), start); d > 1e-6 {
				t.Fatalf("angle %v after a full turn, want %v", r.Angle(), start)
			}
		})
	}
}

func TestRotatorLocalTransform(t *testing.T) {
	r := NewRotator(DefaultRotationSpeed)

	var identity common.Mat4
	common.Identity(identity[:])
	if m := r.LocalTransform(); m != identity {
		t.Fatalf("transform at angle 0 = %v, want identity", m)
	}

	r = NewRotator(1)
	r.Advance(90 * time.Millisecond)
	m := r.LocalTransform()

	// The Y axis is invariant.
	y := common.TransformPoint(m[:], 0, 1, 0, 0)
	if math.Abs(float64(y[1]-1)) > 1e-5 || math.Abs(float64(y[0])) > 1e-5 || math.Abs(float64(y[2])) > 1e-5 {
		t.Fatalf("Y axis mapped to %v", y)
	}

	// A quarter turn takes +X onto -Z and +Z onto +X.
	x := common.TransformPoint(m[:], 1, 0, 0, 0)
	if math.Abs(float64(x[0])) > 1e-5 || math.Abs(float64(x[2]+1)) > 1e-5 {
		t.Fatalf("X axis mapped to %v after a quarter turn, want (0, 0, -1)", x)
	}
	z := common.TransformPoint(m[:], 0, 0, 1, 0)
	if math.Abs(float64(z[0]-1)) > 1e-5 || math.Abs(float64(z[2])) > 1e-5 {
		t.Fatalf("Z axis mapped to %v after a quarter turn, want (1, 0, 0)", z)
	}

	// The rotation part is orthonormal.
	for c := 0; c < 3; c++ {
		col := common.Vec3{m[c*4], m[c*4+1], m[c*4+2]}
		if math.Abs(float64(col.Length()-1)) > 1e-5 {
			t.Fatalf("column %d has length %v", c, col.Length())
		}
	}
}

func TestNewModelDefaults(t *testing.T) {
	m := NewModel()
	if m.Name() != "cube" {
		t.Fatalf("Name() = %q", m.Name())
	}
	if len(m.Mesh().Indices) != 36 {
		t.Fatalf("default mesh has %d indices", len(m.Mesh().Indices))
	}

	m = NewModel(WithName("spinner"), WithRotationSpeed(1))
	m.Update(45 * time.Millisecond)
	if m.Name() != "spinner" || m.Angle() != 45 {
		t.Fatalf("model %q at angle %v, want spinner at 45", m.Name(), m.Angle())
	}
}
