package common

import (
	"math"
	"testing"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestMul4Identity(t *testing.T) {
	var id, m, out Mat4
	Identity(id[:])
	for i := range m {
		m[i] = float32(i + 1)
	}

	Mul4(out[:], id[:], m[:])
	if out != m {
		t.Fatalf("I*M = %v, want %v", out, m)
	}
	Mul4(out[:], m[:], id[:])
	if out != m {
		t.Fatalf("M*I = %v, want %v", out, m)
	}
}

func TestMul4Aliasing(t *testing.T) {
	var a, b, want Mat4
	for i := range a {
		a[i] = float32(i)
		b[i] = float32(16 - i)
	}
	Mul4(want[:], a[:], b[:])
	Mul4(a[:], a[:], b[:])
	if a != want {
		t.Fatalf("aliased result %v, want %v", a, want)
	}
}

func TestLookToRHMapsEyeToOrigin(t *testing.T) {
	var view Mat4
	eye := Vec3{3, -2, 7}
	LookToRH(view[:], eye, Vec3{0, 0, -1}, Vec3{0, 1, 0})

	p := TransformPoint(view[:], eye[0], eye[1], eye[2], 1)
	for i := 0; i < 3; i++ {
		if !approx(p[i], 0) {
			t.Fatalf("eye in view space = %v, want origin", p)
		}
	}

	// A point straight ahead lands on the negative Z axis.
	p = TransformPoint(view[:], eye[0], eye[1], eye[2]-5, 1)
	if !approx(p[0], 0) || !approx(p[1], 0) || !approx(p[2], -5) {
		t.Fatalf("forward point = %v, want (0, 0, -5)", p)
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	var proj Mat4
	Perspective(proj[:], DegToRad(45), 1, 1, 100)

	tests := []struct {
		name  string
		z     float32
		depth float32
	}{
		{"near", -1, 0},
		{"far", -100, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := TransformPoint(proj[:], 0, 0, tt.z, 1)
			if got := c[2] / c[3]; !approx(got, tt.depth) {
				t.Fatalf("depth at z=%v = %v, want %v", tt.z, got, tt.depth)
			}
		})
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{0, 3, -4}.Normalize()
	if !approx(v.Length(), 1) {
		t.Fatalf("length = %v, want 1", v.Length())
	}
	if z := (Vec3{}).Normalize(); z != (Vec3{}) {
		t.Fatalf("zero vector normalized to %v", z)
	}
}

func TestAlignUp(t *testing.T) {
	tests := []struct{ n, align, want uint64 }{
		{0, 256, 0},
		{1, 256, 256},
		{256, 256, 256},
		{257, 256, 512},
	}
	for _, tt := range tests {
		if got := AlignUp(tt.n, tt.align); got != tt.want {
			t.Errorf("AlignUp(%d, %d) = %d, want %d", tt.n, tt.align, got, tt.want)
		}
	}
}
