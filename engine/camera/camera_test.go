package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-cube/common"
)

func TestWorldTransformDeterministic(t *testing.T) {
	pos := common.Vec3{0, 50, -50}
	a := WorldTransform(DefaultProjection, pos, common.Vec3{}, 640, 480)
	b := WorldTransform(DefaultProjection, pos, common.Vec3{}, 640, 480)
	if a != b {
		t.Fatalf("identical inputs gave different matrices:\n%v\n%v", a, b)
	}
}

func TestWorldTransformClipSpace(t *testing.T) {
	m := WorldTransform(DefaultProjection, common.Vec3{0, 50, -50}, common.Vec3{}, 640, 480)

	origin := common.TransformPoint(m[:], 0, 0, 0, 1)
	if origin[3] <= 0 {
		t.Fatalf("origin w = %v, want > 0", origin[3])
	}
	if x, y := origin[0]/origin[3], origin[1]/origin[3]; abs(x) > 1e-4 || abs(y) > 1e-4 {
		t.Errorf("origin projects to (%v, %v), want screen centre", x, y)
	}
	if z := origin[2] / origin[3]; z <= 0 || z >= 1 {
		t.Errorf("origin depth %v outside (0, 1)", z)
	}

	for _, x := range []float32{-10, 10} {
		for _, y := range []float32{-10, 10} {
			for _, z := range []float32{-10, 10} {
				p := common.TransformPoint(m[:], x, y, z, 1)
				if p[3] <= 0 {
					t.Fatalf("corner (%v,%v,%v) behind camera, w = %v", x, y, z, p[3])
				}
				if nx, ny := p[0]/p[3], p[1]/p[3]; abs(nx) > 1 || abs(ny) > 1 {
					t.Errorf("corner (%v,%v,%v) outside view: (%v, %v)", x, y, z, nx, ny)
				}
			}
		}
	}
}

func TestWorldTransformMirrorsX(t *testing.T) {
	m := WorldTransform(DefaultProjection, common.Vec3{0, 50, -50}, common.Vec3{}, 640, 480)
	p := common.TransformPoint(m[:], 10, 0, 0, 1)
	if p[0]/p[3] >= 0 {
		t.Errorf("world +X projected to x = %v, want negative", p[0]/p[3])
	}
}

func TestWorldTransformAspect(t *testing.T) {
	pos := common.Vec3{0, 50, -50}
	wide := WorldTransform(DefaultProjection, pos, common.Vec3{}, 1280, 480)
	square := WorldTransform(DefaultProjection, pos, common.Vec3{}, 480, 480)
	if wide == square {
		t.Fatal("aspect ratio did not affect the transform")
	}
}

func TestCameraDefaults(t *testing.T) {
	c := NewCamera()
	p := c.Projection()
	if p.Near != 1 || p.Far != 10000 || p.Up != (common.Vec3{0, -1, 0}) {
		t.Errorf("unexpected default projection %+v", p)
	}
	if got := c.Controller().Position(); got != (common.Vec3{0, 50, -50}) {
		t.Errorf("default position = %v", got)
	}
	if got := c.Controller().Target(); got != (common.Vec3{}) {
		t.Errorf("default target = %v", got)
	}

	want := WorldTransform(DefaultProjection, common.Vec3{0, 50, -50}, common.Vec3{}, 640, 480)
	if got := c.WorldTransform(640, 480); got != want {
		t.Error("camera transform differs from WorldTransform")
	}
}

func TestCameraOptions(t *testing.T) {
	ctrl := NewCameraController(WithPosition(common.Vec3{1, 2, 3}))
	c := NewCamera(WithFov(1), WithClipPlanes(0.5, 100), WithUp(0, 1, 0), WithController(ctrl))
	p := c.Projection()
	if p.FovY != 1 || p.Near != 0.5 || p.Far != 100 || p.Up != (common.Vec3{0, 1, 0}) {
		t.Errorf("options not applied: %+v", p)
	}
	if c.Controller() != ctrl {
		t.Error("controller not attached")
	}
}

func TestHandleKeyUp(t *testing.T) {
	tests := []struct {
		key   int
		delta common.Vec3
	}{
		{common.KeyQ, common.Vec3{5, 0, 0}},
		{common.KeyA, common.Vec3{-5, 0, 0}},
		{common.KeyW, common.Vec3{0, 5, 0}},
		{common.KeyS, common.Vec3{0, -5, 0}},
		{common.KeyE, common.Vec3{0, 0, 5}},
		{common.KeyD, common.Vec3{0, 0, -5}},
	}
	for _, tt := range tests {
		cc := NewCameraController()
		pos, target := cc.Position(), cc.Target()
		if !cc.HandleKeyUp(tt.key) {
			t.Fatalf("key %d not handled", tt.key)
		}
		if got, want := cc.Position(), pos.Add(tt.delta); got != want {
			t.Errorf("key %d: position = %v, want %v", tt.key, got, want)
		}
		if got, want := cc.Target(), target.Add(tt.delta); got != want {
			t.Errorf("key %d: target = %v, want %v", tt.key, got, want)
		}
	}
}

func TestHandleKeyUpUnbound(t *testing.T) {
	cc := NewCameraController()
	if cc.HandleKeyUp(common.KeyEsc) {
		t.Error("Esc should not move the camera")
	}
	if cc.Position() != (common.Vec3{0, 50, -50}) {
		t.Error("position changed on unbound key")
	}
}

func TestWithStep(t *testing.T) {
	cc := NewCameraController(WithStep(1))
	cc.HandleKeyUp(common.KeyQ)
	if got := cc.Position(); got != (common.Vec3{1, 50, -50}) {
		t.Errorf("position = %v", got)
	}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
