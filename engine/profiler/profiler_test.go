package profiler

import (
	"testing"
	"time"
)

func TestTickInterval(t *testing.T) {
	now := time.Unix(0, 0)
	p := NewProfiler(WithInterval(time.Second), WithClock(func() time.Time { return now }))

	for i := 0; i < 10; i++ {
		now = now.Add(50 * time.Millisecond)
		if p.Tick(i%2 == 0) {
			t.Fatalf("logged after %v", time.Duration(i+1)*50*time.Millisecond)
		}
	}
	now = now.Add(time.Second)
	if !p.Tick(true) {
		t.Error("did not log after the interval elapsed")
	}
	if p.frameCount != 0 || p.skippedCount != 0 {
		t.Errorf("counters not reset: %d drawn, %d skipped", p.frameCount, p.skippedCount)
	}
	if p.TotalFrames() != 11 {
		t.Errorf("total frames = %d, want 11", p.TotalFrames())
	}
}

func TestDefaultInterval(t *testing.T) {
	p := NewProfiler(WithInterval(0))
	if p.updateInterval != time.Second {
		t.Errorf("interval = %v, want 1s", p.updateInterval)
	}
}
