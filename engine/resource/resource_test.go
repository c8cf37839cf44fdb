package resource

import (
	"errors"
	"reflect"
	"testing"
)

type fakeDevice struct {
	released []int
}

func (d *fakeDevice) releaseThing(h int) {
	d.released = append(d.released, h)
}

func TestOwnedReleasesExactlyOnce(t *testing.T) {
	calls := 0
	o := NewOwned(7, func(h int) {
		if h != 7 {
			t.Errorf("release got handle %d, want 7", h)
		}
		calls++
	})

	if got := o.Get(); got != 7 {
		t.Fatalf("Get() = %d, want 7", got)
	}
	o.Release()
	o.Release()
	o.Release()

	if calls != 1 {
		t.Fatalf("release called %d times, want 1", calls)
	}
	if !o.Released() {
		t.Fatal("Released() = false after Release")
	}
	if got := o.Get(); got != 0 {
		t.Fatalf("Get() after Release = %d, want null", got)
	}
}

func TestDeviceOwnedUsesOwningDevice(t *testing.T) {
	dev := &fakeDevice{}
	o := NewDeviceOwned(dev, 3, (*fakeDevice).releaseThing)

	if o.Device() != dev {
		t.Fatal("Device() does not return the creating device")
	}
	o.Release()
	o.Release()

	if !reflect.DeepEqual(dev.released, []int{3}) {
		t.Fatalf("device released %v, want [3]", dev.released)
	}
}

func TestNilWrapperIsSafe(t *testing.T) {
	var o *Owned[int]
	o.Release()
	if o.Get() != 0 || !o.Released() {
		t.Fatal("nil wrapper should behave as released")
	}

	var d *DeviceOwned[*fakeDevice, int]
	d.Release()
	if d.Get() != 0 {
		t.Fatal("nil device wrapper should return the null handle")
	}
}

func TestCheck(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		h       int
		err     error
		want    int
		wantErr error
	}{
		{"valid", 5, nil, 5, nil},
		{"null handle", 0, nil, 0, ErrNullHandle},
		{"creation error", 9, boom, 0, boom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Check(tt.h, tt.err)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("handle = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStackReleasesInReverseOrder(t *testing.T) {
	dev := &fakeDevice{}
	var s Stack
	for h := 1; h <= 4; h++ {
		s.Push(NewDeviceOwned(dev, h, (*fakeDevice).releaseThing))
	}
	s.PushFunc(func() { dev.released = append(dev.released, 99) })
	s.Push(nil)

	if s.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", s.Len())
	}
	s.Release()
	s.Release()

	want := []int{99, 4, 3, 2, 1}
	if !reflect.DeepEqual(dev.released, want) {
		t.Fatalf("release order %v, want %v", dev.released, want)
	}
	if s.Len() != 0 {
		t.Fatalf("Len() after Release = %d, want 0", s.Len())
	}
}

func TestStackSkipsAlreadyReleased(t *testing.T) {
	dev := &fakeDevice{}
	var s Stack
	a := NewDeviceOwned(dev, 1, (*fakeDevice).releaseThing)
	b := NewDeviceOwned(dev, 2, (*fakeDevice).releaseThing)
	s.Push(a)
	s.Push(b)

	b.Release()
	s.Release()

	if !reflect.DeepEqual(dev.released, []int{2, 1}) {
		t.Fatalf("release order %v, want [2 1]", dev.released)
	}
}
