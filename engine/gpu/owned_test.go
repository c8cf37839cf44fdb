package gpu_test

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-cube/engine/gpu"
	"github.com/Carmen-Shannon/oxy-cube/engine/gpu/gputest"
)

func TestOwnedBufferReleasesOnce(t *testing.T) {
	dev := gputest.NewDevice()

	buf, err := gpu.NewOwnedBuffer(dev, gpu.BufferCreateInfo{Name: "vb", Usage: gpu.BufferUsageVertex, Size: 64})
	if err != nil {
		t.Fatalf("NewOwnedBuffer: %v", err)
	}
	h := buf.Get()
	if h.IsNull() {
		t.Fatal("wrapped a null buffer")
	}

	buf.Release()
	buf.Release()

	if n := dev.ReleaseCount(uint64(h)); n != 1 {
		t.Fatalf("buffer released %d times, want 1", n)
	}
	if dev.Live() != 0 {
		t.Fatalf("Live() = %d, want 0", dev.Live())
	}
	if inv := dev.Invalid(); len(inv) != 0 {
		t.Fatalf("protocol violations: %v", inv)
	}
}

func TestOwnedCreationFailures(t *testing.T) {
	tests := []struct {
		op     string
		kind   gpu.Kind
		create func(gpu.Device) error
	}{
		{"CreateShader", gpu.KindInit, func(d gpu.Device) error {
			_, err := gpu.NewOwnedShader(d, gpu.ShaderCreateInfo{Name: "vs", Code: []byte("x"), EntryPoint: "main"})
			return err
		}},
		{"CreateBuffer", gpu.KindInit, func(d gpu.Device) error {
			_, err := gpu.NewOwnedBuffer(d, gpu.BufferCreateInfo{Size: 4})
			return err
		}},
		{"CreateTransferBuffer", gpu.KindUpload, func(d gpu.Device) error {
			_, err := gpu.NewOwnedTransferBuffer(d, gpu.TransferBufferCreateInfo{Size: 4})
			return err
		}},
		{"CreateGraphicsPipeline", gpu.KindInit, func(d gpu.Device) error {
			_, err := gpu.NewOwnedGraphicsPipeline(d, gpu.GraphicsPipelineCreateInfo{Name: "p"})
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			dev := gputest.NewDevice()
			dev.FailOn(tt.op)

			err := tt.create(dev)
			if !gpu.IsKind(err, tt.kind) {
				t.Fatalf("err = %v, want kind %s", err, tt.kind)
			}
			if !errors.Is(err, gputest.ErrInjected) {
				t.Fatalf("err = %v, want injected failure", err)
			}
			if dev.Live() != 0 {
				t.Fatalf("Live() = %d after failed creation", dev.Live())
			}
		})
	}
}

func TestOwnedDeviceDestroysOnce(t *testing.T) {
	dev := gputest.NewDevice()
	owned := gpu.NewOwnedDevice(dev)

	owned.Release()
	owned.Release()

	if !dev.Destroyed() {
		t.Fatal("device not destroyed")
	}
	if inv := dev.Invalid(); len(inv) != 0 {
		t.Fatalf("protocol violations: %v", inv)
	}
}
