package renderer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine/gpu"
	"github.com/Carmen-Shannon/oxy-cube/engine/gpu/gputest"
	"github.com/Carmen-Shannon/oxy-cube/engine/model"
)

func newMeshBuffers(t *testing.T, d *gputest.Device, vertexSize, indexSize int) (gpu.BufferRegion, gpu.BufferRegion) {
	t.Helper()
	vb, err := d.CreateBuffer(gpu.BufferCreateInfo{Name: "vertex", Usage: gpu.BufferUsageVertex, Size: uint32(vertexSize)})
	if err != nil {
		t.Fatal(err)
	}
	ib, err := d.CreateBuffer(gpu.BufferCreateInfo{Name: "index", Usage: gpu.BufferUsageIndex, Size: uint32(indexSize)})
	if err != nil {
		t.Fatal(err)
	}
	return gpu.BufferRegion{Buffer: vb, Size: uint32(vertexSize)}, gpu.BufferRegion{Buffer: ib, Size: uint32(indexSize)}
}

func TestUploadMeshReadback(t *testing.T) {
	mesh := model.NewCube(common.Vec3{}, 10)
	vertexData, indexData := mesh.VertexBytes(), mesh.IndexBytes()

	d := gputest.NewDevice()
	vertex, index := newMeshBuffers(t, d, len(vertexData), len(indexData))

	if err := UploadMesh(d, vertex, index, vertexData, indexData); err != nil {
		t.Fatalf("UploadMesh: %v", err)
	}

	if got, _ := d.BufferContents(vertex.Buffer); !bytes.Equal(got, vertexData) {
		t.Error("vertex buffer contents differ from host data")
	}
	if got, _ := d.BufferContents(index.Buffer); !bytes.Equal(got, indexData) {
		t.Error("index buffer contents differ from host data")
	}

	subs := d.Submissions()
	if len(subs) != 1 {
		t.Fatalf("submissions = %d, want 1", len(subs))
	}
	copies := subs[0].Copies
	if len(copies) != 2 {
		t.Fatalf("copies = %d, want 2", len(copies))
	}
	if copies[0].Src.Offset != 0 || copies[0].Dst.Size != uint32(len(vertexData)) {
		t.Errorf("vertex copy = %+v", copies[0])
	}
	if copies[1].Src.Offset != uint32(len(vertexData)) || copies[1].Dst.Size != uint32(len(indexData)) {
		t.Errorf("index copy = %+v", copies[1])
	}
	if copies[0].Src.TransferBuffer != copies[1].Src.TransferBuffer {
		t.Error("vertex and index data staged in different transfer buffers")
	}

	if d.Live() != 2 {
		t.Errorf("live handles = %d, want only the two destination buffers", d.Live())
	}
	if inv := d.Invalid(); len(inv) > 0 {
		t.Errorf("protocol violations: %v", inv)
	}
}

func TestUploadMeshCallOrder(t *testing.T) {
	d := gputest.NewDevice()
	vertex, index := newMeshBuffers(t, d, 8, 4)
	calls := len(d.Calls())

	if err := UploadMesh(d, vertex, index, make([]byte, 8), make([]byte, 4)); err != nil {
		t.Fatal(err)
	}

	got := d.Calls()[calls:]
	want := []string{
		"CreateTransferBuffer",
		"MapTransferBuffer",
		"UnmapTransferBuffer",
		"AcquireCommandBuffer",
		"BeginCopyPass",
		"UploadToBuffer",
		"UploadToBuffer",
		"EndCopyPass",
		"SubmitAndAcquireFence",
		"WaitForFences",
		"ReleaseFence",
		"ReleaseTransferBuffer",
	}
	if len(got) != len(want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	for i := range want {
		if !strings.HasPrefix(got[i], want[i]) {
			t.Errorf("call %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestUploadMeshTransferBufferSize(t *testing.T) {
	d := gputest.NewDevice()
	vertex, index := newMeshBuffers(t, d, 64, 64)

	// Destination buffers are larger than the data; staging must still be exact.
	if err := UploadMesh(d, vertex, index, make([]byte, 32), make([]byte, 12)); err != nil {
		t.Fatal(err)
	}
	copies := d.Submissions()[0].Copies
	last := copies[len(copies)-1]
	if end := last.Src.Offset + last.Dst.Size; end != 44 {
		t.Errorf("staged bytes = %d, want 44", end)
	}
}

func TestUploadMeshFailures(t *testing.T) {
	steps := []string{
		"CreateTransferBuffer",
		"MapTransferBuffer",
		"AcquireCommandBuffer",
		"BeginCopyPass",
		"SubmitAndAcquireFence",
		"WaitForFences",
	}
	for _, step := range steps {
		t.Run(step, func(t *testing.T) {
			d := gputest.NewDevice()
			vertex, index := newMeshBuffers(t, d, 8, 4)
			d.FailOn(step)

			err := UploadMesh(d, vertex, index, make([]byte, 8), make([]byte, 4))
			if !gpu.IsKind(err, gpu.KindUpload) {
				t.Fatalf("err = %v, want an upload error", err)
			}
			if !errors.Is(err, gputest.ErrInjected) {
				t.Errorf("err = %v, want the injected cause", err)
			}
			if d.Live() != 2 {
				t.Errorf("live handles = %d, want 2", d.Live())
			}

			// The device must be left usable for the next command buffer.
			d.ClearFailures()
			if err := UploadMesh(d, vertex, index, make([]byte, 8), make([]byte, 4)); err != nil {
				t.Fatalf("retry: %v", err)
			}
			if inv := d.Invalid(); len(inv) > 0 {
				t.Errorf("protocol violations: %v", inv)
			}
		})
	}
}

func TestUploadMeshValidation(t *testing.T) {
	d := gputest.NewDevice()
	vertex, index := newMeshBuffers(t, d, 8, 4)

	tests := []struct {
		name          string
		vertex, index []byte
		cause         error
	}{
		{"empty vertices", nil, make([]byte, 4), ErrEmptyUpload},
		{"empty indices", make([]byte, 8), nil, ErrEmptyUpload},
		{"vertex overflow", make([]byte, 9), make([]byte, 4), ErrUploadTooLarge},
		{"index overflow", make([]byte, 8), make([]byte, 5), ErrUploadTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(d.Calls())
			err := UploadMesh(d, vertex, index, tt.vertex, tt.index)
			if !gpu.IsKind(err, gpu.KindUpload) || !errors.Is(err, tt.cause) {
				t.Errorf("err = %v, want upload error caused by %v", err, tt.cause)
			}
			if len(d.Calls()) != before {
				t.Error("validation failure touched the device")
			}
		})
	}
}
