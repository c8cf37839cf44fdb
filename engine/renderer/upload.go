package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-cube/engine/gpu"
)

var (
	// ErrEmptyUpload is returned when either side of a mesh upload has no bytes.
	ErrEmptyUpload = errors.New("vertex and index data must not be empty")
	// ErrUploadTooLarge is returned when data does not fit its destination region.
	ErrUploadTooLarge = errors.New("data does not fit destination buffer")
)

// UploadMesh stages vertex and index bytes in one transfer buffer and copies them
// into device-local buffers, blocking until the copy completed.
//
// The transfer buffer is sized exactly len(vertexData)+len(indexData); vertex
// bytes are staged at offset 0 and index bytes at offset len(vertexData). The
// transfer buffer and the fence are released before UploadMesh returns, on every
// path. An unsubmitted command buffer is cancelled on failure.
//
// Parameters:
//   - device: the device owning both destination buffers
//   - vertex: destination of the vertex bytes; Size is the capacity available from Offset
//   - index: destination of the index bytes; Size is the capacity available from Offset
//   - vertexData: little-endian vertex bytes
//   - indexData: little-endian index bytes
//
// Returns:
//   - error: a KindUpload error on any failure
func UploadMesh(device gpu.Device, vertex, index gpu.BufferRegion, vertexData, indexData []byte) error {
	if len(vertexData) == 0 || len(indexData) == 0 {
		return gpu.UploadError("validate mesh", ErrEmptyUpload)
	}
	if uint64(len(vertexData)) > uint64(vertex.Size) {
		return gpu.UploadError("validate mesh", fmt.Errorf("vertex data %d bytes > %d: %w", len(vertexData), vertex.Size, ErrUploadTooLarge))
	}
	if uint64(len(indexData)) > uint64(index.Size) {
		return gpu.UploadError("validate mesh", fmt.Errorf("index data %d bytes > %d: %w", len(indexData), index.Size, ErrUploadTooLarge))
	}
	total := uint64(len(vertexData)) + uint64(len(indexData))
	if total > math.MaxUint32 {
		return gpu.UploadError("validate mesh", fmt.Errorf("%d staging bytes: %w", total, ErrUploadTooLarge))
	}
	vertexBytes := uint32(len(vertexData))
	indexBytes := uint32(len(indexData))

	staging, err := gpu.NewOwnedTransferBuffer(device, gpu.TransferBufferCreateInfo{
		Usage: gpu.TransferBufferUsageUpload,
		Size:  uint32(total),
	})
	if err != nil {
		return err
	}
	defer staging.Release()

	if err := stage(device, staging.Get(), vertexData, indexData); err != nil {
		return err
	}

	cmd, err := device.AcquireCommandBuffer()
	if err != nil {
		return gpu.UploadError("acquire command buffer", err)
	}
	pass, err := cmd.BeginCopyPass()
	if err != nil {
		cmd.Cancel()
		return gpu.UploadError("begin copy pass", err)
	}
	pass.UploadToBuffer(
		gpu.TransferBufferLocation{TransferBuffer: staging.Get(), Offset: 0},
		gpu.BufferRegion{Buffer: vertex.Buffer, Offset: vertex.Offset, Size: vertexBytes},
		false,
	)
	pass.UploadToBuffer(
		gpu.TransferBufferLocation{TransferBuffer: staging.Get(), Offset: vertexBytes},
		gpu.BufferRegion{Buffer: index.Buffer, Offset: index.Offset, Size: indexBytes},
		false,
	)
	pass.End()

	fence, err := cmd.SubmitAndAcquireFence()
	if err != nil {
		cmd.Cancel()
		return gpu.UploadError("submit upload", err)
	}
	defer device.ReleaseFence(fence)

	if err := device.WaitForFences(true, fence); err != nil {
		return gpu.UploadError("wait for upload fence", err)
	}
	return nil
}

// stage maps the transfer buffer, writes vertex then index bytes and unmaps it.
func stage(device gpu.Device, tb gpu.TransferBuffer, vertexData, indexData []byte) error {
	mem, err := device.MapTransferBuffer(tb, false)
	if err != nil {
		return gpu.UploadError("map transfer buffer", err)
	}
	defer device.UnmapTransferBuffer(tb)

	if len(mem) < len(vertexData)+len(indexData) {
		return gpu.UploadError("map transfer buffer", fmt.Errorf("mapped %d bytes, need %d", len(mem), len(vertexData)+len(indexData)))
	}
	n := copy(mem, vertexData)
	copy(mem[n:], indexData)
	return nil
}
