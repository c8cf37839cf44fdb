package gpu

import (
	"strings"
	"sync"
	"testing"
)

// newRecordingCommandBuffer returns a command buffer over a device with no
// native objects. Only paths that fail before reaching wgpu may be exercised.
func newRecordingCommandBuffer() (*wgpuDevice, *wgpuCommandBuffer) {
	d := &wgpuDevice{
		mu:        &sync.Mutex{},
		transfers: make(map[TransferBuffer]*wgpuTransferBuffer),
		textures:  make(map[Texture]*wgpuSwapchainImage),
		recording: true,
	}
	return d, &wgpuCommandBuffer{d: d}
}

func TestSubmitReturnsRecordedUniformError(t *testing.T) {
	d, c := newRecordingCommandBuffer()

	c.PushVertexUniformData(maxVertexUniformSlots, make([]byte, 64))
	c.PushVertexUniformData(0, make([]byte, uniformSlotStride+1))

	_, err := c.SubmitAndAcquireFence()
	if err == nil {
		t.Fatal("submit succeeded after a failed uniform push")
	}
	if !strings.Contains(err.Error(), "out of range") {
		t.Errorf("err = %v, want the first recorded failure", err)
	}
	if !c.finished || d.recording {
		t.Error("failed submit did not end the command buffer")
	}
}

func TestSubmitReturnsRecordedUploadError(t *testing.T) {
	_, c := newRecordingCommandBuffer()

	pass, err := c.BeginCopyPass()
	if err != nil {
		t.Fatal(err)
	}
	pass.UploadToBuffer(TransferBufferLocation{TransferBuffer: 3}, BufferRegion{Buffer: 4, Size: 8}, false)
	pass.End()

	_, err = c.SubmitAndAcquireFence()
	if err == nil {
		t.Fatal("submit succeeded after an upload to unknown buffers")
	}
	if !strings.Contains(err.Error(), "buffer#4") || !strings.Contains(err.Error(), "transfer#3") {
		t.Errorf("err = %v, want the handles of the failed upload", err)
	}
}
