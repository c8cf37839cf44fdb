package gpu

import "fmt"

// Handles are opaque identifiers issued by a Device. The zero value of every
// handle type is the null handle. A handle is only meaningful to the Device that
// issued it.
type (
	// Buffer identifies a device-local vertex or index buffer.
	Buffer uint64
	// TransferBuffer identifies a host-visible staging buffer.
	TransferBuffer uint64
	// Shader identifies a compiled shader stage.
	Shader uint64
	// GraphicsPipeline identifies an immutable render pipeline.
	GraphicsPipeline uint64
	// Fence identifies a one-shot completion signal for a submitted command buffer.
	Fence uint64
	// Texture identifies a GPU image, such as an acquired swapchain image.
	Texture uint64
)

func (h Buffer) IsNull() bool           { return h == 0 }
func (h TransferBuffer) IsNull() bool   { return h == 0 }
func (h Shader) IsNull() bool           { return h == 0 }
func (h GraphicsPipeline) IsNull() bool { return h == 0 }
func (h Fence) IsNull() bool            { return h == 0 }
func (h Texture) IsNull() bool          { return h == 0 }

func (h Buffer) String() string           { return fmt.Sprintf("buffer#%d", uint64(h)) }
func (h TransferBuffer) String() string   { return fmt.Sprintf("transfer#%d", uint64(h)) }
func (h Shader) String() string           { return fmt.Sprintf("shader#%d", uint64(h)) }
func (h GraphicsPipeline) String() string { return fmt.Sprintf("pipeline#%d", uint64(h)) }
func (h Fence) String() string            { return fmt.Sprintf("fence#%d", uint64(h)) }
func (h Texture) String() string          { return fmt.Sprintf("texture#%d", uint64(h)) }
