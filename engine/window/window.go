// Package window provides the GLFW window the cube is presented in and turns its
// input callbacks into a poll-style event stream.
package window

import (
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-cube/engine/resource"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window is a platform window without a client graphics API. It satisfies
// gpu.SurfaceWindow so a WebGPU device can claim it.
type Window interface {
	// PollEvents processes pending platform events and returns every event queued
	// since the previous call, in arrival order.
	//
	// Returns:
	//   - []Event: the drained events, possibly empty
	PollEvents() []Event

	// FramebufferSize returns the current drawable size in pixels, which may
	// differ from the window size on high-DPI displays.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	FramebufferSize() (width, height int)

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil after Destroy
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Title returns the window title.
	//
	// Returns:
	//   - string: the title text
	Title() string

	// Destroy closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if the window was already destroyed
	Destroy() error
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and the pending event queue.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// width and height are the requested size, then the current framebuffer size.
	width, height int

	// minWidth, minHeight, maxWidth and maxHeight bound interactive resizing. Zero means unbounded.
	minWidth, minHeight int
	maxWidth, maxHeight int

	resizable bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	queue eventQueue
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a window. Must be called from the main goroutine;
// the calling goroutine is locked to its OS thread.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the created window
//   - error: error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:     "oxy-cube",
		width:     640,
		height:    480,
		resizable: true,
	}
	for _, opt := range options {
		opt(w)
	}
	if w.width <= 0 || w.height <= 0 {
		return nil, fmt.Errorf("invalid window size %dx%d", w.width, w.height)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, err
	}
	return w, nil
}

// OwnedWindow is the self-contained wrapper for a Window. Releasing it destroys the window.
type OwnedWindow = resource.Owned[Window]

// NewOwnedWindow wraps w so that Release calls w.Destroy. A destroy error is logged.
func NewOwnedWindow(w Window) *OwnedWindow {
	return resource.NewOwned(w, func(w Window) {
		if err := w.Destroy(); err != nil {
			log.Printf("[Window] destroy: %v", err)
		}
	})
}

func (w *engineWindow) PollEvents() []Event {
	platformProcessMessages(w)
	return w.queue.drain()
}

func (w *engineWindow) FramebufferSize() (int, int) {
	return w.width, w.height
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) Title() string {
	return w.title
}

func (w *engineWindow) Destroy() error {
	return platformCloseWindow(w)
}
