package gputest

// Window is a fixed-size gpu.Window.
type Window struct {
	Width, Height int
}

// FramebufferSize returns the configured size.
func (w *Window) FramebufferSize() (int, int) {
	return w.Width, w.Height
}
