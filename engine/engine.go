package engine

import (
	"log"
	"time"

	"github.com/Carmen-Shannon/oxy-cube/engine/camera"
	"github.com/Carmen-Shannon/oxy-cube/engine/model"
	"github.com/Carmen-Shannon/oxy-cube/engine/profiler"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cube/engine/window"
)

// EventSource supplies input events. window.Window implements it.
type EventSource interface {
	PollEvents() []window.Event
}

// engine implements the Engine interface.
// Drives the Input, Update, Render and Submit phases on the calling goroutine.
type engine struct {
	events   EventSource
	renderer renderer.Renderer
	camera   camera.Camera
	model    model.Model

	profiler         *profiler.Profiler
	profilingEnabled bool

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	now       func() time.Time
	lastFrame time.Time
	quit      bool
	frames    uint64
}

// Engine is the frame driver. Each iteration drains input, advances the model
// rotation, records one frame and submits it, blocking on the frame fence.
type Engine interface {
	// Camera returns the camera moved by key input.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Model returns the rotating model.
	//
	// Returns:
	//   - model.Model: the model
	Model() model.Model

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// Frame runs one loop iteration. A quit event is honoured after the
	// iteration completes, never mid-frame.
	//
	// Returns:
	//   - error: the first GPU error of the frame
	Frame() error

	// Run iterates Frame until quit is requested or a frame fails.
	//
	// Returns:
	//   - error: the error that ended the loop, nil on a clean quit
	Run() error

	// Quit requests the loop to stop after the current iteration.
	Quit()

	// Quitting reports whether quit was requested.
	//
	// Returns:
	//   - bool: true once a quit event arrived or Quit was called
	Quitting() bool

	// Frames returns the number of completed iterations.
	//
	// Returns:
	//   - uint64: completed loop iterations, including skipped frames
	Frames() uint64
}

var _ Engine = &engine{}

// NewEngine creates the frame driver. The renderer must already be set up; the
// engine never releases it.
//
// Parameters:
//   - events: the input event source, usually the window
//   - r: the renderer frames are recorded with
//   - options: functional options for engine configuration (camera, model, profiling, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(events EventSource, r renderer.Renderer, options ...EngineBuilderOption) Engine {
	e := &engine{
		events:   events,
		renderer: r,
		now:      time.Now,
	}
	for _, opt := range options {
		opt(e)
	}
	if e.camera == nil {
		e.camera = camera.NewCamera()
	}
	if e.model == nil {
		e.model = model.NewModel()
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithClock(e.now))
	}
	e.lastFrame = e.now()
	return e
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Model() model.Model {
	return e.model
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) Quit() {
	e.quit = true
}

func (e *engine) Quitting() bool {
	return e.quit
}

func (e *engine) Frames() uint64 {
	return e.frames
}

func (e *engine) Run() error {
	log.Printf("[Engine] entering frame loop")
	for !e.quit {
		start := e.now()
		if err := e.Frame(); err != nil {
			return err
		}
		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - e.now().Sub(start); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
	log.Printf("[Engine] quit after %d frames", e.frames)
	return nil
}

func (e *engine) Frame() error {
	e.input()
	e.update()

	drawn, err := e.renderer.Render(e.camera, e.model.Transform())
	if err != nil {
		return err
	}
	if err := e.renderer.Submit(); err != nil {
		return err
	}

	e.frames++
	if e.profilingEnabled {
		e.profiler.Tick(drawn)
	}
	return nil
}

// input drains pending events. Key releases move the camera; quit only sets the flag.
func (e *engine) input() {
	for _, ev := range e.events.PollEvents() {
		switch ev.Type {
		case window.EventQuit:
			e.quit = true
		case window.EventKeyUp:
			e.camera.Controller().HandleKeyUp(ev.Key)
		}
	}
}

// update advances the model by the wall-clock time since the previous frame.
func (e *engine) update() {
	now := e.now()
	e.model.Update(now.Sub(e.lastFrame))
	e.lastFrame = now
}
