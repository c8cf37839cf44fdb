// Package config holds the runtime settings of oxy-cube. Settings come from
// built-in defaults, then an optional YAML file, then command-line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Carmen-Shannon/oxy-cube/engine/gpu"
	"gopkg.in/yaml.v3"
)

// maxConfigSize rejects config files that are clearly not a settings file.
const maxConfigSize = 1024 * 1024 // 1MB

// Present mode names accepted in config files and flags.
const (
	PresentModeVsync    = "vsync"
	PresentModeUncapped = "uncapped"
)

// Config is the complete set of runtime settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Camera   CameraConfig   `yaml:"camera"`
	Model    ModelConfig    `yaml:"model"`
	Renderer RendererConfig `yaml:"renderer"`
	Shaders  ShaderConfig   `yaml:"shaders"`

	// Profile logs frame statistics once per second.
	Profile bool `yaml:"profile"`
	// LogTimestamps prefixes log lines with date and time.
	LogTimestamps bool `yaml:"log_timestamps"`
}

// WindowConfig sizes and names the window. Width and Height are in pixels.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// CameraConfig places the camera. Step is the distance one key release moves
// position and target; FovDegrees is the vertical field of view.
type CameraConfig struct {
	Position   [3]float32 `yaml:"position"`
	Target     [3]float32 `yaml:"target"`
	Step       float32    `yaml:"step"`
	FovDegrees float32    `yaml:"fov_degrees"`
}

// ModelConfig describes the cube and how fast it spins.
type ModelConfig struct {
	HalfExtent float32 `yaml:"half_extent"`
	// RotationSpeed is in degrees per millisecond.
	RotationSpeed float64 `yaml:"rotation_speed"`
}

// RendererConfig controls adapter selection, presentation and pacing.
type RendererConfig struct {
	ClearColor  [4]float32 `yaml:"clear_color"`
	PresentMode string     `yaml:"present_mode"`
	// ForceSoftware requests the software fallback adapter.
	ForceSoftware bool `yaml:"force_software"`
	// FrameLimit caps frames per second; 0 means uncapped.
	FrameLimit float64 `yaml:"frame_limit"`
}

// ShaderConfig optionally replaces the embedded cube program with files on disk.
type ShaderConfig struct {
	Vertex   string `yaml:"vertex"`
	Fragment string `yaml:"fragment"`
	// Workers bounds concurrent shader file reads.
	Workers int `yaml:"workers"`
}

// Default returns the built-in settings: a 640x480 window, the camera at
// (0, 50, -50) looking at the origin, a cube of half extent 10 spinning at
// 32 degrees per second, and vsync presentation.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "oxy-cube",
			Width:  640,
			Height: 480,
		},
		Camera: CameraConfig{
			Position:   [3]float32{0, 50, -50},
			Target:     [3]float32{0, 0, 0},
			Step:       5,
			FovDegrees: 45,
		},
		Model: ModelConfig{
			HalfExtent:    10,
			RotationSpeed: 32.0 / 1000.0,
		},
		Renderer: RendererConfig{
			ClearColor:  [4]float32{0.1, 0.2, 0.3, 1},
			PresentMode: PresentModeVsync,
		},
		Shaders: ShaderConfig{
			Workers: 2,
		},
	}
}

// Load reads a YAML config file over the defaults. Keys absent from the file
// keep their default value. An empty path or a missing file yields Default().
//
// Parameters:
//   - path: the config file path, may be empty
//
// Returns:
//   - Config: the merged settings (not yet validated)
//   - error: if the file is unreadable, too large, or not valid YAML for Config
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("stat config: %w", err)
	}
	if info.Size() > maxConfigSize {
		return Config{}, fmt.Errorf("config %s is %d bytes, limit is %d", path, info.Size(), maxConfigSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := decode(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// decode strictly unmarshals YAML into cfg; unknown keys are errors.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate reports the first setting that cannot be used.
//
// Returns:
//   - error: describing the invalid setting, or nil
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	case c.Model.HalfExtent <= 0:
		return fmt.Errorf("model half_extent %v must be positive", c.Model.HalfExtent)
	case c.Model.RotationSpeed <= 0:
		return fmt.Errorf("model rotation_speed %v must be positive", c.Model.RotationSpeed)
	case c.Camera.Position == c.Camera.Target:
		return errors.New("camera position and target must differ")
	case c.Camera.Step <= 0:
		return fmt.Errorf("camera step %v must be positive", c.Camera.Step)
	case c.Camera.FovDegrees <= 0 || c.Camera.FovDegrees >= 180:
		return fmt.Errorf("camera fov_degrees %v must be in (0, 180)", c.Camera.FovDegrees)
	case c.Renderer.FrameLimit < 0:
		return fmt.Errorf("renderer frame_limit %v must not be negative", c.Renderer.FrameLimit)
	case (c.Shaders.Vertex == "") != (c.Shaders.Fragment == ""):
		return errors.New("shaders vertex and fragment must be set together")
	case c.Shaders.Workers < 1:
		return fmt.Errorf("shaders workers %d must be at least 1", c.Shaders.Workers)
	}
	if _, err := c.PresentMode(); err != nil {
		return err
	}
	return nil
}

// PresentMode maps the configured present mode name to the device setting.
//
// Returns:
//   - gpu.PresentMode: the present mode
//   - error: for an unknown name
func (c Config) PresentMode() (gpu.PresentMode, error) {
	switch c.Renderer.PresentMode {
	case PresentModeVsync:
		return gpu.PresentModeVsync, nil
	case PresentModeUncapped:
		return gpu.PresentModeImmediate, nil
	default:
		return 0, fmt.Errorf("unknown present_mode %q (want %q or %q)", c.Renderer.PresentMode, PresentModeVsync, PresentModeUncapped)
	}
}

// ClearColor returns the configured clear color.
func (c Config) ClearColor() gpu.FColor {
	cc := c.Renderer.ClearColor
	return gpu.FColor{R: cc[0], G: cc[1], B: cc[2], A: cc[3]}
}
