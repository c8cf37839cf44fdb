package config

import (
	"flag"
	"io"
)

// Parse builds the final settings from command-line arguments: defaults, then
// the file named by -config, then every flag given explicitly.
//
// Parameters:
//   - name: program name used in usage output
//   - args: arguments without the program name
//   - output: destination of usage and flag errors
//
// Returns:
//   - Config: the validated settings
//   - error: flag.ErrHelp for -h, or any load, parse or validation error
func Parse(name string, args []string, output io.Writer) (Config, error) {
	// First pass only locates the config file.
	probe := Default()
	var path string
	fs := newFlagSet(name, &probe, &path)
	fs.SetOutput(output)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg, err := Load(path)
	if err != nil {
		return Config{}, err
	}

	// Second pass applies explicit flags over the file.
	fs = newFlagSet(name, &cfg, &path)
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func newFlagSet(name string, c *Config, path *string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(path, "config", "", "YAML config file")
	fs.StringVar(&c.Window.Title, "title", c.Window.Title, "Window title")
	fs.IntVar(&c.Window.Width, "width", c.Window.Width, "Window width in pixels")
	fs.IntVar(&c.Window.Height, "height", c.Window.Height, "Window height in pixels")
	fs.Float64Var(&c.Model.RotationSpeed, "speed", c.Model.RotationSpeed, "Rotation speed in degrees per millisecond")
	fs.StringVar(&c.Renderer.PresentMode, "present-mode", c.Renderer.PresentMode, "Present mode (vsync, uncapped)")
	fs.BoolVar(&c.Renderer.ForceSoftware, "software", c.Renderer.ForceSoftware, "Use the software fallback adapter")
	fs.Float64Var(&c.Renderer.FrameLimit, "frame-limit", c.Renderer.FrameLimit, "Maximum frames per second (0 = uncapped)")
	fs.StringVar(&c.Shaders.Vertex, "vertex-shader", c.Shaders.Vertex, "Vertex shader file (.wgsl or .spv)")
	fs.StringVar(&c.Shaders.Fragment, "fragment-shader", c.Shaders.Fragment, "Fragment shader file (.wgsl or .spv)")
	fs.BoolVar(&c.Profile, "profile", c.Profile, "Log frame statistics every second")
	fs.BoolVar(&c.LogTimestamps, "log-timestamps", c.LogTimestamps, "Prefix log lines with timestamps")
	return fs
}
