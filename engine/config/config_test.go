package config

import (
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-cube/engine/gpu"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "oxy-cube.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if c.Window.Width != 640 || c.Window.Height != 480 || c.Window.Title != "oxy-cube" {
		t.Errorf("window = %+v", c.Window)
	}
	if c.Camera.Position != [3]float32{0, 50, -50} || c.Camera.Target != [3]float32{} {
		t.Errorf("camera = %+v", c.Camera)
	}
	if c.Model.RotationSpeed != 0.032 || c.Model.HalfExtent != 10 {
		t.Errorf("model = %+v", c.Model)
	}
	if c.ClearColor() != (gpu.FColor{R: 0.1, G: 0.2, B: 0.3, A: 1}) {
		t.Errorf("clear color = %+v", c.ClearColor())
	}
	if m, _ := c.PresentMode(); m != gpu.PresentModeVsync {
		t.Errorf("present mode = %v", m)
	}
	if c.Renderer.ForceSoftware || c.Profile {
		t.Error("software adapter and profiling should be off by default")
	}
}

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Window != Default().Window {
		t.Error("missing file did not yield defaults")
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
window:
  width: 800
camera:
  position: [1, 2, 3]
renderer:
  present_mode: uncapped
  clear_color: [0, 0, 0, 1]
profile: true
`)
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Window.Width != 800 || c.Window.Height != 480 {
		t.Errorf("window = %+v, want width overridden and height kept", c.Window)
	}
	if c.Camera.Position != [3]float32{1, 2, 3} {
		t.Errorf("camera position = %v", c.Camera.Position)
	}
	if m, err := c.PresentMode(); err != nil || m != gpu.PresentModeImmediate {
		t.Errorf("present mode = %v, %v", m, err)
	}
	if !c.Profile {
		t.Error("profile not loaded")
	}
}

func TestLoadEmptyFile(t *testing.T) {
	c, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatal(err)
	}
	if c.Model != Default().Model {
		t.Error("empty file changed settings")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "window:\n  depth: 3\n"},
		{"bad type", "window:\n  width: wide\n"},
		{"malformed", "window: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("expected an error")
			}
		})
	}

	t.Run("too large", func(t *testing.T) {
		big := "profile: true\n" + strings.Repeat("#", maxConfigSize)
		if _, err := Load(writeConfig(t, big)); err == nil {
			t.Error("expected an error for an oversized file")
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"negative height", func(c *Config) { c.Window.Height = -1 }},
		{"zero speed", func(c *Config) { c.Model.RotationSpeed = 0 }},
		{"zero half extent", func(c *Config) { c.Model.HalfExtent = 0 }},
		{"camera at target", func(c *Config) { c.Camera.Target = c.Camera.Position }},
		{"zero step", func(c *Config) { c.Camera.Step = 0 }},
		{"fov too wide", func(c *Config) { c.Camera.FovDegrees = 180 }},
		{"negative frame limit", func(c *Config) { c.Renderer.FrameLimit = -1 }},
		{"unknown present mode", func(c *Config) { c.Renderer.PresentMode = "mailbox" }},
		{"lone vertex shader", func(c *Config) { c.Shaders.Vertex = "a.wgsl" }},
		{"no workers", func(c *Config) { c.Shaders.Workers = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestParseFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, "window:\n  width: 800\n  height: 600\n")
	c, err := Parse("oxy-cube", []string{"-config", path, "-height", "700", "-profile"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if c.Window.Width != 800 {
		t.Errorf("width = %d, want 800 from file", c.Window.Width)
	}
	if c.Window.Height != 700 {
		t.Errorf("height = %d, want 700 from flag", c.Window.Height)
	}
	if !c.Profile {
		t.Error("-profile not applied")
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse("oxy-cube", []string{"-h"}, io.Discard); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("-h: err = %v, want flag.ErrHelp", err)
	}
	if _, err := Parse("oxy-cube", []string{"-width", "0"}, io.Discard); err == nil {
		t.Error("-width 0 accepted")
	}
	if _, err := Parse("oxy-cube", []string{"-bogus"}, io.Discard); err == nil {
		t.Error("unknown flag accepted")
	}
}
