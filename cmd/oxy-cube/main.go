// Command oxy-cube opens a window and draws a rotating colored cube.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strings"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine"
	"github.com/Carmen-Shannon/oxy-cube/engine/camera"
	"github.com/Carmen-Shannon/oxy-cube/engine/config"
	"github.com/Carmen-Shannon/oxy-cube/engine/gpu"
	"github.com/Carmen-Shannon/oxy-cube/engine/model"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-cube/engine/resource"
	"github.com/Carmen-Shannon/oxy-cube/engine/window"
)

// spirvEntryPoint is assumed for SPIR-V files, which carry no reflectable entry point.
const spirvEntryPoint = "main"

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "oxy-cube: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Parse("oxy-cube", args, os.Stderr)
	if err != nil {
		return err
	}
	if cfg.LogTimestamps {
		log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	} else {
		log.SetFlags(0)
	}

	// Shader files are read before any window or GPU object exists.
	var shaderOpt renderer.RendererBuilderOption
	if cfg.Shaders.Vertex != "" {
		blobs, err := shader.LoadBlobs(shaderSources(cfg.Shaders), cfg.Shaders.Workers)
		if err != nil {
			return err
		}
		shaderOpt = renderer.WithShaders(blobs[0], blobs[1])
	}

	presentMode, err := cfg.PresentMode()
	if err != nil {
		return err
	}

	// Released in reverse: renderer, then device, then window.
	var cleanup resource.Stack
	defer cleanup.Release()

	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
	if err != nil {
		return err
	}
	cleanup.Push(window.NewOwnedWindow(win))

	dev, err := gpu.NewWGPUDevice(
		gpu.WithPresentMode(presentMode),
		gpu.WithForceFallbackAdapter(cfg.Renderer.ForceSoftware),
	)
	if err != nil {
		return err
	}
	cleanup.Push(gpu.NewOwnedDevice(dev))

	cube := model.NewModel(
		model.WithMesh(model.NewCube(common.Vec3{}, cfg.Model.HalfExtent)),
		model.WithRotationSpeed(cfg.Model.RotationSpeed),
	)

	opts := []renderer.RendererBuilderOption{renderer.WithClearColor(cfg.ClearColor())}
	if shaderOpt != nil {
		opts = append(opts, shaderOpt)
	}
	r, err := renderer.NewRenderer(dev, win, cube.Mesh(), opts...)
	if err != nil {
		return err
	}
	cleanup.Push(r)

	cam := camera.NewCamera(
		camera.WithFov(cfg.Camera.FovDegrees*math.Pi/180),
		camera.WithController(camera.NewCameraController(
			camera.WithPosition(common.Vec3(cfg.Camera.Position)),
			camera.WithTarget(common.Vec3(cfg.Camera.Target)),
			camera.WithStep(cfg.Camera.Step),
		)),
	)

	e := engine.NewEngine(win, r,
		engine.WithCamera(cam),
		engine.WithModel(cube),
		engine.WithProfiling(cfg.Profile),
		engine.WithRenderFrameLimit(cfg.Renderer.FrameLimit),
	)
	return e.Run()
}

// shaderSources describes the configured shader files in vertex, fragment order.
func shaderSources(c config.ShaderConfig) []shader.Source {
	src := func(path string, stage gpu.ShaderStage, uniforms uint32) shader.Source {
		s := shader.Source{Path: path, Stage: stage}
		if shader.FormatForPath(path) == gpu.ShaderFormatSPIRV {
			s.EntryPoint = spirvEntryPoint
			s.NumUniformBuffers = uniforms
		}
		return s
	}
	return []shader.Source{
		src(strings.TrimSpace(c.Vertex), gpu.ShaderStageVertex, 2),
		src(strings.TrimSpace(c.Fragment), gpu.ShaderStageFragment, 0),
	}
}
