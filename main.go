package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"
	"runtime"

	glpkg "github.com/tinyrange/hellosquare/internal/gl"
	"github.com/tinyrange/hellosquare/internal/graphics"
)

// exitFailure is returned for every startup or render failure.
const exitFailure = -1

func init() {
	// GLFW and the GL context are bound to the main OS thread.
	runtime.LockOSThread()
}

type config struct {
	width      int
	height     int
	title      string
	screenshot string
	frames     int
}

func parseConfig(name string, args []string) (config, error) {
	var cfg config

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.IntVar(&cfg.width, "width", 800, "window width in screen coordinates")
	fs.IntVar(&cfg.height, "height", 600, "window height in screen coordinates")
	fs.StringVar(&cfg.title, "title", "OpenGL Test", "window title")
	fs.StringVar(&cfg.screenshot, "screenshot", "", "write the first frame to this PNG file and exit")
	fs.IntVar(&cfg.frames, "frames", 0, "exit after this many frames (0 runs until closed)")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	if cfg.width <= 0 || cfg.height <= 0 {
		return config{}, fmt.Errorf("invalid window size %dx%d", cfg.width, cfg.height)
	}
	if cfg.frames < 0 {
		return config{}, fmt.Errorf("invalid frame count %d", cfg.frames)
	}
	return cfg, nil
}

func main() {
	cfg, err := parseConfig(os.Args[0], os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}

	if err := run(cfg); err != nil {
		slog.Error("hellosquare failed", "err", err)
		os.Exit(exitFailure)
	}
}

func run(cfg config) error {
	gfx, err := graphics.New(cfg.title, cfg.width, cfg.height)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer gfx.Close()

	gl := gfx.GL()
	slog.Info("OpenGL",
		"vendor", gl.GetString(glpkg.Vendor),
		"renderer", gl.GetString(glpkg.Renderer),
		"version", gl.GetString(glpkg.Version),
	)
	slog.Info("Scale", "scale", gfx.PlatformWindow().Scale())

	mesh, err := gfx.NewMesh(graphics.Quad())
	if err != nil {
		return fmt.Errorf("upload geometry: %w", err)
	}

	program, err := gfx.NewProgram(graphics.QuadVertexShader, graphics.QuadFragmentShader)
	if err != nil {
		return fmt.Errorf("build shaders: %w", err)
	}

	frames := 0
	err = gfx.Loop(func(f graphics.Frame) error {
		f.DrawMesh(program, mesh)
		frames++

		if cfg.screenshot != "" {
			img, err := f.Screenshot()
			if err != nil {
				return fmt.Errorf("screenshot: %w", err)
			}
			if err := writePNG(cfg.screenshot, img); err != nil {
				return err
			}
			slog.Info("Screenshot", "path", cfg.screenshot)
			f.RequestClose()
		}

		if cfg.frames > 0 && frames >= cfg.frames {
			f.RequestClose()
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("run loop: %w", err)
	}

	slog.Info("Closed", "frames", frames)
	return nil
}

func writePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create screenshot file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encode screenshot: %w", err)
	}
	return file.Close()
}
