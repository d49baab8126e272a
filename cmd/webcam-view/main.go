// Webcam viewer - live camera feed in a render window.
//
// Captures frames in the background and displays the latest one each
// iteration. Escape or closing the window exits.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gguiomar/lunar-tools/internal/config"
	"github.com/gguiomar/lunar-tools/internal/log"
	"github.com/gguiomar/lunar-tools/pkg/camera"
	"github.com/gguiomar/lunar-tools/pkg/render"
)

func main() {
	log.Init(config.LogLevel())

	cfg := camera.DefaultConfig()
	cfg.DeviceID = config.CameraID(cfg.DeviceID)
	cfg.Width = config.CameraWidth(cfg.Width)
	cfg.Height = config.CameraHeight(cfg.Height)
	cfg.FPS = config.CameraFPS(cfg.FPS)

	cam, err := camera.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cam.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer cam.Stop()

	// The render path transposes rows and columns, so the surface is
	// sized with the camera axes swapped.
	r, err := render.New(render.Options{
		Width:  cfg.Height,
		Height: cfg.Width,
		Title:  "lunar-tools webcam",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer r.Close()

	fmt.Println("📷 Webcam viewer running (Escape to quit)")

	for {
		ev, err := r.Render(render.FromFrame(cam.Latest()))
		if errors.Is(err, render.ErrClosed) {
			log.Info("window closed, exiting")
			return
		}
		if err != nil {
			log.Error("render failed", "error", err)
			os.Exit(1)
		}
		if ev.KeyCode != render.None {
			fmt.Printf("key pressed: %d\n", ev.KeyCode)
		}
		if ev.MouseButtons > 0 {
			fmt.Printf("mouse buttons %d at (%d, %d)\n", ev.MouseButtons, ev.MouseX, ev.MouseY)
		}
	}
}
