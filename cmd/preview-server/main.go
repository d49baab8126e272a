// Preview server - live camera feed over HTTP.
//
// Captures frames in the background and serves JPEG snapshots, an MJPEG
// stream, and capture stats on the preview port.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gguiomar/lunar-tools/internal/config"
	"github.com/gguiomar/lunar-tools/internal/log"
	"github.com/gguiomar/lunar-tools/pkg/camera"
	"github.com/gguiomar/lunar-tools/pkg/stream"
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

	port := config.PreviewPort()
	srv := stream.NewServer(port, config.StreamFPS(), cam)
	srv.StartAsync()

	fmt.Printf("🌐 Preview: http://localhost:%s/api/stream (Ctrl+C to stop)\n", port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\nshutting down")
	if err := srv.Shutdown(); err != nil {
		log.Warn("server shutdown", "error", err)
	}
	cam.Stop()
}
