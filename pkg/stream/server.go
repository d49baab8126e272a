// Package stream provides a live HTTP preview of a running capture:
// JPEG snapshots, a multipart MJPEG stream, and capture stats over REST
// and websocket.
package stream

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/gguiomar/lunar-tools/internal/config"
	"github.com/gguiomar/lunar-tools/internal/log"
	"github.com/gguiomar/lunar-tools/pkg/camera"
)

// Source is the slice of camera.Capture the server reads from.
type Source interface {
	Latest() *camera.Frame
	Stats() camera.Stats
}

// Server serves the preview endpoints for one capture.
type Server struct {
	app  *fiber.App
	port string
	src  Source
	log  *slog.Logger

	// streamFPS paces the MJPEG stream; the capture itself is not
	// throttled by slow clients.
	streamFPS int

	// jpegQuality for snapshot and stream encodes.
	jpegQuality int
}

// NewServer creates a preview server for src on the given port. A
// non-positive streamFPS falls back to config.DefaultStreamFPS; the
// stream pacing divides by it.
func NewServer(port string, streamFPS int, src Source) *Server {
	if streamFPS <= 0 {
		log.Warn("invalid stream rate, using default",
			"got", streamFPS, "default", config.DefaultStreamFPS)
		streamFPS = config.DefaultStreamFPS
	}

	s := &Server{
		port:        port,
		src:         src,
		log:         log.Sub("stream"),
		streamFPS:   streamFPS,
		jpegQuality: 85,
	}

	app := fiber.New(fiber.Config{
		AppName:               "lunar-tools preview",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/frame", s.handleFrame)
	api.Get("/stream", s.handleStream)
	api.Get("/stats", s.handleStats)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/stats", websocket.New(s.handleStatsWS))

	s.app = app
	return s
}

// Start starts the preview server and blocks.
func (s *Server) Start() error {
	s.log.Info("preview server listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// StartAsync starts the preview server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			s.log.Error("preview server failed", "error", err)
		}
	}()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// encodeLatest renders the current frame as JPEG.
func (s *Server) encodeLatest() ([]byte, error) {
	f := s.src.Latest()

	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			si := (y*f.Width + x) * 3
			di := y*img.Stride + x*4
			img.Pix[di] = f.Pix[si]
			img.Pix[di+1] = f.Pix[si+1]
			img.Pix[di+2] = f.Pix[si+2]
			img.Pix[di+3] = 255
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: s.jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return buf.Bytes(), nil
}
