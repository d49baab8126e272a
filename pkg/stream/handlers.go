package stream

import (
	"bufio"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// handleFrame returns the current frame as a single JPEG.
func (s *Server) handleFrame(c *fiber.Ctx) error {
	data, err := s.encodeLatest()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	c.Set(fiber.HeaderContentType, "image/jpeg")
	return c.Send(data)
}

// handleStats returns a snapshot of the capture counters.
func (s *Server) handleStats(c *fiber.Ctx) error {
	return c.JSON(s.src.Stats())
}

// handleStream serves a multipart MJPEG stream at the configured rate
// until the client disconnects.
func (s *Server) handleStream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "multipart/x-mixed-replace; boundary=frame")

	interval := time.Second / time.Duration(s.streamFPS)
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		for {
			data, err := s.encodeLatest()
			if err != nil {
				s.log.Warn("stream encode failed", "error", err)
				return
			}
			fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(data))
			w.Write(data)
			fmt.Fprint(w, "\r\n")
			if err := w.Flush(); err != nil {
				// Client went away.
				return
			}
			time.Sleep(interval)
		}
	})
	return nil
}

// handleStatsWS pushes capture stats once per second over a websocket.
func (s *Server) handleStatsWS(c *websocket.Conn) {
	done := make(chan struct{})

	// Keep connection alive; detect close.
	go func() {
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := c.WriteJSON(s.src.Stats()); err != nil {
				return
			}
		}
	}
}
