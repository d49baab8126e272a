// Package render displays in-memory images at interactive rates and
// reports keyboard/mouse input back to the caller.
//
// Two backends exist. The GL backend (build tag "sdl") presents through
// an SDL window and pushes pixels into the display texture with a
// zero-copy compute/graphics interop upload. When the GL or interop
// layer is unavailable the renderer falls back to an OpenCV HighGUI
// window, which accepts byte-range images directly and reports keyboard
// input only.
package render

import (
	"errors"

	"github.com/gguiomar/lunar-tools/internal/log"
)

// ErrClosed reports that the presentation window has been closed. Callers
// driving a render loop should treat it as the end of the session.
var ErrClosed = errors.New("render window closed")

// Options configures a Renderer.
type Options struct {
	Width  int
	Height int
	Title  string
	// ForceCPU skips the GL backend even when it is available.
	ForceCPU bool
}

// backend is the presentation strategy, selected once at startup.
type backend interface {
	render(in Input) (PeripheralEvent, error)
	close() error
}

// Renderer is the display facade. One Render call per frame; the render
// path is synchronous and must be driven from a single goroutine.
type Renderer struct {
	b backend
}

// New selects the best available backend for the platform: GL with
// interop upload when compiled in and working, the CPU blit path
// otherwise.
func New(opts Options) (*Renderer, error) {
	if opts.Width <= 0 {
		opts.Width = 1920
	}
	if opts.Height <= 0 {
		opts.Height = 1080
	}
	if opts.Title == "" {
		opts.Title = "lunar_render_window"
	}

	l := log.Sub("render")
	if !opts.ForceCPU {
		if b, err := newGLBackend(opts); err == nil {
			l.Info("renderer using GL interop backend",
				"width", opts.Width, "height", opts.Height)
			return &Renderer{b: b}, nil
		} else {
			l.Info("GL backend unavailable, using CPU display", "reason", err)
		}
	}

	return &Renderer{b: newCPUBackend(opts)}, nil
}

// Render displays one image and returns the input snapshot for this
// present call. Shape violations fail synchronously before any GPU
// interaction; interop failures surface to the caller and are not
// retried (the next frame starts fresh). Pressing Escape tears down the
// presentation surface and ends the process; closing the window instead
// tears down the backend and makes this and every later call return
// ErrClosed.
func (r *Renderer) Render(in Input) (PeripheralEvent, error) {
	if err := in.validate(); err != nil {
		return noEvent(), err
	}
	return r.b.render(in)
}

// Close tears down the active backend.
func (r *Renderer) Close() error {
	return r.b.close()
}
