//go:build sdl

package render

import (
	"fmt"
	"os"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/gguiomar/lunar-tools/internal/log"
	"github.com/gguiomar/lunar-tools/pkg/render/interop"
)

// glBackend presents frames through an SDL window with a zero-copy
// interop upload into the display texture.
type glBackend struct {
	surf *surface
	ictx *interop.Context
	reg  *interop.Registration

	width, height int
	closed        bool
}

func newGLBackend(opts Options) (backend, error) {
	surf, err := newSurface(opts.Width, opts.Height, opts.Title)
	if err != nil {
		return nil, err
	}

	// The driver pairs with the current GL context, so it comes second.
	drv, err := interop.NewDriver()
	if err != nil {
		surf.close()
		return nil, err
	}

	return &glBackend{
		surf:   surf,
		ictx:   interop.NewContext(drv),
		width:  opts.Width,
		height: opts.Height,
	}, nil
}

func (b *glBackend) render(in Input) (PeripheralEvent, error) {
	if b.closed || !b.surf.running {
		return noEvent(), ErrClosed
	}

	var src unsafe.Pointer
	var kind interop.CopyKind
	var hostBuf []float32

	if in.kind == kindDevice {
		if err := checkDeviceDims(in, b.width, b.height); err != nil {
			return noEvent(), err
		}
		src = unsafe.Pointer(in.devPtr)
		kind = interop.CopyDeviceToDevice
	} else {
		buf, err := normalize(in, b.width, b.height)
		if err != nil {
			return noEvent(), err
		}
		hostBuf = buf
		src = unsafe.Pointer(&hostBuf[0])
		kind = interop.CopyHostToDevice
	}

	// Registration is lazy, exactly once per texture lifetime.
	if b.reg == nil {
		reg, err := b.ictx.Register(b.surf.tex)
		if err != nil {
			return noEvent(), err
		}
		b.reg = reg
	}

	// RGBA float32 rows: 4 channels x 4 bytes per pixel.
	if err := b.reg.Upload(src, 4*4*b.width, b.height, kind); err != nil {
		return noEvent(), err
	}

	b.surf.present()
	ev := b.surf.pollInput()

	if ev.KeyCode == KeyEscape {
		log.Sub("render").Info("escape pressed, shutting down")
		b.close()
		os.Exit(0)
	}
	if !b.surf.running {
		b.close()
		return noEvent(), ErrClosed
	}
	return ev, nil
}

// close releases the interop registration before the texture and context
// it refers to are destroyed.
func (b *glBackend) close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	if b.reg != nil {
		if err := b.reg.Close(); err != nil {
			log.Sub("render").Warn("interop unregister failed", "error", err)
		}
		b.reg = nil
	}
	b.surf.close()
	return nil
}

// surface owns the SDL window, the GL context, the shader program and
// the RGBA32F display texture.
type surface struct {
	window  *sdl.Window
	glctx   sdl.GLContext
	program uint32
	vao     uint32
	tex     uint32

	width, height int
	running       bool
	closed        bool
}

func newSurface(width, height int, title string) (*surface, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("sdl init: %w", err)
	}

	// GL 3.3 core, set before the context is created.
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 3)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 3)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)

	window, err := sdl.CreateWindow(title,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(width), int32(height), sdl.WINDOW_OPENGL)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("create window: %w", err)
	}

	glctx, err := window.GLCreateContext()
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("create GL context: %w", err)
	}

	s := &surface{
		window:  window,
		glctx:   glctx,
		width:   width,
		height:  height,
		running: true,
	}
	if err := s.glSetup(); err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

func (s *surface) glSetup() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	program, err := buildProgram(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return err
	}
	s.program = program

	gl.GenVertexArrays(1, &s.vao)

	gl.GenTextures(1, &s.tex)
	gl.BindTexture(gl.TEXTURE_2D, s.tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA32F,
		int32(s.width), int32(s.height), 0, gl.RGBA, gl.FLOAT, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	return nil
}

// present draws the textured fullscreen triangle and swaps buffers.
func (s *surface) present() {
	gl.UseProgram(s.program)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.BindTexture(gl.TEXTURE_2D, s.tex)
	gl.BindVertexArray(s.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)
	s.window.GLSwap()
}

// pollInput drains the SDL event queue and returns one aggregated input
// snapshot. Only the last key press seen within this poll window is
// reported; simultaneous presses are lossy by contract.
func (s *surface) pollInput() PeripheralEvent {
	ev := noEvent()
	if !s.running {
		return ev
	}

	keys := sdl.GetKeyboardState()
	pressed := None

	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		x, y, buttons := sdl.GetMouseState()
		ev.MouseButtons = int32(buttons)
		ev.MouseX = x
		ev.MouseY = y

		switch t := e.(type) {
		case *sdl.WindowEvent:
			if t.Event == sdl.WINDOWEVENT_CLOSE {
				s.running = false
			}
		case *sdl.KeyboardEvent:
			if t.Type == sdl.KEYDOWN {
				pressed = int(t.Keysym.Scancode)
			}
		}

		if keys[sdl.SCANCODE_ESCAPE] != 0 {
			pressed = scancodeEscape
		}
	}

	ev.KeyCode = NormalizeScancode(pressed)
	return ev
}

func (s *surface) close() {
	if s.closed {
		return
	}
	s.closed = true
	s.running = false
	sdl.GLDeleteContext(s.glctx)
	s.window.Destroy()
	sdl.Quit()
}

func buildProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vs, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &n)
		logText := strings.Repeat("\x00", int(n+1))
		gl.GetProgramInfoLog(program, n, nil, gl.Str(logText))
		return 0, fmt.Errorf("link shader program: %s", logText)
	}
	return program, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &n)
		logText := strings.Repeat("\x00", int(n+1))
		gl.GetShaderInfoLog(shader, n, nil, gl.Str(logText))
		return 0, fmt.Errorf("compile shader: %s", logText)
	}
	return shader, nil
}
