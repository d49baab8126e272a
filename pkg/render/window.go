package render

import (
	"fmt"
	"os"

	"gocv.io/x/gocv"

	"github.com/gguiomar/lunar-tools/internal/log"
)

// cpuBackend blits frames into an OpenCV HighGUI window. It accepts
// byte-range [0,255] images directly (no GPU normalization) and reports
// keyboard input only; mouse fields stay at the None sentinel.
type cpuBackend struct {
	win   *gocv.Window
	title string
}

func newCPUBackend(opts Options) *cpuBackend {
	return &cpuBackend{
		win:   gocv.NewWindow(opts.Title),
		title: opts.Title,
	}
}

func (b *cpuBackend) render(in Input) (PeripheralEvent, error) {
	mat, err := b.toMat(in)
	if err != nil {
		return noEvent(), err
	}
	defer mat.Close()

	b.win.IMShow(mat)
	code := b.win.WaitKey(1)

	if code == KeyEscape {
		log.Sub("render").Info("escape pressed, shutting down")
		b.win.Close()
		os.Exit(0)
	}
	if b.win.GetWindowProperty(gocv.WindowPropertyVisible) < 1 {
		b.win.Close()
		return noEvent(), ErrClosed
	}

	ev := noEvent()
	ev.KeyCode = code
	return ev, nil
}

// toMat builds an OpenCV matrix from the input variant. Device-resident
// buffers cannot be displayed without the interop path.
func (b *cpuBackend) toMat(in Input) (gocv.Mat, error) {
	switch in.kind {
	case kindHostFrame:
		return gocv.NewMatFromBytes(in.h, in.w, gocv.MatTypeCV8UC3, in.frame.Pix)
	case kindHostPixels:
		var mt gocv.MatType
		switch in.ch {
		case 1:
			mt = gocv.MatTypeCV8UC1
		case 3:
			mt = gocv.MatTypeCV8UC3
		case 4:
			mt = gocv.MatTypeCV8UC4
		}
		return gocv.NewMatFromBytes(in.h, in.w, mt, in.pix)
	case kindImage:
		return gocv.ImageToMatRGB(in.img)
	case kindDevice:
		return gocv.Mat{}, fmt.Errorf("%w: device buffers need the GL interop backend", ErrInputType)
	}
	return gocv.Mat{}, ErrInputType
}

func (b *cpuBackend) close() error {
	return b.win.Close()
}
