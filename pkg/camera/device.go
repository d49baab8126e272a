package camera

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"gocv.io/x/gocv"

	"github.com/gguiomar/lunar-tools/internal/log"
)

// ErrNoDevice is returned when no enumerated capture device yields a frame.
var ErrNoDevice = errors.New("no usable capture device found")

// ErrBadRead is returned when a device read yields a missing or implausibly
// small frame. It is recoverable: the capture loop reacquires the device.
var ErrBadRead = errors.New("device read yielded a bad frame")

// Device wraps an open capture device together with the selector used to
// open it. It is owned exclusively by the capture loop; a failed read
// invalidates it and forces reacquisition.
type Device struct {
	cap      *gocv.VideoCapture
	selector interface{} // device path (string) or index (int)
	cfg      Config
}

// enumerate returns the ordered list of device candidates for cfg.
// On Linux, devices are the /dev/video* nodes; elsewhere the platform
// resolves plain indexes.
func enumerate(cfg Config) ([]interface{}, error) {
	if runtime.GOOS != "linux" {
		if cfg.DeviceID == FirstAvailable {
			return []interface{}{0}, nil
		}
		return []interface{}{cfg.DeviceID}, nil
	}

	if cfg.DeviceID != FirstAvailable {
		return []interface{}{fmt.Sprintf("/dev/video%d", cfg.DeviceID)}, nil
	}

	paths, err := filepath.Glob("/dev/video*")
	if err != nil {
		return nil, fmt.Errorf("enumerate devices: %w", err)
	}
	if len(paths) == 0 {
		return nil, ErrNoDevice
	}
	candidates := make([]interface{}, len(paths))
	for i, p := range paths {
		candidates[i] = p
	}
	return candidates, nil
}

// OpenDevice opens and configures a capture device per cfg. With
// DeviceID == FirstAvailable it walks the enumerated candidates,
// releasing each failed handle, until one yields a plausible frame.
func OpenDevice(cfg Config) (*Device, error) {
	candidates, err := enumerate(cfg)
	if err != nil {
		return nil, err
	}
	l := log.Sub("camera")

	for _, sel := range candidates {
		cap, err := gocv.OpenVideoCapture(sel)
		if err != nil {
			l.Warn("device open failed", "selector", sel, "error", err)
			continue
		}

		d := &Device{cap: cap, selector: sel, cfg: cfg}
		d.applyProps()

		// Probe read: the device must deliver a frame before the
		// capture loop will trust it.
		if _, err := d.ReadFrame(); err != nil {
			l.Warn("device probe read failed", "selector", sel, "error", err)
			d.Close()
			continue
		}

		l.Info("capture device opened",
			"selector", sel,
			"width", cfg.Width, "height", cfg.Height, "fps", cfg.FPS)
		return d, nil
	}

	return nil, ErrNoDevice
}

// propSetter is the slice of gocv.VideoCapture the property writers use.
type propSetter interface {
	Set(prop gocv.VideoCaptureProperties, value float64)
}

// applyProps configures codec, frame rate and geometry. These must be set
// before any read is attempted.
func (d *Device) applyProps() {
	applyCaptureProps(d.cap, d.cfg)
}

func applyCaptureProps(p propSetter, cfg Config) {
	p.Set(gocv.VideoCaptureFPS, float64(cfg.FPS))
	p.Set(gocv.VideoCaptureFOURCC, float64(fourcc(cfg.FourCC)))
	p.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	p.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
}

// SetAutofocus toggles the driver's continuous autofocus.
func (d *Device) SetAutofocus(enabled bool) {
	setAutofocus(d.cap, enabled)
}

func setAutofocus(p propSetter, enabled bool) {
	v := 0.0
	if enabled {
		v = 1.0
	}
	p.Set(gocv.VideoCaptureAutoFocus, v)
}

// SetFocusInfinity disables autofocus and racks the lens to infinity.
func (d *Device) SetFocusInfinity() {
	setFocusInfinity(d.cap)
}

func setFocusInfinity(p propSetter) {
	p.Set(gocv.VideoCaptureAutoFocus, 0)
	p.Set(gocv.VideoCaptureFocus, 0)
}

// fourcc packs a 4-character codec tag into its little-endian integer form,
// e.g. "MJPG" -> 0x47504A4D.
func fourcc(tag string) uint32 {
	if len(tag) != 4 {
		return 0
	}
	return uint32(tag[0]) | uint32(tag[1])<<8 | uint32(tag[2])<<16 | uint32(tag[3])<<24
}

// Selector returns the path or index used to open the device.
func (d *Device) Selector() interface{} {
	return d.selector
}

// ReadFrame blocks on the next hardware frame. It returns ErrBadRead when
// the read yields nothing, a non-3-channel image, or fewer bytes than the
// configured plausibility floor.
func (d *Device) ReadFrame() (*Frame, error) {
	mat := gocv.NewMat()
	defer mat.Close()

	if ok := d.cap.Read(&mat); !ok || mat.Empty() {
		return nil, ErrBadRead
	}
	if mat.Channels() != 3 {
		return nil, fmt.Errorf("%w: got %d channels", ErrBadRead, mat.Channels())
	}

	buf := mat.ToBytes()
	if len(buf) < d.cfg.MinFrameBytes {
		return nil, fmt.Errorf("%w: only %d bytes", ErrBadRead, len(buf))
	}

	f := &Frame{
		Width:  mat.Cols(),
		Height: mat.Rows(),
		Pix:    make([]byte, len(buf)),
	}
	copy(f.Pix, buf)
	return f, nil
}

// Close releases the OS handle. Safe to call once per open.
func (d *Device) Close() error {
	if d.cap == nil {
		return nil
	}
	err := d.cap.Close()
	d.cap = nil
	return err
}
