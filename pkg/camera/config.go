// Package camera provides continuously-polling webcam capture.
//
// A Capture owns a background goroutine that reads frames from a Device,
// post-processes them, and publishes each result into a single-slot
// FrameBuffer that any number of readers can poll without blocking.
// Read failures are absorbed: the device is released, a cooldown elapses,
// and the full acquisition procedure runs again.
package camera

import "time"

// FirstAvailable selects the first enumerated device that yields a frame.
const FirstAvailable = -1

// Config holds all capture configuration parameters.
type Config struct {
	// DeviceID selects the capture device. FirstAvailable (-1) scans
	// the enumerated devices and uses the first one that works.
	DeviceID int `json:"device_id"`

	// === Frame geometry ===
	Width  int `json:"width"`  // Frame width in pixels
	Height int `json:"height"` // Frame height in pixels
	FPS    int `json:"fps"`    // Requested frame rate

	// FourCC is the codec requested from the device, e.g. "MJPG".
	FourCC string `json:"fourcc"`

	// === Post-processing ===
	// ShiftColors reverses the channel order of each pixel (BGR -> RGB).
	ShiftColors bool `json:"shift_colors"`
	// MirrorImage flips each row horizontally.
	MirrorImage bool `json:"mirror_image"`

	// === Loop timing ===
	// PollInterval is the pause between read iterations.
	PollInterval time.Duration `json:"poll_interval"`
	// RecoverCooldown is the pause after a failed read before the
	// device is reacquired.
	RecoverCooldown time.Duration `json:"recover_cooldown"`

	// MinFrameBytes is the plausibility floor for a decoded frame.
	// Reads yielding fewer bytes are treated as failures.
	MinFrameBytes int `json:"min_frame_bytes"`
}

// DefaultConfig returns the recommended capture configuration:
// first available device, 1024x576 at 30 FPS over MJPG, color shift on.
func DefaultConfig() Config {
	return Config{
		DeviceID: FirstAvailable,

		Width:  1024,
		Height: 576,
		FPS:    30,
		FourCC: "MJPG",

		ShiftColors: true,
		MirrorImage: false,

		PollInterval:    time.Millisecond,
		RecoverCooldown: time.Second,

		MinFrameBytes: 100,
	}
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.DeviceID < FirstAvailable {
		errors = append(errors, "device_id must be >= -1")
	}
	if c.Width < 16 || c.Width > 7680 {
		errors = append(errors, "width must be between 16 and 7680")
	}
	if c.Height < 16 || c.Height > 4320 {
		errors = append(errors, "height must be between 16 and 4320")
	}
	if c.FPS < 1 || c.FPS > 120 {
		errors = append(errors, "fps must be between 1 and 120")
	}
	if len(c.FourCC) != 4 {
		errors = append(errors, "fourcc must be exactly 4 characters")
	}
	if c.PollInterval < 0 {
		errors = append(errors, "poll_interval must not be negative")
	}
	if c.RecoverCooldown < 0 {
		errors = append(errors, "recover_cooldown must not be negative")
	}
	if c.MinFrameBytes < 0 {
		errors = append(errors, "min_frame_bytes must not be negative")
	}

	return errors
}
