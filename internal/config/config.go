// Package config provides configuration helpers for lunar-tools commands.
package config

import (
	"os"
	"strconv"
)

// Default preview server configuration.
const (
	DefaultPreviewPort = "8089"
	DefaultStreamFPS   = 15
)

// LogLevel returns the log level from LOG_LEVEL env var.
// Falls back to "info" if not set.
func LogLevel() string {
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		return lvl
	}
	return "info"
}

// CameraID returns the capture device selector from CAMERA_ID env var.
// -1 means "first available enumerated device".
func CameraID(defaultID int) int {
	return envInt("CAMERA_ID", defaultID)
}

// CameraWidth returns the capture width from CAMERA_WIDTH env var.
func CameraWidth(defaultWidth int) int {
	return envInt("CAMERA_WIDTH", defaultWidth)
}

// CameraHeight returns the capture height from CAMERA_HEIGHT env var.
func CameraHeight(defaultHeight int) int {
	return envInt("CAMERA_HEIGHT", defaultHeight)
}

// CameraFPS returns the capture frame rate from CAMERA_FPS env var.
func CameraFPS(defaultFPS int) int {
	return envInt("CAMERA_FPS", defaultFPS)
}

// PreviewPort returns the preview server port from PREVIEW_PORT env var.
func PreviewPort() string {
	if port := os.Getenv("PREVIEW_PORT"); port != "" {
		return port
	}
	return DefaultPreviewPort
}

// StreamFPS returns the MJPEG stream rate from STREAM_FPS env var.
func StreamFPS() int {
	return envInt("STREAM_FPS", DefaultStreamFPS)
}

func envInt(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}
