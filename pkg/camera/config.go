// Package camera opens the follower's capture device through gocv.
package camera

import "fmt"

// Config holds capture settings.
type Config struct {
	Device string `json:"device"` // Device index ("0") or a gstreamer/file URL
	Width  int    `json:"width"`  // Requested frame width in pixels
	Height int    `json:"height"` // Requested frame height in pixels
	FPS    int    `json:"fps"`    // Requested frame rate

	// Preset names the geometry this config started from, if any.
	Preset string `json:"preset,omitempty"`

	// BufferSize is the driver-side frame queue. 1 keeps latency lowest
	// because the loop always reads the freshest frame.
	BufferSize int `json:"buffer_size"`
}

// Capture limits accepted by Validate.
const (
	MinWidth  = 160
	MinHeight = 120
	MaxWidth  = 4608
	MaxHeight = 2592
	MaxFPS    = 120
)

// DefaultConfig returns a 640x480 configuration, matching the detector's
// preferred input aspect and keeping inference fast on a Pi-class board.
func DefaultConfig() Config {
	return Config{
		Device:     "0",
		Width:      640,
		Height:     480,
		FPS:        30,
		BufferSize: 1,
	}
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c Config) Validate() []string {
	var errs []string

	if c.Device == "" {
		errs = append(errs, "device must be set")
	}
	if c.Width < MinWidth || c.Width > MaxWidth {
		errs = append(errs, fmt.Sprintf("width must be between %d and %d", MinWidth, MaxWidth))
	}
	if c.Height < MinHeight || c.Height > MaxHeight {
		errs = append(errs, fmt.Sprintf("height must be between %d and %d", MinHeight, MaxHeight))
	}
	if c.FPS < 1 || c.FPS > MaxFPS {
		errs = append(errs, fmt.Sprintf("fps must be between 1 and %d", MaxFPS))
	}
	if c.BufferSize < 0 {
		errs = append(errs, "buffer_size must be non-negative")
	}

	return errs
}
