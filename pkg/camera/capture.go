package camera

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"gocv.io/x/gocv"
)

// ErrReadFailed is returned when the device yields no frame.
var ErrReadFailed = errors.New("camera: read failed")

// Capture owns an open gocv.VideoCapture.
type Capture struct {
	cfg Config

	mu  sync.Mutex
	dev *gocv.VideoCapture
}

// Open starts the capture device and applies the requested geometry.
func Open(cfg Config) (*Capture, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("camera: invalid config: %v", errs)
	}

	var (
		dev *gocv.VideoCapture
		err error
	)
	if idx, convErr := strconv.Atoi(cfg.Device); convErr == nil {
		dev, err = gocv.OpenVideoCapture(idx)
	} else {
		dev, err = gocv.OpenVideoCapture(cfg.Device)
	}
	if err != nil {
		return nil, fmt.Errorf("camera: open %s: %w", cfg.Device, err)
	}

	dev.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	dev.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	dev.Set(gocv.VideoCaptureFPS, float64(cfg.FPS))
	if cfg.BufferSize > 0 {
		dev.Set(gocv.VideoCaptureBufferSize, float64(cfg.BufferSize))
	}

	return &Capture{cfg: cfg, dev: dev}, nil
}

// Read grabs the next frame into dst. It blocks on the device; ctx is only
// checked before the read because gocv offers no interruptible read.
func (c *Capture) Read(ctx context.Context, dst *gocv.Mat) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dev == nil {
		return fmt.Errorf("%w: device closed", ErrReadFailed)
	}
	if ok := c.dev.Read(dst); !ok || dst.Empty() {
		return ErrReadFailed
	}
	return nil
}

// Config returns the configuration the device was opened with.
func (c *Capture) Config() Config {
	return c.cfg
}

// Close releases the device.
func (c *Capture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dev == nil {
		return nil
	}
	err := c.dev.Close()
	c.dev = nil
	return err
}
