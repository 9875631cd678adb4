// Package perception turns camera frames or recorded sessions into
// detection.Frame values for the follow loop.
package perception

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/teslashibe/go-follow/internal/log"
	"github.com/teslashibe/go-follow/pkg/detection"
	"gocv.io/x/gocv"
)

// Reader is the capture side of a CameraSource.
type Reader interface {
	Read(ctx context.Context, dst *gocv.Mat) error
}

// CameraSource reads a frame, runs the detector on it and reports the
// result with the frame's actual geometry.
type CameraSource struct {
	reader   Reader
	detector detection.Detector
	logger   *slog.Logger

	img gocv.Mat
	seq uint64
	now func() time.Time
}

// NewCameraSource creates a source. The caller keeps ownership of reader
// and detector; Close only frees the frame buffer.
func NewCameraSource(reader Reader, detector detection.Detector) *CameraSource {
	return &CameraSource{
		reader:   reader,
		detector: detector,
		logger:   log.Component("perception"),
		img:      gocv.NewMat(),
		now:      time.Now,
	}
}

// NextFrame captures and detects one frame.
func (s *CameraSource) NextFrame(ctx context.Context) (detection.Frame, error) {
	if err := s.reader.Read(ctx, &s.img); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return detection.Frame{}, err
		}
		return detection.Frame{}, fmt.Errorf("capture: %w", err)
	}
	captured := s.now()

	if s.img.Empty() {
		return detection.Frame{}, detection.ErrEmptyImage
	}

	dets, err := s.detector.Detect(s.img)
	if err != nil {
		return detection.Frame{}, fmt.Errorf("detect: %w", err)
	}

	s.seq++
	frame := detection.Frame{
		Seq:        s.seq,
		CapturedAt: captured,
		Context:    detection.FrameContext{Width: s.img.Cols(), Height: s.img.Rows()},
		Detections: dets,
	}
	s.logger.Debug("frame",
		"seq", frame.Seq,
		"size", fmt.Sprintf("%dx%d", frame.Context.Width, frame.Context.Height),
		"detections", len(dets),
		"detect_ms", s.now().Sub(captured).Milliseconds())
	return frame, nil
}

// Close frees the frame buffer.
func (s *CameraSource) Close() error {
	return s.img.Close()
}
