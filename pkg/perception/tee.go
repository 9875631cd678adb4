package perception

import (
	"context"

	"github.com/teslashibe/go-follow/internal/log"
	"github.com/teslashibe/go-follow/pkg/detection"
)

// FrameSource matches follow.FrameSource without importing it.
type FrameSource interface {
	NextFrame(ctx context.Context) (detection.Frame, error)
}

// Tee records every frame produced by src. Recording failures are logged
// and never interrupt the loop.
type Tee struct {
	src FrameSource
	w   *Writer
}

// NewTee wraps src so each frame is also written to w.
func NewTee(src FrameSource, w *Writer) *Tee {
	return &Tee{src: src, w: w}
}

// NextFrame forwards to the wrapped source.
func (t *Tee) NextFrame(ctx context.Context) (detection.Frame, error) {
	f, err := t.src.NextFrame(ctx)
	if err != nil {
		return f, err
	}
	if werr := t.w.WriteFrame(f); werr != nil {
		log.Warn("record frame failed", "seq", f.Seq, "error", werr)
	}
	return f, nil
}
