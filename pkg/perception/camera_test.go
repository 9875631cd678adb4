package perception

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teslashibe/go-follow/pkg/detection"
	"gocv.io/x/gocv"
)

type fakeReader struct {
	rows, cols int
	err        error
}

func (r *fakeReader) Read(ctx context.Context, dst *gocv.Mat) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.err != nil {
		return r.err
	}
	dst.Close()
	*dst = gocv.NewMatWithSize(r.rows, r.cols, gocv.MatTypeCV8UC3)
	return nil
}

type fakeDetector struct {
	dets  []detection.Detection
	err   error
	calls int
}

func (d *fakeDetector) Detect(img gocv.Mat) ([]detection.Detection, error) {
	d.calls++
	return d.dets, d.err
}

func (d *fakeDetector) Close() error { return nil }

func TestCameraSource_UsesImageGeometry(t *testing.T) {
	det := &fakeDetector{dets: []detection.Detection{{Box: detection.Rect(1, 2, 3, 4), Score: 0.9, Label: "person"}}}
	src := NewCameraSource(&fakeReader{rows: 240, cols: 320}, det)
	defer src.Close()

	f, err := src.NextFrame(context.Background())
	require.NoError(t, err)
	assert.Equal(t, detection.FrameContext{Width: 320, Height: 240}, f.Context)
	assert.Equal(t, uint64(1), f.Seq)
	assert.Len(t, f.Detections, 1)
	assert.False(t, f.CapturedAt.IsZero())

	f, err = src.NextFrame(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), f.Seq)
}

func TestCameraSource_CaptureError(t *testing.T) {
	boom := errors.New("usb unplugged")
	det := &fakeDetector{}
	src := NewCameraSource(&fakeReader{err: boom}, det)
	defer src.Close()

	_, err := src.NextFrame(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, det.calls, "detector must not run without a frame")
}

func TestCameraSource_DetectError(t *testing.T) {
	boom := errors.New("inference failed")
	src := NewCameraSource(&fakeReader{rows: 10, cols: 10}, &fakeDetector{err: boom})
	defer src.Close()

	_, err := src.NextFrame(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestCameraSource_Cancelled(t *testing.T) {
	src := NewCameraSource(&fakeReader{rows: 10, cols: 10}, &fakeDetector{})
	defer src.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := src.NextFrame(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
