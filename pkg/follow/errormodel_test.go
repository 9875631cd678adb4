package follow

import (
	"errors"
	"testing"

	"github.com/teslashibe/go-follow/pkg/detection"
)

func TestComputeErrors(t *testing.T) {
	tests := []struct {
		name  string
		box   [4]int
		wantX float64
		wantD float64
	}{
		{"centered mid-distance", [4]int{300, 100, 40, 300}, 0, 0.375},
		{"far left small", [4]int{0, 200, 30, 60}, 305.0 / 320.0, 0.875},
		{"right half", [4]int{480, 0, 160, 240}, -0.75, 0.5},
		{"fills frame height", [4]int{200, 0, 100, 480}, (320.0 - 250.0) / 320.0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			det := detection.Detection{Box: detection.Rect(tc.box[0], tc.box[1], tc.box[2], tc.box[3])}
			got, err := ComputeErrors(det, vga)
			if err != nil {
				t.Fatalf("ComputeErrors: %v", err)
			}
			if diff := got.X - tc.wantX; diff > floatTolerance || diff < -floatTolerance {
				t.Errorf("X: got %v, want %v", got.X, tc.wantX)
			}
			if diff := got.D - tc.wantD; diff > floatTolerance || diff < -floatTolerance {
				t.Errorf("D: got %v, want %v", got.D, tc.wantD)
			}
		})
	}
}

func TestComputeErrors_Ranges(t *testing.T) {
	for x := 0; x <= 600; x += 40 {
		for h := 40; h <= 480; h += 40 {
			det := detection.Detection{Box: detection.Rect(x, 0, 40, h)}
			got, err := ComputeErrors(det, vga)
			if err != nil {
				t.Fatalf("ComputeErrors: %v", err)
			}
			if got.X < -1 || got.X > 1 {
				t.Fatalf("X out of range for x=%d: %v", x, got.X)
			}
			if got.D < 0 || got.D > 1 {
				t.Fatalf("D out of range for h=%d: %v", h, got.D)
			}
		}
	}
}

func TestComputeErrors_InvalidFrame(t *testing.T) {
	det := detection.Detection{Box: detection.Rect(0, 0, 1, 1)}

	for _, frame := range []detection.FrameContext{{Width: 0, Height: 480}, {Width: 1, Height: 480}, {Width: 640, Height: 0}} {
		_, err := ComputeErrors(det, frame)
		if !errors.Is(err, detection.ErrInvalidFrame) {
			t.Errorf("frame %+v: want ErrInvalidFrame, got %v", frame, err)
		}
	}
}
