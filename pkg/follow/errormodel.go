package follow

import (
	"math"

	"github.com/teslashibe/go-follow/pkg/detection"
)

// ComputeErrors converts a target box and the frame geometry into normalized
// error signals. The frame must be valid; a zero width would divide by zero.
func ComputeErrors(target detection.Detection, frame detection.FrameContext) (ErrorSignals, error) {
	if !frame.Valid() || frame.CenterX() == 0 {
		return ErrorSignals{}, detection.ErrInvalidFrame
	}

	frameCenter := float64(frame.CenterX())
	personCenter, _ := target.Center()

	fill := math.Min(float64(target.Height())/float64(frame.Height), 1.0)

	return ErrorSignals{
		X: (frameCenter - float64(personCenter)) / frameCenter,
		D: 1.0 - fill,
	}, nil
}
