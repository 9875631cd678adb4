package follow

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teslashibe/go-follow/pkg/detection"
)

var vga = detection.FrameContext{Width: 640, Height: 480}

func person(x, y, w, h int, score float64) detection.Detection {
	return detection.Detection{Box: detection.Rect(x, y, w, h), Score: score, ClassID: 0, Label: "person"}
}

func TestSelector_LargestAreaWins(t *testing.T) {
	s := NewSelector(DefaultConfig(), nil)

	frame := detection.Frame{Context: vga, Detections: []detection.Detection{
		person(10, 10, 30, 60, 0.9),
		person(200, 50, 80, 300, 0.6),
		person(400, 100, 50, 100, 0.99),
	}}

	sel := s.Select(frame)
	require.NotNil(t, sel.Target)
	assert.Equal(t, CauseTracking, sel.Cause)
	assert.Equal(t, detection.Rect(200, 50, 80, 300), sel.Target.Box)
}

func TestSelector_TieKeepsFirst(t *testing.T) {
	s := NewSelector(DefaultConfig(), nil)

	frame := detection.Frame{Context: vga, Detections: []detection.Detection{
		person(10, 10, 40, 100, 0.7),
		person(300, 10, 100, 40, 0.9),
		person(500, 10, 40, 100, 0.8),
	}}

	sel := s.Select(frame)
	require.NotNil(t, sel.Target)
	assert.Equal(t, image.Pt(10, 10), sel.Target.Box.Min)

	// Same boxes, reversed order: the first of the reversed list wins.
	frame.Detections[0], frame.Detections[2] = frame.Detections[2], frame.Detections[0]
	sel = s.Select(frame)
	require.NotNil(t, sel.Target)
	assert.Equal(t, image.Pt(500, 10), sel.Target.Box.Min)
}

func TestSelector_FiltersClassAndScore(t *testing.T) {
	s := NewSelector(DefaultConfig(), nil)

	dog := detection.Detection{Box: detection.Rect(0, 0, 300, 300), Score: 0.99, ClassID: 16, Label: "dog"}
	unlabeledCar := detection.Detection{Box: detection.Rect(0, 0, 200, 200), Score: 0.99, ClassID: 2}
	unlabeledPerson := detection.Detection{Box: detection.Rect(100, 100, 40, 80), Score: 0.5, ClassID: 0}
	weak := person(0, 0, 400, 400, 0.49)

	sel := s.Select(detection.Frame{Context: vga, Detections: []detection.Detection{dog, unlabeledCar, weak, unlabeledPerson}})
	require.NotNil(t, sel.Target)
	assert.Equal(t, unlabeledPerson.Box, sel.Target.Box)
}

func TestSelector_CustomLabels(t *testing.T) {
	labels := detection.Labels{"background", "person"}
	s := NewSelector(DefaultConfig(), labels)

	sel := s.Select(detection.Frame{Context: vga, Detections: []detection.Detection{
		{Box: detection.Rect(0, 0, 100, 100), Score: 0.9, ClassID: 0},
	}})
	assert.Nil(t, sel.Target)
	assert.Equal(t, CauseNoTarget, sel.Cause)

	sel = s.Select(detection.Frame{Context: vga, Detections: []detection.Detection{
		{Box: detection.Rect(0, 0, 100, 100), Score: 0.9, ClassID: 1},
	}})
	assert.NotNil(t, sel.Target)
}

func TestSelector_NoTarget(t *testing.T) {
	s := NewSelector(DefaultConfig(), nil)

	tests := []struct {
		name  string
		dets  []detection.Detection
		cause Cause
	}{
		{"empty", nil, CauseNoTarget},
		{"height 39", []detection.Detection{person(100, 100, 50, 39, 0.9)}, CauseTargetTooSmall},
		{"width 19", []detection.Detection{person(100, 100, 19, 200, 0.9)}, CauseTargetTooSmall},
		{"only low confidence", []detection.Detection{person(100, 100, 50, 200, 0.2)}, CauseNoTarget},
		{"only box outside frame", []detection.Detection{person(620, 100, 50, 200, 0.9)}, CauseInvalidGeometry},
		{"only zero-size box", []detection.Detection{person(100, 100, 0, 200, 0.9)}, CauseInvalidGeometry},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sel := s.Select(detection.Frame{Context: vga, Detections: tc.dets})
			assert.Nil(t, sel.Target)
			assert.Equal(t, tc.cause, sel.Cause)
		})
	}
}

func TestSelector_MinimumSizeIsInclusive(t *testing.T) {
	s := NewSelector(DefaultConfig(), nil)

	sel := s.Select(detection.Frame{Context: vga, Detections: []detection.Detection{person(100, 100, 20, 40, 0.9)}})
	assert.NotNil(t, sel.Target)
}

func TestSelector_SmallestCheckAppliesToChosenBox(t *testing.T) {
	s := NewSelector(DefaultConfig(), nil)

	// The thin box has the larger area, so it is chosen and then rejected.
	sel := s.Select(detection.Frame{Context: vga, Detections: []detection.Detection{
		person(0, 0, 15, 400, 0.9),
		person(300, 100, 40, 100, 0.9),
	}})
	assert.Nil(t, sel.Target)
	assert.Equal(t, CauseTargetTooSmall, sel.Cause)
}

func TestSelector_InvalidGeometryDiscardedNotSelected(t *testing.T) {
	s := NewSelector(DefaultConfig(), nil)

	sel := s.Select(detection.Frame{Context: vga, Detections: []detection.Detection{
		person(-10, 0, 600, 480, 0.95),
		person(300, 100, 40, 300, 0.9),
	}})
	require.NotNil(t, sel.Target)
	assert.Equal(t, 1, sel.Discarded)
	assert.Equal(t, detection.Rect(300, 100, 40, 300), sel.Target.Box)
}
