package follow

import (
	"github.com/teslashibe/go-follow/pkg/detection"
)

// Selection is the outcome of candidate selection for one frame.
type Selection struct {
	Target    *detection.Detection // nil when there is nothing to follow
	Cause     Cause                // CauseTracking when Target is set
	Discarded int                  // Candidates dropped for invalid geometry
}

// Selector picks the single detection to follow from a frame.
type Selector struct {
	labels    detection.Labels
	minWidth  int
	minHeight int
}

// NewSelector creates a selector. labels names class IDs for detections
// that arrive without a Label; nil means COCO.
func NewSelector(cfg Config, labels detection.Labels) *Selector {
	if len(labels) == 0 {
		labels = detection.COCOClasses
	}
	return &Selector{labels: labels, minWidth: cfg.MinBoxWidth, minHeight: cfg.MinBoxHeight}
}

// IsCandidate reports whether d is a confident person detection.
func (s *Selector) IsCandidate(d detection.Detection) bool {
	if d.Score < MinScore {
		return false
	}
	if d.Label != "" {
		return d.Label == detection.PersonLabel
	}
	return s.labels.IsPerson(d.ClassID)
}

// Select returns the candidate with the largest box area. Ties keep the
// earliest detection in input order. A chosen box smaller than the minimum
// size yields no target.
func (s *Selector) Select(frame detection.Frame) Selection {
	var sel Selection
	bestArea := -1

	for i := range frame.Detections {
		d := frame.Detections[i]
		if !s.IsCandidate(d) {
			continue
		}
		if err := d.Validate(frame.Context); err != nil {
			sel.Discarded++
			continue
		}
		if area := d.Area(); area > bestArea {
			bestArea = area
			sel.Target = &d
		}
	}

	switch {
	case sel.Target == nil && sel.Discarded > 0:
		sel.Cause = CauseInvalidGeometry
	case sel.Target == nil:
		sel.Cause = CauseNoTarget
	case sel.Target.Height() < s.minHeight || sel.Target.Width() < s.minWidth:
		sel.Target = nil
		sel.Cause = CauseTargetTooSmall
	default:
		sel.Cause = CauseTracking
	}
	return sel
}
