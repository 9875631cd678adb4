package detection

import "errors"

// Sentinel errors for malformed perception input.
var (
	// ErrInvalidGeometry is returned for boxes with non-positive size or outside the frame.
	ErrInvalidGeometry = errors.New("detection: invalid geometry")

	// ErrInvalidFrame is returned when a frame has a non-positive width or height.
	ErrInvalidFrame = errors.New("detection: invalid frame size")

	// ErrModelNotFound is returned when the model file does not exist.
	ErrModelNotFound = errors.New("detection: model file not found")

	// ErrEmptyImage is returned when the detector is handed an empty image.
	ErrEmptyImage = errors.New("detection: empty image")
)
