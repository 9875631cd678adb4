// Package detection defines the per-frame perception records consumed by the
// follow controller and the gocv-backed detectors that produce them.
package detection

import (
	"fmt"
	"image"
	"time"
)

// Detection is a single observed bounding box in frame pixel coordinates.
type Detection struct {
	Box     image.Rectangle // Min is the top-left corner, Dx/Dy are width/height
	Score   float64         // Confidence (0-1)
	ClassID int             // Index into the detector's label table
	Label   string          // Human-readable class name, empty if unknown
}

// Width returns the box width in pixels.
func (d Detection) Width() int {
	return d.Box.Dx()
}

// Height returns the box height in pixels.
func (d Detection) Height() int {
	return d.Box.Dy()
}

// Area returns width * height in square pixels.
func (d Detection) Area() int {
	return d.Box.Dx() * d.Box.Dy()
}

// Center returns the box center using integer halving of the size.
func (d Detection) Center() (x, y int) {
	return d.Box.Min.X + d.Box.Dx()/2, d.Box.Min.Y + d.Box.Dy()/2
}

// Validate checks that the box has positive size and lies inside the frame.
func (d Detection) Validate(frame FrameContext) error {
	if d.Box.Dx() <= 0 || d.Box.Dy() <= 0 {
		return fmt.Errorf("%w: non-positive size %dx%d", ErrInvalidGeometry, d.Box.Dx(), d.Box.Dy())
	}
	if !d.Box.In(frame.Bounds()) {
		return fmt.Errorf("%w: box %v outside frame %dx%d", ErrInvalidGeometry, d.Box, frame.Width, frame.Height)
	}
	return nil
}

// Rect builds a Detection box from x, y, width and height.
func Rect(x, y, w, h int) image.Rectangle {
	return image.Rect(x, y, x+w, y+h)
}

// FrameContext carries the capture geometry for a frame.
type FrameContext struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Valid reports whether both dimensions are positive.
func (f FrameContext) Valid() bool {
	return f.Width > 0 && f.Height > 0
}

// CenterX returns the horizontal frame center (integer halving).
func (f FrameContext) CenterX() int {
	return f.Width / 2
}

// Bounds returns the frame rectangle anchored at the origin.
func (f FrameContext) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

// Frame is one perception result: the geometry plus every detection seen.
type Frame struct {
	Seq        uint64
	CapturedAt time.Time
	Context    FrameContext
	Detections []Detection
}
