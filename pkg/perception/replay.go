package perception

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/teslashibe/go-follow/pkg/detection"
)

// MaxLineSize bounds one recorded frame.
const MaxLineSize = 1 << 20

// Record is the on-disk form of one frame: a JSON object per line.
type Record struct {
	Width      int         `json:"w"`
	Height     int         `json:"h"`
	Detections []BoxRecord `json:"detections"`
}

// BoxRecord is one recorded detection.
type BoxRecord struct {
	X     int     `json:"x"`
	Y     int     `json:"y"`
	W     int     `json:"w"`
	H     int     `json:"h"`
	Score float64 `json:"score"`
	Class int     `json:"class"`
	Label string  `json:"label,omitempty"`
}

// NewRecord converts a frame into its recorded form.
func NewRecord(f detection.Frame) Record {
	rec := Record{
		Width:      f.Context.Width,
		Height:     f.Context.Height,
		Detections: make([]BoxRecord, 0, len(f.Detections)),
	}
	for _, d := range f.Detections {
		rec.Detections = append(rec.Detections, BoxRecord{
			X:     d.Box.Min.X,
			Y:     d.Box.Min.Y,
			W:     d.Width(),
			H:     d.Height(),
			Score: d.Score,
			Class: d.ClassID,
			Label: d.Label,
		})
	}
	return rec
}

// Frame converts the record back into a detection.Frame. Labels missing
// from the record are filled from labels when given.
func (r Record) Frame(seq uint64, at time.Time, labels detection.Labels) detection.Frame {
	f := detection.Frame{
		Seq:        seq,
		CapturedAt: at,
		Context:    detection.FrameContext{Width: r.Width, Height: r.Height},
		Detections: make([]detection.Detection, 0, len(r.Detections)),
	}
	for _, b := range r.Detections {
		label := b.Label
		if label == "" && labels != nil {
			label = labels.Name(b.Class)
		}
		f.Detections = append(f.Detections, detection.Detection{
			Box:     detection.Rect(b.X, b.Y, b.W, b.H),
			Score:   b.Score,
			ClassID: b.Class,
			Label:   label,
		})
	}
	return f
}

// ReplaySource plays back a recorded session. It returns io.EOF once the
// input is exhausted.
type ReplaySource struct {
	scanner  *bufio.Scanner
	closer   io.Closer
	labels   detection.Labels
	interval time.Duration
	maxLine  int

	// failed is set once the scanner stops on an error; later calls
	// report io.EOF because bufio.Scanner cannot resume.
	failed bool

	seq  uint64
	line int
	last time.Time
	now  func() time.Time
}

// ReplayOption configures a ReplaySource.
type ReplayOption func(*ReplaySource)

// WithInterval paces playback to at most one frame per interval.
func WithInterval(d time.Duration) ReplayOption {
	return func(s *ReplaySource) { s.interval = d }
}

// WithMaxLineSize overrides MaxLineSize.
func WithMaxLineSize(n int) ReplayOption {
	return func(s *ReplaySource) { s.maxLine = n }
}

// WithLabels resolves class ids for records without a label.
func WithLabels(labels detection.Labels) ReplayOption {
	return func(s *ReplaySource) { s.labels = labels }
}

// NewReplaySource reads records from r.
func NewReplaySource(r io.Reader, opts ...ReplayOption) *ReplaySource {
	s := &ReplaySource{
		labels:  detection.COCOClasses,
		maxLine: MaxLineSize,
		now:     time.Now,
	}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	for _, opt := range opts {
		opt(s)
	}

	s.scanner = bufio.NewScanner(r)
	s.scanner.Buffer(make([]byte, 0, min(64*1024, s.maxLine)), s.maxLine)
	return s
}

// OpenReplay opens a recorded session file.
func OpenReplay(path string, opts ...ReplayOption) (*ReplaySource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay: %w", err)
	}
	return NewReplaySource(f, opts...), nil
}

// NextFrame returns the next recorded frame. Blank lines are skipped. A
// read failure or an oversized line is returned once, then the replay
// ends with io.EOF.
func (s *ReplaySource) NextFrame(ctx context.Context) (detection.Frame, error) {
	if s.failed {
		return detection.Frame{}, io.EOF
	}
	if err := s.pace(ctx); err != nil {
		return detection.Frame{}, err
	}

	for s.scanner.Scan() {
		s.line++
		raw := s.scanner.Bytes()
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}

		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return detection.Frame{}, fmt.Errorf("replay line %d: %w", s.line, err)
		}
		s.seq++
		s.last = s.now()
		return rec.Frame(s.seq, s.last, s.labels), nil
	}
	if err := s.scanner.Err(); err != nil {
		s.failed = true
		return detection.Frame{}, fmt.Errorf("replay line %d: %w", s.line+1, err)
	}
	return detection.Frame{}, io.EOF
}

func (s *ReplaySource) pace(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.interval <= 0 || s.last.IsZero() {
		return nil
	}
	wait := s.interval - s.now().Sub(s.last)
	if wait <= 0 {
		return nil
	}

	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Close closes the underlying reader if it is closable.
func (s *ReplaySource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
