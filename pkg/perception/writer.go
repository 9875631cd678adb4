package perception

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/teslashibe/go-follow/pkg/detection"
)

// Writer records frames in the format ReplaySource reads.
type Writer struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewWriter creates a Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(w)}
}

// WriteFrame appends one frame as a JSON line.
func (w *Writer) WriteFrame(f detection.Frame) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enc.Encode(NewRecord(f))
}
