package detection

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// PersonLabel is the class name the follower acts on.
const PersonLabel = "person"

// Labels maps class IDs to names.
type Labels []string

// Name returns the label for id, or "" when id is out of range.
func (l Labels) Name(id int) string {
	if id < 0 || id >= len(l) {
		return ""
	}
	return l[id]
}

// IsPerson reports whether id names the person class.
func (l Labels) IsPerson(id int) bool {
	return l.Name(id) == PersonLabel
}

// LoadLabels reads a newline separated label file. Blank trailing lines are
// dropped, interior blank lines keep their index so IDs stay aligned.
func LoadLabels(path string) (Labels, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open labels: %w", err)
	}
	defer f.Close()

	var labels Labels
	scan := bufio.NewScanner(f)
	for scan.Scan() {
		labels = append(labels, strings.TrimSpace(scan.Text()))
	}
	if err := scan.Err(); err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}
	for len(labels) > 0 && labels[len(labels)-1] == "" {
		labels = labels[:len(labels)-1]
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("labels file %s is empty", path)
	}
	return labels, nil
}

// COCOClasses contains the 80 COCO class names
var COCOClasses = Labels{
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train", "truck", "boat",
	"traffic light", "fire hydrant", "stop sign", "parking meter", "bench", "bird", "cat",
	"dog", "horse", "sheep", "cow", "elephant", "bear", "zebra", "giraffe", "backpack",
	"umbrella", "handbag", "tie", "suitcase", "frisbee", "skis", "snowboard", "sports ball",
	"kite", "baseball bat", "baseball glove", "skateboard", "surfboard", "tennis racket",
	"bottle", "wine glass", "cup", "fork", "knife", "spoon", "bowl", "banana", "apple",
	"sandwich", "orange", "broccoli", "carrot", "hot dog", "pizza", "donut", "cake", "chair",
	"couch", "potted plant", "bed", "dining table", "toilet", "tv", "laptop", "mouse",
	"remote", "keyboard", "cell phone", "microwave", "oven", "toaster", "sink", "refrigerator",
	"book", "clock", "vase", "scissors", "teddy bear", "hair drier", "toothbrush",
}
