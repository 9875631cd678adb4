package detection

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// YOLODetector uses YOLOv8 for general object detection
type YOLODetector struct {
	net       gocv.Net
	config    Config
	labels    Labels
	mu        sync.Mutex
	inputSize image.Point
}

// NewYOLO creates a new YOLO object detector. labels may be nil, in which
// case the COCO table is used.
func NewYOLO(cfg Config, labels Labels) (*YOLODetector, error) {
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, cfg.ModelPath)
	}

	net := gocv.ReadNetFromONNX(cfg.ModelPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load YOLO model from %s", cfg.ModelPath)
	}

	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	if len(labels) == 0 {
		labels = COCOClasses
	}

	return &YOLODetector{
		net:       net,
		config:    cfg,
		labels:    labels,
		inputSize: image.Pt(cfg.InputWidth, cfg.InputHeight),
	}, nil
}

// Labels returns the label table used to name detections.
func (d *YOLODetector) Labels() Labels {
	return d.labels
}

// Detect finds objects in a BGR image.
func (d *YOLODetector) Detect(img gocv.Mat) ([]Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if img.Empty() {
		return nil, ErrEmptyImage
	}

	blob := gocv.BlobFromImage(img, 1.0/255.0, d.inputSize, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")

	output := d.net.Forward("")
	defer output.Close()

	return d.parseOutput(output, img.Cols(), img.Rows())
}

// parseOutput decodes a [1, 4+classes, anchors] YOLOv8 tensor into pixel boxes.
func (d *YOLODetector) parseOutput(output gocv.Mat, imgW, imgH int) ([]Detection, error) {
	sizes := output.Size()
	if len(sizes) != 3 {
		return nil, fmt.Errorf("unexpected YOLO output shape %v", sizes)
	}
	cols, rows := sizes[1], sizes[2]

	data, err := output.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read YOLO output: %w", err)
	}

	frame := image.Rect(0, 0, imgW, imgH)
	scaleX := float32(imgW) / float32(d.config.InputWidth)
	scaleY := float32(imgH) / float32(d.config.InputHeight)
	thresh := float32(d.config.ConfidenceThresh)

	var boxes []image.Rectangle
	var scores []float32
	var classIDs []int

	for i := 0; i < rows; i++ {
		maxScore := float32(0)
		maxClassID := 0
		for c := 4; c < cols; c++ {
			if score := data[c*rows+i]; score > maxScore {
				maxScore = score
				maxClassID = c - 4
			}
		}
		if maxScore < thresh {
			continue
		}

		cx := data[0*rows+i]
		cy := data[1*rows+i]
		w := data[2*rows+i]
		h := data[3*rows+i]

		box := image.Rect(
			int((cx-w/2)*scaleX),
			int((cy-h/2)*scaleY),
			int((cx+w/2)*scaleX),
			int((cy+h/2)*scaleY),
		).Intersect(frame)
		if box.Empty() {
			continue
		}

		boxes = append(boxes, box)
		scores = append(scores, maxScore)
		classIDs = append(classIDs, maxClassID)
	}

	if len(boxes) == 0 {
		return nil, nil
	}

	indices := gocv.NMSBoxes(boxes, scores, thresh, float32(d.config.NMSThresh))

	detections := make([]Detection, 0, len(indices))
	for _, idx := range indices {
		detections = append(detections, Detection{
			Box:     boxes[idx],
			Score:   float64(scores[idx]),
			ClassID: classIDs[idx],
			Label:   d.labels.Name(classIDs[idx]),
		})
	}
	return detections, nil
}

// Close releases the detector resources
func (d *YOLODetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}
