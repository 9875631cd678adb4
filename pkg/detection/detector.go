package detection

import "gocv.io/x/gocv"

// Detector is the interface for inference backends.
type Detector interface {
	// Detect runs inference on a BGR image and returns boxes in image pixels.
	Detect(img gocv.Mat) ([]Detection, error)

	// Close releases resources
	Close() error
}

// Config holds detector configuration.
type Config struct {
	ModelPath        string  `json:"model_path"`        // Path to ONNX model
	LabelsPath       string  `json:"labels_path"`       // Optional label file, COCO when empty
	ConfidenceThresh float64 `json:"confidence_thresh"` // Minimum class score kept by the backend
	NMSThresh        float64 `json:"nms_thresh"`        // IoU threshold for non-max suppression
	InputWidth       int     `json:"input_width"`       // Model input width
	InputHeight      int     `json:"input_height"`      // Model input height
}

// DefaultConfig returns production defaults for YOLOv8n.
func DefaultConfig() Config {
	return Config{
		ModelPath:        "models/yolov8n.onnx",
		ConfidenceThresh: 0.5,
		NMSThresh:        0.45,
		InputWidth:       640,
		InputHeight:      640,
	}
}
