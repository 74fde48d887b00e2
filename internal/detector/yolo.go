package detector

import (
	"fmt"
	"image"
	"os"
	"strings"

	"gocv.io/x/gocv"

	"github.com/Hihi1310/pizza-counter/internal/geom"
)

// YOLOConfig holds configuration options for the YOLO DNN detector.
type YOLOConfig struct {
	// ModelPath is the path to the ONNX model file.
	ModelPath string

	// NamesPath is an optional path to a newline-separated class name file.
	// When empty, class indices are used as labels.
	NamesPath string

	// InputSize is the square input resolution of the network (default 640).
	InputSize int

	// ScoreThreshold discards raw network rows below this confidence before
	// non-maximum suppression.
	ScoreThreshold float64

	// NMSThreshold is the IoU threshold for non-maximum suppression.
	NMSThreshold float64
}

// DefaultYOLOConfig returns a YOLOConfig with sensible default values.
func DefaultYOLOConfig(modelPath string) YOLOConfig {
	return YOLOConfig{
		ModelPath:      modelPath,
		InputSize:      640,
		ScoreThreshold: 0.25,
		NMSThreshold:   0.45,
	}
}

// YOLODetector runs a YOLO-family ONNX model through OpenCV's DNN module.
type YOLODetector struct {
	net     gocv.Net
	config  YOLOConfig
	classes []string
}

// NewYOLODetector loads the model and prepares the network for inference.
func NewYOLODetector(config YOLOConfig) (*YOLODetector, error) {
	if config.InputSize <= 0 {
		config.InputSize = 640
	}
	net := gocv.ReadNet(config.ModelPath, "")
	if net.Empty() {
		return nil, fmt.Errorf("failed to load model from %s", config.ModelPath)
	}
	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	d := &YOLODetector{net: net, config: config}
	if config.NamesPath != "" {
		names, err := loadClassNames(config.NamesPath)
		if err != nil {
			net.Close()
			return nil, err
		}
		d.classes = names
	}
	return d, nil
}

// Detect runs the network on a frame and returns the detections in frame
// pixel coordinates, after confidence filtering and non-maximum suppression.
func (d *YOLODetector) Detect(frame *gocv.Mat) ([]Detection, error) {
	if frame == nil || frame.Empty() {
		return nil, fmt.Errorf("empty frame")
	}

	inputSize := d.config.InputSize
	blob := gocv.BlobFromImage(*frame, 1.0/255.0, image.Pt(inputSize, inputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	defer output.Close()

	data, err := output.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read network output: %w", err)
	}

	// Output layout is (1, rows, 5+numClasses): cx, cy, w, h, objectness,
	// then per-class scores, in input-pixel units.
	dims := output.Size()
	if len(dims) != 3 || dims[2] < 6 {
		return nil, fmt.Errorf("unexpected network output shape %v", dims)
	}
	rows, stride := dims[1], dims[2]

	scaleX := float64(frame.Cols()) / float64(inputSize)
	scaleY := float64(frame.Rows()) / float64(inputSize)

	var boxes []image.Rectangle
	var scores []float32
	var classIDs []int
	for i := 0; i < rows; i++ {
		row := data[i*stride : (i+1)*stride]
		objectness := row[4]
		bestClass := 0
		bestScore := float32(0)
		for c, s := range row[5:] {
			if s > bestScore {
				bestScore = s
				bestClass = c
			}
		}
		confidence := objectness * bestScore
		if float64(confidence) < d.config.ScoreThreshold {
			continue
		}

		cx := float64(row[0]) * scaleX
		cy := float64(row[1]) * scaleY
		w := float64(row[2]) * scaleX
		h := float64(row[3]) * scaleY
		boxes = append(boxes, image.Rect(int(cx-w/2), int(cy-h/2), int(cx+w/2), int(cy+h/2)))
		scores = append(scores, confidence)
		classIDs = append(classIDs, bestClass)
	}

	if len(boxes) == 0 {
		return nil, nil
	}

	keep := gocv.NMSBoxes(boxes, scores, float32(d.config.ScoreThreshold), float32(d.config.NMSThreshold))
	detections := make([]Detection, 0, len(keep))
	for _, idx := range keep {
		box := boxes[idx]
		detections = append(detections, Detection{
			Box: geom.Rect{
				X:      float64(box.Min.X),
				Y:      float64(box.Min.Y),
				Width:  float64(box.Dx()),
				Height: float64(box.Dy()),
			},
			Confidence: float64(scores[idx]),
			Class:      d.className(classIDs[idx]),
		})
	}
	return detections, nil
}

// Close releases the network.
func (d *YOLODetector) Close() error {
	return d.net.Close()
}

func (d *YOLODetector) className(id int) string {
	if id >= 0 && id < len(d.classes) {
		return d.classes[id]
	}
	return fmt.Sprintf("class%d", id)
}

func loadClassNames(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read class names: %w", err)
	}
	var names []string
	for _, line := range strings.Split(string(raw), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}
