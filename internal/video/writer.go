package video

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Writer writes annotated frames to an output video file.
type Writer struct {
	writer *gocv.VideoWriter
	open   bool
}

// NewWriter creates an MP4 writer matching the source geometry.
func NewWriter(path string, fps float64, width, height int) (*Writer, error) {
	if fps <= 0 {
		fps = 30
	}
	w, err := gocv.VideoWriterFile(path, "mp4v", fps, width, height, true)
	if err != nil {
		return nil, fmt.Errorf("failed to open video writer %s: %w", path, err)
	}
	if !w.IsOpened() {
		w.Close()
		return nil, fmt.Errorf("video writer %s did not open", path)
	}
	return &Writer{writer: w, open: true}, nil
}

// Write appends one frame to the output file.
func (w *Writer) Write(mat gocv.Mat) error {
	if !w.open {
		return ErrSourceClosed
	}
	return w.writer.Write(mat)
}

// Close finalizes the output file.
func (w *Writer) Close() error {
	if !w.open {
		return nil
	}
	w.open = false
	return w.writer.Close()
}
