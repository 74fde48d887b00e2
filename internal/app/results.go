package app

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Hihi1310/pizza-counter/internal/zone"
)

// Results summarizes a completed run, in the shape written to the results
// JSON file.
type Results struct {
	RunID             string                    `json:"run_id"`
	Source            string                    `json:"source"`
	Model             string                    `json:"model"`
	Confidence        float64                   `json:"confidence_threshold"`
	Totals            map[string]map[string]int `json:"totals"`
	Total             int                       `json:"total"`
	Events            []zone.CountEvent         `json:"events"`
	FramesProcessed   int                       `json:"frames_processed"`
	ProcessingSeconds float64                   `json:"processing_seconds"`
	FPS               float64                   `json:"fps"`
	Timestamp         time.Time                 `json:"timestamp"`
}

func (a *App) buildResults(elapsed time.Duration) *Results {
	totals := make(map[string]map[string]int)
	for name, dirs := range a.counter.Totals() {
		totals[name] = make(map[string]int)
		for dir, n := range dirs {
			totals[name][string(dir)] = n
		}
	}

	frames := a.counter.FramesProcessed()
	fps := 0.0
	if elapsed > 0 {
		fps = float64(frames) / elapsed.Seconds()
	}

	return &Results{
		RunID:             a.runID,
		Source:            a.config.Source,
		Model:             a.config.ModelPath,
		Confidence:        a.config.Counter.ConfidenceThreshold,
		Totals:            totals,
		Total:             a.counter.Total(),
		Events:            a.counter.Events(),
		FramesProcessed:   frames,
		ProcessingSeconds: elapsed.Seconds(),
		FPS:               fps,
		Timestamp:         time.Now(),
	}
}

// WriteFile writes the results as indented JSON.
func (r *Results) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write results %s: %w", path, err)
	}
	return nil
}
