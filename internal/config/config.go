// Package config loads the per-run YAML configuration, merging the file's
// values over built-in defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all tunable parameters consumed at initialization. Zone
// geometry lives in a separate JSON file (see the zone package); this file
// covers the model and engine tuning.
type Config struct {
	Model    ModelConfig    `yaml:"model"`
	Tracking TrackingConfig `yaml:"tracking"`
	Counting CountingConfig `yaml:"counting"`
}

// ModelConfig configures the detector.
type ModelConfig struct {
	// Path is the ONNX model file.
	Path string `yaml:"path"`

	// NamesPath is an optional class-name file.
	NamesPath string `yaml:"names_path"`

	// ConfidenceThreshold drops detections below this score before they
	// reach the tracker.
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`

	// NMSThreshold is the IoU threshold for non-maximum suppression.
	NMSThreshold float64 `yaml:"nms_threshold"`

	// InputSize is the network's square input resolution.
	InputSize int `yaml:"input_size"`

	// TargetClass, when set, keeps only detections with this class label.
	TargetClass string `yaml:"target_class"`
}

// TrackingConfig configures the track table and matcher.
type TrackingConfig struct {
	// MaxDisappeared is the number of frames a track is retained after
	// losing detection before being dropped.
	MaxDisappeared int `yaml:"max_disappeared"`

	// MaxDistance is the pixel distance ceiling for a valid match. Tune it
	// relative to object size and frame rate.
	MaxDistance float64 `yaml:"max_distance"`

	// HistorySize bounds the per-track centroid history.
	HistorySize int `yaml:"history_size"`
}

// CountingConfig configures the zone engine.
type CountingConfig struct {
	// MinTrackLength is the number of consecutive observed frames required
	// before a crossing counts.
	MinTrackLength int `yaml:"min_track_length"`
}

// Default returns the built-in configuration, matching the defaults the
// original deployment shipped with.
func Default() Config {
	return Config{
		Model: ModelConfig{
			ConfidenceThreshold: 0.5,
			NMSThreshold:        0.45,
			InputSize:           640,
			TargetClass:         "pizza",
		},
		Tracking: TrackingConfig{
			MaxDisappeared: 30,
			MaxDistance:    50,
			HistorySize:    8,
		},
		Counting: CountingConfig{
			MinTrackLength: 5,
		},
	}
}

// Load reads a YAML config file and merges it over the defaults: any key
// absent from the file keeps its default value.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	if c.Model.ConfidenceThreshold < 0 || c.Model.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence_threshold %f outside [0, 1]", c.Model.ConfidenceThreshold)
	}
	if c.Tracking.MaxDisappeared < 0 {
		return fmt.Errorf("max_disappeared %d is negative", c.Tracking.MaxDisappeared)
	}
	if c.Tracking.MaxDistance <= 0 {
		return fmt.Errorf("max_distance %f must be positive", c.Tracking.MaxDistance)
	}
	if c.Counting.MinTrackLength < 1 {
		return fmt.Errorf("min_track_length %d must be at least 1", c.Counting.MinTrackLength)
	}
	return nil
}
