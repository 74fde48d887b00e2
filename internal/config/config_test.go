package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Tracking.MaxDisappeared != 30 {
		t.Errorf("MaxDisappeared = %d, want 30", cfg.Tracking.MaxDisappeared)
	}
	if cfg.Tracking.MaxDistance != 50 {
		t.Errorf("MaxDistance = %f, want 50", cfg.Tracking.MaxDistance)
	}
	if cfg.Counting.MinTrackLength != 5 {
		t.Errorf("MinTrackLength = %d, want 5", cfg.Counting.MinTrackLength)
	}
	if cfg.Model.ConfidenceThreshold != 0.5 {
		t.Errorf("ConfidenceThreshold = %f, want 0.5", cfg.Model.ConfidenceThreshold)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
tracking:
  max_distance: 75
counting:
  min_track_length: 3
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Tracking.MaxDistance != 75 {
		t.Errorf("MaxDistance = %f, want 75 (from file)", cfg.Tracking.MaxDistance)
	}
	if cfg.Counting.MinTrackLength != 3 {
		t.Errorf("MinTrackLength = %d, want 3 (from file)", cfg.Counting.MinTrackLength)
	}
	// Untouched keys keep their defaults.
	if cfg.Tracking.MaxDisappeared != 30 {
		t.Errorf("MaxDisappeared = %d, want default 30", cfg.Tracking.MaxDisappeared)
	}
	if cfg.Model.ConfidenceThreshold != 0.5 {
		t.Errorf("ConfidenceThreshold = %f, want default 0.5", cfg.Model.ConfidenceThreshold)
	}
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
model:
  path: models/best.onnx
  confidence_threshold: 0.6
  target_class: pizza
tracking:
  max_disappeared: 45
  max_distance: 60
  history_size: 16
counting:
  min_track_length: 8
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Model.Path != "models/best.onnx" {
		t.Errorf("Model.Path = %q", cfg.Model.Path)
	}
	if cfg.Tracking.MaxDisappeared != 45 || cfg.Tracking.HistorySize != 16 {
		t.Errorf("Tracking = %+v", cfg.Tracking)
	}
	if cfg.Counting.MinTrackLength != 8 {
		t.Errorf("MinTrackLength = %d", cfg.Counting.MinTrackLength)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() on missing file should fail")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name, content, want string
	}{
		{"bad confidence", "model:\n  confidence_threshold: 1.5\n", "confidence_threshold"},
		{"negative distance", "tracking:\n  max_distance: -5\n", "max_distance"},
		{"zero debounce", "counting:\n  min_track_length: 0\n", "min_track_length"},
	}
	for _, tt := range tests {
		path := writeConfig(t, tt.content)
		_, err := Load(path)
		if err == nil {
			t.Errorf("%s: Load() succeeded, want error", tt.name)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: error = %q, want mention of %q", tt.name, err, tt.want)
		}
	}
}
