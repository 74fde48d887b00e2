package zone

import (
	"errors"
	"strings"
	"testing"
)

func TestParse_PolygonZones(t *testing.T) {
	raw := []byte(`{
		"zones": [
			{"name": "oven", "direction": "enter", "polygon": [[100, 100], [300, 100], [300, 250], [100, 250]]},
			{"name": "packaging", "direction": "both", "polygon": [[400, 50], [600, 80], [550, 300]]}
		]
	}`)

	zones, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(zones) != 2 {
		t.Fatalf("got %d zones, want 2", len(zones))
	}

	oven := zones[0]
	if oven.Name != "oven" || len(oven.Polygon) != 4 {
		t.Errorf("oven zone = %+v", oven)
	}
	if !oven.CountsEnter() || oven.CountsExit() {
		t.Errorf("oven should count enter only, mode = %q", oven.Mode)
	}

	packaging := zones[1]
	if !packaging.CountsEnter() || !packaging.CountsExit() {
		t.Errorf("packaging should count both directions, mode = %q", packaging.Mode)
	}
}

func TestParse_LegacyRectangle(t *testing.T) {
	// The original zone setup tool wrote rectangles as [x1, y1, x2, y2].
	raw := []byte(`{
		"zones": [
			{"type": "rectangle", "coordinates": [100, 200, 400, 500], "name": "prep_area"}
		]
	}`)

	zones, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(zones) != 1 {
		t.Fatalf("got %d zones, want 1", len(zones))
	}

	z := zones[0]
	if z.Name != "prep_area" {
		t.Errorf("Name = %q, want prep_area", z.Name)
	}
	if len(z.Polygon) != 4 {
		t.Fatalf("rectangle should expand to 4 vertices, got %d", len(z.Polygon))
	}
	if z.Mode != ModeEnter {
		t.Errorf("legacy rectangle should default to enter mode, got %q", z.Mode)
	}
	if got := z.Polygon.Area(); got != 300*300 {
		t.Errorf("Area() = %f, want 90000", got)
	}
}

func TestParse_DefaultsName(t *testing.T) {
	raw := []byte(`{"zones": [{"polygon": [[0,0],[10,0],[10,10]]}]}`)
	zones, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if zones[0].Name != "zone_1" {
		t.Errorf("Name = %q, want zone_1", zones[0].Name)
	}
}

func TestParse_Rejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"no zones", `{"zones": []}`, "no zones"},
		{"too few vertices", `{"zones": [{"name": "a", "polygon": [[0,0],[10,0]]}]}`, "at least 3"},
		{"zero area", `{"zones": [{"name": "a", "polygon": [[0,0],[5,5],[10,10]]}]}`, "zero area"},
		{"bad direction", `{"zones": [{"name": "a", "direction": "sideways", "polygon": [[0,0],[10,0],[10,10]]}]}`, "unknown direction"},
		{"bad rectangle", `{"zones": [{"name": "a", "type": "rectangle", "coordinates": [1, 2]}]}`, "4 coordinates"},
		{"no geometry", `{"zones": [{"name": "a"}]}`, "no polygon"},
		{"duplicate names", `{"zones": [{"name": "a", "polygon": [[0,0],[10,0],[10,10]]}, {"name": "a", "polygon": [[0,0],[10,0],[10,10]]}]}`, "duplicate"},
	}
	for _, tt := range tests {
		_, err := Parse([]byte(tt.raw))
		if err == nil {
			t.Errorf("%s: Parse() succeeded, want error", tt.name)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: error = %q, want it to mention %q", tt.name, err, tt.want)
		}
	}
}

func TestParse_NoZonesSentinel(t *testing.T) {
	_, err := Parse([]byte(`{"zones": []}`))
	if !errors.Is(err, ErrNoZones) {
		t.Errorf("error = %v, want ErrNoZones", err)
	}
}

func TestLoad_File(t *testing.T) {
	zones, err := Load("testdata/zones.json")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(zones) != 2 {
		t.Fatalf("got %d zones, want 2", len(zones))
	}
	if zones[0].Name != "baking_counter" || zones[1].Name != "packaging" {
		t.Errorf("zone names = %q, %q", zones[0].Name, zones[1].Name)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("testdata/does-not-exist.json"); err == nil {
		t.Error("Load() on missing file should fail")
	}
}
