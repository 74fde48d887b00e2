// Package zone defines operator-configured counting regions and the engine
// that converts zone membership transitions into count events.
package zone

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/Hihi1310/pizza-counter/internal/geom"
)

// Direction identifies which side of a zone crossing an event records.
type Direction string

const (
	// Enter is an OUTSIDE to INSIDE transition.
	Enter Direction = "enter"
	// Exit is an INSIDE to OUTSIDE transition.
	Exit Direction = "exit"
)

// Mode selects which transitions a zone counts.
type Mode string

const (
	// ModeEnter counts only entries.
	ModeEnter Mode = "enter"
	// ModeExit counts only exits.
	ModeExit Mode = "exit"
	// ModeBoth counts entries and exits.
	ModeBoth Mode = "both"
)

// ErrNoZones is returned when a zones file contains no usable zones.
var ErrNoZones = errors.New("no zones configured")

// Zone is an immutable polygonal counting region. Zones are loaded once
// before stream processing begins and never mutated during a run.
type Zone struct {
	Name    string
	Polygon geom.Polygon
	Mode    Mode
}

// CountsEnter reports whether this zone counts OUTSIDE to INSIDE transitions.
func (z *Zone) CountsEnter() bool { return z.Mode == ModeEnter || z.Mode == ModeBoth }

// CountsExit reports whether this zone counts INSIDE to OUTSIDE transitions.
func (z *Zone) CountsExit() bool { return z.Mode == ModeExit || z.Mode == ModeBoth }

// Validate rejects malformed zones at load time so that geometry during the
// run never has to handle them.
func (z *Zone) Validate() error {
	if z.Name == "" {
		return errors.New("zone has no name")
	}
	if len(z.Polygon) < 3 {
		return fmt.Errorf("zone %q: polygon has %d vertices, need at least 3", z.Name, len(z.Polygon))
	}
	if z.Polygon.Area() == 0 {
		return fmt.Errorf("zone %q: polygon has zero area", z.Name)
	}
	switch z.Mode {
	case ModeEnter, ModeExit, ModeBoth:
	default:
		return fmt.Errorf("zone %q: unknown direction %q", z.Name, z.Mode)
	}
	return nil
}

// zoneEntry is the on-disk form. Two shapes are accepted: a polygon entry
// with explicit vertices, and the legacy rectangle entry written by the
// original zone setup tool.
type zoneEntry struct {
	Name        string       `json:"name"`
	Direction   Mode         `json:"direction"`
	Polygon     [][2]float64 `json:"polygon"`
	Type        string       `json:"type"`
	Coordinates []float64    `json:"coordinates"`
}

type zonesFile struct {
	Zones []zoneEntry `json:"zones"`
}

// Load reads and validates a zones JSON file. It fails, rather than
// recovers, on any malformed zone: counting against a bad region is a fatal
// setup error.
func Load(path string) ([]Zone, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read zones file: %w", err)
	}
	zones, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("zones file %s: %w", path, err)
	}
	return zones, nil
}

// Parse decodes zones from JSON and validates every entry.
func Parse(raw []byte) ([]Zone, error) {
	var file zonesFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, err
	}
	if len(file.Zones) == 0 {
		return nil, ErrNoZones
	}

	zones := make([]Zone, 0, len(file.Zones))
	names := map[string]bool{}
	for i, entry := range file.Zones {
		z, err := entry.toZone(i)
		if err != nil {
			return nil, err
		}
		if err := z.Validate(); err != nil {
			return nil, err
		}
		if names[z.Name] {
			return nil, fmt.Errorf("duplicate zone name %q", z.Name)
		}
		names[z.Name] = true
		zones = append(zones, z)
	}
	return zones, nil
}

func (e zoneEntry) toZone(index int) (Zone, error) {
	z := Zone{Name: e.Name, Mode: e.Direction}
	if z.Name == "" {
		z.Name = fmt.Sprintf("zone_%d", index+1)
	}
	if z.Mode == "" {
		z.Mode = ModeEnter
	}

	switch {
	case len(e.Polygon) > 0:
		for _, v := range e.Polygon {
			z.Polygon = append(z.Polygon, geom.Point{X: v[0], Y: v[1]})
		}
	case e.Type == "rectangle":
		if len(e.Coordinates) != 4 {
			return Zone{}, fmt.Errorf("zone %q: rectangle needs 4 coordinates, got %d", z.Name, len(e.Coordinates))
		}
		x1, y1, x2, y2 := e.Coordinates[0], e.Coordinates[1], e.Coordinates[2], e.Coordinates[3]
		z.Polygon = geom.Polygon{{X: x1, Y: y1}, {X: x2, Y: y1}, {X: x2, Y: y2}, {X: x1, Y: y2}}
	default:
		return Zone{}, fmt.Errorf("zone %q: no polygon or rectangle coordinates", z.Name)
	}
	return z, nil
}
