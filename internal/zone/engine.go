package zone

import (
	"time"

	"github.com/Hihi1310/pizza-counter/internal/track"
)

// CountEvent records one qualifying zone crossing by one track. Events are
// emitted at most once per (track, zone, direction) and never mutated.
type CountEvent struct {
	TrackID   int       `json:"track_id"`
	Zone      string    `json:"zone"`
	Direction Direction `json:"direction"`
	Frame     int       `json:"frame"`
	Timestamp time.Time `json:"timestamp"`
}

// Engine evaluates zone membership for every live track each frame and
// raises count events on qualifying transitions.
type Engine struct {
	zones []Zone

	// minTrackLength is the debounce: a crossing only counts once the track
	// has been observed in at least this many frames, so a single spurious
	// detection frame cannot register a crossing.
	minTrackLength int

	totals map[string]map[Direction]int
}

// NewEngine validates the zones and creates an engine. At least one zone is
// required; a malformed zone makes the whole run refuse to start.
func NewEngine(zones []Zone, minTrackLength int) (*Engine, error) {
	if len(zones) == 0 {
		return nil, ErrNoZones
	}
	totals := map[string]map[Direction]int{}
	for i := range zones {
		if err := zones[i].Validate(); err != nil {
			return nil, err
		}
		totals[zones[i].Name] = map[Direction]int{}
	}
	return &Engine{zones: zones, minTrackLength: minTrackLength, totals: totals}, nil
}

// Zones returns the configured zones.
func (e *Engine) Zones() []Zone {
	return e.zones
}

// Evaluate recomputes zone membership for every track from its current
// centroid and returns the count events raised by this frame's transitions.
//
// A track seen for the first time seeds its membership state from its
// current position without counting: a track born inside a zone only counts
// after it is later observed leaving and re-entering.
func (e *Engine) Evaluate(tracks []*track.Track, frame int, ts time.Time) []CountEvent {
	var events []CountEvent
	for _, t := range tracks {
		for i := range e.zones {
			z := &e.zones[i]
			isInside := z.Polygon.Contains(t.Centroid())

			if !t.HasZoneState(z.Name) {
				t.SetInside(z.Name, isInside)
				continue
			}
			wasInside := t.Inside(z.Name)
			if isInside == wasInside {
				continue
			}

			// Membership always updates; whether the transition counts is a
			// separate question.
			t.SetInside(z.Name, isInside)

			var dir Direction
			switch {
			case isInside && z.CountsEnter():
				dir = Enter
			case !isInside && z.CountsExit():
				dir = Exit
			default:
				continue
			}
			if t.Observed() < e.minTrackLength {
				continue
			}
			if t.Counted(z.Name, string(dir)) {
				continue
			}

			t.MarkCounted(z.Name, string(dir))
			e.totals[z.Name][dir]++
			events = append(events, CountEvent{
				TrackID:   t.ID(),
				Zone:      z.Name,
				Direction: dir,
				Frame:     frame,
				Timestamp: ts,
			})
		}
	}
	return events
}

// Totals returns the running per-zone, per-direction counts.
func (e *Engine) Totals() map[string]map[Direction]int {
	out := make(map[string]map[Direction]int, len(e.totals))
	for zone, byDir := range e.totals {
		out[zone] = map[Direction]int{}
		for dir, n := range byDir {
			out[zone][dir] = n
		}
	}
	return out
}

// Total returns the overall count across all zones and directions.
func (e *Engine) Total() int {
	n := 0
	for _, byDir := range e.totals {
		for _, c := range byDir {
			n += c
		}
	}
	return n
}
