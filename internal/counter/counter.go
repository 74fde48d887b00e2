// Package counter implements the per-frame pipeline: filter detections,
// match them to tracks, evaluate zones and collect count events.
package counter

import (
	"time"

	"github.com/Hihi1310/pizza-counter/internal/detector"
	"github.com/Hihi1310/pizza-counter/internal/geom"
	"github.com/Hihi1310/pizza-counter/internal/track"
	"github.com/Hihi1310/pizza-counter/internal/zone"
)

// Config holds the tunable parameters of one counting run.
type Config struct {
	// MaxDisappeared is the number of frames a track survives without a
	// matching detection.
	MaxDisappeared int

	// MaxDistance is the pixel distance ceiling for a valid match.
	MaxDistance float64

	// MinTrackLength is the debounce: consecutive observed frames required
	// before a crossing counts.
	MinTrackLength int

	// ConfidenceThreshold drops detections below this score at the pipeline
	// entry.
	ConfidenceThreshold float64

	// TargetClass, when non-empty, keeps only detections with this label.
	TargetClass string

	// HistorySize bounds the per-track centroid history.
	HistorySize int
}

// TrackView is a read-only snapshot of one live track, exposed for external
// renderers. Mutating a TrackView has no effect on the engine.
type TrackView struct {
	ID       int        `json:"id"`
	Centroid geom.Point `json:"centroid"`
	Box      geom.Rect  `json:"box"`
	Counted  bool       `json:"counted"`
}

// Counter is the counting engine for a single stream. It owns all mutable
// state and must be driven from one goroutine: frame N completes fully
// before frame N+1 starts.
type Counter struct {
	config  Config
	table   *track.Table
	matcher *track.Matcher
	engine  *zone.Engine
	frame   int
	events  []zone.CountEvent
}

// New creates a counter for the given zones. Zone validation failures are
// fatal setup errors: the run does not start.
func New(config Config, zones []zone.Zone) (*Counter, error) {
	engine, err := zone.NewEngine(zones, config.MinTrackLength)
	if err != nil {
		return nil, err
	}
	return &Counter{
		config: config,
		table:  track.NewTable(config.HistorySize),
		matcher: &track.Matcher{
			MaxDistance:    config.MaxDistance,
			MaxDisappeared: config.MaxDisappeared,
		},
		engine: engine,
	}, nil
}

// ProcessFrame runs the full pipeline for one frame's detections and returns
// the count events it raised. An empty detection set is a normal state: all
// tracks age. Events are returned only after all mutations for the frame
// complete, so each call is atomic with respect to observable state.
func (c *Counter) ProcessFrame(detections []detector.Detection) []zone.CountEvent {
	c.frame++

	filtered := make([]detector.Detection, 0, len(detections))
	for _, d := range detections {
		if !d.Valid() {
			continue
		}
		if d.Confidence < c.config.ConfidenceThreshold {
			continue
		}
		if c.config.TargetClass != "" && d.Class != c.config.TargetClass {
			continue
		}
		filtered = append(filtered, d)
	}

	c.matcher.Assign(c.table, filtered)

	events := c.engine.Evaluate(c.table.Tracks(), c.frame, time.Now())
	c.events = append(c.events, events...)
	return events
}

// Snapshot returns a read-only view of the live tracks, ordered by identity.
func (c *Counter) Snapshot() []TrackView {
	tracks := c.table.Tracks()
	out := make([]TrackView, len(tracks))
	for i, t := range tracks {
		out[i] = TrackView{
			ID:       t.ID(),
			Centroid: t.Centroid(),
			Box:      t.Box(),
			Counted:  t.CountedAny(),
		}
	}
	return out
}

// Events returns every count event raised so far, in emission order.
func (c *Counter) Events() []zone.CountEvent {
	out := make([]zone.CountEvent, len(c.events))
	copy(out, c.events)
	return out
}

// Totals returns the running per-zone, per-direction counts.
func (c *Counter) Totals() map[string]map[zone.Direction]int {
	return c.engine.Totals()
}

// Total returns the overall count across all zones and directions.
func (c *Counter) Total() int {
	return c.engine.Total()
}

// Zones returns the configured zones.
func (c *Counter) Zones() []zone.Zone {
	return c.engine.Zones()
}

// FramesProcessed returns the number of frames processed so far.
func (c *Counter) FramesProcessed() int {
	return c.frame
}

// LiveTracks returns the number of tracks currently in the table.
func (c *Counter) LiveTracks() int {
	return c.table.Len()
}
