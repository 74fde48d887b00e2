// Package track owns the set of live tracks and their lifecycle, and the
// matcher that assigns each frame's detections to them.
package track

import (
	"fmt"
	"math"
	"sort"

	"github.com/bmharper/ringbuffer"

	"github.com/Hihi1310/pizza-counter/internal/geom"
)

// DefaultHistorySize is the number of recent centroids retained per track
// when no size is configured.
const DefaultHistorySize = 8

// Track is a persistent identity assigned to one physical object across
// frames. All mutation goes through the owning Table; other packages see
// tracks read-only.
type Track struct {
	id       int
	centroid geom.Point
	box      geom.Rect
	history  ringbuffer.RingP[geom.Point]
	missing  int
	observed int

	// Per-zone membership and counted state, maintained by the zone engine.
	// inside holds the last evaluated membership; a zone absent from the map
	// has not been evaluated for this track yet.
	inside  map[string]bool
	counted map[string]bool
}

// ID returns the track's unique identity.
func (t *Track) ID() int { return t.id }

// Centroid returns the track's current centroid.
func (t *Track) Centroid() geom.Point { return t.centroid }

// Box returns the bounding box of the track's most recent detection.
func (t *Track) Box() geom.Rect { return t.box }

// Missing returns the number of consecutive frames with no matching detection.
func (t *Track) Missing() int { return t.missing }

// Observed returns the total number of frames this track has been detected in.
func (t *Track) Observed() int { return t.observed }

// History returns the retained recent centroids, oldest first.
func (t *Track) History() []geom.Point {
	pts := make([]geom.Point, t.history.Len())
	for i := 0; i < t.history.Len(); i++ {
		pts[i] = t.history.Peek(i)
	}
	return pts
}

// HasZoneState reports whether the zone engine has evaluated this track
// against the named zone before.
func (t *Track) HasZoneState(zone string) bool {
	_, ok := t.inside[zone]
	return ok
}

// Inside returns the last recorded membership for the named zone.
func (t *Track) Inside(zone string) bool {
	return t.inside[zone]
}

// SetInside records the track's membership for the named zone.
func (t *Track) SetInside(zone string, inside bool) {
	t.inside[zone] = inside
}

// Counted reports whether this track has already produced a count for the
// given zone and direction.
func (t *Track) Counted(zone, direction string) bool {
	return t.counted[zone+"\x00"+direction]
}

// CountedAny reports whether this track has produced any count at all.
func (t *Track) CountedAny() bool {
	return len(t.counted) > 0
}

// MarkCounted records that this track has been counted for the given zone
// and direction. Counting the same pair twice is an invariant violation and
// panics: silently over-counting would defeat the purpose of the system.
func (t *Track) MarkCounted(zone, direction string) {
	key := zone + "\x00" + direction
	if t.counted[key] {
		panic(fmt.Sprintf("track %d counted twice for zone %q direction %q", t.id, zone, direction))
	}
	t.counted[key] = true
}

// Table is the authoritative set of live tracks for one stream. It is owned
// by a single pipeline and requires no locking.
type Table struct {
	nextID      int
	tracks      map[int]*Track
	historySize int
}

// NewTable creates an empty track table. historySize bounds the per-track
// centroid history; values <= 0 fall back to DefaultHistorySize.
func NewTable(historySize int) *Table {
	if historySize <= 0 {
		historySize = DefaultHistorySize
	}
	return &Table{
		nextID:      1,
		tracks:      map[int]*Track{},
		historySize: nextPowerOf2(historySize),
	}
}

// Create allocates the next identity and inserts a new track at the given
// position. The new track counts as observed once.
func (tb *Table) Create(centroid geom.Point, box geom.Rect) *Track {
	id := tb.nextID
	tb.nextID++
	if _, exists := tb.tracks[id]; exists {
		panic(fmt.Sprintf("duplicate track identity %d", id))
	}
	t := &Track{
		id:       id,
		centroid: centroid,
		box:      box,
		history:  ringbuffer.NewRingP[geom.Point](tb.historySize),
		observed: 1,
		inside:   map[string]bool{},
		counted:  map[string]bool{},
	}
	t.history.Add(centroid)
	tb.tracks[id] = t
	return t
}

// Update overwrites the track's position, appends to its history, resets the
// missing counter and increments the observed counter.
func (tb *Table) Update(id int, centroid geom.Point, box geom.Rect) {
	t := tb.mustGet(id)
	t.centroid = centroid
	t.box = box
	t.history.Add(centroid)
	t.missing = 0
	t.observed++
}

// MarkMissing increments the track's missing counter without moving it.
func (tb *Table) MarkMissing(id int) {
	tb.mustGet(id).missing++
}

// PruneExpired removes every track whose missing counter exceeds
// maxDisappeared, and returns how many were removed. Disappearance is
// silent: no events fire, only zone entry and exit do.
func (tb *Table) PruneExpired(maxDisappeared int) int {
	removed := 0
	for id, t := range tb.tracks {
		if t.missing > maxDisappeared {
			delete(tb.tracks, id)
			removed++
		}
	}
	return removed
}

// Get returns the track with the given identity, or nil.
func (tb *Table) Get(id int) *Track {
	return tb.tracks[id]
}

// Len returns the number of live tracks.
func (tb *Table) Len() int {
	return len(tb.tracks)
}

// Tracks returns the live tracks ordered by ascending identity. The stable
// order makes matching and zone evaluation deterministic across runs.
func (tb *Table) Tracks() []*Track {
	out := make([]*Track, 0, len(tb.tracks))
	for _, t := range tb.tracks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func (tb *Table) mustGet(id int) *Track {
	t := tb.tracks[id]
	if t == nil {
		panic(fmt.Sprintf("unknown track identity %d", id))
	}
	return t
}

func nextPowerOf2(n int) int {
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}
