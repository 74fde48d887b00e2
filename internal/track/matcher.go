package track

import (
	"gonum.org/v1/gonum/mat"

	"github.com/Hihi1310/pizza-counter/internal/detector"
	"github.com/Hihi1310/pizza-counter/internal/geom"
)

// Matcher resolves the correspondence between one frame's detections and the
// existing tracks using greedy nearest-centroid assignment.
//
// Greedy assignment is preferred over optimal bipartite matching here:
// detection counts per frame are small and near-duplicate matches are rare,
// so the O(n*m) scan per committed pair is both fast enough and accurate
// enough for this domain.
type Matcher struct {
	// MaxDistance is the pixel distance ceiling for a valid match. It must
	// be tuned relative to object size and frame rate.
	MaxDistance float64

	// MaxDisappeared is the number of frames a track survives without a
	// matching detection before PruneExpired removes it.
	MaxDisappeared int
}

// Assign matches detections to tracks in the table, spawns a new track for
// every unmatched detection, ages every unmatched track, and prunes expired
// tracks. An empty detection set and an empty table are both normal states.
//
// Ties on distance are broken toward the lower track identity, then the
// lower detection index, so identical inputs always produce identical
// assignments.
func (m *Matcher) Assign(tb *Table, detections []detector.Detection) {
	tracks := tb.Tracks()

	trackUsed := make([]bool, len(tracks))
	detUsed := make([]bool, len(detections))

	if len(tracks) > 0 && len(detections) > 0 {
		dist := mat.NewDense(len(tracks), len(detections), nil)
		for i, t := range tracks {
			for j := range detections {
				dist.Set(i, j, geom.Distance(t.Centroid(), detections[j].Centroid()))
			}
		}

		// Commit the globally smallest remaining distance until nothing
		// under the ceiling is left or one side is exhausted.
		for {
			bestI, bestJ := -1, -1
			best := m.MaxDistance
			for i := range tracks {
				if trackUsed[i] {
					continue
				}
				for j := range detections {
					if detUsed[j] {
						continue
					}
					if d := dist.At(i, j); d < best || (d == best && bestI == -1) {
						best = d
						bestI, bestJ = i, j
					}
				}
			}
			if bestI == -1 {
				break
			}
			trackUsed[bestI] = true
			detUsed[bestJ] = true
			tb.Update(tracks[bestI].ID(), detections[bestJ].Centroid(), detections[bestJ].Box)
		}
	}

	for j := range detections {
		if !detUsed[j] {
			tb.Create(detections[j].Centroid(), detections[j].Box)
		}
	}
	for i, t := range tracks {
		if !trackUsed[i] {
			tb.MarkMissing(t.ID())
		}
	}
	tb.PruneExpired(m.MaxDisappeared)
}
