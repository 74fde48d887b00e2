package track

import (
	"testing"

	"github.com/Hihi1310/pizza-counter/internal/geom"
)

func TestTable_IdentitiesAreUniqueAndMonotonic(t *testing.T) {
	tb := NewTable(8)

	seen := map[int]bool{}
	last := 0
	for i := 0; i < 50; i++ {
		tr := tb.Create(geom.Point{X: float64(i), Y: 0}, geom.Rect{X: float64(i), Y: 0, Width: 10, Height: 10})
		if seen[tr.ID()] {
			t.Fatalf("identity %d assigned twice", tr.ID())
		}
		if tr.ID() <= last {
			t.Fatalf("identity %d not monotonically increasing after %d", tr.ID(), last)
		}
		seen[tr.ID()] = true
		last = tr.ID()
	}
	if tb.Len() != 50 {
		t.Errorf("Len() = %d, want 50", tb.Len())
	}
}

func TestTable_UpdateResetsMissing(t *testing.T) {
	tb := NewTable(8)
	tr := tb.Create(geom.Point{X: 10, Y: 10}, geom.Rect{X: 5, Y: 5, Width: 10, Height: 10})

	tb.MarkMissing(tr.ID())
	tb.MarkMissing(tr.ID())
	if tr.Missing() != 2 {
		t.Fatalf("Missing() = %d, want 2", tr.Missing())
	}

	tb.Update(tr.ID(), geom.Point{X: 12, Y: 11}, geom.Rect{X: 7, Y: 6, Width: 10, Height: 10})
	if tr.Missing() != 0 {
		t.Errorf("Missing() after update = %d, want 0", tr.Missing())
	}
	if tr.Observed() != 2 {
		t.Errorf("Observed() = %d, want 2", tr.Observed())
	}
	if c := tr.Centroid(); c.X != 12 || c.Y != 11 {
		t.Errorf("Centroid() = %v, want {12 11}", c)
	}
}

func TestTable_AgingCorrectness(t *testing.T) {
	// At exactly maxDisappeared missed frames the track survives; one more
	// and it is pruned.
	const maxDisappeared = 30

	tb := NewTable(8)
	tr := tb.Create(geom.Point{X: 0, Y: 0}, geom.Rect{Width: 10, Height: 10})

	for i := 0; i < maxDisappeared; i++ {
		tb.MarkMissing(tr.ID())
		tb.PruneExpired(maxDisappeared)
	}
	if tb.Get(tr.ID()) == nil {
		t.Fatalf("track pruned after %d missed frames, should survive", maxDisappeared)
	}

	tb.MarkMissing(tr.ID())
	removed := tb.PruneExpired(maxDisappeared)
	if removed != 1 {
		t.Fatalf("PruneExpired removed %d tracks, want 1", removed)
	}
	if tb.Get(tr.ID()) != nil {
		t.Errorf("track still present after %d missed frames", maxDisappeared+1)
	}
}

func TestTrack_HistoryIsBounded(t *testing.T) {
	tb := NewTable(4)
	tr := tb.Create(geom.Point{X: 0, Y: 0}, geom.Rect{Width: 10, Height: 10})

	for i := 1; i <= 20; i++ {
		tb.Update(tr.ID(), geom.Point{X: float64(i), Y: 0}, geom.Rect{X: float64(i), Width: 10, Height: 10})
	}

	hist := tr.History()
	if len(hist) != 4 {
		t.Fatalf("history length = %d, want 4", len(hist))
	}
	// Oldest retained entry first, most recent last.
	if hist[0].X != 17 || hist[3].X != 20 {
		t.Errorf("history = %v, want X from 17 to 20", hist)
	}
}

func TestTrack_ZoneState(t *testing.T) {
	tb := NewTable(8)
	tr := tb.Create(geom.Point{X: 0, Y: 0}, geom.Rect{Width: 10, Height: 10})

	if tr.HasZoneState("oven") {
		t.Error("new track should have no zone state")
	}
	tr.SetInside("oven", false)
	if !tr.HasZoneState("oven") || tr.Inside("oven") {
		t.Error("expected recorded OUTSIDE state for oven")
	}
	tr.SetInside("oven", true)
	if !tr.Inside("oven") {
		t.Error("expected INSIDE state for oven")
	}
}

func TestTrack_MarkCountedPanicsOnDoubleCount(t *testing.T) {
	tb := NewTable(8)
	tr := tb.Create(geom.Point{X: 0, Y: 0}, geom.Rect{Width: 10, Height: 10})

	tr.MarkCounted("oven", "enter")
	if !tr.Counted("oven", "enter") {
		t.Fatal("expected (oven, enter) to be counted")
	}
	if tr.Counted("oven", "exit") {
		t.Fatal("(oven, exit) should not be counted")
	}
	if !tr.CountedAny() {
		t.Fatal("CountedAny() should be true")
	}

	defer func() {
		if recover() == nil {
			t.Error("counting the same (zone, direction) twice should panic")
		}
	}()
	tr.MarkCounted("oven", "enter")
}

func TestTable_TracksOrderedByID(t *testing.T) {
	tb := NewTable(8)
	for i := 0; i < 10; i++ {
		tb.Create(geom.Point{X: float64(i)}, geom.Rect{Width: 10, Height: 10})
	}
	tracks := tb.Tracks()
	for i := 1; i < len(tracks); i++ {
		if tracks[i].ID() <= tracks[i-1].ID() {
			t.Fatalf("tracks not ordered by identity: %d after %d", tracks[i].ID(), tracks[i-1].ID())
		}
	}
}
