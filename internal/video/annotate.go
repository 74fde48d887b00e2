package video

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/Hihi1310/pizza-counter/internal/counter"
	"github.com/Hihi1310/pizza-counter/internal/zone"
)

var (
	colorCounted   = color.RGBA{G: 200, A: 255}
	colorUncounted = color.RGBA{R: 200, A: 255}
	colorZone      = color.RGBA{B: 255, A: 255}
	colorText      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Annotate draws the zone outlines, live track boxes and the running total
// onto a frame. Tracks that have produced a count event are drawn green,
// the rest red.
func Annotate(mat *gocv.Mat, zones []zone.Zone, tracks []counter.TrackView, total int) {
	for _, z := range zones {
		drawZone(mat, z)
	}

	for _, tr := range tracks {
		c := colorUncounted
		if tr.Counted {
			c = colorCounted
		}
		rect := image.Rect(
			int(tr.Box.X), int(tr.Box.Y),
			int(tr.Box.X+tr.Box.Width), int(tr.Box.Y+tr.Box.Height),
		)
		gocv.Rectangle(mat, rect, c, 2)
		label := fmt.Sprintf("#%d", tr.ID)
		gocv.PutText(mat, label, image.Pt(rect.Min.X, rect.Min.Y-6),
			gocv.FontHersheySimplex, 0.5, c, 1)
	}

	gocv.PutText(mat, fmt.Sprintf("count: %d", total), image.Pt(10, 30),
		gocv.FontHersheySimplex, 0.9, colorText, 2)
}

func drawZone(mat *gocv.Mat, z zone.Zone) {
	n := len(z.Polygon)
	for i := 0; i < n; i++ {
		a := z.Polygon[i]
		b := z.Polygon[(i+1)%n]
		gocv.Line(mat, image.Pt(int(a.X), int(a.Y)), image.Pt(int(b.X), int(b.Y)), colorZone, 2)
	}
	if n > 0 {
		p := z.Polygon[0]
		gocv.PutText(mat, z.Name, image.Pt(int(p.X)+4, int(p.Y)+18),
			gocv.FontHersheySimplex, 0.6, colorZone, 1)
	}
}
