package render

import (
	"fmt"

	"github.com/himanishpuri/erasviz/pkg/erasviz/scale"
	"github.com/himanishpuri/erasviz/pkg/models"
)

// SetlistChart draws danceability across the performed order. The line is
// split into one segment per contiguous era run, each sitting on a tinted
// band labelled with the era.
type SetlistChart struct {
	themed
	Margin Margin
	Radius float64
}

func NewSetlistChart(th *Theme) *SetlistChart {
	return &SetlistChart{themed: themed{th}, Margin: defaultMargin, Radius: 4}
}

func (c *SetlistChart) Name() string { return "setlist" }

func (c *SetlistChart) Layout(f Frame, size Size) []Mark {
	list := models.Setlist(f.Tracks)
	if len(list) == 0 {
		return nil
	}
	th := c.theme()
	x0, y0, x1, y1 := c.Margin.inner(size)

	x := scale.NewLinear(1, float64(len(list)), x0, x1)
	lo, hi, _ := scale.Extent(models.Danceabilities(list))
	y := scale.NewLinear(lo, hi, y1, y0+20).Nice(5)

	half := 0.0
	if len(list) > 1 {
		half = (x.Scale(2) - x.Scale(1)) / 2
	} else {
		half = (x1 - x0) / 2
	}

	var marks []Mark
	runs := list.EraRuns()
	for i, run := range runs {
		left := x.Scale(float64(list[run.Start].Position)) - half
		right := x.Scale(float64(list[run.End].Position)) + half
		color := models.EraColor(run.Era, th.Muted)
		marks = append(marks,
			Mark{Key: fmt.Sprintf("band-%d", i), Kind: KindRect, TrackID: -1,
				X: left, Y: y0, W: right - left, H: y1 - y0, Fill: color, Opacity: 0.15},
			Mark{Key: fmt.Sprintf("band-label-%d", i), Kind: KindText, TrackID: -1,
				X: (left + right) / 2, Y: y0 + 12, Text: run.Era, Anchor: "middle", FontSize: 10, Fill: th.Ink, Opacity: 1},
		)
	}
	marks = append(marks, yAxis("y", y, x0, x1, 5, "%.1f", th)...)
	marks = append(marks, axisTitle("x-title", "Setlist order", (x0+x1)/2, size.Height-10, "middle", th))

	for i, run := range runs {
		pts := make([]Point, 0, run.Len())
		for _, t := range list[run.Start : run.End+1] {
			pts = append(pts, Point{x.Scale(float64(t.Position)), y.Scale(t.Danceability)})
		}
		marks = append(marks, Mark{Key: fmt.Sprintf("segment-%d", i), Kind: KindPath, TrackID: -1,
			D: MonotoneX(pts), Stroke: models.EraColor(run.Era, th.Ink), StrokeWidth: 2, Opacity: 1})
	}

	var front []Mark
	for _, t := range list {
		e := Classify(t.ID, f.Highlight)
		fill := th.Ink
		if e == Emphasized {
			fill = th.Accent
		}
		dot := styled(Mark{
			Key:     fmt.Sprintf("track-%d", t.ID),
			Kind:    KindCircle,
			TrackID: t.ID,
			X:       x.Scale(float64(t.Position)),
			Y:       y.Scale(t.Danceability),
			Fill:    fill,
		}, e, c.Radius, th)
		if e == Emphasized {
			front = append(front, dot)
		} else {
			marks = append(marks, dot)
		}
	}
	return append(marks, front...)
}
