package render

import (
	"fmt"
	"math"

	"github.com/himanishpuri/erasviz/pkg/erasviz/scale"
	"github.com/himanishpuri/erasviz/pkg/models"
)

// TrackFiveChart draws one small panel per album with danceability by
// track number. Track 5 of every album is colored whatever the highlight;
// the "track-five" storyboard selector emphasizes them.
type TrackFiveChart struct {
	themed
	Margin  Margin
	Order   []string
	Columns int
	Radius  float64
}

func NewTrackFiveChart(th *Theme) *TrackFiveChart {
	return &TrackFiveChart{
		themed:  themed{th},
		Margin:  Margin{Top: 20, Right: 10, Bottom: 20, Left: 10},
		Order:   models.ReleaseOrder,
		Columns: 3,
		Radius:  3,
	}
}

func (c *TrackFiveChart) Name() string { return "trackfive" }

func (c *TrackFiveChart) Layout(f Frame, size Size) []Mark {
	numbered := models.Filter(f.Tracks, func(t models.Track) bool { return t.TrackNumber > 0 })
	if len(numbered) == 0 {
		return nil
	}
	th := c.theme()
	eras, groups := models.Setlist(numbered).ByEra()
	eras = sortedEras(eras, c.Order)

	cols := max(1, min(c.Columns, len(eras)))
	rows := int(math.Ceil(float64(len(eras)) / float64(cols)))
	x0, y0, x1, y1 := c.Margin.inner(size)
	cellW := (x1 - x0) / float64(cols)
	cellH := (y1 - y0) / float64(rows)

	maxTrack := 1
	for _, t := range numbered {
		maxTrack = max(maxTrack, t.TrackNumber)
	}

	var marks, front []Mark
	for i, era := range eras {
		cx := x0 + float64(i%cols)*cellW
		cy := y0 + float64(i/cols)*cellH
		x := scale.NewLinear(1, float64(maxTrack), cx+12, cx+cellW-12)
		y := scale.NewLinear(0, 1, cy+cellH-12, cy+20)

		marks = append(marks,
			Mark{Key: "panel-" + era, Kind: KindRect, TrackID: -1,
				X: cx + 2, Y: cy + 2, W: cellW - 4, H: cellH - 4, Fill: models.EraColor(era, th.Muted), Opacity: 0.12},
			Mark{Key: "panel-title-" + era, Kind: KindText, TrackID: -1,
				X: cx + 8, Y: cy + 14, Text: era, Anchor: "start", FontSize: 11, Fill: th.Ink, Opacity: 1},
		)
		for _, t := range groups[era] {
			e := Classify(t.ID, f.Highlight)
			fill := th.Ink
			if t.IsTrackFive() {
				fill = th.TrackFive
			}
			dot := styled(Mark{
				Key:     fmt.Sprintf("track-%d", t.ID),
				Kind:    KindCircle,
				TrackID: t.ID,
				X:       x.Scale(float64(t.TrackNumber)),
				Y:       y.Scale(t.Danceability),
				Fill:    fill,
			}, e, c.Radius, th)
			if e == Emphasized {
				front = append(front, dot)
			} else {
				marks = append(marks, dot)
			}
		}
	}
	return append(marks, front...)
}
