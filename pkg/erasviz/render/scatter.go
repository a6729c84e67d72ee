package render

import (
	"fmt"
	"math"

	"github.com/himanishpuri/erasviz/pkg/erasviz/scale"
	"github.com/himanishpuri/erasviz/pkg/models"
)

const (
	playGlyph  = "▶"
	pauseGlyph = "⏸"
)

// ScatterChart plots danceability against peak chart rank, rank 1 at the
// top. Unranked tracks are left out. Weeks on chart, when known, widens
// the dot.
type ScatterChart struct {
	themed
	Margin Margin
	// Radius is the base dot radius.
	Radius float64
}

func NewScatterChart(th *Theme) *ScatterChart {
	return &ScatterChart{themed: themed{th}, Margin: defaultMargin, Radius: 8}
}

func (c *ScatterChart) Name() string { return "scatter" }

// Scales returns the x (danceability) and y (peak rank) scales for size.
// The x domain is [0.3, 1] widened to cover the data and rounded.
func (c *ScatterChart) Scales(tracks []models.Track, size Size) (x, y scale.Linear) {
	x0, y0, x1, y1 := c.Margin.inner(size)
	lo, hi := 0.3, 1.0
	if dlo, dhi, ok := scale.Extent(models.Danceabilities(tracks)); ok {
		lo, hi = math.Min(lo, dlo), math.Max(hi, dhi)
	}
	x = scale.NewLinear(lo, hi, x0, x1).Nice(5)
	y = scale.NewLinear(200, 1, y1, y0)
	return x, y
}

func (c *ScatterChart) Layout(f Frame, size Size) []Mark {
	ranked := models.Filter(f.Tracks, models.Track.Ranked)
	if len(ranked) == 0 {
		return nil
	}
	th := c.theme()
	x, y := c.Scales(ranked, size)
	x0, y0, x1, y1 := c.Margin.inner(size)

	var marks []Mark
	marks = append(marks, yAxis("y", y, x0, x1, 5, "%.0f", th)...)
	marks = append(marks, xAxis("x", x, y1, 5, "%.1f", th)...)
	marks = append(marks,
		axisTitle("x-title", "Danceability", (x0+x1)/2, size.Height-10, "middle", th),
		axisTitle("y-title", "Peak Rank", x0, y0-12, "start", th),
		Mark{Key: "trend", Kind: KindLine, TrackID: -1,
			X: x.Scale(0.55), Y: y.Scale(0), X2: x.Scale(0.82), Y2: y.Scale(200),
			Stroke: th.Ink, StrokeWidth: 1.5, Dash: "6,4", Opacity: 0.6},
	)

	weeks := weekRadius(ranked)
	var front []Mark
	for _, t := range ranked {
		e := Classify(t.ID, f.Highlight)
		dot := styled(Mark{
			Key:     fmt.Sprintf("track-%d", t.ID),
			Kind:    KindCircle,
			TrackID: t.ID,
			X:       x.Scale(t.Danceability),
			Y:       y.Scale(float64(t.PeakRank)),
			Fill:    models.EraColor(t.Album, th.Ink),
		}, e, c.Radius*weeks(t), th)

		if e != Emphasized {
			marks = append(marks, dot)
			continue
		}
		glyph := playGlyph
		if f.Playing == t.ID {
			glyph = pauseGlyph
		}
		front = append(front, dot,
			Mark{Key: fmt.Sprintf("glyph-%d", t.ID), Kind: KindText, TrackID: t.ID, Emphasis: e,
				X: dot.X, Y: dot.Y + 4, Text: glyph, Anchor: "middle", FontSize: 11, Fill: "#ffffff", Opacity: 1},
			Mark{Key: fmt.Sprintf("label-%d", t.ID), Kind: KindText, TrackID: t.ID, Emphasis: e,
				X: dot.X + dot.R + 4, Y: dot.Y + 4, Text: t.Title, Anchor: "start", FontSize: 11, Fill: th.Ink, Opacity: 1},
		)
	}
	// emphasized dots draw last so they sit on top
	return append(marks, front...)
}

// weekRadius returns a radius factor in [0.75, 1.5] from weeks on chart,
// square-root scaled so area tracks the count. Tracks without weeks get 1.
func weekRadius(tracks []models.Track) func(models.Track) float64 {
	maxWeeks := 0
	for _, t := range tracks {
		if t.HasWeeks() && t.WeeksOnChart > maxWeeks {
			maxWeeks = t.WeeksOnChart
		}
	}
	if maxWeeks == 0 {
		return func(models.Track) float64 { return 1 }
	}
	s := scale.NewLinear(0, math.Sqrt(float64(maxWeeks)), 0.75, 1.5)
	return func(t models.Track) float64 {
		if !t.HasWeeks() {
			return 1
		}
		return s.Scale(math.Sqrt(float64(t.WeeksOnChart)))
	}
}
