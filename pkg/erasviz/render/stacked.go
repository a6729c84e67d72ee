package render

import (
	"fmt"

	"github.com/himanishpuri/erasviz/pkg/erasviz/scale"
	"github.com/himanishpuri/erasviz/pkg/models"
)

// Stack segment keys, bottom to top.
const (
	AboveAverage = "Above Average"
	BelowAverage = "Below Average"
)

// EraShare is one stacked bar: the share of an era's tracks above and
// below the overall mean danceability.
type EraShare struct {
	Era      string  `json:"era"`
	Above    int     `json:"above"`
	Below    int     `json:"below"`
	AbovePct float64 `json:"above_pct"`
	BelowPct float64 `json:"below_pct"`
	TrackIDs []int   `json:"-"`
}

// Shares splits tracks around their mean danceability, per era. Eras follow
// order; eras missing from order come after, in first-seen order. Eras
// with no tracks are left out. The two percentages of a bar sum to 100.
func Shares(tracks []models.Track, order []string) []EraShare {
	if len(tracks) == 0 {
		return nil
	}
	mean := 0.0
	for _, t := range tracks {
		mean += t.Danceability
	}
	mean /= float64(len(tracks))

	eras, groups := models.Setlist(tracks).ByEra()
	var shares []EraShare
	for _, era := range sortedEras(eras, order) {
		s := EraShare{Era: era}
		for _, t := range groups[era] {
			if t.Danceability > mean {
				s.Above++
			} else {
				s.Below++
			}
			s.TrackIDs = append(s.TrackIDs, t.ID)
		}
		total := float64(s.Above + s.Below)
		s.AbovePct = float64(s.Above) / total * 100
		s.BelowPct = float64(s.Below) / total * 100
		shares = append(shares, s)
	}
	return shares
}

// sortedEras orders the eras present by order, unknown ones last.
func sortedEras(present, order []string) []string {
	have := make(map[string]bool, len(present))
	for _, e := range present {
		have[e] = true
	}
	out := make([]string, 0, len(present))
	for _, e := range order {
		if have[e] {
			out = append(out, e)
			delete(have, e)
		}
	}
	for _, e := range present {
		if have[e] {
			out = append(out, e)
		}
	}
	return out
}

// StackedBarChart shows per-era above/below-average shares with a bump
// line through the above-average tops.
type StackedBarChart struct {
	themed
	Margin Margin
	// Order is the era order on the x axis. Defaults to release order.
	Order []string
}

func NewStackedBarChart(th *Theme) *StackedBarChart {
	return &StackedBarChart{themed: themed{th}, Margin: defaultMargin, Order: models.ReleaseOrder}
}

func (c *StackedBarChart) Name() string { return "stacked" }

func (c *StackedBarChart) Layout(f Frame, size Size) []Mark {
	shares := Shares(f.Tracks, c.Order)
	if len(shares) == 0 {
		return nil
	}
	th := c.theme()
	x0, y0, x1, y1 := c.Margin.inner(size)

	keys := make([]string, len(shares))
	for i, s := range shares {
		keys[i] = s.Era
	}
	x := scale.NewBand(keys, x0, x1, 0.12, 0.06)
	y := scale.NewLinear(0, 100, y1, y0)

	var marks []Mark
	marks = append(marks, yAxis("y", y, x0, x1, 5, "%.0f%%", th)...)

	var tops []Point
	for _, s := range shares {
		left, _ := x.Start(s.Era)
		center, _ := x.Center(s.Era)
		e := ClassifyGroup(s.TrackIDs, f.Highlight)
		st := th.Style(e)

		// segments stack bottom to top in declared key order
		segments := []struct {
			key   string
			pct   float64
			color string
		}{
			{AboveAverage, s.AbovePct, th.Accent},
			{BelowAverage, s.BelowPct, th.Muted},
		}
		acc := 0.0
		for _, seg := range segments {
			top := y.Scale(acc + seg.pct)
			bottom := y.Scale(acc)
			marks = append(marks, Mark{
				Key: fmt.Sprintf("bar-%s-%s", s.Era, seg.key), Kind: KindRect, TrackID: -1, Emphasis: e,
				X: left, Y: top, W: x.Bandwidth(), H: bottom - top, Fill: seg.color,
				Opacity: st.Opacity, Stroke: st.Stroke, StrokeWidth: st.StrokeWidth,
			})
			acc += seg.pct
		}

		aboveTop := y.Scale(s.AbovePct)
		tops = append(tops, Point{center, aboveTop})
		marks = append(marks,
			Mark{Key: "pct-" + s.Era, Kind: KindText, TrackID: -1, Emphasis: e,
				X: center, Y: aboveTop - 6, Text: fmt.Sprintf("%.1f%%", s.AbovePct),
				Anchor: "middle", FontSize: 10, Fill: th.Ink, Opacity: 1},
			Mark{Key: "era-" + s.Era, Kind: KindText, TrackID: -1,
				X: center, Y: y1 + 16, Text: s.Era, Anchor: "middle", FontSize: 11, Fill: th.Axis, Opacity: 1},
		)
	}
	marks = append(marks, Mark{Key: "bump", Kind: KindPath, TrackID: -1,
		D: BumpX(tops), Stroke: th.Ink, StrokeWidth: 2, Opacity: 0.8})

	legendX := x1 - 140.0
	for i, seg := range []struct{ key, color string }{{AboveAverage, th.Accent}, {BelowAverage, th.Muted}} {
		ly := y0 + float64(i)*18
		marks = append(marks,
			Mark{Key: "legend-swatch-" + seg.key, Kind: KindRect, TrackID: -1, X: legendX, Y: ly, W: 12, H: 12, Fill: seg.color, Opacity: 1},
			Mark{Key: "legend-" + seg.key, Kind: KindText, TrackID: -1, X: legendX + 18, Y: ly + 10, Text: seg.key, Anchor: "start", FontSize: 11, Fill: th.Ink, Opacity: 1},
		)
	}
	return marks
}
