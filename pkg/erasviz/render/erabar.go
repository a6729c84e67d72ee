package render

import (
	"fmt"

	"github.com/himanishpuri/erasviz/pkg/erasviz/scale"
	"github.com/himanishpuri/erasviz/pkg/models"
)

type EraMean struct {
	Era      string  `json:"era"`
	Mean     float64 `json:"mean"`
	Count    int     `json:"count"`
	TrackIDs []int   `json:"-"`
}

// EraMeans averages danceability per era, ordered like Shares.
func EraMeans(tracks []models.Track, order []string) []EraMean {
	eras, groups := models.Setlist(tracks).ByEra()
	var out []EraMean
	for _, era := range sortedEras(eras, order) {
		m := EraMean{Era: era}
		for _, t := range groups[era] {
			m.Mean += t.Danceability
			m.TrackIDs = append(m.TrackIDs, t.ID)
		}
		m.Count = len(groups[era])
		m.Mean /= float64(m.Count)
		out = append(out, m)
	}
	return out
}

// EraBarChart is one bar per era at its mean danceability.
type EraBarChart struct {
	themed
	Margin Margin
	Order  []string
}

func NewEraBarChart(th *Theme) *EraBarChart {
	return &EraBarChart{themed: themed{th}, Margin: defaultMargin, Order: models.ReleaseOrder}
}

func (c *EraBarChart) Name() string { return "erabar" }

func (c *EraBarChart) Layout(f Frame, size Size) []Mark {
	means := EraMeans(f.Tracks, c.Order)
	if len(means) == 0 {
		return nil
	}
	th := c.theme()
	x0, y0, x1, y1 := c.Margin.inner(size)

	keys := make([]string, len(means))
	for i, m := range means {
		keys[i] = m.Era
	}
	x := scale.NewBand(keys, x0, x1, 0.3, 0.15)
	y := scale.NewLinear(0.3, 0.7, y1, y0)

	var marks []Mark
	marks = append(marks, yAxis("y", y, x0, x1, 4, "%.1f", th)...)
	for _, m := range means {
		left, _ := x.Start(m.Era)
		center, _ := x.Center(m.Era)
		e := ClassifyGroup(m.TrackIDs, f.Highlight)
		// bars below the axis floor are drawn as a sliver
		top := min(y.Scale(m.Mean), y1-1)
		st := th.Style(e)
		bar := Mark{
			Key: "bar-" + m.Era, Kind: KindRect, TrackID: -1, Emphasis: e,
			X: left, Y: top, W: x.Bandwidth(), H: y1 - top,
			Fill:    models.EraColor(m.Era, th.Muted),
			Opacity: st.Opacity, Stroke: st.Stroke, StrokeWidth: st.StrokeWidth,
		}
		marks = append(marks, bar,
			Mark{Key: "mean-" + m.Era, Kind: KindText, TrackID: -1, Emphasis: e,
				X: center, Y: top - 6, Text: fmt.Sprintf("%.3f", m.Mean), Anchor: "middle", FontSize: 10, Fill: th.Ink, Opacity: 1},
			Mark{Key: "era-" + m.Era, Kind: KindText, TrackID: -1,
				X: center, Y: y1 + 16, Text: m.Era, Anchor: "middle", FontSize: 11, Fill: th.Axis, Opacity: 1},
		)
	}
	return marks
}
