package erasviz

import (
	"fmt"
	"sort"

	"github.com/himanishpuri/erasviz/pkg/erasviz/highlight"
	"github.com/himanishpuri/erasviz/pkg/erasviz/render"
	"github.com/himanishpuri/erasviz/pkg/models"
)

const (
	ChartScatter   = "scatter"
	ChartSetlist   = "setlist"
	ChartStacked   = "stacked"
	ChartEraBar    = "erabar"
	ChartTrackFive = "trackfive"
	ChartWaveform  = "waveform"
)

var chartFactories = map[string]func(th *render.Theme) render.Chart{
	ChartScatter: func(th *render.Theme) render.Chart { return render.NewScatterChart(th) },
	ChartSetlist: func(th *render.Theme) render.Chart { return render.NewSetlistChart(th) },
	ChartStacked: func(th *render.Theme) render.Chart {
		c := render.NewStackedBarChart(th)
		c.Order = models.TourOrder
		return c
	},
	ChartEraBar:    func(th *render.Theme) render.Chart { return render.NewEraBarChart(th) },
	ChartTrackFive: func(th *render.Theme) render.Chart { return render.NewTrackFiveChart(th) },
}

// Charts lists the chart names a view can mount.
func Charts() []string {
	names := make([]string, 0, len(chartFactories)+1)
	for name := range chartFactories {
		names = append(names, name)
	}
	names = append(names, ChartWaveform)
	sort.Strings(names)
	return names
}

func newChart(name string, th *render.Theme) (render.Chart, error) {
	f, ok := chartFactories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}
	return f(th), nil
}

// trackSelectors are the predicates a storyboard section may select by.
var trackSelectors = map[string]func(models.Track) bool{
	"track-five": models.Track.IsTrackFive,
	"ranked":     models.Track.Ranked,
}

// bindStoryboard resolves the selecting sections of board against tracks.
func bindStoryboard(board *highlight.Storyboard, tracks []models.Track) (*highlight.Storyboard, error) {
	return board.Bind(func(selector string) ([]int, error) {
		keep, ok := trackSelectors[selector]
		if !ok {
			return nil, fmt.Errorf("unknown selector %q", selector)
		}
		var ids []int
		for _, t := range tracks {
			if keep(t) {
				ids = append(ids, t.ID)
			}
		}
		return ids, nil
	})
}
