package render

import (
	"fmt"

	"github.com/himanishpuri/erasviz/pkg/erasviz/scale"
)

// xAxis draws a baseline at y with ticks and labels below it.
func xAxis(key string, s scale.Linear, y float64, ticks int, format string, th Theme) []Mark {
	r0, r1 := s.Range()
	marks := []Mark{{
		Key: key + "-domain", Kind: KindLine, TrackID: -1,
		X: r0, Y: y, X2: r1, Y2: y, Stroke: th.Axis, StrokeWidth: 1, Opacity: 1,
	}}
	for _, v := range s.Ticks(ticks) {
		x := s.Scale(v)
		label := fmt.Sprintf(format, v)
		marks = append(marks,
			Mark{Key: key + "-tick-" + label, Kind: KindLine, TrackID: -1,
				X: x, Y: y, X2: x, Y2: y + 6, Stroke: th.Axis, StrokeWidth: 1, Opacity: 1},
			Mark{Key: key + "-label-" + label, Kind: KindText, TrackID: -1,
				X: x, Y: y + 20, Text: label, Anchor: "middle", FontSize: 11, Fill: th.Axis, Opacity: 1},
		)
	}
	return marks
}

// yAxis draws a vertical baseline at x with ticks, labels and light grid
// lines reaching across to gridTo.
func yAxis(key string, s scale.Linear, x, gridTo float64, ticks int, format string, th Theme) []Mark {
	r0, r1 := s.Range()
	marks := []Mark{{
		Key: key + "-domain", Kind: KindLine, TrackID: -1,
		X: x, Y: r0, X2: x, Y2: r1, Stroke: th.Axis, StrokeWidth: 1, Opacity: 1,
	}}
	for _, v := range s.Ticks(ticks) {
		y := s.Scale(v)
		label := fmt.Sprintf(format, v)
		marks = append(marks,
			Mark{Key: key + "-grid-" + label, Kind: KindLine, TrackID: -1,
				X: x, Y: y, X2: gridTo, Y2: y, Stroke: th.Grid, StrokeWidth: 1, Opacity: 1},
			Mark{Key: key + "-label-" + label, Kind: KindText, TrackID: -1,
				X: x - 8, Y: y + 4, Text: label, Anchor: "end", FontSize: 11, Fill: th.Axis, Opacity: 1},
		)
	}
	return marks
}

func axisTitle(key, text string, x, y float64, anchor string, th Theme) Mark {
	return Mark{Key: key, Kind: KindText, TrackID: -1, X: x, Y: y, Text: text,
		Anchor: anchor, FontSize: 12, Fill: th.Ink, Opacity: 1}
}
