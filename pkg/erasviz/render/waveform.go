package render

import (
	"fmt"
	"time"

	"github.com/himanishpuri/erasviz/pkg/erasviz/scale"
)

// WaveformChart draws an amplitude envelope with the played part in the
// accent color, a playhead and an elapsed/total label. Envelope values
// are peak amplitudes in [0, 1], one per column.
type WaveformChart struct {
	themed
	Margin   Margin
	Envelope []float64
	// TrackID is the track the envelope belongs to.
	TrackID int
}

func NewWaveformChart(th *Theme, trackID int, envelope []float64) *WaveformChart {
	return &WaveformChart{
		themed:   themed{th},
		Margin:   Margin{Top: 10, Right: 10, Bottom: 24, Left: 10},
		Envelope: envelope,
		TrackID:  trackID,
	}
}

func (c *WaveformChart) Name() string { return "waveform" }

// Progress returns the played fraction for f, 0 unless this track plays.
func (c *WaveformChart) Progress(f Frame) float64 {
	if f.Playing != c.TrackID || f.Length <= 0 {
		return 0
	}
	return min(1, max(0, float64(f.Elapsed)/float64(f.Length)))
}

func (c *WaveformChart) Layout(f Frame, size Size) []Mark {
	n := len(c.Envelope)
	if n == 0 || len(f.Tracks) == 0 {
		return nil
	}
	th := c.theme()
	x0, y0, x1, y1 := c.Margin.inner(size)
	x := scale.NewLinear(0, float64(max(1, n-1)), x0, x1)
	y := scale.NewLinear(-1, 1, y1, y0)

	progress := c.Progress(f)
	split := int(progress * float64(n))

	marks := []Mark{
		{Key: "wave-axis", Kind: KindLine, TrackID: -1, X: x0, Y: y.Scale(0), X2: x1, Y2: y.Scale(0),
			Stroke: th.Grid, StrokeWidth: 1, Opacity: 1},
		{Key: "wave-rest", Kind: KindPath, TrackID: -1, D: envelopePath(c.Envelope, 0, n, x, y),
			Fill: th.Muted, Opacity: 0.8},
	}
	if split > 0 {
		marks = append(marks, Mark{Key: "wave-played", Kind: KindPath, TrackID: -1,
			D: envelopePath(c.Envelope, 0, split, x, y), Fill: th.Accent, Opacity: 1})
	}
	if f.Playing == c.TrackID {
		px := x0 + progress*(x1-x0)
		marks = append(marks, Mark{Key: "playhead", Kind: KindLine, TrackID: -1,
			X: px, Y: y0, X2: px, Y2: y1, Stroke: th.Ink, StrokeWidth: 1.5, Opacity: 1})
	}
	marks = append(marks, Mark{Key: "time", Kind: KindText, TrackID: -1,
		X: x1, Y: size.Height - 6, Text: FormatClock(f.Elapsed) + " / " + FormatClock(f.Length),
		Anchor: "end", FontSize: 11, Fill: th.Axis, Opacity: 1})
	return marks
}

// envelopePath outlines columns [from, to) mirrored around zero.
func envelopePath(env []float64, from, to int, x, y scale.Linear) string {
	if to-from < 1 {
		return ""
	}
	pts := make([]Point, 0, 2*(to-from))
	for i := from; i < to; i++ {
		pts = append(pts, Point{x.Scale(float64(i)), y.Scale(env[i])})
	}
	for i := to - 1; i >= from; i-- {
		pts = append(pts, Point{x.Scale(float64(i)), y.Scale(-env[i])})
	}
	return LinePath(pts) + "Z"
}

// FormatClock renders d as m:ss.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
