package render

import (
	"fmt"

	"github.com/himanishpuri/erasviz/pkg/erasviz/highlight"
)

type Emphasis int

const (
	Base Emphasis = iota
	Emphasized
	Dimmed
)

func (e Emphasis) String() string {
	switch e {
	case Emphasized:
		return "emphasized"
	case Dimmed:
		return "dimmed"
	}
	return "base"
}

func (e Emphasis) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *Emphasis) UnmarshalText(text []byte) error {
	switch string(text) {
	case "base":
		*e = Base
	case "emphasized":
		*e = Emphasized
	case "dimmed":
		*e = Dimmed
	default:
		return fmt.Errorf("unknown emphasis %q", text)
	}
	return nil
}

// Classify applies the single emphasis rule: with an empty set every track
// is Base; otherwise members are Emphasized and everyone else is Dimmed.
// Nothing is ever hidden.
func Classify(id int, set highlight.Set) Emphasis {
	if set.Empty() {
		return Base
	}
	if set.Has(id) {
		return Emphasized
	}
	return Dimmed
}

// ClassifyGroup lifts Classify to a group of tracks (a bar, an era): the
// group is Emphasized when any member is.
func ClassifyGroup(ids []int, set highlight.Set) Emphasis {
	if set.Empty() {
		return Base
	}
	for _, id := range ids {
		if set.Has(id) {
			return Emphasized
		}
	}
	return Dimmed
}

// Style is the visual treatment of one emphasis level. Radius is a factor
// applied to the chart's base radius.
type Style struct {
	Radius      float64
	Opacity     float64
	Stroke      string
	StrokeWidth float64
}

// Theme is shared by every chart.
type Theme struct {
	Base       Style
	Emphasized Style
	Dimmed     Style

	Accent    string
	Muted     string
	Ink       string
	Axis      string
	Grid      string
	TrackFive string
	Font      string
}

func DefaultTheme() Theme {
	return Theme{
		Base:       Style{Radius: 1, Opacity: 0.7},
		Emphasized: Style{Radius: 2, Opacity: 1, Stroke: "rgba(216,96,114,0.4)", StrokeWidth: 4},
		Dimmed:     Style{Radius: 1, Opacity: 0.3},
		Accent:     "#db3e1d",
		Muted:      "#dbbdab",
		Ink:        "#4f364b",
		Axis:       "#6b5a68",
		Grid:       "#e7dcd5",
		TrackFive:  "#e879f9",
		Font:       "Inter, sans-serif",
	}
}

func (th Theme) Style(e Emphasis) Style {
	switch e {
	case Emphasized:
		return th.Emphasized
	case Dimmed:
		return th.Dimmed
	}
	return th.Base
}

// themed is embedded by charts; a zero Theme means DefaultTheme.
type themed struct {
	Theme *Theme
}

func (t themed) theme() Theme {
	if t.Theme == nil {
		return DefaultTheme()
	}
	return *t.Theme
}

// styled fills m's emphasis-dependent attributes for a base radius r.
func styled(m Mark, e Emphasis, r float64, th Theme) Mark {
	st := th.Style(e)
	m.Emphasis = e
	m.R = r * st.Radius
	m.Opacity = st.Opacity
	if st.Stroke != "" {
		m.Stroke = st.Stroke
		m.StrokeWidth = st.StrokeWidth
	}
	return m
}
