// Package render lays charts out as keyed marks and reconciles them into
// scenes. Layout is a pure function of the frame; the Engine adds
// transitions and guarantees that a superseded render is never published.
package render

import (
	"time"

	"github.com/himanishpuri/erasviz/pkg/erasviz/highlight"
	"github.com/himanishpuri/erasviz/pkg/models"
)

type Kind string

const (
	KindCircle Kind = "circle"
	KindRect   Kind = "rect"
	KindLine   Kind = "line"
	KindPath   Kind = "path"
	KindText   Kind = "text"
)

// Mark is one drawable element. Key identifies the mark across renders so
// transitions can carry over; TrackID is -1 for marks not bound to a track.
type Mark struct {
	Key      string   `json:"key"`
	Kind     Kind     `json:"kind"`
	TrackID  int      `json:"track_id"`
	Emphasis Emphasis `json:"emphasis"`

	X  float64 `json:"x,omitempty"`
	Y  float64 `json:"y,omitempty"`
	X2 float64 `json:"x2,omitempty"`
	Y2 float64 `json:"y2,omitempty"`
	W  float64 `json:"w,omitempty"`
	H  float64 `json:"h,omitempty"`
	R  float64 `json:"r,omitempty"`
	D  string  `json:"d,omitempty"`

	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"stroke_width,omitempty"`
	Opacity     float64 `json:"opacity"`
	Dash        string  `json:"dash,omitempty"`

	Text     string  `json:"text,omitempty"`
	Anchor   string  `json:"anchor,omitempty"`
	FontSize float64 `json:"font_size,omitempty"`
}

// Interactive reports whether pointer events on m refer to a track.
func (m Mark) Interactive() bool {
	return m.TrackID >= 0 && (m.Kind == KindCircle || m.Kind == KindRect)
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Margin struct {
	Top, Right, Bottom, Left float64
}

var defaultMargin = Margin{Top: 30, Right: 30, Bottom: 50, Left: 60}

// inner returns the plot rectangle left inside size by m.
func (m Margin) inner(size Size) (x0, y0, x1, y1 float64) {
	return m.Left, m.Top, size.Width - m.Right, size.Height - m.Bottom
}

// Frame is everything a layout depends on.
type Frame struct {
	Tracks    []models.Track
	Highlight highlight.Set
	// Playing is the id of the track playing in this frame's dataset, or -1.
	Playing int
	Elapsed time.Duration
	Length  time.Duration
}

// NewFrame returns a frame with nothing playing.
func NewFrame(tracks []models.Track, set highlight.Set) Frame {
	return Frame{Tracks: tracks, Highlight: set, Playing: -1}
}

type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// Scene is a published render.
type Scene struct {
	Generation uint64 `json:"generation"`
	Chart      string `json:"chart"`
	Status     Status `json:"status"`
	Message    string `json:"message,omitempty"`
	Size       Size   `json:"size"`
	Marks      []Mark `json:"marks"`
	// Animating is true while a transition is still in flight; call
	// Engine.Tick to advance it.
	Animating bool `json:"animating"`
}

// Find returns the mark with key.
func (s Scene) Find(key string) (Mark, bool) {
	for _, m := range s.Marks {
		if m.Key == key {
			return m, true
		}
	}
	return Mark{}, false
}

// HitTest returns the topmost interactive mark under (x, y).
func (s Scene) HitTest(x, y float64) (Mark, bool) {
	for i := len(s.Marks) - 1; i >= 0; i-- {
		m := s.Marks[i]
		if !m.Interactive() {
			continue
		}
		switch m.Kind {
		case KindCircle:
			dx, dy := x-m.X, y-m.Y
			if dx*dx+dy*dy <= m.R*m.R {
				return m, true
			}
		case KindRect:
			if x >= m.X && x <= m.X+m.W && y >= m.Y && y <= m.Y+m.H {
				return m, true
			}
		}
	}
	return Mark{}, false
}
