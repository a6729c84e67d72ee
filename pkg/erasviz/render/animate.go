package render

import (
	"math"
	"sync"
	"time"
)

// DefaultTransition is how long emphasis changes take to settle.
const DefaultTransition = 400 * time.Millisecond

// Clock returns the current time. Tests inject a fake one.
type Clock func() time.Time

// CubicOut eases t in [0,1]: fast start, slow finish.
func CubicOut(t float64) float64 {
	t = math.Max(0, math.Min(1, t))
	u := 1 - t
	return 1 - u*u*u
}

type visual struct {
	r           float64
	opacity     float64
	strokeWidth float64
	stroke      string
}

func visualOf(m Mark) visual {
	return visual{r: m.R, opacity: m.Opacity, strokeWidth: m.StrokeWidth, stroke: m.Stroke}
}

type tween struct {
	from, to visual
	start    time.Time
}

func (tw *tween) at(now time.Time, d time.Duration) (visual, bool) {
	if tw.from == tw.to || d <= 0 {
		return tw.to, true
	}
	t := float64(now.Sub(tw.start)) / float64(d)
	if t >= 1 {
		return tw.to, true
	}
	e := CubicOut(t)
	v := visual{
		r:           lerp(tw.from.r, tw.to.r, e),
		opacity:     lerp(tw.from.opacity, tw.to.opacity, e),
		strokeWidth: lerp(tw.from.strokeWidth, tw.to.strokeWidth, e),
		stroke:      tw.to.stroke,
	}
	// a stroke that is fading out keeps its color until it is gone
	if v.stroke == "" {
		v.stroke = tw.from.stroke
	}
	return v, false
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// Animator interpolates radius, opacity and stroke width of keyed marks.
// A mark seen for the first time appears at its target; a mark whose
// target changes mid-flight restarts from where it currently is.
type Animator struct {
	mu       sync.Mutex
	duration time.Duration
	now      Clock
	tweens   map[string]*tween
}

func NewAnimator(duration time.Duration, now Clock) *Animator {
	if now == nil {
		now = time.Now
	}
	return &Animator{duration: duration, now: now, tweens: make(map[string]*tween)}
}

// Apply returns a copy of marks with their current interpolated values and
// whether any transition is still running.
func (a *Animator) Apply(marks []Mark) ([]Mark, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	out := make([]Mark, len(marks))
	copy(out, marks)
	seen := make(map[string]bool, len(out))
	animating := false

	for i := range out {
		m := &out[i]
		if m.Kind != KindCircle && m.Kind != KindRect {
			continue
		}
		seen[m.Key] = true
		target := visualOf(*m)

		tw, ok := a.tweens[m.Key]
		switch {
		case !ok:
			tw = &tween{from: target, to: target, start: now}
			a.tweens[m.Key] = tw
		case tw.to != target:
			cur, _ := tw.at(now, a.duration)
			tw = &tween{from: cur, to: target, start: now}
			a.tweens[m.Key] = tw
		}

		cur, done := tw.at(now, a.duration)
		m.R, m.Opacity, m.StrokeWidth, m.Stroke = cur.r, cur.opacity, cur.strokeWidth, cur.stroke
		if !done {
			animating = true
		}
	}

	for key := range a.tweens {
		if !seen[key] {
			delete(a.tweens, key)
		}
	}
	return out, animating
}

// Reset forgets every running transition.
func (a *Animator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tweens = make(map[string]*tween)
}
