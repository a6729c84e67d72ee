package render

import (
	"sync"
	"time"
)

// Chart lays out one visualization. Layout must be pure: the same frame and
// size always give the same marks, and the frame's tracks are never
// modified. An empty track list gives no marks at all.
type Chart interface {
	Name() string
	Layout(f Frame, size Size) []Mark
}

type EngineOption func(*Engine)

// WithTransition sets the emphasis transition length. Zero disables
// animation.
func WithTransition(d time.Duration) EngineOption {
	return func(e *Engine) { e.duration = d }
}

func WithClock(now Clock) EngineOption {
	return func(e *Engine) { e.now = now }
}

// Engine owns the retained scene of one view. Renders are serialised and
// numbered; Commit drops any render whose generation has been superseded
// by a later Begin.
type Engine struct {
	mu    sync.Mutex
	chart Chart
	size  Size
	anim  *Animator

	duration time.Duration
	now      Clock

	gen    uint64
	layout []Mark
	scene  Scene
}

func NewEngine(chart Chart, size Size, opts ...EngineOption) *Engine {
	e := &Engine{chart: chart, size: size, duration: DefaultTransition}
	for _, opt := range opts {
		opt(e)
	}
	e.anim = NewAnimator(e.duration, e.now)
	e.scene = Scene{Chart: chart.Name(), Status: StatusLoading, Size: size}
	return e
}

func (e *Engine) Chart() Chart { return e.chart }

// Begin claims the next generation. Any generation handed out earlier can
// no longer be committed.
func (e *Engine) Begin() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gen++
	return e.gen
}

// Render lays out f as a fresh generation and publishes it.
func (e *Engine) Render(f Frame) Scene {
	s, _ := e.Commit(e.Begin(), f)
	return s
}

// RenderWith begins a generation and only then calls build, so a frame
// read before a newer render began is dropped instead of replacing it.
// build runs without the engine lock.
func (e *Engine) RenderWith(build func() Frame) Scene {
	gen := e.Begin()
	s, _ := e.Commit(gen, build())
	return s
}

// Commit publishes the layout of f under gen. It reports false, and leaves
// the current scene untouched, when gen is stale.
func (e *Engine) Commit(gen uint64, f Frame) (Scene, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		return e.scene, false
	}
	marks := e.chart.Layout(f, e.size)
	current, animating := e.anim.Apply(marks)
	e.layout = marks
	e.scene = Scene{
		Generation: gen,
		Chart:      e.chart.Name(),
		Status:     StatusReady,
		Size:       e.size,
		Marks:      current,
		Animating:  animating,
	}
	return e.scene, true
}

// Fail publishes a failed scene under gen. No marks survive a failure.
func (e *Engine) Fail(gen uint64, err error) (Scene, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		return e.scene, false
	}
	e.layout = nil
	e.anim.Reset()
	e.scene = Scene{
		Generation: gen,
		Chart:      e.chart.Name(),
		Status:     StatusFailed,
		Message:    err.Error(),
		Size:       e.size,
	}
	return e.scene, true
}

// Tick advances running transitions of the published scene.
func (e *Engine) Tick() Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.scene.Status != StatusReady || !e.scene.Animating {
		return e.scene
	}
	e.scene.Marks, e.scene.Animating = e.anim.Apply(e.layout)
	return e.scene
}

func (e *Engine) Scene() Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scene
}

// Resize changes the surface for the next render.
func (e *Engine) Resize(size Size) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.size = size
}

func (e *Engine) Size() Size {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.size
}
