package erasviz

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/himanishpuri/erasviz/pkg/erasviz/dataset"
	"github.com/himanishpuri/erasviz/pkg/erasviz/highlight"
	"github.com/himanishpuri/erasviz/pkg/erasviz/playback"
	"github.com/himanishpuri/erasviz/pkg/erasviz/render"
	"github.com/himanishpuri/erasviz/pkg/erasviz/tooltip"
	"github.com/himanishpuri/erasviz/pkg/models"
	"github.com/himanishpuri/erasviz/pkg/utils"
)

// ViewConfig describes one chart to mount.
type ViewConfig struct {
	Chart   string `json:"chart"`
	Dataset string `json:"dataset"`
	// Storyboard drives the highlight from scroll position. Empty means
	// the view has no scroll sync and nothing is emphasized.
	Storyboard string  `json:"storyboard,omitempty"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	// ViewportHeight is the height of one scroll step. Defaults to Height.
	ViewportHeight float64 `json:"viewport_height,omitempty"`
	// TrackID selects the track of a waveform view.
	TrackID int `json:"track_id,omitempty"`
}

func (vc *ViewConfig) applyDefaults() {
	if vc.Width <= 0 {
		vc.Width = 800
	}
	if vc.Height <= 0 {
		vc.Height = 500
	}
	if vc.ViewportHeight <= 0 {
		vc.ViewportHeight = vc.Height
	}
}

// View is one mounted chart. Its highlight state, scroll subscription and
// tooltip are private; playback is shared with every other view.
type View struct {
	id     string
	engine *Engine
	config ViewConfig
	log    Logger

	renderer *render.Engine
	state    *highlight.State
	scroll   *highlight.Sync
	sub      *highlight.Subscription
	tip      *tooltip.Controller

	unsubscribePlayback func()

	mu      sync.Mutex
	status  render.Status
	err     error
	ds      *dataset.Dataset
	hovered int
	closed  bool
}

// Mount creates a view and loads its dataset. A dataset that cannot be
// loaded leaves the view Failed rather than returning an error; errors are
// reserved for an invalid configuration.
func (e *Engine) Mount(ctx context.Context, vc ViewConfig) (*View, error) {
	vc.applyDefaults()

	var (
		chart render.Chart
		err   error
	)
	if vc.Chart != ChartWaveform {
		if chart, err = newChart(vc.Chart, e.config.Theme); err != nil {
			return nil, err
		}
	}
	if _, ok := e.config.Datasets[vc.Dataset]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDataset, vc.Dataset)
	}
	var board *highlight.Storyboard
	if vc.Storyboard != "" {
		if board, err = e.Storyboard(vc.Storyboard); err != nil {
			return nil, err
		}
	}
	if board.Selects() {
		// a dataset that fails here fails the view below; sections then
		// select nothing
		var tracks []models.Track
		if ds, err := e.Dataset(ctx, vc.Dataset); err == nil {
			tracks = ds.Tracks
		}
		if board, err = bindStoryboard(board, tracks); err != nil {
			return nil, err
		}
	}

	v := &View{
		id:      utils.GenerateUUID(),
		engine:  e,
		config:  vc,
		log:     named(e.log, "view"),
		state:   highlight.NewState(),
		tip:     tooltip.NewController(vc.Width, vc.Height),
		status:  render.StatusLoading,
		hovered: -1,
	}

	if vc.Chart == ChartWaveform {
		// the envelope is only known after analysis; start with an empty one
		chart = render.NewWaveformChart(e.config.Theme, vc.TrackID, nil)
	}
	v.renderer = render.NewEngine(chart, render.Size{Width: vc.Width, Height: vc.Height},
		render.WithTransition(e.config.Transition), render.WithClock(e.config.Clock))

	if err := e.register(v); err != nil {
		return nil, err
	}
	if board != nil {
		v.scroll = highlight.NewSync(v.state, board, vc.ViewportHeight)
	}
	v.sub = v.state.Subscribe()
	go v.follow(v.sub)
	v.unsubscribePlayback = e.playback.Subscribe(func(playback.State) { v.Render() })

	gen := v.renderer.Begin()
	ds, err := e.Dataset(ctx, vc.Dataset)
	if err == nil && vc.Chart == ChartWaveform {
		err = v.loadWaveform(ctx, ds)
	}
	if err != nil {
		v.fail(gen, err)
		return v, nil
	}
	v.ready(gen, ds)
	return v, nil
}

func (v *View) loadWaveform(ctx context.Context, ds *dataset.Dataset) error {
	if _, ok := ds.Track(v.config.TrackID); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTrack, v.config.TrackID)
	}
	a, err := v.engine.Analyze(ctx, v.config.Dataset, v.config.TrackID)
	if err != nil {
		return err
	}
	wf := v.renderer.Chart().(*render.WaveformChart)
	wf.Envelope = a.Envelope
	return nil
}

// follow re-renders on every highlight change until the subscription is
// closed.
func (v *View) follow(sub *highlight.Subscription) {
	for range sub.C {
		v.Render()
	}
}

func (v *View) ready(gen uint64, ds *dataset.Dataset) {
	v.mu.Lock()
	if v.status != render.StatusLoading {
		v.mu.Unlock()
		return
	}
	v.ds = ds
	v.status = render.StatusReady
	v.mu.Unlock()

	if _, ok := v.renderer.Commit(gen, v.frame(ds)); !ok {
		v.Render()
	}
	v.log.Debugf("view %s ready: %s over %q", v.id[:8], v.config.Chart, ds.Name)
}

func (v *View) fail(gen uint64, err error) {
	v.mu.Lock()
	if v.status != render.StatusLoading {
		v.mu.Unlock()
		return
	}
	v.status = render.StatusFailed
	v.err = err
	v.mu.Unlock()

	v.renderer.Fail(gen, err)
	v.log.Warnf("view %s failed: %v", v.id[:8], err)
}

func (v *View) ID() string          { return v.id }
func (v *View) Config() ViewConfig  { return v.config }
func (v *View) Scene() render.Scene { return v.renderer.Scene() }

func (v *View) Status() render.Status {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

// Err is the load failure of a Failed view.
func (v *View) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

// Dataset is nil until the view is Ready.
func (v *View) Dataset() *dataset.Dataset {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ds
}

// Highlight is the view's current highlight state.
func (v *View) Highlight() highlight.Snapshot { return v.state.Snapshot() }

func (v *View) frame(ds *dataset.Dataset) render.Frame {
	f := render.NewFrame(ds.Tracks, v.state.Highlight())
	if st := v.engine.playback.State(); st.Status == playback.Playing && st.Dataset == v.config.Dataset {
		f.Playing = st.TrackID
		f.Elapsed, f.Length, _ = v.engine.playback.Position()
	}
	return f
}

// Render re-lays out the view from current state. Views that are not
// Ready return their current scene.
func (v *View) Render() render.Scene {
	v.mu.Lock()
	ds, ready := v.ds, v.status == render.StatusReady && !v.closed
	v.mu.Unlock()
	if !ready {
		return v.renderer.Scene()
	}
	return v.renderer.RenderWith(func() render.Frame { return v.frame(ds) })
}

// Tick advances transitions. A waveform view re-renders so its playhead
// moves.
func (v *View) Tick() render.Scene {
	if v.config.Chart == ChartWaveform {
		return v.Render()
	}
	return v.renderer.Tick()
}

// Scroll feeds the distance scrolled into the view's container. Views
// without a storyboard report section 0.
func (v *View) Scroll(scrolledPast float64) (highlight.ScrollState, render.Scene) {
	if v.scroll == nil || v.isClosed() {
		return highlight.ScrollState{}, v.renderer.Scene()
	}
	ss := v.scroll.Notify(scrolledPast)
	return ss, v.Render()
}

// Section returns the storyboard section currently shown.
func (v *View) Section() (highlight.Section, bool) {
	if v.scroll == nil {
		return highlight.Section{}, false
	}
	return v.scroll.Section()
}

// PageProgress reports reading progress through the view's container, 0-100.
func (v *View) PageProgress() float64 {
	if v.scroll == nil {
		return 0
	}
	return v.scroll.PageProgress()
}

// ContainerHeight is the scroll height the host should give the view.
func (v *View) ContainerHeight() float64 {
	if v.scroll == nil {
		return v.config.Height
	}
	return v.scroll.ContainerHeight()
}

// Resize changes the drawing surface and, when positive, the scroll step.
func (v *View) Resize(width, height, viewportHeight float64) render.Scene {
	v.renderer.Resize(render.Size{Width: width, Height: height})
	v.tip.Resize(width, height)
	if v.scroll != nil && viewportHeight > 0 {
		v.scroll.Resize(viewportHeight)
	}
	return v.Render()
}

func (v *View) track(id int) (*dataset.Dataset, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil, ErrViewClosed
	}
	if v.status != render.StatusReady {
		return nil, ErrNotReady
	}
	if _, ok := v.ds.Track(id); !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTrack, id)
	}
	return v.ds, nil
}

// Hover shows the tooltip for a track under the pointer.
func (v *View) Hover(trackID int, x, y float64) (tooltip.Snapshot, error) {
	ds, err := v.track(trackID)
	if err != nil {
		return v.tip.Snapshot(), err
	}
	t, _ := ds.Track(trackID)
	v.mu.Lock()
	v.hovered = trackID
	v.mu.Unlock()
	return v.tip.Enter(t, x, y), nil
}

func (v *View) Move(x, y float64) tooltip.Snapshot {
	return v.tip.Move(x, y)
}

func (v *View) Leave() tooltip.Snapshot {
	v.mu.Lock()
	v.hovered = -1
	v.mu.Unlock()
	return v.tip.Leave()
}

// PointerAt hit-tests the scene and drives the tooltip: entering a new
// mark shows it, moving within the same mark follows the pointer and
// empty space hides it.
func (v *View) PointerAt(x, y float64) tooltip.Snapshot {
	m, ok := v.renderer.Scene().HitTest(x, y)
	if !ok {
		return v.Leave()
	}
	v.mu.Lock()
	same := v.hovered == m.TrackID
	v.mu.Unlock()
	if same {
		return v.Move(x, y)
	}
	snap, err := v.Hover(m.TrackID, x, y)
	if err != nil {
		return v.Leave()
	}
	return snap
}

// Click toggles playback of a track. A track that cannot play leaves
// playback Idle; the *playback.Failure is returned with the state.
func (v *View) Click(ctx context.Context, trackID int) (playback.State, error) {
	ds, err := v.track(trackID)
	if err != nil {
		return v.engine.playback.State(), err
	}
	t, _ := ds.Track(trackID)

	ctx, cancel := context.WithTimeout(ctx, v.engine.config.ResolveTimeout)
	defer cancel()
	return v.engine.playback.Toggle(ctx, playback.Request{Owner: v.id, Dataset: v.config.Dataset, Track: t})
}

// ClickAt toggles the track under (x, y), if any.
func (v *View) ClickAt(ctx context.Context, x, y float64) (playback.State, bool, error) {
	m, ok := v.renderer.Scene().HitTest(x, y)
	if !ok {
		return v.engine.playback.State(), false, nil
	}
	st, err := v.Click(ctx, m.TrackID)
	return st, true, err
}

// WriteSVG writes the current scene.
func (v *View) WriteSVG(w io.Writer) error {
	return render.WriteSVG(w, v.renderer.Scene())
}

func (v *View) isClosed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

// Close unmounts the view: the scroll subscription is released, and
// playback this view started is stopped.
func (v *View) Close() error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil
	}
	v.closed = true
	v.mu.Unlock()

	v.unsubscribePlayback()
	if v.scroll != nil {
		v.scroll.Close()
	}
	v.state.Close()
	v.tip.Leave()
	v.engine.playback.Release(v.id)
	v.engine.forget(v.id)
	return nil
}
