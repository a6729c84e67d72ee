package playback

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/himanishpuri/erasviz/pkg/models"
)

// Request identifies the track a view wants to toggle.
type Request struct {
	// Owner is the view that starts playback; Release(owner) stops it.
	Owner   string
	Dataset string
	Track   models.Track
}

// Controller is the single owner of PlaybackState. Resolving, opening and
// starting audio happen outside mu, so State and Position never wait on
// I/O. A start commits only if no Stop, Release or newer request bumped the
// generation meanwhile; starts themselves are serialised by startMu so at
// most one resource is ever audible.
type Controller struct {
	mu       sync.Mutex
	startMu  sync.Mutex
	resolver Resolver
	backend  Backend
	log      Logger

	state   State
	active  Resource
	pending *pendingStart
	gen     uint64
	closed  bool

	subMu  sync.Mutex
	subs   map[int]func(State)
	nextID int
}

// pendingStart is a request whose audio is still being resolved.
type pendingStart struct {
	owner   string
	dataset string
	trackID int
	cancel  context.CancelFunc
}

func NewController(resolver Resolver, backend Backend, log Logger) *Controller {
	return &Controller{
		resolver: resolver,
		backend:  backend,
		log:      log,
		subs:     make(map[int]func(State)),
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Pending reports whether a start is still resolving its audio.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}

// Toggle applies the click transition:
//
//	Playing(same)  -> Idle
//	Playing(other) -> stop other, Playing(track)
//	Idle           -> Playing(track)
//
// Clicking a track that is still loading cancels it. A track that cannot
// start leaves the controller Idle and returns a *Failure; the caller may
// retry by toggling again.
func (c *Controller) Toggle(ctx context.Context, req Request) (State, error) {
	c.mu.Lock()
	if c.closed {
		st := c.state
		c.mu.Unlock()
		return st, ErrClosed
	}
	if c.state.IsPlaying(req.Dataset, req.Track.ID) || c.pendingIsLocked(req) {
		changed := c.state.Status == Playing
		c.cancelPendingLocked()
		c.stopLocked()
		st := c.state
		c.mu.Unlock()
		if changed {
			c.publish(st)
		}
		return st, nil
	}
	c.mu.Unlock()
	return c.start(ctx, req)
}

// Play starts req's track unless it is already playing.
func (c *Controller) Play(ctx context.Context, req Request) (State, error) {
	c.mu.Lock()
	if c.closed {
		st := c.state
		c.mu.Unlock()
		return st, ErrClosed
	}
	if c.state.IsPlaying(req.Dataset, req.Track.ID) {
		st := c.state
		c.mu.Unlock()
		return st, nil
	}
	c.mu.Unlock()
	return c.start(ctx, req)
}

// Stop forces Idle and abandons any start in flight.
func (c *Controller) Stop() State {
	c.mu.Lock()
	changed := c.state.Status == Playing
	c.cancelPendingLocked()
	c.stopLocked()
	st := c.state
	c.mu.Unlock()
	if changed {
		c.publish(st)
	}
	return st
}

// Release stops playback, playing or still loading, that owner started.
// It reports whether anything was stopped. Views call it when they unmount.
func (c *Controller) Release(owner string) bool {
	c.mu.Lock()
	released := false
	if c.pending != nil && c.pending.owner == owner {
		c.cancelPendingLocked()
		released = true
	}
	changed := c.state.Status == Playing && c.state.Owner == owner
	if changed {
		c.stopLocked()
		released = true
	}
	st := c.state
	c.mu.Unlock()
	if changed {
		c.publish(st)
	}
	return released
}

// Position returns the playhead of the active resource.
func (c *Controller) Position() (elapsed, length time.Duration, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return 0, 0, false
	}
	p, isPos := c.active.(Positioner)
	if !isPos {
		return 0, c.state.Length, false
	}
	return p.Position(), c.state.Length, true
}

// Subscribe registers fn for every state change. The returned func
// unregisters it.
func (c *Controller) Subscribe(fn func(State)) (cancel func()) {
	c.subMu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.subMu.Unlock()
	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

// Close stops any playback and rejects further requests.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	changed := c.state.Status == Playing
	c.cancelPendingLocked()
	c.stopLocked()
	c.closed = true
	st := c.state
	c.mu.Unlock()
	if changed {
		c.publish(st)
	}
	return nil
}

// start stops whatever plays, then resolves and starts req without holding
// mu. A newer request cancels this one through its pending entry.
func (c *Controller) start(ctx context.Context, req Request) (State, error) {
	c.mu.Lock()
	c.cancelPendingLocked()
	c.mu.Unlock()

	c.startMu.Lock()
	defer c.startMu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.mu.Lock()
	if c.closed {
		st := c.state
		c.mu.Unlock()
		return st, ErrClosed
	}
	changed := c.state.Status == Playing
	c.stopLocked()
	gen := c.gen
	c.pending = &pendingStart{owner: req.Owner, dataset: req.Dataset, trackID: req.Track.ID, cancel: cancel}
	stopped := c.state
	c.mu.Unlock()
	if changed {
		c.publish(stopped)
	}

	res, src, err := c.open(ctx, req)

	c.mu.Lock()
	if c.closed || c.gen != gen {
		// overtaken by Stop, Release, Close or a newer request
		st := c.state
		c.mu.Unlock()
		if res != nil {
			res.Close()
		}
		c.debugf("start of %q superseded", req.Track.Title)
		return st, nil
	}
	c.pending = nil
	if err != nil {
		f := &Failure{TrackID: req.Track.ID, Title: req.Track.Title, Err: err}
		c.state = State{Status: Idle, Err: f}
		st := c.state
		c.mu.Unlock()
		c.warnf("playback of %q failed: %v", req.Track.Title, err)
		c.publish(st)
		return st, f
	}

	c.gen++
	c.active = res
	c.state = State{
		Status:  Playing,
		Dataset: req.Dataset,
		TrackID: req.Track.ID,
		Title:   req.Track.Title,
		Owner:   req.Owner,
		Length:  src.Duration,
	}
	go c.watch(res, c.gen)
	st := c.state
	c.mu.Unlock()
	c.debugf("playing %q from %s", req.Track.Title, src.Location())
	c.publish(st)
	return st, nil
}

// open resolves, opens and starts the audio of req. It is called without
// mu held; resolver and backend never change after construction.
func (c *Controller) open(ctx context.Context, req Request) (Resource, Source, error) {
	if c.resolver == nil || c.backend == nil {
		return nil, Source{}, ErrNoResource
	}
	src, err := c.resolver.Resolve(ctx, req.Track)
	if err != nil {
		return nil, src, err
	}
	res, err := c.backend.Open(ctx, src)
	if err != nil {
		return nil, src, fmt.Errorf("opening %s: %w", src.Location(), err)
	}
	if err := res.Play(); err != nil {
		res.Close()
		return nil, src, fmt.Errorf("starting %s: %w", src.Location(), err)
	}
	return res, src, nil
}

func (c *Controller) pendingIsLocked(req Request) bool {
	return c.pending != nil && c.pending.dataset == req.Dataset && c.pending.trackID == req.Track.ID
}

// cancelPendingLocked abandons a start in flight. Bumping gen makes that
// start discard whatever it opens.
func (c *Controller) cancelPendingLocked() {
	if c.pending == nil {
		return
	}
	c.pending.cancel()
	c.pending = nil
	c.gen++
}

// stopLocked releases the active resource. Bumping gen first makes the
// watcher of the old resource ignore its Done signal.
func (c *Controller) stopLocked() {
	c.gen++
	if c.active != nil {
		if err := c.active.Close(); err != nil {
			c.warnf("closing resource: %v", err)
		}
		c.active = nil
	}
	c.state = State{Status: Idle}
}

func (c *Controller) watch(res Resource, gen uint64) {
	<-res.Done()

	c.mu.Lock()
	if c.gen != gen || c.active != res {
		c.mu.Unlock()
		return
	}
	prev := c.state
	c.active = nil
	c.gen++
	res.Close()
	c.state = State{Status: Idle}
	if err := res.Err(); err != nil {
		c.state.Err = &Failure{TrackID: prev.TrackID, Title: prev.Title, Err: err}
		c.warnf("playback of %q ended with error: %v", prev.Title, err)
	} else {
		c.debugf("playback of %q ended", prev.Title)
	}
	st := c.state
	c.mu.Unlock()
	c.publish(st)
}

func (c *Controller) publish(st State) {
	c.subMu.Lock()
	fns := make([]func(State), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()
	for _, fn := range fns {
		fn(st)
	}
}

func (c *Controller) debugf(format string, args ...any) {
	if c.log != nil {
		c.log.Debugf(format, args...)
	}
}

func (c *Controller) warnf(format string, args ...any) {
	if c.log != nil {
		c.log.Warnf(format, args...)
	}
}
