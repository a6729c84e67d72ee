// Package erasviz ties the visualization components into mountable views
// over shared datasets, with one playback controller for the whole session.
package erasviz

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/himanishpuri/erasviz/pkg/erasviz/dataset"
	"github.com/himanishpuri/erasviz/pkg/erasviz/highlight"
	"github.com/himanishpuri/erasviz/pkg/erasviz/playback"
	"github.com/himanishpuri/erasviz/pkg/logger"
)

type datasetEntry struct {
	done chan struct{}
	ds   *dataset.Dataset
	err  error
}

// Engine is one session: registered datasets, loaded at most once each, a
// single playback controller and the mounted views.
type Engine struct {
	config   *Config
	log      Logger
	loader   *dataset.Loader
	playback *playback.Controller

	mu       sync.Mutex
	datasets map[string]*datasetEntry
	views    map[string]*View
	closed   bool
}

func New(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}
	for name, board := range cfg.Storyboards {
		if err := board.Validate(); err != nil {
			return nil, fmt.Errorf("storyboard %q: %w", name, err)
		}
		for _, sec := range board.Sections {
			if _, ok := trackSelectors[sec.Select]; sec.Select != "" && !ok {
				return nil, fmt.Errorf("storyboard %q: %w: unknown selector %q", name, highlight.ErrInvalidStoryboard, sec.Select)
			}
		}
	}
	if cfg.Resolver == nil {
		cfg.Resolver = defaultResolver(cfg)
	}
	if cfg.Backend == nil {
		cfg.Backend = playback.ClockBackend{}
	}

	loader := dataset.NewLoader(named(cfg.Logger, "dataset"))
	loader.Store = cfg.Store

	return &Engine{
		config:   cfg,
		log:      cfg.Logger,
		loader:   loader,
		playback: playback.NewController(cfg.Resolver, cfg.Backend, named(cfg.Logger, "playback")),
		datasets: make(map[string]*datasetEntry),
		views:    make(map[string]*View),
	}, nil
}

func (e *Engine) Config() Config { return *e.config }

// Playback is the session-wide controller every view shares.
func (e *Engine) Playback() *playback.Controller { return e.playback }

// DatasetNames lists the registered datasets.
func (e *Engine) DatasetNames() []string {
	names := make([]string, 0, len(e.config.Datasets))
	for name := range e.config.Datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Storyboard returns a registered storyboard.
func (e *Engine) Storyboard(name string) (*highlight.Storyboard, error) {
	board, ok := e.config.Storyboards[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStoryboard, name)
	}
	return board, nil
}

// Dataset returns the named dataset, loading it on first use. Concurrent
// callers share one load. A failed load is not cached, so a later call
// tries again.
func (e *Engine) Dataset(ctx context.Context, name string) (*dataset.Dataset, error) {
	src, ok := e.config.Datasets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDataset, name)
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrEngineClosed
	}
	if ent, ok := e.datasets[name]; ok {
		e.mu.Unlock()
		select {
		case <-ent.done:
			return ent.ds, ent.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	ent := &datasetEntry{done: make(chan struct{})}
	e.datasets[name] = ent
	e.mu.Unlock()

	loadCtx, cancel := context.WithTimeout(ctx, e.config.LoadTimeout)
	defer cancel()
	ds, err := e.loader.Load(loadCtx, src.Source, src.Kind)
	if err == nil {
		// the registry name wins over whatever the source calls itself
		ds.Name = name
		e.log.Infof("loaded dataset %q: %d tracks, %d dropped", name, len(ds.Tracks), ds.Dropped)
	} else {
		e.log.Errorf("loading dataset %q: %v", name, err)
	}

	e.mu.Lock()
	ent.ds, ent.err = ds, err
	if err != nil {
		delete(e.datasets, name)
	}
	e.mu.Unlock()
	close(ent.done)
	return ds, err
}

// View returns a mounted view.
func (e *Engine) View(id string) (*View, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.views[id]
	return v, ok
}

func (e *Engine) ViewCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.views)
}

// Unmount closes and forgets a view. It reports whether the view existed.
func (e *Engine) Unmount(id string) bool {
	v, ok := e.View(id)
	if ok {
		v.Close()
	}
	return ok
}

func (e *Engine) register(v *View) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEngineClosed
	}
	e.views[v.id] = v
	return nil
}

func (e *Engine) forget(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.views, id)
}

// Close unmounts every view and stops playback.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	views := make([]*View, 0, len(e.views))
	for _, v := range e.views {
		views = append(views, v)
	}
	e.mu.Unlock()

	for _, v := range views {
		v.Close()
	}
	return e.playback.Close()
}
