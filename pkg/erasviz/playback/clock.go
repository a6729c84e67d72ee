package playback

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ClockBackend plays nothing audible: each resource simply runs for the
// source's duration. Servers use it to model playback for remote clients,
// and tests use it for deterministic end-of-track events.
type ClockBackend struct {
	// Default is used when a source has no known duration. Zero means the
	// resource runs until it is closed.
	Default time.Duration
}

func (b ClockBackend) Open(ctx context.Context, src Source) (Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if src.Location() == "" {
		return nil, errors.New("empty source")
	}
	d := src.Duration
	if d <= 0 {
		d = b.Default
	}
	return &clockResource{length: d, done: make(chan struct{})}, nil
}

type clockResource struct {
	mu      sync.Mutex
	length  time.Duration
	started time.Time
	timer   *time.Timer
	done    chan struct{}
	once    sync.Once
}

func (r *clockResource) Play() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		return nil
	}
	select {
	case <-r.done:
		return errors.New("resource closed")
	default:
	}
	r.started = time.Now()
	if r.length > 0 {
		r.timer = time.AfterFunc(r.length, r.finish)
	}
	return nil
}

func (r *clockResource) Close() error {
	r.mu.Lock()
	if r.timer != nil {
		r.timer.Stop()
	}
	r.mu.Unlock()
	r.finish()
	return nil
}

func (r *clockResource) finish() {
	r.once.Do(func() { close(r.done) })
}

func (r *clockResource) Done() <-chan struct{} { return r.done }
func (r *clockResource) Err() error            { return nil }

func (r *clockResource) Position() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started.IsZero() {
		return 0
	}
	p := time.Since(r.started)
	if r.length > 0 && p > r.length {
		p = r.length
	}
	return p
}
