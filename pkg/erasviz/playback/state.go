// Package playback enforces a single playing audio item across every view
// of a session.
package playback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/himanishpuri/erasviz/pkg/models"
)

type Status int

const (
	Idle Status = iota
	Playing
)

func (s Status) String() string {
	if s == Playing {
		return "playing"
	}
	return "idle"
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*s = Idle
	case "playing":
		*s = Playing
	default:
		return fmt.Errorf("unknown playback status %q", text)
	}
	return nil
}

// State is the session-wide playback state. TrackID and Dataset identify the
// playing track; they are zero when Idle.
type State struct {
	Status  Status        `json:"status"`
	Dataset string        `json:"dataset,omitempty"`
	TrackID int           `json:"track_id"`
	Title   string        `json:"title,omitempty"`
	Owner   string        `json:"owner,omitempty"`
	Length  time.Duration `json:"length_ns,omitempty"`
	// Err is the failure that last moved playback to Idle, if any.
	Err error `json:"-"`
}

// IsPlaying reports whether this state is Playing(dataset, id).
func (s State) IsPlaying(dataset string, id int) bool {
	return s.Status == Playing && s.Dataset == dataset && s.TrackID == id
}

func (s State) String() string {
	if s.Status == Idle {
		return "Idle"
	}
	return fmt.Sprintf("Playing(%s/%d)", s.Dataset, s.TrackID)
}

var (
	// ErrPlaybackFailure is wrapped by every playback error.
	ErrPlaybackFailure = errors.New("playback failed")
	// ErrNoResource means no resolver could find audio for a track.
	ErrNoResource = errors.New("no playable resource")
	ErrClosed     = errors.New("playback controller closed")
)

// Failure reports why a track could not start or stopped early.
type Failure struct {
	TrackID int
	Title   string
	Err     error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("playing %q (track %d): %v", f.Title, f.TrackID, f.Err)
}

func (f *Failure) Unwrap() []error {
	return []error{ErrPlaybackFailure, f.Err}
}

// Source is a resolved, playable audio location.
type Source struct {
	URL      string        `json:"url,omitempty"`
	Path     string        `json:"path,omitempty"`
	Duration time.Duration `json:"duration"`
}

func (s Source) Location() string {
	if s.Path != "" {
		return s.Path
	}
	return s.URL
}

// Resolver turns a track's audio reference into a playable source.
type Resolver interface {
	Resolve(ctx context.Context, track models.Track) (Source, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, track models.Track) (Source, error)

func (f ResolverFunc) Resolve(ctx context.Context, track models.Track) (Source, error) {
	return f(ctx, track)
}

// Resource is one opened audio item. Done is closed when playback ends,
// naturally or through Close; Err then reports an abnormal end.
type Resource interface {
	Play() error
	Close() error
	Done() <-chan struct{}
	Err() error
}

// Positioner is implemented by resources that know their playhead.
type Positioner interface {
	Position() time.Duration
}

// Backend opens resources for resolved sources.
type Backend interface {
	Open(ctx context.Context, src Source) (Resource, error)
}

type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}
