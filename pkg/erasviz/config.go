package erasviz

import (
	"time"

	"github.com/himanishpuri/erasviz/pkg/erasviz/dataset"
	"github.com/himanishpuri/erasviz/pkg/erasviz/highlight"
	"github.com/himanishpuri/erasviz/pkg/erasviz/playback"
	"github.com/himanishpuri/erasviz/pkg/erasviz/render"
)

// DatasetSource names where a registered dataset is read from.
type DatasetSource struct {
	Source string       `yaml:"source" json:"source"`
	Kind   dataset.Kind `yaml:"kind" json:"kind"`
}

type Config struct {
	Logger   Logger
	Resolver playback.Resolver
	Backend  playback.Backend
	Store    dataset.RecordStore
	Theme    *render.Theme

	Transition time.Duration
	Clock      render.Clock

	Datasets    map[string]DatasetSource
	Storyboards map[string]*highlight.Storyboard

	AudioDir string
	CacheDir string

	LoadTimeout     time.Duration
	ResolveTimeout  time.Duration
	WaveformColumns int
	SpectrumBands   int
}

type Option func(*Config)

func WithLogger(log Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

// WithResolver replaces the default chain (URL, then local audio files).
func WithResolver(r playback.Resolver) Option {
	return func(c *Config) {
		c.Resolver = r
	}
}

func WithBackend(b playback.Backend) Option {
	return func(c *Config) {
		c.Backend = b
	}
}

// WithStore sets the database used for "sqlite://#name" sources.
func WithStore(s dataset.RecordStore) Option {
	return func(c *Config) {
		c.Store = s
	}
}

func WithTheme(th render.Theme) Option {
	return func(c *Config) {
		c.Theme = &th
	}
}

func WithTransition(d time.Duration) Option {
	return func(c *Config) {
		c.Transition = d
	}
}

func WithClock(now render.Clock) Option {
	return func(c *Config) {
		c.Clock = now
	}
}

// WithDatasets registers several datasets at once.
func WithDatasets(sources map[string]DatasetSource) Option {
	return func(c *Config) {
		for name, src := range sources {
			c.Datasets[name] = src
		}
	}
}

func WithDataset(name, source string, kind dataset.Kind) Option {
	return func(c *Config) {
		c.Datasets[name] = DatasetSource{Source: source, Kind: kind}
	}
}

func WithStoryboard(name string, board *highlight.Storyboard) Option {
	return func(c *Config) {
		c.Storyboards[name] = board
	}
}

func WithAudioDir(dir string) Option {
	return func(c *Config) {
		c.AudioDir = dir
	}
}

func WithCacheDir(dir string) Option {
	return func(c *Config) {
		c.CacheDir = dir
	}
}

func WithLoadTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.LoadTimeout = d
	}
}

func defaultConfig() *Config {
	return &Config{
		Transition:  render.DefaultTransition,
		Datasets:    make(map[string]DatasetSource),
		Storyboards: map[string]*highlight.Storyboard{
			"setlist":   highlight.DefaultSetlistStoryboard(),
			"trackfive": highlight.DefaultTrackFiveStoryboard(),
		},
		AudioDir:    "audio",
		CacheDir:    "/tmp/erasviz",

		LoadTimeout:     30 * time.Second,
		ResolveTimeout:  15 * time.Second,
		WaveformColumns: 200,
		SpectrumBands:   32,
	}
}
