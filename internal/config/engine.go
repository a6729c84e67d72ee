//go:build !js && !wasm

package config

import (
	"context"
	"fmt"

	"github.com/himanishpuri/erasviz/pkg/erasviz"
	"github.com/himanishpuri/erasviz/pkg/erasviz/dataset"
	"github.com/himanishpuri/erasviz/pkg/erasviz/highlight"
	"github.com/himanishpuri/erasviz/pkg/erasviz/playback"
	"github.com/himanishpuri/erasviz/pkg/erasviz/storage"
	"github.com/himanishpuri/erasviz/pkg/logger"
)

// Resolver builds the playback chain: URLs first, then local files, then
// Spotify previews and yt-dlp downloads when they are enabled. A Spotify
// login failure drops that resolver with a warning.
func (c *Config) Resolver(ctx context.Context, log *logger.Logger) playback.Resolver {
	chain := playback.ChainResolver{
		playback.URLResolver{},
		playback.FileResolver{Dir: c.Audio.Dir, Probe: playback.ProbeDuration},
	}
	if c.Spotify.Enabled() {
		sp, err := playback.NewSpotifyResolver(ctx, c.Spotify.ClientID, c.Spotify.ClientSecret, c.Audio.Artist)
		if err != nil {
			log.Warnf("spotify disabled: %v", err)
		} else {
			chain = append(chain, sp)
		}
	}
	if c.Audio.YTDLP {
		chain = append(chain, playback.YTDLPResolver{CacheDir: c.Audio.CacheDir, Artist: c.Audio.Artist})
	}
	return chain
}

// OpenStore opens the configured database. It returns nil when no path is
// set.
func (c *Config) OpenStore() (*storage.DBClient, error) {
	if c.Store.DBPath == "" {
		return nil, nil
	}
	db, err := storage.NewDBClientWithPath(c.Store.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return db, nil
}

// EngineOptions translates the configuration into erasviz options. release
// releases the database and is never nil.
func (c *Config) EngineOptions(ctx context.Context, log *logger.Logger) (opts []erasviz.Option, release func() error, err error) {
	if lvl, ok := logger.ParseLevel(c.LogLevel); ok {
		log.SetLevel(lvl)
	}
	release = func() error { return nil }

	opts = []erasviz.Option{
		erasviz.WithLogger(log),
		erasviz.WithAudioDir(c.Audio.Dir),
		erasviz.WithCacheDir(c.Audio.CacheDir),
		erasviz.WithTransition(c.Render.Transition()),
		erasviz.WithResolver(c.Resolver(ctx, log)),
	}
	for name, ds := range c.Datasets {
		kind, err := dataset.ParseKind(ds.Kind)
		if err != nil {
			return nil, release, fmt.Errorf("dataset %q: %w", name, err)
		}
		opts = append(opts, erasviz.WithDataset(name, ds.Source, kind))
	}
	for name, path := range c.Storyboards {
		board, err := highlight.LoadStoryboard(path)
		if err != nil {
			return nil, release, fmt.Errorf("storyboard %q: %w", name, err)
		}
		opts = append(opts, erasviz.WithStoryboard(name, board))
	}

	db, err := c.OpenStore()
	if err != nil {
		return nil, release, err
	}
	if db != nil {
		opts = append(opts, erasviz.WithStore(db))
		release = db.Close
	}
	return opts, release, nil
}
