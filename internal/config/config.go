// Package config reads the erasviz YAML configuration and its ERASVIZ_*
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/himanishpuri/erasviz/pkg/erasviz/dataset"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no path is given and the file exists.
const DefaultPath = "configs/erasviz.yaml"

type Config struct {
	LogLevel    string                   `yaml:"log_level"`
	Server      ServerConfig             `yaml:"server"`
	Store       StoreConfig              `yaml:"store"`
	Datasets    map[string]DatasetConfig `yaml:"datasets"`
	Storyboards map[string]string        `yaml:"storyboards"`
	Audio       AudioConfig              `yaml:"audio"`
	Spotify     SpotifyConfig            `yaml:"spotify"`
	Render      RenderConfig             `yaml:"render"`
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// StoreConfig points at the SQLite database behind "sqlite://" sources.
// An empty path disables the store.
type StoreConfig struct {
	DBPath string `yaml:"db_path"`
}

type DatasetConfig struct {
	Source string `yaml:"source"`
	Kind   string `yaml:"kind"`
}

type AudioConfig struct {
	Dir      string `yaml:"dir"`
	CacheDir string `yaml:"cache_dir"`
	// YTDLP enables downloading missing tracks with yt-dlp.
	YTDLP  bool   `yaml:"ytdlp"`
	Artist string `yaml:"artist"`
}

// SpotifyConfig enables preview URLs from the Spotify catalog when both
// credentials are set.
type SpotifyConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

func (s SpotifyConfig) Enabled() bool { return s.ClientID != "" && s.ClientSecret != "" }

type RenderConfig struct {
	TransitionMS int     `yaml:"transition_ms"`
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
}

func (r RenderConfig) Transition() time.Duration {
	return time.Duration(r.TransitionMS) * time.Millisecond
}

var ErrInvalidConfig = errors.New("invalid configuration")

func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"*"},
		},
		Datasets:    map[string]DatasetConfig{},
		Storyboards: map[string]string{},
		Audio: AudioConfig{
			Dir:      "audio",
			CacheDir: "/tmp/erasviz",
			Artist:   "Taylor Swift",
		},
		Render: RenderConfig{
			TransitionMS: 400,
			Width:        800,
			Height:       500,
		},
	}
}

// Load reads path, fills unset fields from the defaults, applies the
// environment and validates the result. An empty path tries DefaultPath;
// a missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	loaded := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, loaded); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Merge(loaded, DefaultConfig())
	ApplyEnv(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge fills every zero field of loaded from defaults. Maps are merged
// key by key with loaded winning.
func Merge(loaded, defaults *Config) *Config {
	out := *loaded
	if out.LogLevel == "" {
		out.LogLevel = defaults.LogLevel
	}
	if out.Server.Port == 0 {
		out.Server.Port = defaults.Server.Port
	}
	if len(out.Server.AllowedOrigins) == 0 {
		out.Server.AllowedOrigins = defaults.Server.AllowedOrigins
	}
	if out.Store.DBPath == "" {
		out.Store.DBPath = defaults.Store.DBPath
	}
	out.Datasets = mergeMap(loaded.Datasets, defaults.Datasets)
	out.Storyboards = mergeMap(loaded.Storyboards, defaults.Storyboards)
	if out.Audio.Dir == "" {
		out.Audio.Dir = defaults.Audio.Dir
	}
	if out.Audio.CacheDir == "" {
		out.Audio.CacheDir = defaults.Audio.CacheDir
	}
	if out.Audio.Artist == "" {
		out.Audio.Artist = defaults.Audio.Artist
	}
	if out.Spotify.ClientID == "" {
		out.Spotify.ClientID = defaults.Spotify.ClientID
	}
	if out.Spotify.ClientSecret == "" {
		out.Spotify.ClientSecret = defaults.Spotify.ClientSecret
	}
	if out.Render.TransitionMS == 0 {
		out.Render.TransitionMS = defaults.Render.TransitionMS
	}
	if out.Render.Width == 0 {
		out.Render.Width = defaults.Render.Width
	}
	if out.Render.Height == 0 {
		out.Render.Height = defaults.Render.Height
	}
	return &out
}

func mergeMap[V any](loaded, defaults map[string]V) map[string]V {
	out := make(map[string]V, len(loaded)+len(defaults))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range loaded {
		out[k] = v
	}
	return out
}

// ApplyEnv overrides cfg from ERASVIZ_* variables. SPOTIFY_ID and
// SPOTIFY_SECRET are honoured as well.
func ApplyEnv(cfg *Config) {
	cfg.LogLevel = envStr("ERASVIZ_LOG_LEVEL", cfg.LogLevel)
	cfg.Server.Port = envInt("ERASVIZ_PORT", cfg.Server.Port)
	if v := os.Getenv("ERASVIZ_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = splitList(v)
	}
	cfg.Store.DBPath = envStr("ERASVIZ_DB_PATH", cfg.Store.DBPath)
	cfg.Audio.Dir = envStr("ERASVIZ_AUDIO_DIR", cfg.Audio.Dir)
	cfg.Audio.CacheDir = envStr("ERASVIZ_CACHE_DIR", cfg.Audio.CacheDir)
	cfg.Audio.YTDLP = envBool("ERASVIZ_YTDLP", cfg.Audio.YTDLP)
	cfg.Audio.Artist = envStr("ERASVIZ_ARTIST", cfg.Audio.Artist)
	cfg.Spotify.ClientID = envStr("ERASVIZ_SPOTIFY_ID", envStr("SPOTIFY_ID", cfg.Spotify.ClientID))
	cfg.Spotify.ClientSecret = envStr("ERASVIZ_SPOTIFY_SECRET", envStr("SPOTIFY_SECRET", cfg.Spotify.ClientSecret))
	cfg.Render.TransitionMS = envInt("ERASVIZ_TRANSITION_MS", cfg.Render.TransitionMS)

	// ERASVIZ_DATASET registers one extra dataset as name=kind:source
	if v := os.Getenv("ERASVIZ_DATASET"); v != "" {
		if name, ds, ok := parseDatasetSpec(v); ok {
			if cfg.Datasets == nil {
				cfg.Datasets = map[string]DatasetConfig{}
			}
			cfg.Datasets[name] = ds
		}
	}
}

func parseDatasetSpec(spec string) (string, DatasetConfig, bool) {
	name, rest, ok := strings.Cut(spec, "=")
	if !ok || name == "" {
		return "", DatasetConfig{}, false
	}
	kind, source, ok := strings.Cut(rest, ":")
	if !ok || source == "" {
		return "", DatasetConfig{}, false
	}
	return name, DatasetConfig{Source: source, Kind: kind}, true
}

func Validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("%w: port must be between 1 and 65535, got %d", ErrInvalidConfig, cfg.Server.Port)
	}
	for name, ds := range cfg.Datasets {
		if ds.Source == "" {
			return fmt.Errorf("%w: dataset %q has no source", ErrInvalidConfig, name)
		}
		if _, err := dataset.ParseKind(ds.Kind); err != nil {
			return fmt.Errorf("%w: dataset %q: %v", ErrInvalidConfig, name, err)
		}
	}
	for name, path := range cfg.Storyboards {
		if path == "" {
			return fmt.Errorf("%w: storyboard %q has no path", ErrInvalidConfig, name)
		}
	}
	if cfg.Render.TransitionMS < 0 {
		return fmt.Errorf("%w: transition_ms must be non-negative, got %d", ErrInvalidConfig, cfg.Render.TransitionMS)
	}
	if cfg.Render.Width <= 0 || cfg.Render.Height <= 0 {
		return fmt.Errorf("%w: chart size must be positive, got %gx%g", ErrInvalidConfig, cfg.Render.Width, cfg.Render.Height)
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
