package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "erasviz.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Render.Transition().Milliseconds() != 400 {
		t.Errorf("Expected 400ms transition, got %v", cfg.Render.Transition())
	}
	if cfg.Spotify.Enabled() {
		t.Error("Expected spotify disabled without credentials")
	}
}

func TestLoadMergesWithDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
datasets:
  chart:
    source: data/chart_performance.csv
    kind: chart
render:
  width: 1024
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "*" {
		t.Errorf("Expected default origins, got %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Render.Width != 1024 || cfg.Render.Height != 500 {
		t.Errorf("Expected 1024x500, got %gx%g", cfg.Render.Width, cfg.Render.Height)
	}
	if ds := cfg.Datasets["chart"]; ds.Kind != "chart" {
		t.Errorf("Expected chart dataset, got %+v", ds)
	}
	if cfg.Audio.Dir != "audio" {
		t.Errorf("Expected default audio dir, got %s", cfg.Audio.Dir)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ERASVIZ_PORT", "7000")
	t.Setenv("ERASVIZ_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("ERASVIZ_YTDLP", "true")
	t.Setenv("SPOTIFY_ID", "id")
	t.Setenv("SPOTIFY_SECRET", "secret")
	t.Setenv("ERASVIZ_DATASET", "tour=setlist:data/setlist.csv")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Expected port 7000, got %d", cfg.Server.Port)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "http://b.test" {
		t.Errorf("Expected two trimmed origins, got %v", cfg.Server.AllowedOrigins)
	}
	if !cfg.Audio.YTDLP {
		t.Error("Expected ytdlp enabled")
	}
	if !cfg.Spotify.Enabled() {
		t.Error("Expected spotify enabled from SPOTIFY_ID/SPOTIFY_SECRET")
	}
	if ds := cfg.Datasets["tour"]; ds.Source != "data/setlist.csv" || ds.Kind != "setlist" {
		t.Errorf("Expected tour dataset from env, got %+v", ds)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port", func(c *Config) { c.Server.Port = 70000 }},
		{"dataset source", func(c *Config) { c.Datasets["x"] = DatasetConfig{Kind: "chart"} }},
		{"dataset kind", func(c *Config) { c.Datasets["x"] = DatasetConfig{Source: "a.csv", Kind: "pie"} }},
		{"storyboard path", func(c *Config) { c.Storyboards["x"] = "" }},
		{"transition", func(c *Config) { c.Render.TransitionMS = -1 }},
		{"size", func(c *Config) { c.Render.Height = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := Validate(cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
	if err := Validate(DefaultConfig()); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "server: [")); err == nil {
		t.Error("Expected parse error")
	}
}
