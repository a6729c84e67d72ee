//go:build !js && !wasm

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/himanishpuri/erasviz/pkg/erasviz"
	"github.com/himanishpuri/erasviz/pkg/erasviz/playback"
	"github.com/himanishpuri/erasviz/pkg/logger"
)

func TestEngineOptions(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "chart.csv")
	boardPath := filepath.Join(dir, "story.yaml")
	os.WriteFile(csvPath, []byte("title,album,danceability\nA,Lover,0.5\n"), 0o644)
	os.WriteFile(boardPath, []byte("name: story\nsections:\n  - title: One\n    highlight: [0]\n"), 0o644)

	cfg := DefaultConfig()
	cfg.Datasets["tour"] = DatasetConfig{Source: csvPath, Kind: "setlist"}
	cfg.Storyboards["story"] = boardPath
	cfg.Store.DBPath = filepath.Join(dir, "erasviz.sqlite3")

	opts, release, err := cfg.EngineOptions(context.Background(), logger.Discard())
	if err != nil {
		t.Fatalf("EngineOptions failed: %v", err)
	}
	defer release()

	e, err := erasviz.New(opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer e.Close()

	if names := e.DatasetNames(); len(names) != 1 || names[0] != "tour" {
		t.Errorf("Expected [tour], got %v", names)
	}
	if _, err := e.Storyboard("story"); err != nil {
		t.Errorf("Expected storyboard loaded, got %v", err)
	}
	if e.Config().Store == nil {
		t.Error("Expected store configured")
	}
}

func TestResolverChain(t *testing.T) {
	cfg := DefaultConfig()
	if got := len(cfg.Resolver(context.Background(), logger.Discard()).(playback.ChainResolver)); got != 2 {
		t.Errorf("Expected url and file resolvers, got %d", got)
	}
	cfg.Audio.YTDLP = true
	if got := len(cfg.Resolver(context.Background(), logger.Discard()).(playback.ChainResolver)); got != 3 {
		t.Errorf("Expected yt-dlp appended, got %d", got)
	}
}

func TestEngineOptionsRejectsMissingStoryboard(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storyboards["gone"] = filepath.Join(t.TempDir(), "gone.yaml")
	if _, _, err := cfg.EngineOptions(context.Background(), logger.Discard()); err == nil {
		t.Error("Expected missing storyboard to fail")
	}
}
