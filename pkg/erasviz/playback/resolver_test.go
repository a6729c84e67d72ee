package playback

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/himanishpuri/erasviz/pkg/models"
	"github.com/zmb3/spotify/v2"
)

// writeTestWAV writes a mono 16-bit file of the given length.
func writeTestWAV(t *testing.T, path string, sampleRate int, seconds float64) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create wav: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, int(float64(sampleRate)*seconds)),
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("Failed to write wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Failed to close wav encoder: %v", err)
	}
}

func TestFileResolver(t *testing.T) {
	dir := t.TempDir()
	writeTestWAV(t, filepath.Join(dir, "cruel-summer.wav"), 8000, 2)
	if err := os.WriteFile(filepath.Join(dir, "Anti-Hero.mp3"), []byte("ID3"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := FileResolver{Dir: dir}
	ctx := context.Background()

	src, err := r.Resolve(ctx, models.Track{Title: "Cruel Summer"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if filepath.Base(src.Path) != "cruel-summer.wav" {
		t.Errorf("Expected slug match, got %s", src.Path)
	}
	if src.Duration != 2*time.Second {
		t.Errorf("Expected 2s duration, got %v", src.Duration)
	}

	src, err = r.Resolve(ctx, models.Track{Title: "Anti-Hero"})
	if err != nil || filepath.Base(src.Path) != "Anti-Hero.mp3" {
		t.Errorf("Expected exact title match, got %v %v", src, err)
	}
	if src.Duration != 0 {
		t.Errorf("Expected unknown duration without a probe, got %v", src.Duration)
	}

	_, err = r.Resolve(ctx, models.Track{Title: "Missing"})
	if !errors.Is(err, ErrNoResource) {
		t.Errorf("Expected ErrNoResource, got %v", err)
	}
}

func TestWAVDurationCountsOnlyPCM(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		rate    int
		seconds float64
		want    time.Duration
	}{
		{8000, 2, 2 * time.Second},
		{44100, 0.5, 500 * time.Millisecond},
		{22050, 1, time.Second},
	}
	for i, tt := range tests {
		path := filepath.Join(dir, fmt.Sprintf("tone-%d.wav", i))
		writeTestWAV(t, path, tt.rate, tt.seconds)
		got, err := WAVDuration(path)
		if err != nil {
			t.Fatalf("WAVDuration failed: %v", err)
		}
		if got != tt.want {
			t.Errorf("%d Hz, %.1fs: expected %v, got %v", tt.rate, tt.seconds, tt.want, got)
		}
	}

	bad := filepath.Join(dir, "bad.wav")
	os.WriteFile(bad, []byte("not a wav"), 0o644)
	if _, err := WAVDuration(bad); err == nil {
		t.Error("Expected error for a file without a RIFF header")
	}
}

func TestFileResolverUsesProbe(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "willow.m4a"), []byte("x"), 0o644)

	r := FileResolver{Dir: dir, Probe: func(context.Context, string) (time.Duration, error) {
		return 214 * time.Second, nil
	}}
	src, err := r.Resolve(context.Background(), models.Track{Title: "willow", AudioRef: "willow.m4a"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if src.Duration != 214*time.Second {
		t.Errorf("Expected probed duration, got %v", src.Duration)
	}
}

func TestWAVDurationRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	os.WriteFile(path, []byte("INVALID HEADER DATA"), 0o644)
	if _, err := WAVDuration(path); err == nil {
		t.Error("Expected error for invalid WAV")
	}
}

func TestURLAndChainResolver(t *testing.T) {
	ctx := context.Background()
	chain := ChainResolver{FileResolver{Dir: t.TempDir()}, URLResolver{}}

	src, err := chain.Resolve(ctx, models.Track{Title: "x", AudioRef: "https://cdn.test/x.mp3"})
	if err != nil || src.URL != "https://cdn.test/x.mp3" {
		t.Errorf("Expected URL source, got %v %v", src, err)
	}

	_, err = chain.Resolve(ctx, models.Track{Title: "nothing"})
	if !errors.Is(err, ErrNoResource) {
		t.Errorf("Expected ErrNoResource, got %v", err)
	}

	boom := ResolverFunc(func(context.Context, models.Track) (Source, error) {
		return Source{}, errors.New("rate limited")
	})
	_, err = ChainResolver{boom}.Resolve(ctx, models.Track{Title: "y"})
	if !errors.Is(err, ErrNoResource) || err.Error() == "" {
		t.Errorf("Expected wrapped resolver error, got %v", err)
	}
}

type fakeSearcher struct {
	calls   int
	results *spotify.SearchResult
}

func (f *fakeSearcher) Search(ctx context.Context, query string, t spotify.SearchType, opts ...spotify.RequestOption) (*spotify.SearchResult, error) {
	f.calls++
	return f.results, nil
}

func TestSpotifyResolver(t *testing.T) {
	searcher := &fakeSearcher{results: &spotify.SearchResult{
		Tracks: &spotify.FullTrackPage{Tracks: []spotify.FullTrack{
			{SimpleTrack: spotify.SimpleTrack{Name: "Cruel Summer"}},
			{SimpleTrack: spotify.SimpleTrack{Name: "Cruel Summer", PreviewURL: "https://p.scdn.co/mp3-preview/abc"}},
		}},
	}}
	r := newSpotifyResolver(searcher, "Taylor Swift")

	for i := 0; i < 2; i++ {
		src, err := r.Resolve(context.Background(), models.Track{Title: "Cruel Summer"})
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if src.URL != "https://p.scdn.co/mp3-preview/abc" || src.Duration != 30*time.Second {
			t.Errorf("Unexpected source %+v", src)
		}
	}
	if searcher.calls != 1 {
		t.Errorf("Expected cached second lookup, got %d searches", searcher.calls)
	}

	empty := newSpotifyResolver(&fakeSearcher{results: &spotify.SearchResult{}}, "")
	if _, err := empty.Resolve(context.Background(), models.Track{Title: "Nope"}); !errors.Is(err, ErrNoResource) {
		t.Errorf("Expected ErrNoResource without previews, got %v", err)
	}
}
