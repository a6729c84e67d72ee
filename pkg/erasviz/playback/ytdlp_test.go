//go:build !js && !wasm

package playback

import (
	"context"
	"errors"
	"testing"

	"github.com/himanishpuri/erasviz/pkg/models"
)

func TestYTDLPTarget(t *testing.T) {
	r := YTDLPResolver{CacheDir: t.TempDir(), Artist: "Taylor Swift"}
	tests := []struct {
		name      string
		track     models.Track
		wantQuery string
		wantStem  string
	}{
		{
			"watch url",
			models.Track{Title: "Cruel Summer", AudioRef: "https://www.youtube.com/watch?v=ic8j13piAhQ"},
			"https://www.youtube.com/watch?v=ic8j13piAhQ", "yt-ic8j13piAhQ",
		},
		{
			"short url",
			models.Track{Title: "Cruel Summer", AudioRef: "https://youtu.be/ic8j13piAhQ"},
			"https://youtu.be/ic8j13piAhQ", "yt-ic8j13piAhQ",
		},
		{
			"youtube url without id",
			models.Track{AudioRef: "https://www.youtube.com/channel/xyz"},
			"https://www.youtube.com/channel/xyz", "https-www-youtube-com-channel-xyz",
		},
		{
			"bare id",
			models.Track{Title: "Anti-Hero", AudioRef: "b1kbLwvqugk"},
			"https://www.youtube.com/watch?v=b1kbLwvqugk", "yt-b1kbLwvqugk",
		},
		{
			"search with artist",
			models.Track{Title: "Cruel Summer"},
			"ytsearch1:Taylor Swift Cruel Summer audio", "cruel-summer",
		},
		{
			"local reference falls back to search",
			models.Track{Title: "Don't Blame Me", AudioRef: "songs/dont-blame-me.mp3"},
			"ytsearch1:Taylor Swift Don't Blame Me audio", "dont-blame-me",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, stem := r.target(tt.track)
			if query != tt.wantQuery {
				t.Errorf("Expected query %q, got %q", tt.wantQuery, query)
			}
			if stem != tt.wantStem {
				t.Errorf("Expected stem %q, got %q", tt.wantStem, stem)
			}
		})
	}

	query, _ := YTDLPResolver{}.target(models.Track{Title: "Anti-Hero"})
	if query != "ytsearch1:Anti-Hero audio" {
		t.Errorf("Expected search without artist, got %q", query)
	}
}

func TestYTDLPNeedsTitleOrURL(t *testing.T) {
	r := YTDLPResolver{CacheDir: t.TempDir()}
	_, err := r.Resolve(context.Background(), models.Track{AudioRef: "songs/untitled.mp3"})
	if !errors.Is(err, ErrNoResource) {
		t.Errorf("Expected ErrNoResource, got %v", err)
	}
}
