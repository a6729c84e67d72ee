package playback

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/himanishpuri/erasviz/pkg/models"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

// previewLength is the fixed length of Spotify preview clips.
const previewLength = 30 * time.Second

type trackSearcher interface {
	Search(ctx context.Context, query string, t spotify.SearchType, opts ...spotify.RequestOption) (*spotify.SearchResult, error)
}

// SpotifyResolver looks tracks up on Spotify and plays their 30 second
// preview clip. Lookups are cached per title.
type SpotifyResolver struct {
	client trackSearcher
	artist string

	mu    sync.Mutex
	cache map[string]string
}

// NewSpotifyResolver authenticates with the client-credentials flow, which
// needs no user login.
func NewSpotifyResolver(ctx context.Context, clientID, clientSecret, artist string) (*SpotifyResolver, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("spotify client id and secret are required")
	}
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := cfg.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("spotify token: %w", err)
	}
	client := spotify.New(spotifyauth.New().Client(ctx, token))
	return newSpotifyResolver(client, artist), nil
}

func newSpotifyResolver(client trackSearcher, artist string) *SpotifyResolver {
	return &SpotifyResolver{client: client, artist: artist, cache: make(map[string]string)}
}

func (r *SpotifyResolver) Resolve(ctx context.Context, track models.Track) (Source, error) {
	if track.Title == "" {
		return Source{}, ErrNoResource
	}

	key := strings.ToLower(track.Title)
	r.mu.Lock()
	url, cached := r.cache[key]
	r.mu.Unlock()
	if cached {
		if url == "" {
			return Source{}, fmt.Errorf("%w: no spotify preview for %q", ErrNoResource, track.Title)
		}
		return Source{URL: url, Duration: previewLength}, nil
	}

	query := fmt.Sprintf("track:%s", track.Title)
	if r.artist != "" {
		query += fmt.Sprintf(" artist:%s", r.artist)
	}
	results, err := r.client.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(5))
	if err != nil {
		return Source{}, fmt.Errorf("spotify search: %w", err)
	}

	if results != nil && results.Tracks != nil {
		for _, item := range results.Tracks.Tracks {
			if item.PreviewURL != "" {
				url = item.PreviewURL
				break
			}
		}
	}

	r.mu.Lock()
	r.cache[key] = url
	r.mu.Unlock()

	if url == "" {
		return Source{}, fmt.Errorf("%w: no spotify preview for %q", ErrNoResource, track.Title)
	}
	return Source{URL: url, Duration: previewLength}, nil
}
