//go:build !js && !wasm
// +build !js,!wasm

package playback

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/himanishpuri/erasviz/pkg/models"
	"github.com/himanishpuri/erasviz/pkg/utils"
	"github.com/lrstanley/go-ytdlp"
)

// YTDLPResolver downloads a track's audio with yt-dlp into CacheDir as WAV.
// A YouTube URL in the audio reference is used directly; otherwise the
// first search result for "<artist> <title>" is taken.
type YTDLPResolver struct {
	CacheDir string
	Artist   string
}

func (r YTDLPResolver) Resolve(ctx context.Context, track models.Track) (Source, error) {
	if track.Title == "" && !utils.IsYouTubeURL(track.AudioRef) {
		return Source{}, ErrNoResource
	}

	target, stem := r.target(track)
	out := filepath.Join(r.CacheDir, stem+".wav")
	if !utils.FileExists(out) {
		if err := utils.MakeDir(r.CacheDir); err != nil {
			return Source{}, fmt.Errorf("creating cache dir: %w", err)
		}
		_, err := ytdlp.New().
			NoPlaylist().
			ExtractAudio().
			AudioFormat("wav").
			Output(filepath.Join(r.CacheDir, stem+".%(ext)s")).
			Run(ctx, target)
		if err != nil {
			return Source{}, fmt.Errorf("yt-dlp %s: %w", target, err)
		}
		if !utils.FileExists(out) {
			return Source{}, fmt.Errorf("%w: yt-dlp produced no audio for %q", ErrNoResource, track.Title)
		}
	}

	d, err := WAVDuration(out)
	if err != nil {
		d = 0
	}
	return Source{Path: out, Duration: d}, nil
}

// target returns the yt-dlp argument and the cache file stem for track.
func (r YTDLPResolver) target(track models.Track) (string, string) {
	if utils.IsYouTubeURL(track.AudioRef) {
		if id, err := utils.ExtractYouTubeID(track.AudioRef); err == nil {
			return track.AudioRef, "yt-" + id
		}
		return track.AudioRef, utils.SafeFileName(track.AudioRef)
	}
	if utils.IsYouTubeID(track.AudioRef) {
		return "https://www.youtube.com/watch?v=" + track.AudioRef, "yt-" + track.AudioRef
	}
	query := track.Title
	if r.Artist != "" {
		query = r.Artist + " " + track.Title
	}
	return "ytsearch1:" + query + " audio", utils.SafeFileName(track.Title)
}
