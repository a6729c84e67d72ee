package playback

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/wav"
	"github.com/himanishpuri/erasviz/pkg/models"
	"github.com/himanishpuri/erasviz/pkg/utils"
)

// URLResolver plays tracks whose audio reference is already a URL.
type URLResolver struct{}

func (URLResolver) Resolve(ctx context.Context, track models.Track) (Source, error) {
	ref := track.AudioRef
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return Source{URL: ref}, nil
	}
	return Source{}, ErrNoResource
}

// FileResolver finds audio files in Dir. It tries the audio reference as a
// path, then "<title>.<ext>" and "<slug>.<ext>" for each extension.
type FileResolver struct {
	Dir  string
	Exts []string
	// Probe measures non-WAV durations. Optional.
	Probe func(ctx context.Context, path string) (time.Duration, error)
}

var defaultExts = []string{".mp3", ".wav", ".m4a", ".ogg"}

func (r FileResolver) Resolve(ctx context.Context, track models.Track) (Source, error) {
	for _, path := range r.candidates(track) {
		if !utils.FileExists(path) {
			continue
		}
		return Source{Path: path, Duration: r.duration(ctx, path)}, nil
	}
	return Source{}, fmt.Errorf("%w: no audio file for %q in %s", ErrNoResource, track.Title, r.Dir)
}

func (r FileResolver) candidates(track models.Track) []string {
	exts := r.Exts
	if len(exts) == 0 {
		exts = defaultExts
	}
	var out []string
	if ref := track.AudioRef; ref != "" && !strings.Contains(ref, "://") {
		if filepath.IsAbs(ref) {
			out = append(out, ref)
		} else {
			out = append(out, filepath.Join(r.Dir, ref))
		}
	}
	if track.Title == "" {
		return out
	}
	for _, stem := range []string{track.Title, utils.SafeFileName(track.Title)} {
		for _, ext := range exts {
			out = append(out, filepath.Join(r.Dir, stem+ext))
		}
	}
	return out
}

func (r FileResolver) duration(ctx context.Context, path string) time.Duration {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		if d, err := WAVDuration(path); err == nil {
			return d
		}
	}
	if r.Probe != nil {
		if d, err := r.Probe(ctx, path); err == nil {
			return d
		}
	}
	return 0
}

// WAVDuration computes the playing time from the size of the PCM data
// chunk. The RIFF size in the header also counts the fmt chunk and any
// metadata, so it overstates the audio.
func WAVDuration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return 0, fmt.Errorf("%s is not a valid WAV file", path)
	}
	if err := dec.FwdToPCM(); err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	bytesPerSec := int64(dec.SampleRate) * int64(dec.NumChans) * int64(dec.BitDepth/8)
	if bytesPerSec == 0 {
		return 0, fmt.Errorf("%s has no sample format", path)
	}
	return time.Duration(dec.PCMLen() * int64(time.Second) / bytesPerSec), nil
}

// ChainResolver tries each resolver in order and returns the first source.
type ChainResolver []Resolver

func (c ChainResolver) Resolve(ctx context.Context, track models.Track) (Source, error) {
	var errs []error
	for _, r := range c {
		if err := ctx.Err(); err != nil {
			return Source{}, err
		}
		src, err := r.Resolve(ctx, track)
		if err == nil {
			return src, nil
		}
		if !errors.Is(err, ErrNoResource) {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return Source{}, fmt.Errorf("%w: %w", ErrNoResource, errors.Join(errs...))
	}
	return Source{}, fmt.Errorf("%w for %q", ErrNoResource, track.Title)
}
