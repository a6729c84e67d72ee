//go:build !js && !wasm

package waveform

import (
	"context"
	"path/filepath"
	"strings"
)

// Analyze reads path, converting non-WAV input through ffmpeg into
// cacheDir first, and computes a columns-wide envelope and a bands-wide
// spectrum.
func Analyze(ctx context.Context, path, cacheDir string, columns, bands int) (Analysis, error) {
	wavPath := path
	if !strings.EqualFold(filepath.Ext(path), ".wav") {
		converted, err := ConvertToMonoWAV(ctx, path, cacheDir, 0)
		if err != nil {
			return Analysis{}, err
		}
		wavPath = converted
	}

	clip, err := ReadWAV(wavPath)
	if err != nil {
		return Analysis{}, err
	}
	a := Analysis{
		Path:       wavPath,
		SampleRate: clip.SampleRate,
		Duration:   clip.Duration(),
		Envelope:   Envelope(clip.Samples, columns),
	}
	if bands > 0 {
		if a.Spectrum, err = Spectrum(clip, bands); err != nil {
			return Analysis{}, err
		}
	}
	return a, nil
}
