//go:build !js && !wasm

package erasviz

import (
	"context"
	"fmt"

	"github.com/himanishpuri/erasviz/pkg/erasviz/waveform"
)

// Analyze computes the waveform envelope and spectrum of a track's audio.
// Only audio the resolver finds on local disk can be analyzed.
func (e *Engine) Analyze(ctx context.Context, datasetName string, trackID int) (waveform.Analysis, error) {
	ds, err := e.Dataset(ctx, datasetName)
	if err != nil {
		return waveform.Analysis{}, err
	}
	track, ok := ds.Track(trackID)
	if !ok {
		return waveform.Analysis{}, fmt.Errorf("%w: %d", ErrUnknownTrack, trackID)
	}

	rctx, cancel := context.WithTimeout(ctx, e.config.ResolveTimeout)
	src, err := e.config.Resolver.Resolve(rctx, track)
	cancel()
	if err != nil {
		return waveform.Analysis{}, fmt.Errorf("%w: %v", ErrNoAnalysis, err)
	}
	if src.Path == "" {
		return waveform.Analysis{}, fmt.Errorf("%w: %q is not a local file", ErrNoAnalysis, src.Location())
	}

	a, err := waveform.Analyze(ctx, src.Path, e.config.CacheDir, e.config.WaveformColumns, e.config.SpectrumBands)
	if err != nil {
		return waveform.Analysis{}, fmt.Errorf("analyzing %q: %w", track.Title, err)
	}
	e.log.Debugf("analyzed %q: %s, %d columns", track.Title, a.Duration, len(a.Envelope))
	return a, nil
}
