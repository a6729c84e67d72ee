//go:build !js && !wasm

package erasviz

import "github.com/himanishpuri/erasviz/pkg/erasviz/playback"

// defaultResolver plays URLs directly and otherwise looks for a file named
// after the track in AudioDir.
func defaultResolver(cfg *Config) playback.Resolver {
	return playback.ChainResolver{
		playback.URLResolver{},
		playback.FileResolver{Dir: cfg.AudioDir, Probe: playback.ProbeDuration},
	}
}
