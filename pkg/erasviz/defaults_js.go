//go:build js && wasm

package erasviz

import "github.com/himanishpuri/erasviz/pkg/erasviz/playback"

// The browser has no filesystem; only URL audio references can play.
func defaultResolver(*Config) playback.Resolver {
	return playback.URLResolver{}
}
