//go:build js && wasm

package erasviz

import (
	"context"

	"github.com/himanishpuri/erasviz/pkg/erasviz/waveform"
)

func (e *Engine) Analyze(context.Context, string, int) (waveform.Analysis, error) {
	return waveform.Analysis{}, ErrNoAnalysis
}
