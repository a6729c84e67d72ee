// Package waveform turns audio files into the data behind the playback
// panel: a peak envelope, a coarse spectrum and spectrogram images.
package waveform

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-audio/wav"
)

var ErrInvalidWAV = errors.New("invalid WAV file")

// Clip is decoded mono audio normalised to [-1, 1].
type Clip struct {
	Samples    []float64
	SampleRate int
}

func (c Clip) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(c.Samples)) / float64(c.SampleRate) * float64(time.Second))
}

// ReadWAV decodes a PCM WAV file. Multi-channel audio is mixed down by
// averaging the channels of each frame.
func ReadWAV(path string) (Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return Clip{}, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return Clip{}, fmt.Errorf("%w: %s", ErrInvalidWAV, path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Clip{}, fmt.Errorf("reading samples from %s: %w", path, err)
	}

	channels := int(dec.NumChans)
	if channels < 1 {
		return Clip{}, fmt.Errorf("%w: %s has no channels", ErrInvalidWAV, path)
	}
	bitDepth := int(dec.BitDepth)
	if bitDepth < 8 || bitDepth > 32 {
		return Clip{}, fmt.Errorf("%w: unsupported bit depth %d", ErrInvalidWAV, bitDepth)
	}
	maxVal := float64(int64(1) << uint(bitDepth-1))

	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for ch := 0; ch < channels; ch++ {
			sum += float64(buf.Data[i*channels+ch])
		}
		samples[i] = sum / float64(channels) / maxVal
	}
	return Clip{Samples: samples, SampleRate: int(dec.SampleRate)}, nil
}
