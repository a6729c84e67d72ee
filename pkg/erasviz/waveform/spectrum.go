package waveform

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

const (
	WindowSize = 1024
	HopSize    = 512
)

// Hamming returns a Hamming window of length n.
func Hamming(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := range w {
		w[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

// STFT returns the time-major magnitude spectrogram of samples:
// frames[frame][bin], positive frequencies only.
func STFT(samples []float64, windowSize, hopSize int) ([][]float64, error) {
	if windowSize <= 0 || hopSize <= 0 {
		return nil, errors.New("window and hop size must be positive")
	}
	if len(samples) < windowSize {
		return nil, errors.New("input shorter than window size")
	}
	window := Hamming(windowSize)
	frame := make([]float64, windowSize)

	var frames [][]float64
	for start := 0; start+windowSize <= len(samples); start += hopSize {
		for i := range frame {
			frame[i] = samples[start+i] * window[i]
		}
		spec := fft.FFTReal(frame)
		mag := make([]float64, windowSize/2)
		for i := range mag {
			mag[i] = cmplx.Abs(spec[i])
		}
		frames = append(frames, mag)
	}
	return frames, nil
}

// Spectrum averages the STFT of a clip into bands log-spaced between 40 Hz
// and the Nyquist frequency, scaled so the strongest band is 1. Clips
// shorter than one window are zero-padded.
func Spectrum(c Clip, bands int) ([]float64, error) {
	if bands <= 0 {
		return nil, errors.New("band count must be positive")
	}
	if c.SampleRate <= 0 || len(c.Samples) == 0 {
		return nil, errors.New("empty clip")
	}
	samples := c.Samples
	if len(samples) < WindowSize {
		samples = append(append([]float64(nil), samples...), make([]float64, WindowSize-len(samples))...)
	}
	frames, err := STFT(samples, WindowSize, HopSize)
	if err != nil {
		return nil, err
	}

	nyquist := float64(c.SampleRate) / 2
	binHz := nyquist / float64(WindowSize/2)
	lo := math.Log(40)
	hi := math.Log(nyquist)

	out := make([]float64, bands)
	counts := make([]int, bands)
	for _, mag := range frames {
		for bin := 1; bin < len(mag); bin++ {
			hz := float64(bin) * binHz
			if hz < 40 {
				continue
			}
			b := int((math.Log(hz) - lo) / (hi - lo) * float64(bands))
			b = min(max(b, 0), bands-1)
			out[b] += mag[bin]
			counts[b]++
		}
	}
	peak := 0.0
	for i := range out {
		if counts[i] > 0 {
			out[i] /= float64(counts[i])
		}
		peak = math.Max(peak, out[i])
	}
	if peak > 0 {
		for i := range out {
			out[i] /= peak
		}
	}
	return out, nil
}
