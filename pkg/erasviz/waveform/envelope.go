package waveform

import "math"

// Envelope reduces samples to columns peak amplitudes, scaled so the
// loudest column is 1. Silence gives all zeros.
func Envelope(samples []float64, columns int) []float64 {
	if columns <= 0 || len(samples) == 0 {
		return nil
	}
	columns = min(columns, len(samples))
	env := make([]float64, columns)
	peak := 0.0
	for c := 0; c < columns; c++ {
		start := c * len(samples) / columns
		end := (c + 1) * len(samples) / columns
		for _, s := range samples[start:end] {
			env[c] = math.Max(env[c], math.Abs(s))
		}
		peak = math.Max(peak, env[c])
	}
	if peak == 0 {
		return env
	}
	for i := range env {
		env[i] /= peak
	}
	return env
}
