package waveform

import "time"

// Analysis is everything the playback panel draws for one track.
type Analysis struct {
	Path       string        `json:"path"`
	SampleRate int           `json:"sample_rate"`
	Duration   time.Duration `json:"duration"`
	Envelope   []float64     `json:"envelope"`
	Spectrum   []float64     `json:"spectrum"`
}
