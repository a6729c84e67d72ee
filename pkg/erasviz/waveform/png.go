package waveform

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/eligwz/spectrogram"
)

// WriteSpectrogramPNG draws an FFT spectrogram of c on a black width x
// height canvas and saves it to path.
func WriteSpectrogramPNG(c Clip, path string, width, height int) error {
	if len(c.Samples) == 0 {
		return fmt.Errorf("no samples to draw")
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", width, height)
	}
	img := spectrogram.NewImage128(image.Rect(0, 0, width, height))
	black := spectrogram.ParseColor("000000")
	draw.Draw(img, img.Bounds(), image.NewUniform(black), image.Point{}, draw.Src)

	// Hamming window, FFT, linear magnitude
	spectrogram.Drawfft(img, c.Samples, uint32(c.SampleRate), uint32(height), false, false, true, false)

	if err := spectrogram.SavePng(img, path); err != nil {
		return fmt.Errorf("saving spectrogram %s: %w", path, err)
	}
	return nil
}
