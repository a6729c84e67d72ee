//go:build !js && !wasm

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/himanishpuri/erasviz/pkg/erasviz/playback"
	"github.com/himanishpuri/erasviz/pkg/erasviz/waveform"
	"github.com/urfave/cli/v2"
)

var cacheDirFlag = &cli.StringFlag{
	Name:    "cache-dir",
	Usage:   "where converted WAV files are kept",
	Value:   "/tmp/erasviz",
	EnvVars: []string{"ERASVIZ_CACHE_DIR"},
}

func spectrogramCommand() *cli.Command {
	return &cli.Command{
		Name:      "spectrogram",
		Usage:     "Draw the spectrogram of an audio file as PNG",
		ArgsUsage: "<audio>",
		Flags: []cli.Flag{
			cacheDirFlag,
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output PNG (default <name>.png)"},
			&cli.IntFlag{Name: "width", Value: 1024},
			&cli.IntFlag{Name: "height", Value: 256},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("spectrogram needs exactly one audio file", 2)
			}
			in := c.Args().First()
			ctx, cancel := context.WithTimeout(c.Context, 2*time.Minute)
			defer cancel()

			clip, err := readClip(ctx, in, c.String("cache-dir"))
			if err != nil {
				return err
			}
			out := c.String("out")
			if out == "" {
				out = strings.TrimSuffix(filepath.Base(in), filepath.Ext(in)) + ".png"
			}
			if err := waveform.WriteSpectrogramPNG(clip, out, c.Int("width"), c.Int("height")); err != nil {
				return err
			}
			fmt.Printf("Wrote %s (%s of audio)\n", out, clip.Duration().Round(time.Millisecond))
			return nil
		},
	}
}

func waveformCommand() *cli.Command {
	return &cli.Command{
		Name:      "waveform",
		Usage:     "Print the waveform envelope and spectrum of an audio file",
		ArgsUsage: "<audio>",
		Flags: []cli.Flag{
			cacheDirFlag,
			&cli.IntFlag{Name: "columns", Value: 72},
			&cli.IntFlag{Name: "bands", Value: 24},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("waveform needs exactly one audio file", 2)
			}
			ctx, cancel := context.WithTimeout(c.Context, 2*time.Minute)
			defer cancel()

			in := c.Args().First()
			a, err := waveform.Analyze(ctx, in, c.String("cache-dir"), c.Int("columns"), c.Int("bands"))
			if err != nil {
				return err
			}
			title := filepath.Base(in)
			if meta, err := playback.ProbeMetadata(ctx, in); err == nil && meta.String() != "" {
				title = meta.String()
			}
			fmt.Println(titleStyle.Render(title))
			fmt.Printf("%d Hz, %s\n", a.SampleRate, a.Duration.Round(time.Millisecond))
			fmt.Println("envelope ", sparkline(a.Envelope))
			fmt.Println("spectrum ", sparkline(a.Spectrum))
			return nil
		},
	}
}

func readClip(ctx context.Context, path, cacheDir string) (waveform.Clip, error) {
	if !strings.EqualFold(filepath.Ext(path), ".wav") {
		converted, err := waveform.ConvertToMonoWAV(ctx, path, cacheDir, 0)
		if err != nil {
			return waveform.Clip{}, err
		}
		path = converted
	}
	return waveform.ReadWAV(path)
}

var blocks = []rune("▁▂▃▄▅▆▇█")

// sparkline draws values in [0,1] as block characters.
func sparkline(values []float64) string {
	var b strings.Builder
	for _, v := range values {
		i := int(v * float64(len(blocks)-1))
		if i < 0 {
			i = 0
		} else if i >= len(blocks) {
			i = len(blocks) - 1
		}
		b.WriteRune(blocks[i])
	}
	return b.String()
}
