//go:build !js && !wasm

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/himanishpuri/erasviz/pkg/erasviz"
	"github.com/himanishpuri/erasviz/pkg/erasviz/highlight"
	"github.com/himanishpuri/erasviz/pkg/erasviz/render"
	"github.com/himanishpuri/erasviz/pkg/erasviz/storage"
	"github.com/himanishpuri/erasviz/pkg/logger"
	"github.com/himanishpuri/erasviz/pkg/utils"
	"github.com/urfave/cli/v2"
)

// cliDataset is the registry name of the dataset given on the command line.
const cliDataset = "cli"

var viewFlags = []cli.Flag{
	kindFlag,
	dbFlag,
	&cli.StringFlag{
		Name:  "storyboard",
		Usage: "built-in storyboard name or path to a storyboard YAML file",
		Value: "setlist",
	},
	&cli.Float64Flag{Name: "width", Value: 800},
	&cli.Float64Flag{Name: "height", Value: 500},
}

// openView mounts one chart over the source given as the first argument.
// The returned func closes the engine and any database it opened.
func openView(c *cli.Context, chart string, trackID int) (*erasviz.View, func(), error) {
	if c.NArg() != 1 {
		return nil, nil, cli.Exit("expected exactly one dataset source", 2)
	}
	kind, err := kindOf(c)
	if err != nil {
		return nil, nil, err
	}
	source := c.Args().First()

	opts := []erasviz.Option{
		erasviz.WithLogger(logger.GetLogger()),
		erasviz.WithTransition(0),
		erasviz.WithDataset(cliDataset, source, kind),
	}
	if dir := c.String("audio-dir"); dir != "" {
		opts = append(opts, erasviz.WithAudioDir(dir))
	}

	board := c.String("storyboard")
	if utils.FileExists(board) {
		sb, err := highlight.LoadStoryboard(board)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, erasviz.WithStoryboard(sb.Name, sb))
		board = sb.Name
	}

	var db *storage.DBClient
	if strings.HasPrefix(source, "sqlite://") {
		if db, err = storage.NewDBClientWithPath(c.String("db")); err != nil {
			return nil, nil, err
		}
		opts = append(opts, erasviz.WithStore(db))
	}

	e, err := erasviz.New(opts...)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	closeAll := func() {
		e.Close()
		db.Close()
	}

	v, err := e.Mount(c.Context, erasviz.ViewConfig{
		Chart:      chart,
		Dataset:    cliDataset,
		Storyboard: board,
		Width:      c.Float64("width"),
		Height:     c.Float64("height"),
		TrackID:    trackID,
	})
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	if v.Status() == render.StatusFailed {
		closeAll()
		return nil, nil, v.Err()
	}
	return v, closeAll, nil
}

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Render one chart at one storyboard section as SVG",
		ArgsUsage: "<source>",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "chart", Aliases: []string{"c"}, Value: erasviz.ChartScatter, Usage: strings.Join(erasviz.Charts(), ", ")},
			&cli.IntFlag{Name: "section", Aliases: []string{"s"}, Usage: "storyboard section to show"},
			&cli.IntFlag{Name: "track", Usage: "track id for the waveform chart"},
			&cli.StringFlag{Name: "audio-dir", Usage: "directory with track audio for the waveform chart"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (default stdout)"},
		}, viewFlags...),
		Action: func(c *cli.Context) error {
			v, closeAll, err := openView(c, c.String("chart"), c.Int("track"))
			if err != nil {
				return err
			}
			defer closeAll()

			v.Scroll(float64(c.Int("section")) * c.Float64("height"))

			var w io.Writer = os.Stdout
			if out := c.String("out"); out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("creating %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}
			return v.WriteSVG(w)
		},
	}
}

func storyCommand() *cli.Command {
	return &cli.Command{
		Name:      "story",
		Usage:     "Simulate scrolling through a storyboard and print each highlight",
		ArgsUsage: "<source>",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "offsets", Usage: "comma-separated scroll offsets (default: the start of every section)"},
			&cli.IntFlag{Name: "columns", Value: 60, Usage: "dots per row"},
		}, viewFlags...),
		Action: func(c *cli.Context) error {
			v, closeAll, err := openView(c, erasviz.ChartSetlist, 0)
			if err != nil {
				return err
			}
			defer closeAll()

			offsets, err := parseOffsets(c.String("offsets"))
			if err != nil {
				return err
			}
			if offsets == nil {
				step := c.Float64("height")
				for y := 0.0; y < v.ContainerHeight()-step; y += step {
					offsets = append(offsets, y)
				}
			}

			tracks := v.Dataset().Tracks
			for _, off := range offsets {
				ss, _ := v.Scroll(off)
				sec, _ := v.Section()
				fmt.Printf("%s %s\n", titleStyle.Render(fmt.Sprintf("@%-6.0f §%d %3.0f%%", off, ss.SectionIndex, ss.Progress*100)), sec.Title)
				fmt.Println(render.TextStrip(tracks, v.Highlight().Highlight, -1, c.Int("columns")))
			}
			fmt.Printf("%d highlight transitions\n", v.Highlight().Transitions)
			return nil
		},
	}
}

func parseOffsets(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []float64
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid offset %q: %w", part, err)
		}
		out = append(out, v)
	}
	return out, nil
}
