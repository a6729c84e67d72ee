//go:build !js && !wasm

package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/himanishpuri/erasviz/pkg/logger"
	"github.com/urfave/cli/v2"
)

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#db3e1d"))

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "erasviz",
		Usage: "Inspect, import and render song feature datasets as coordinated charts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "debug, info, warn or error",
				Value:   "warn",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			if lvl, ok := logger.ParseLevel(c.String("log-level")); ok {
				logger.SetLevel(lvl)
			}
			return nil
		},
		Commands: []*cli.Command{
			inspectCommand(),
			importCommand(),
			datasetsCommand(),
			renderCommand(),
			storyCommand(),
			spectrogramCommand(),
			waveformCommand(),
		},
	}
}
