//go:build !js && !wasm

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/himanishpuri/erasviz/pkg/erasviz/dataset"
	"github.com/himanishpuri/erasviz/pkg/erasviz/highlight"
	"github.com/himanishpuri/erasviz/pkg/erasviz/render"
	"github.com/himanishpuri/erasviz/pkg/erasviz/storage"
	"github.com/himanishpuri/erasviz/pkg/logger"
	"github.com/himanishpuri/erasviz/pkg/models"
	"github.com/urfave/cli/v2"
)

var (
	kindFlag = &cli.StringFlag{
		Name:    "kind",
		Aliases: []string{"k"},
		Usage:   "dataset kind: chart, setlist or catalog",
		Value:   string(dataset.KindChart),
	}
	dbFlag = &cli.StringFlag{
		Name:    "db",
		Usage:   "SQLite database for imported datasets",
		Value:   storage.DefaultDBFile,
		EnvVars: []string{"ERASVIZ_DB_PATH"},
	}
)

func kindOf(c *cli.Context) (dataset.Kind, error) {
	return dataset.ParseKind(c.String("kind"))
}

// newLoader returns a loader that can also read "sqlite://#name" sources
// from the --db database when the command has that flag.
func newLoader(c *cli.Context) (*dataset.Loader, func() error, error) {
	loader := dataset.NewLoader(logger.GetLogger().Named("dataset"))
	release := func() error { return nil }
	if !strings.HasPrefix(c.Args().First(), "sqlite://") {
		return loader, release, nil
	}
	db, err := storage.NewDBClientWithPath(c.String("db"))
	if err != nil {
		return nil, release, err
	}
	loader.Store = db
	return loader, db.Close, nil
}

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Load a dataset and print what survived filtering",
		ArgsUsage: "<source>",
		Flags: []cli.Flag{
			kindFlag,
			dbFlag,
			&cli.BoolFlag{Name: "dropped", Usage: "list the rows that were dropped"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("inspect needs exactly one source", 2)
			}
			kind, err := kindOf(c)
			if err != nil {
				return err
			}
			loader, release, err := newLoader(c)
			if err != nil {
				return err
			}
			defer release()

			ctx, cancel := context.WithTimeout(c.Context, 30*time.Second)
			defer cancel()
			ds, err := loader.Load(ctx, c.Args().First(), kind)
			if err != nil {
				return err
			}

			fmt.Println(titleStyle.Render(ds.Name))
			fmt.Printf("%s tracks, %s dropped\n", humanize.Comma(int64(len(ds.Tracks))), humanize.Comma(int64(ds.Dropped)))
			fmt.Println(render.Legend(ds.Tracks))
			fmt.Println(render.TextStrip(ds.Tracks, highlight.Set{}, -1, 60))
			fmt.Println()
			printEraSummary(ds.Tracks)

			if c.Bool("dropped") {
				for _, m := range ds.Malformed {
					fmt.Println("  ", m.String())
				}
			}
			return nil
		},
	}
}

func printEraSummary(tracks []models.Track) {
	means := render.EraMeans(tracks, models.ReleaseOrder)
	shares := render.Shares(tracks, models.ReleaseOrder)
	fmt.Printf("%-12s %6s %6s %8s\n", "era", "tracks", "mean", "above")
	for i, m := range means {
		fmt.Printf("%-12s %6d %6.3f %7.1f%%\n", m.Era, m.Count, m.Mean, shares[i].AbovePct)
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Store a dataset in the SQLite database",
		ArgsUsage: "<csv>",
		Flags: []cli.Flag{
			kindFlag,
			dbFlag,
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "dataset name (defaults to the file name)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("import needs exactly one csv", 2)
			}
			kind, err := kindOf(c)
			if err != nil {
				return err
			}
			db, err := storage.NewDBClientWithPath(c.String("db"))
			if err != nil {
				return err
			}
			defer db.Close()

			loader := dataset.NewLoader(logger.GetLogger().Named("dataset"))
			n, err := loader.Import(c.Context, c.Args().First(), kind, c.String("name"), db)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %s rows into %s\n", humanize.Comma(int64(n)), db.Path())
			return nil
		},
	}
}

func datasetsCommand() *cli.Command {
	return &cli.Command{
		Name:  "datasets",
		Usage: "List datasets in the SQLite database",
		Flags: []cli.Flag{dbFlag},
		Action: func(c *cli.Context) error {
			db, err := storage.NewDBClientWithPath(c.String("db"))
			if err != nil {
				return err
			}
			defer db.Close()

			infos, err := db.ListDatasets()
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Println("No datasets imported")
				return nil
			}
			for _, info := range infos {
				created := humanize.Time(time.Unix(info.Created, 0))
				fmt.Printf("%-20s %-8s %6s rows  %s  (%s)\n", info.Name, info.Kind, humanize.Comma(int64(info.Rows)), info.Source, created)
			}
			return nil
		},
	}
}
