package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/wordcount/internal/count"
	dbactions "github.com/dtnitsch/wordcount/internal/db"
	"github.com/dtnitsch/wordcount/pkg/help"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "wordcount",
		Usage:     "count words in large files by scanning byte ranges in parallel",
		ArgsUsage: "FILE...",
		// Bare `wordcount FILE...` behaves like `wordcount count FILE...`.
		Flags:  count.Flags(),
		Action: count.CountAction,
		Commands: []*cli.Command{
			{
				Name:      "count",
				Usage:     "count words in one or more files and print the merged tally",
				ArgsUsage: "FILE...",
				Flags:     count.Flags(),
				Action:    count.CountAction,
			},
			{
				Name:  "runs",
				Usage: "list recorded runs, most recent first",
				Flags: []cli.Flag{
					dbactions.DBFlag(),
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "maximum runs to list (0 for all)"},
					&cli.BoolFlag{Name: "failed", Usage: "only runs with failed inputs"},
					&cli.StringFlag{Name: "path", Usage: "only runs that read a path containing this text"},
				},
				Action: dbactions.RunsAction,
			},
			{
				Name:      "run",
				Usage:     "show one recorded run (latest when no ID is given)",
				ArgsUsage: "[RUN_ID]",
				Flags:     []cli.Flag{dbactions.DBFlag()},
				Action:    dbactions.RunAction,
			},
			{
				Name:  "coldstart",
				Usage: "print a quick start guide",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprint(c.App.Writer, help.ColdstartYAML)
					return err
				},
			},
		},
	}
}
