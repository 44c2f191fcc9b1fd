package count

import (
	"github.com/urfave/cli/v2"

	dbactions "github.com/dtnitsch/wordcount/internal/db"
	"github.com/dtnitsch/wordcount/models"
	"github.com/dtnitsch/wordcount/pkg/wordstream"
)

// Flags returns the flags understood by CountAction.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "threads",
			Aliases: []string{"t"},
			Usage:   "number of chunks scanned in parallel per file",
			Value:   models.DefaultThreads,
			EnvVars: []string{"WORDCOUNT_THREADS"},
		},
		&cli.IntFlag{
			Name:    "bs",
			Aliases: []string{"b"},
			Usage:   "read buffer size in bytes for each chunk scanner",
			Value:   models.DefaultBufferSize,
			EnvVars: []string{"WORDCOUNT_BUFFER_SIZE"},
		},
		&cli.StringFlag{
			Name:    "separators",
			Aliases: []string{"s"},
			Usage:   `separator bytes; escapes \s \t \n \r \v \f \0 \\ \xHH`,
			Value:   wordstream.DefaultSeparators,
			EnvVars: []string{"WORDCOUNT_SEPARATORS"},
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "output format: text, json or yaml",
			Value:   string(models.OutputText),
		},
		&cli.IntFlag{
			Name:  "top",
			Usage: "only print the N most frequent words (0 prints all, ordered by word)",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML config file; flags given explicitly override it",
			EnvVars: []string{"WORDCOUNT_CONFIG"},
		},
		dbactions.DBFlag(),
		&cli.BoolFlag{
			Name:  "no-db",
			Usage: "do not record the run in the history database",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "only log errors",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "log per-chunk progress",
		},
	}
}

// buildConfig layers explicitly set flags over the config file (or defaults)
// and appends positional arguments to the configured files.
func buildConfig(c *cli.Context) (*models.CountConfig, error) {
	cfg := models.DefaultCountConfig()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = models.LoadConfig(path); err != nil {
			return nil, err
		}
	}

	if c.IsSet("threads") {
		cfg.Threads = c.Int("threads")
	}
	if c.IsSet("bs") {
		cfg.BufferSize = c.Int("bs")
	}
	if c.IsSet("separators") {
		cfg.Separators = c.String("separators")
	}
	if c.IsSet("format") {
		cfg.Format = models.OutputFormat(c.String("format"))
	}
	if c.IsSet("top") {
		cfg.Top = c.Int("top")
	}
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	if c.IsSet("no-db") {
		cfg.NoDB = c.Bool("no-db")
	}
	cfg.Files = append(cfg.Files, c.Args().Slice()...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
