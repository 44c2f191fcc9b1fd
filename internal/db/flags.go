package db

import "github.com/urfave/cli/v2"

// DBFlag selects the run history database for every command that reads or
// records runs.
func DBFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "db",
		Usage:   "run history database (default: next to the binary)",
		EnvVars: []string{"WORDCOUNT_DB"},
	}
}
