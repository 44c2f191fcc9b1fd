package db

import (
	"fmt"
	"strings"

	dbpkg "github.com/dtnitsch/wordcount/pkg/db"
	"github.com/urfave/cli/v2"
)

// GetRunIDOrLatest returns the run ID from args, or the latest run if not provided
func GetRunIDOrLatest(c *cli.Context, database *dbpkg.DB) (int64, error) {
	if c.NArg() == 0 {
		runs, err := database.ListRuns(1)
		if err != nil {
			return 0, fmt.Errorf("failed to get latest run: %w", err)
		}
		if len(runs) == 0 {
			return 0, fmt.Errorf("no runs found. Run 'wordcount count <file>' first")
		}
		return runs[0].RunID, nil
	}

	var runID int64
	_, err := fmt.Sscanf(c.Args().First(), "%d", &runID)
	if err != nil {
		return 0, fmt.Errorf("invalid run ID: %s", c.Args().First())
	}
	return runID, nil
}

// RunsAction lists recent runs, optionally filtered
func RunsAction(c *cli.Context) error {
	database, err := dbpkg.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	failedOnly := c.Bool("failed")
	pathPattern := c.String("path")

	runs, err := database.QueryRuns(failedOnly, pathPattern, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	w := c.App.Writer
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found")
		return nil
	}

	fmt.Fprintf(w, "%-6s %-20s %-8s %-8s %-8s %-8s %-12s %-10s\n",
		"ID", "Created", "Files", "Success", "Failed", "Threads", "Words", "Elapsed")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for _, r := range runs {
		fmt.Fprintf(w, "%-6d %-20s %-8d %-8d %-8d %-8d %-12d %-10s\n",
			r.RunID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.SourceCount,
			r.SuccessCount,
			r.FailedCount,
			r.Threads,
			r.TotalWords,
			fmt.Sprintf("%dms", r.ElapsedMS),
		)
	}

	fmt.Fprintf(w, "\nTotal: %d runs\n", len(runs))
	fmt.Fprintf(w, "\nTip: Use 'wordcount run <id>' to see details\n")

	return nil
}

// RunAction shows details for a specific run
func RunAction(c *cli.Context) error {
	database, err := dbpkg.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runID, err := GetRunIDOrLatest(c, database)
	if err != nil {
		return err
	}

	run, err := database.GetRunByID(runID)
	if err != nil {
		return err
	}

	sources, err := database.GetRunSources(runID)
	if err != nil {
		return err
	}

	words, err := database.GetRunWords(runID)
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Run %d\n", run.RunID)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Created:     %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Files:       %d total (%d success, %d failed)\n",
		run.SourceCount, run.SuccessCount, run.FailedCount)
	fmt.Fprintf(w, "Threads:     %d\n", run.Threads)
	fmt.Fprintf(w, "Buffer:      %d bytes\n", run.BufferSize)
	fmt.Fprintf(w, "Separators:  %s\n", run.Separators)
	fmt.Fprintf(w, "Words:       %d (%d distinct)\n", run.TotalWords, run.DistinctWords)
	fmt.Fprintf(w, "Elapsed:     %dms\n", run.ElapsedMS)

	fmt.Fprintf(w, "\nFiles (%d):\n", len(sources))
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for i, s := range sources {
		fmt.Fprintf(w, "%2d. [%s] %s\n", i+1, s.Status, s.Path)
		if s.Status == "failed" {
			fmt.Fprintf(w, "    Error: [%s] %s\n", s.ErrorType, s.ErrorMessage)
			continue
		}
		fmt.Fprintf(w, "    Size: %d bytes | Chunks: %d | Words: %d (%d distinct) | Time: %dms\n",
			s.SizeBytes, s.ChunkCount, s.TotalWords, s.DistinctWords, s.ElapsedMS)
		if s.InvalidWords > 0 {
			fmt.Fprintf(w, "    Dropped %d words that were not valid UTF-8\n", s.InvalidWords)
		}
	}

	if len(words) > 0 {
		fmt.Fprintf(w, "\nTop words (%d):\n", len(words))
		fmt.Fprintln(w, strings.Repeat("-", 60))
		for _, tw := range words {
			fmt.Fprintf(w, "%2d. %s: %d\n", tw.Rank, tw.Word, tw.Count)
		}
	}

	return nil
}
