package count

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/wordcount/models"
	"github.com/dtnitsch/wordcount/pkg/db"
	"github.com/dtnitsch/wordcount/pkg/manifest"
	"github.com/dtnitsch/wordcount/pkg/mapreduce"
	"github.com/dtnitsch/wordcount/pkg/storage"
	"github.com/dtnitsch/wordcount/pkg/wordcount"
)

// Exit codes: 1 when some input failed, 2 for bad invocations, 3 when a
// worker crashed and the run was abandoned.
const (
	exitInputFailed = 1
	exitUsage       = 2
	exitAborted     = 3
)

// newSource supplies the inputs counted by CountAction. Tests replace it.
var newSource = func() wordcount.Source { return &storage.Storage{} }

func newLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	} else if c.Bool("verbose") {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: logLevel}))
}

// CountAction counts every input file, prints the merged tally and records
// the run. A failing input is reported and skipped; the others still count.
func CountAction(c *cli.Context) error {
	logger := newLogger(c)

	cfg, err := buildConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	if len(cfg.Files) == 0 {
		return cli.Exit("no input files given", exitUsage)
	}

	seps, err := cfg.SeparatorSet()
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	counter, err := wordcount.New(newSource(), wordcount.Options{
		Separators:  seps,
		Parallelism: cfg.Threads,
		BufferSize:  cfg.BufferSize,
		Logger:      logger,
	})
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	startTime := time.Now()
	logger.Info("Starting count", "files", len(cfg.Files), "threads", cfg.Threads, "buffer_size", cfg.BufferSize, "separators", seps.String())

	results, err := counter.CountFiles(c.Context, cfg.Files)
	if err != nil {
		logger.Error("Count aborted", "files_read", len(results), "error", err)
		return cli.Exit(fmt.Sprintf("WordCount aborted: %v", err), exitAborted)
	}
	merged := wordcount.Merge(results)
	elapsed := time.Since(startTime)

	var runID int64
	if !cfg.NoDB {
		runID, err = recordRun(cfg, seps.String(), results, merged, elapsed)
		if err != nil {
			logger.Warn("Failed to record run", "error", err)
		} else {
			logger.Info("Recorded run", "run_id", runID)
		}
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(c.App.ErrWriter, "WordCount error for %s: %v\n", r.Path, r.Err.Err)
		}
	}

	if err := writeOutput(c.App.Writer, cfg, seps.String(), results, merged, runID); err != nil {
		return err
	}

	logger.Info("Count finished", "files", len(results), "failed", failed, "distinct_words", len(merged), "elapsed", elapsed)
	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d inputs failed", failed, len(results)), exitInputFailed)
	}
	return nil
}

func writeOutput(w io.Writer, cfg *models.CountConfig, separators string, results []wordcount.SourceResult, merged mapreduce.FrequencyMap, runID int64) error {
	format, err := models.ParseOutputFormat(string(cfg.Format))
	if err != nil {
		return err
	}

	if format == models.OutputText {
		entries := mapreduce.Sorted(merged)
		if cfg.Top > 0 {
			entries = mapreduce.TopKeywords(merged, cfg.Top)
		}
		return mapreduce.PrintCounts(w, entries)
	}

	summary := manifest.GenerateSummary(results, merged, manifest.Settings{
		Threads:    cfg.Threads,
		BufferSize: cfg.BufferSize,
		Separators: separators,
	}, cfg.Top)
	summary.RunID = runID
	return manifest.Write(w, summary, format)
}

// topWordsStored is how many merged words each run keeps in the history.
const topWordsStored = 25

func recordRun(cfg *models.CountConfig, separators string, results []wordcount.SourceResult, merged mapreduce.FrequencyMap, elapsed time.Duration) (int64, error) {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runID, err := database.CreateRun(cfg.Threads, cfg.BufferSize, separators, len(results))
	if err != nil {
		return 0, err
	}

	success, failed := 0, 0
	for _, r := range results {
		s := manifest.Summarize(r)
		if s.Status == manifest.StatusFailed {
			failed++
		} else {
			success++
		}
		if err := database.InsertRunSource(runID, db.RunSource{
			Path:          s.Path,
			Status:        s.Status,
			ErrorType:     s.ErrorType,
			ErrorMessage:  s.ErrorMessage,
			SizeBytes:     s.SizeBytes,
			ChunkCount:    s.Chunks,
			TotalWords:    int64(s.Words),
			DistinctWords: s.DistinctWords,
			InvalidWords:  int64(s.InvalidWords),
			ElapsedMS:     s.ElapsedMS,
		}); err != nil {
			return runID, err
		}
	}

	top := mapreduce.TopKeywords(merged, topWordsStored)
	words := make([]db.RunWord, len(top))
	for i, wc := range top {
		words[i] = db.RunWord{Rank: i + 1, Word: wc.Word, Count: int64(wc.Count)}
	}
	if err := database.InsertRunWords(runID, words); err != nil {
		return runID, err
	}

	if err := database.FinishRun(runID, success, failed, int64(merged.Total()), len(merged), elapsed); err != nil {
		return runID, err
	}
	return runID, nil
}
