package wordcount

import (
	"context"
	"errors"

	"github.com/dtnitsch/wordcount/pkg/mapreduce"
)

// SourceResult is the outcome for one input of a multi-file run. Exactly one
// of Result and Err is set.
type SourceResult struct {
	Path   string
	Result *Result
	Err    *SourceError
}

// CountFiles counts each path in turn. A metadata, open, seek or read
// failure is recorded and does not stop the others. A worker panic aborts
// the run: the results gathered so far are returned with the panic error and
// no later path is read.
func (c *Counter) CountFiles(ctx context.Context, paths []string) ([]SourceResult, error) {
	results := make([]SourceResult, 0, len(paths))
	for _, path := range paths {
		res, err := c.Count(ctx, path)
		if err != nil {
			srcErr := &SourceError{Path: path, Err: err}
			results = append(results, SourceResult{Path: path, Err: srcErr})
			if errors.Is(err, ErrWorkerPanic) {
				c.logger.Error("Aborting run", "path", path, "error_type", Kind(err), "error", err)
				return results, srcErr
			}
			c.logger.Warn("Skipping input", "path", path, "error_type", Kind(err), "error", err)
			continue
		}
		if res.InvalidWords > 0 {
			c.logger.Warn("Dropped words that are not valid UTF-8", "path", path, "invalid_words", res.InvalidWords)
		}
		results = append(results, SourceResult{Path: path, Result: res})
	}
	return results, nil
}

// Merge sums the counts of every successful input.
func Merge(results []SourceResult) mapreduce.FrequencyMap {
	maps := make([]mapreduce.FrequencyMap, 0, len(results))
	for _, r := range results {
		if r.Result != nil {
			maps = append(maps, r.Result.Counts)
		}
	}
	return mapreduce.Reduce(maps)
}
