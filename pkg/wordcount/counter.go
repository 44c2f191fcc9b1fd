// Package wordcount counts the words of a file by scanning byte-range chunks
// of it concurrently and merging the per-chunk tallies.
package wordcount

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dtnitsch/wordcount/pkg/chunk"
	"github.com/dtnitsch/wordcount/pkg/mapreduce"
	"github.com/dtnitsch/wordcount/pkg/storage"
	"github.com/dtnitsch/wordcount/pkg/wordstream"
)

// ctxCheckInterval is how many words a worker scans between checks for a
// failed sibling.
const ctxCheckInterval = 4096

// Source provides size metadata and independent read handles for an input.
// *storage.Storage is the production implementation.
type Source interface {
	GetFileStats(path string) (*storage.FileStats, error)
	Open(path string) (io.ReadSeekCloser, error)
}

// Options are the explicit parameters of a count. There are no defaults
// here; callers decide every value.
type Options struct {
	Separators  wordstream.Separators
	Parallelism int
	BufferSize  int
	Logger      *slog.Logger
}

func (o Options) validate() error {
	if o.Parallelism < 1 {
		return fmt.Errorf("%w: parallelism must be at least 1, got %d", ErrInvalidOptions, o.Parallelism)
	}
	if o.BufferSize < 1 {
		return fmt.Errorf("%w: buffer size must be at least 1, got %d", ErrInvalidOptions, o.BufferSize)
	}
	return nil
}

// ChunkStat describes the work done by one chunk's scanner.
type ChunkStat struct {
	Index    int             `json:"index" yaml:"index"`
	Range    chunk.ByteRange `json:"range" yaml:"range"`
	Words    uint64          `json:"words" yaml:"words"`
	Distinct int             `json:"distinct" yaml:"distinct"`
	Invalid  uint64          `json:"invalid,omitempty" yaml:"invalid,omitempty"`
	Consumed int64           `json:"consumed" yaml:"consumed"`
}

// Result is the merged outcome of counting one input.
type Result struct {
	Path         string
	SizeBytes    int64
	ModTime      time.Time
	Chunks       []ChunkStat
	Counts       mapreduce.FrequencyMap
	Words        uint64
	InvalidWords uint64
	Elapsed      time.Duration
}

type Counter struct {
	source Source
	opts   Options
	logger *slog.Logger
}

// New returns a Counter reading inputs through source.
func New(source Source, opts Options) (*Counter, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Counter{source: source, opts: opts, logger: logger}, nil
}

// Count counts the words of the file at path using the local filesystem.
func Count(ctx context.Context, path string, opts Options) (*Result, error) {
	c, err := New(&storage.Storage{}, opts)
	if err != nil {
		return nil, err
	}
	return c.Count(ctx, path)
}

type chunkResult struct {
	counts mapreduce.FrequencyMap
	stat   ChunkStat
}

// Count plans chunks for path, scans each in its own goroutine and merges
// the partial maps once every scanner has finished. Any chunk failure,
// including a panic, fails the whole count and no partial result is returned.
func (c *Counter) Count(ctx context.Context, path string) (*Result, error) {
	start := time.Now()

	stats, err := c.source.GetFileStats(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMetadata, err)
	}

	ranges, err := chunk.Plan(stats.SizeBytes, c.opts.Parallelism)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	c.logger.Info("Starting to read", "path", path, "size_bytes", stats.SizeBytes, "chunks", len(ranges), "buffer_size", c.opts.BufferSize)

	partials := make([]chunkResult, len(ranges))
	g, gctx := errgroup.WithContext(ctx)
	for i, rng := range ranges {
		i, rng := i, rng
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: chunk %d %s: %v", ErrWorkerPanic, i, rng, r)
				}
			}()

			part, err := c.scanChunk(gctx, path, i, rng)
			if err != nil {
				return err
			}
			partials[i] = part
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		c.logger.Error("Counting failed", "path", path, "error", err)
		return nil, err
	}

	result := &Result{
		Path:      path,
		SizeBytes: stats.SizeBytes,
		ModTime:   stats.ModTime,
		Chunks:    make([]ChunkStat, len(partials)),
	}
	maps := make([]mapreduce.FrequencyMap, len(partials))
	for i, p := range partials {
		maps[i] = p.counts
		result.Chunks[i] = p.stat
		result.Words += p.stat.Words
		result.InvalidWords += p.stat.Invalid
	}
	result.Counts = mapreduce.Reduce(maps)
	result.Elapsed = time.Since(start)

	c.logger.Info("Finished reading", "path", path, "words", result.Words, "distinct", len(result.Counts), "invalid_words", result.InvalidWords, "elapsed", result.Elapsed)
	return result, nil
}

func (c *Counter) scanChunk(ctx context.Context, path string, idx int, rng chunk.ByteRange) (chunkResult, error) {
	f, err := c.source.Open(path)
	if err != nil {
		return chunkResult{}, fmt.Errorf("%w: chunk %d: %w", ErrOpen, idx, err)
	}
	defer f.Close()

	s, err := wordstream.New(f, c.opts.BufferSize, rng, c.opts.Separators)
	if err != nil {
		return chunkResult{}, fmt.Errorf("chunk %d %s: %w", idx, rng, err)
	}

	counts := make(mapreduce.FrequencyMap)
	var words uint64
	for s.Next() {
		counts.Add(s.Word())
		words++
		if words%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return chunkResult{}, err
			}
		}
	}
	if err := s.Err(); err != nil {
		return chunkResult{}, fmt.Errorf("chunk %d %s: %w", idx, rng, err)
	}

	stat := ChunkStat{
		Index:    idx,
		Range:    s.Range(),
		Words:    words,
		Distinct: len(counts),
		Invalid:  s.Invalid(),
		Consumed: s.Consumed(),
	}
	c.logger.Debug("Chunk done", "path", path, "chunk", idx, "offset", rng.Offset, "length", rng.Length, "words", words, "consumed", stat.Consumed)

	return chunkResult{counts: counts, stat: stat}, nil
}
