package wordcount

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/wordcount/pkg/chunk"
	"github.com/dtnitsch/wordcount/pkg/mapreduce"
	"github.com/dtnitsch/wordcount/pkg/storage"
	"github.com/dtnitsch/wordcount/pkg/wordstream"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func options(parallelism int) Options {
	return Options{
		Separators:  wordstream.NewSeparators([]byte(wordstream.DefaultSeparators)),
		Parallelism: parallelism,
		BufferSize:  16,
	}
}

// reference counts words the simple way for comparison.
func reference(content string) mapreduce.FrequencyMap {
	m := mapreduce.FrequencyMap{}
	for _, w := range strings.FieldsFunc(content, func(r rune) bool {
		return strings.ContainsRune(wordstream.DefaultSeparators, r)
	}) {
		m.Add(w)
	}
	return m
}

func TestCount_BoundaryStraddling(t *testing.T) {
	path := writeFile(t, "aaa bbb ccc")

	res, err := Count(context.Background(), path, options(2))
	require.NoError(t, err)

	assert.Equal(t, mapreduce.FrequencyMap{"aaa": 1, "bbb": 1, "ccc": 1}, res.Counts)
	require.Len(t, res.Chunks, 2)
	assert.Equal(t, uint64(2), res.Chunks[0].Words, "bbb belongs to the chunk holding its first byte")
	assert.Equal(t, uint64(1), res.Chunks[1].Words)
	assert.Equal(t, chunk.ByteRange{Offset: 6, Length: 5}, res.Chunks[1].Range)
	assert.Equal(t, uint64(3), res.Words)
	assert.Equal(t, int64(11), res.SizeBytes)
	assert.False(t, res.ModTime.IsZero())
}

func TestCount_EmptyFile(t *testing.T) {
	path := writeFile(t, "")

	res, err := Count(context.Background(), path, options(4))
	require.NoError(t, err)
	assert.Empty(t, res.Counts)
	assert.Empty(t, res.Chunks)
	assert.Zero(t, res.Words)
}

func TestCount_ParallelismInvariance(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	vocab := []string{"the", "quick", "brown", "fox", "jumps", "über", "Fox", "a"}
	seps := []string{" ", "  ", "\n", "\t", "\r\n"}

	var sb strings.Builder
	for i := 0; i < 2000; i++ {
		sb.WriteString(vocab[rng.Intn(len(vocab))])
		sb.WriteString(seps[rng.Intn(len(seps))])
	}
	content := sb.String()
	path := writeFile(t, content)
	want := reference(content)

	single, err := Count(context.Background(), path, options(1))
	require.NoError(t, err)
	require.Equal(t, want, single.Counts)

	for p := 2; p <= 16; p++ {
		for _, bufSize := range []int{1, 7, 4096} {
			opts := options(p)
			opts.BufferSize = bufSize
			res, err := Count(context.Background(), path, opts)
			require.NoError(t, err)
			require.Equalf(t, single.Counts, res.Counts, "parallelism=%d bufSize=%d", p, bufSize)
		}
	}
}

func TestCount_TrailingWordAtEOF(t *testing.T) {
	path := writeFile(t, "alpha beta gamma")

	for p := 1; p <= 8; p++ {
		res, err := Count(context.Background(), path, options(p))
		require.NoError(t, err)
		assert.Equalf(t, mapreduce.FrequencyMap{"alpha": 1, "beta": 1, "gamma": 1}, res.Counts, "parallelism=%d", p)
	}
}

func TestCount_InvalidUTF8(t *testing.T) {
	path := writeFile(t, "good \xff\xfe good\n")

	res, err := Count(context.Background(), path, options(3))
	require.NoError(t, err)
	assert.Equal(t, mapreduce.FrequencyMap{"good": 2}, res.Counts)
	assert.Equal(t, uint64(1), res.InvalidWords)
}

func TestCount_MetadataError(t *testing.T) {
	_, err := Count(context.Background(), filepath.Join(t.TempDir(), "missing"), options(2))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMetadata)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, KindMetadata, Kind(err))
}

func TestNew_InvalidOptions(t *testing.T) {
	for _, opts := range []Options{
		{Parallelism: 0, BufferSize: 10},
		{Parallelism: 2, BufferSize: 0},
	} {
		_, err := New(&storage.Storage{}, opts)
		assert.ErrorIs(t, err, ErrInvalidOptions)
	}
}

// fakeSource wraps the real filesystem and lets tests break individual opens.
type fakeSource struct {
	storage.Storage
	openErr error
	wrap    func(io.ReadSeekCloser) io.ReadSeekCloser
}

func (f *fakeSource) Open(path string) (io.ReadSeekCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	rc, err := f.Storage.Open(path)
	if err != nil || f.wrap == nil {
		return rc, err
	}
	return f.wrap(rc), nil
}

type panickyReader struct {
	io.ReadSeekCloser
}

func (panickyReader) Read([]byte) (int, error) {
	panic("scanner blew up")
}

type brokenReader struct {
	io.ReadSeekCloser
}

func (brokenReader) Read([]byte) (int, error) {
	return 0, errors.New("i/o error")
}

func TestCounter_FatalChunkErrors(t *testing.T) {
	path := writeFile(t, "one two three four five six")

	tests := []struct {
		name     string
		source   *fakeSource
		sentinel error
		kind     string
	}{
		{
			name:     "open failure",
			source:   &fakeSource{openErr: errors.New("too many open files")},
			sentinel: ErrOpen,
			kind:     KindOpen,
		},
		{
			name: "read failure",
			source: &fakeSource{wrap: func(rc io.ReadSeekCloser) io.ReadSeekCloser {
				return brokenReader{rc}
			}},
			sentinel: ErrRead,
			kind:     KindRead,
		},
		{
			name: "worker panic",
			source: &fakeSource{wrap: func(rc io.ReadSeekCloser) io.ReadSeekCloser {
				return panickyReader{rc}
			}},
			sentinel: ErrWorkerPanic,
			kind:     KindPanic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.source, options(3))
			require.NoError(t, err)

			res, err := c.Count(context.Background(), path)
			assert.Nil(t, res, "no partial result on failure")
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, tt.kind, Kind(err))
		})
	}
}

func TestCountFiles_SourceIsolation(t *testing.T) {
	good1 := writeFile(t, "to be or not to be")
	good2 := writeFile(t, "be quick")
	missing := filepath.Join(t.TempDir(), "nope.txt")

	c, err := New(&storage.Storage{}, options(4))
	require.NoError(t, err)

	results, err := c.CountFiles(context.Background(), []string{good1, missing, good2})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.NotNil(t, results[0].Result)
	assert.Nil(t, results[0].Err)

	require.NotNil(t, results[1].Err)
	assert.Nil(t, results[1].Result)
	assert.Equal(t, missing, results[1].Err.Path)
	assert.Equal(t, KindMetadata, results[1].Err.Kind())
	assert.Contains(t, results[1].Err.Error(), missing)

	assert.NotNil(t, results[2].Result)

	merged := Merge(results)
	assert.Equal(t, mapreduce.FrequencyMap{"to": 2, "be": 3, "or": 1, "not": 1, "quick": 1}, merged)
}

// panicOnPath panics inside the scanner for one path only.
type panicOnPath struct {
	storage.Storage
	path   string
	opened []string
}

func (p *panicOnPath) Open(path string) (io.ReadSeekCloser, error) {
	p.opened = append(p.opened, path)
	rc, err := p.Storage.Open(path)
	if err != nil || path != p.path {
		return rc, err
	}
	return panickyReader{rc}, nil
}

func TestCountFiles_WorkerPanicAbortsRun(t *testing.T) {
	good := writeFile(t, "alpha beta")
	bad := writeFile(t, "gamma delta")
	later := writeFile(t, "never read")

	src := &panicOnPath{path: bad}
	// One chunk per file keeps Open calls in a single goroutine.
	c, err := New(src, options(1))
	require.NoError(t, err)

	results, err := c.CountFiles(context.Background(), []string{good, bad, later})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWorkerPanic)
	assert.Equal(t, KindPanic, Kind(err))

	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, bad, srcErr.Path)

	require.Len(t, results, 2, "no result for inputs after the panic")
	assert.NotNil(t, results[0].Result)
	assert.Nil(t, results[1].Result)
	require.NotNil(t, results[1].Err)
	assert.NotContains(t, src.opened, later)
}

func TestKind(t *testing.T) {
	assert.Equal(t, "", Kind(nil))
	assert.Equal(t, KindSeek, Kind(wordstream.ErrSeek))
	assert.Equal(t, KindCanceled, Kind(context.Canceled))
	assert.Equal(t, KindUnknown, Kind(errors.New("other")))
}
