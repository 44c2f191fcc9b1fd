// Package storage gives the counter access to local input files.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

var ErrNotRegular = errors.New("not a regular file")

type Storage struct{}

// FileStats holds metadata about a file without reading its contents.
type FileStats struct {
	SizeBytes int64
	ModTime   time.Time
}

// GetFileStats returns metadata about a file using os.Stat (no I/O overhead).
// Only regular files qualify since scanning seeks to arbitrary offsets.
func (s *Storage) GetFileStats(filePath string) (*FileStats, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error getting file stats: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", filePath, ErrNotRegular)
	}

	return &FileStats{
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
	}, nil
}

// Open returns an independent read handle with its own file offset.
func (s *Storage) Open(filePath string) (io.ReadSeekCloser, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	return f, nil
}
