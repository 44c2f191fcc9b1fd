package wordcount

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtnitsch/wordcount/pkg/wordstream"
)

var (
	ErrInvalidOptions = errors.New("invalid options")
	ErrMetadata       = errors.New("metadata error")
	ErrOpen           = errors.New("open error")
	ErrSeek           = wordstream.ErrSeek
	ErrRead           = wordstream.ErrRead
	ErrWorkerPanic    = errors.New("worker panic")
)

// Error kinds as recorded in reports and the run history.
const (
	KindOptions  = "options_error"
	KindMetadata = "metadata_error"
	KindOpen     = "open_error"
	KindSeek     = "seek_error"
	KindRead     = "read_error"
	KindPanic    = "worker_panic"
	KindCanceled = "canceled"
	KindUnknown  = "error"
)

// Kind classifies err into one of the Kind* labels.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidOptions):
		return KindOptions
	case errors.Is(err, ErrMetadata):
		return KindMetadata
	case errors.Is(err, ErrOpen):
		return KindOpen
	case errors.Is(err, ErrSeek):
		return KindSeek
	case errors.Is(err, ErrRead):
		return KindRead
	case errors.Is(err, ErrWorkerPanic):
		return KindPanic
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindUnknown
	}
}

// SourceError labels a failure with the input it belongs to.
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Kind returns the classification of the underlying error.
func (e *SourceError) Kind() string {
	return Kind(e.Err)
}
