// Package chunk splits a byte length into contiguous ranges for parallel scanning.
package chunk

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidParts  = errors.New("parts must be at least 1")
	ErrInvalidLength = errors.New("total length must not be negative")
)

// ByteRange is a half-open interval [Offset, Offset+Length) of a file.
type ByteRange struct {
	Offset int64 `json:"offset" yaml:"offset"`
	Length int64 `json:"length" yaml:"length"`
}

// End returns the first offset past the range.
func (r ByteRange) End() int64 {
	return r.Offset + r.Length
}

func (r ByteRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.Offset, r.End())
}

// Plan divides total bytes into at most parts ranges of ceil(total/parts)
// bytes each. The final range takes whatever remains, and planning stops
// as soon as the ranges cover total, so fewer than parts ranges may be
// returned. A zero total yields no ranges.
func Plan(total int64, parts int) ([]ByteRange, error) {
	if parts < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidParts, parts)
	}
	if total < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLength, total)
	}

	n := int64(parts)
	size := total / n
	if size*n < total {
		size++
	}

	count := n
	if total < count {
		count = total
	}
	ranges := make([]ByteRange, 0, count)
	// offset never exceeds total, so it cannot overflow near math.MaxInt64.
	for offset := int64(0); offset < total; {
		length := min(size, total-offset)
		ranges = append(ranges, ByteRange{Offset: offset, Length: length})
		offset += length
	}

	return ranges, nil
}
