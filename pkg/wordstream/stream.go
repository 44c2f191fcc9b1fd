// Package wordstream reads the words that begin inside one byte range of a
// seekable source.
//
// A range rarely starts or ends on a word boundary. The scanner peeks at the
// byte just before its range to decide whether it starts mid-word, discards
// such a leading fragment (it belongs to the previous range), and reads any
// word that starts inside its range to completion even when the word runs
// past the range end. Every word of a file is therefore produced by exactly
// one scanner: the one whose range holds the word's first byte.
package wordstream

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/dtnitsch/wordcount/pkg/chunk"
)

var (
	ErrInvalidBufferSize = errors.New("buffer size must be at least 1")
	ErrSeek              = errors.New("seek error")
	ErrRead              = errors.New("read error")
)

// maxEmptyReads bounds consecutive (0, nil) reads before giving up, as bufio does.
const maxEmptyReads = 100

type state int

const (
	stateLeading    state = iota // discarding the tail of the previous range's word
	stateSeparators              // between words
	stateWord                    // accumulating a word
	stateDone
)

// Scanner produces the words owned by one byte range. It is not safe for
// concurrent use and cannot be restarted.
type Scanner struct {
	r    io.Reader
	rng  chunk.ByteRange
	seps Separators

	buf      []byte
	pos, end int
	eof      bool

	// consumed counts bytes read since the range's nominal start. The
	// lookback byte before the range is not included.
	consumed int64

	state   state
	word    []byte
	current string
	invalid uint64
	err     error
}

// New positions r for scanning rng and classifies the range start.
// r is owned by the scanner from here on; the caller remains responsible
// for closing it.
func New(r io.ReadSeeker, bufSize int, rng chunk.ByteRange, seps Separators) (*Scanner, error) {
	if bufSize < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBufferSize, bufSize)
	}

	start := rng.Offset
	if start > 0 {
		start--
	}
	if _, err := r.Seek(start, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: offset %d: %v", ErrSeek, start, err)
	}

	s := &Scanner{
		r:     r,
		rng:   rng,
		seps:  seps,
		buf:   make([]byte, bufSize),
		state: stateSeparators,
	}

	if rng.Offset != 0 {
		b, ok := s.getc()
		if s.err != nil {
			return nil, s.err
		}
		if ok && !seps.IsSeparator(b) {
			s.state = stateLeading
		}
	}

	return s, nil
}

// Next advances to the next word and reports whether one is available.
// It returns false at the end of the range's words or on a read error;
// Err distinguishes the two.
func (s *Scanner) Next() bool {
	for {
		switch s.state {
		case stateLeading:
			b, ok := s.getc()
			if !ok {
				s.state = stateDone
				return false
			}
			s.consumed++
			if s.seps.IsSeparator(b) {
				s.state = stateSeparators
			}

		case stateSeparators:
			b, ok := s.getc()
			if !ok {
				s.state = stateDone
				return false
			}
			s.consumed++
			if s.seps.IsSeparator(b) {
				continue
			}
			// b is the first byte of a word. It lies at position consumed-1
			// relative to the range start, so it is ours only while that is
			// inside the range.
			if s.consumed > s.rng.Length {
				s.state = stateDone
				return false
			}
			s.word = append(s.word[:0], b)
			s.state = stateWord

		case stateWord:
			b, ok := s.getc()
			if ok {
				s.consumed++
				if !s.seps.IsSeparator(b) {
					s.word = append(s.word, b)
					continue
				}
			} else if s.err != nil {
				s.state = stateDone
				return false
			}

			s.state = stateSeparators
			if !utf8.Valid(s.word) {
				s.invalid++
				continue
			}
			s.current = string(s.word)
			return true

		default:
			return false
		}
	}
}

// Word returns the word produced by the most recent successful Next.
func (s *Scanner) Word() string {
	return s.current
}

// Err returns the first read error encountered, if any.
func (s *Scanner) Err() error {
	return s.err
}

// Invalid returns how many words were dropped because they were not valid UTF-8.
func (s *Scanner) Invalid() uint64 {
	return s.invalid
}

// Consumed returns the number of bytes read past the range start so far.
func (s *Scanner) Consumed() int64 {
	return s.consumed
}

// Range returns the byte range this scanner owns.
func (s *Scanner) Range() chunk.ByteRange {
	return s.rng
}

func (s *Scanner) getc() (byte, bool) {
	if s.pos == s.end && !s.fill() {
		return 0, false
	}
	b := s.buf[s.pos]
	s.pos++
	return b, true
}

// fill refills the buffer. It returns false at end of input or on error.
func (s *Scanner) fill() bool {
	if s.eof || s.err != nil {
		return false
	}
	for i := 0; i < maxEmptyReads; i++ {
		n, err := s.r.Read(s.buf)
		s.pos, s.end = 0, n
		switch {
		case err == io.EOF:
			s.eof = true
		case err != nil:
			s.err = fmt.Errorf("%w: %v", ErrRead, err)
			// bytes that arrived with the error are not trusted
			s.end = 0
			return false
		}
		if n > 0 {
			return true
		}
		if s.eof {
			return false
		}
	}
	s.err = fmt.Errorf("%w: %v", ErrRead, io.ErrNoProgress)
	return false
}
