package wordstream

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultSeparators are the bytes treated as word boundaries when nothing else is configured.
const DefaultSeparators = " \t\n\r"

var ErrNoSeparators = errors.New("separator set is empty")

// Separators classifies every byte value as either a separator or a word byte.
// The zero value has no separators, so a whole file would be one word.
type Separators struct {
	set [256]bool
}

// NewSeparators builds a set from raw bytes. Duplicates are ignored.
func NewSeparators(bytes []byte) Separators {
	var s Separators
	for _, b := range bytes {
		s.set[b] = true
	}
	return s
}

// ParseSeparators builds a set from a user supplied string. Backslash
// escapes \t \n \r \v \f \0 \\ and \xHH are understood so separators can be
// given on a command line or in YAML without literal control characters.
func ParseSeparators(s string) (Separators, error) {
	var out []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			out = append(out, c)
			continue
		}
		if i+1 >= len(s) {
			return Separators{}, fmt.Errorf("trailing backslash in separators %q", s)
		}
		i++
		switch s[i] {
		case 't':
			out = append(out, '\t')
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 'v':
			out = append(out, '\v')
		case 'f':
			out = append(out, '\f')
		case '0':
			out = append(out, 0)
		case 's':
			out = append(out, ' ')
		case '\\':
			out = append(out, '\\')
		case 'x':
			if i+2 >= len(s) {
				return Separators{}, fmt.Errorf("short \\x escape in separators %q", s)
			}
			v, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
			if err != nil {
				return Separators{}, fmt.Errorf("invalid \\x escape in separators %q: %w", s, err)
			}
			out = append(out, byte(v))
			i += 2
		default:
			return Separators{}, fmt.Errorf("unknown escape \\%c in separators %q", s[i], s)
		}
	}

	if len(out) == 0 {
		return Separators{}, ErrNoSeparators
	}
	return NewSeparators(out), nil
}

// IsSeparator reports whether b is a word boundary.
func (s Separators) IsSeparator(b byte) bool {
	return s.set[b]
}

// Len returns the number of distinct separator bytes.
func (s Separators) Len() int {
	n := 0
	for _, ok := range s.set {
		if ok {
			n++
		}
	}
	return n
}

// Bytes returns the separator bytes in ascending order.
func (s Separators) Bytes() []byte {
	out := make([]byte, 0, s.Len())
	for b, ok := range s.set {
		if ok {
			out = append(out, byte(b))
		}
	}
	return out
}

// String renders the set in the escaped form ParseSeparators accepts.
func (s Separators) String() string {
	var sb strings.Builder
	for _, b := range s.Bytes() {
		switch b {
		case ' ':
			sb.WriteString(`\s`)
		case '\t':
			sb.WriteString(`\t`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\v':
			sb.WriteString(`\v`)
		case '\f':
			sb.WriteString(`\f`)
		case '\\':
			sb.WriteString(`\\`)
		default:
			if b < 0x20 || b >= 0x7f {
				fmt.Fprintf(&sb, `\x%02x`, b)
			} else {
				sb.WriteByte(b)
			}
		}
	}
	return sb.String()
}
