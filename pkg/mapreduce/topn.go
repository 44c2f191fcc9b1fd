package mapreduce

import (
	"fmt"
	"io"
	"sort"
)

// WordCount is one entry of a frequency map.
type WordCount struct {
	Word  string `json:"word" yaml:"word"`
	Count uint64 `json:"count" yaml:"count"`
}

func (wc WordCount) String() string {
	return fmt.Sprintf("%s:%d", wc.Word, wc.Count)
}

// Sorted returns all entries ordered by word, the order used for final output.
func Sorted(counts FrequencyMap) []WordCount {
	ss := make([]WordCount, 0, len(counts))
	for k, v := range counts {
		ss = append(ss, WordCount{k, v})
	}

	sort.Slice(ss, func(i, j int) bool {
		return ss[i].Word < ss[j].Word
	})
	return ss
}

// TopKeywords returns the n most frequent words, most frequent first.
// Ties are broken by word so the result is deterministic.
func TopKeywords(counts FrequencyMap, n int) []WordCount {
	ss := make([]WordCount, 0, len(counts))
	for k, v := range counts {
		ss = append(ss, WordCount{k, v})
	}

	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Count != ss[j].Count {
			return ss[i].Count > ss[j].Count
		}
		return ss[i].Word < ss[j].Word
	})

	limit := n
	if len(ss) < n {
		limit = len(ss)
	}
	if limit < 0 {
		limit = 0
	}

	return ss[:limit]
}

// FormatKeywords renders entries as "word:count" strings (e.g. "learning:1153").
func FormatKeywords(entries []WordCount) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.String()
	}
	return out
}

// PrintCounts writes entries one per line as "word -> count".
func PrintCounts(w io.Writer, entries []WordCount) error {
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s -> %d\n", e.Word, e.Count); err != nil {
			return err
		}
	}
	return nil
}
