package manifest

import (
	"time"

	"github.com/dtnitsch/wordcount/pkg/mapreduce"
)

// SummaryManifest is the structured output of a count run. It carries the
// merged counts plus a per-input outcome so failed inputs stay visible.
type SummaryManifest struct {
	GeneratedAt   string                `json:"generated_at" yaml:"generated_at"`
	RunID         int64                 `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Settings      Settings              `json:"settings" yaml:"settings"`
	TotalSources  int                   `json:"total_sources" yaml:"total_sources"`
	Successful    int                   `json:"successful" yaml:"successful"`
	Failed        int                   `json:"failed" yaml:"failed"`
	TotalWords    uint64                `json:"total_words" yaml:"total_words"`
	DistinctWords int                   `json:"distinct_words" yaml:"distinct_words"`
	TopKeywords   []string              `json:"top_keywords,omitempty" yaml:"top_keywords,omitempty"`
	Words         []mapreduce.WordCount `json:"words" yaml:"words"`
	Results       []SourceSummary       `json:"results" yaml:"results"`
}

// Settings echoes the parameters the run used.
type Settings struct {
	Threads    int    `json:"threads" yaml:"threads"`
	BufferSize int    `json:"buffer_size" yaml:"buffer_size"`
	Separators string `json:"separators" yaml:"separators"`
}

// SourceSummary represents summary information for a single input file.
type SourceSummary struct {
	Path          string    `json:"path" yaml:"path"`
	Status        string    `json:"status" yaml:"status"` // "success" or "failed"
	ErrorType     string    `json:"error_type,omitempty" yaml:"error_type,omitempty"`
	ErrorMessage  string    `json:"error_message,omitempty" yaml:"error_message,omitempty"`
	SizeBytes     int64     `json:"size_bytes,omitempty" yaml:"size_bytes,omitempty"`
	ModTime       time.Time `json:"mod_time,omitzero" yaml:"mod_time,omitempty"`
	Chunks        int       `json:"chunks,omitempty" yaml:"chunks,omitempty"`
	Words         uint64    `json:"words,omitempty" yaml:"words,omitempty"`
	DistinctWords int       `json:"distinct_words,omitempty" yaml:"distinct_words,omitempty"`
	InvalidWords  uint64    `json:"invalid_words,omitempty" yaml:"invalid_words,omitempty"`
	ElapsedMS     int64     `json:"elapsed_ms" yaml:"elapsed_ms"`
}
