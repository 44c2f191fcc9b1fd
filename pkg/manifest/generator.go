package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/wordcount/models"
	"github.com/dtnitsch/wordcount/pkg/mapreduce"
	"github.com/dtnitsch/wordcount/pkg/wordcount"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// aggregateKeywords is how many keywords the summary header lists.
const aggregateKeywords = 25

// GenerateSummary builds the manifest for a finished run. With top > 0 only
// the top most frequent words are listed, otherwise every word in word order.
func GenerateSummary(results []wordcount.SourceResult, merged mapreduce.FrequencyMap, settings Settings, top int) SummaryManifest {
	manifest := SummaryManifest{
		GeneratedAt:   time.Now().Format(time.RFC3339),
		Settings:      settings,
		TotalSources:  len(results),
		TotalWords:    merged.Total(),
		DistinctWords: len(merged),
		TopKeywords:   mapreduce.FormatKeywords(mapreduce.TopKeywords(merged, aggregateKeywords)),
		Results:       make([]SourceSummary, 0, len(results)),
	}

	if top > 0 {
		manifest.Words = mapreduce.TopKeywords(merged, top)
	} else {
		manifest.Words = mapreduce.Sorted(merged)
	}

	for _, result := range results {
		summary := Summarize(result)
		if summary.Status == StatusFailed {
			manifest.Failed++
		} else {
			manifest.Successful++
		}
		manifest.Results = append(manifest.Results, summary)
	}

	return manifest
}

// Summarize converts one input's outcome into its summary entry.
func Summarize(result wordcount.SourceResult) SourceSummary {
	summary := SourceSummary{Path: result.Path}

	if result.Err != nil {
		summary.Status = StatusFailed
		summary.ErrorType = result.Err.Kind()
		summary.ErrorMessage = result.Err.Err.Error()
		return summary
	}

	res := result.Result
	summary.Status = StatusSuccess
	summary.SizeBytes = res.SizeBytes
	summary.ModTime = res.ModTime
	summary.Chunks = len(res.Chunks)
	summary.Words = res.Words
	summary.DistinctWords = len(res.Counts)
	summary.InvalidWords = res.InvalidWords
	summary.ElapsedMS = res.Elapsed.Milliseconds()
	return summary
}

// Write encodes the manifest in the requested structured format.
func Write(w io.Writer, manifest SummaryManifest, format models.OutputFormat) error {
	switch format {
	case models.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(manifest); err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
	case models.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(manifest); err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %q is not a structured format", format)
	}
	return nil
}
