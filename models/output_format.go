package models

import "fmt"

// OutputFormat selects how merged counts are written to stdout.
type OutputFormat string

const (
	OutputText OutputFormat = "text" // "word -> count" lines, as the classic tool printed
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

// ParseOutputFormat validates a --format value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case OutputText, OutputJSON, OutputYAML:
		return f, nil
	case "":
		return OutputText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}
