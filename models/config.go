// Package models defines data structures for configuration and output.
package models

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/wordcount/pkg/wordstream"
)

const (
	DefaultThreads    = 10
	DefaultBufferSize = 1024
	DefaultTop        = 0
)

// CountConfig holds runtime configuration for count operations.
// Values come from an optional YAML file, then CLI flags override them.
type CountConfig struct {
	Files      []string     `yaml:"files"`
	Separators string       `yaml:"separators"`
	Threads    int          `yaml:"threads"`
	BufferSize int          `yaml:"buffer_size"`
	Format     OutputFormat `yaml:"format"`
	Top        int          `yaml:"top"`
	DBPath     string       `yaml:"db"`
	NoDB       bool         `yaml:"no_db"`
}

// DefaultCountConfig returns the configuration used when nothing is set.
func DefaultCountConfig() *CountConfig {
	return &CountConfig{
		Separators: wordstream.DefaultSeparators,
		Threads:    DefaultThreads,
		BufferSize: DefaultBufferSize,
		Format:     OutputText,
		Top:        DefaultTop,
	}
}

// LoadConfig reads a YAML config file on top of the defaults.
// Unknown keys are rejected so typos do not silently fall back to defaults.
func LoadConfig(path string) (*CountConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultCountConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the values the counter cannot work without.
func (c *CountConfig) Validate() error {
	if c.Threads < 1 {
		return fmt.Errorf("threads must be at least 1, got %d", c.Threads)
	}
	if c.BufferSize < 1 {
		return fmt.Errorf("buffer size must be at least 1, got %d", c.BufferSize)
	}
	if c.Top < 0 {
		return fmt.Errorf("top must not be negative, got %d", c.Top)
	}
	if _, err := ParseOutputFormat(string(c.Format)); err != nil {
		return err
	}
	if _, err := c.SeparatorSet(); err != nil {
		return err
	}
	return nil
}

// SeparatorSet parses the configured separators.
func (c *CountConfig) SeparatorSet() (wordstream.Separators, error) {
	seps, err := wordstream.ParseSeparators(c.Separators)
	if err != nil {
		return wordstream.Separators{}, fmt.Errorf("invalid separators: %w", err)
	}
	return seps, nil
}
