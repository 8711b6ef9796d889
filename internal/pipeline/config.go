package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/oukeidos/batrans/internal/language"
)

const (
	DefaultCheckpointInterval = 10
	DefaultTruncateLength     = 150
	DefaultRateLimitDelay     = time.Second
)

// Config carries everything a run needs. Zero values are filled in by
// Normalize; only InputPath has no usable default.
type Config struct {
	InputPath      string
	CheckpointPath string
	OutputPath     string

	// CheckpointInterval is the row-index modulus for periodic saves.
	CheckpointInterval int
	// MaxRetries bounds attempts per provider per row.
	MaxRetries int
	// TruncateLength caps source text before translation and the stored
	// result after, in grapheme clusters.
	TruncateLength int
	// RateLimitDelay is slept after every row.
	RateLimitDelay time.Duration

	PrimaryPair  language.Pair
	FallbackPair language.Pair

	// OnRowProcessed, when set, receives each freshly translated row for
	// console progress reporting.
	OnRowProcessed func(index int, original, translated string)
}

// Normalize fills unset fields with defaults and derives the checkpoint and
// output paths from the input path when they are empty.
func (c *Config) Normalize() {
	if c.CheckpointInterval <= 0 {
		c.CheckpointInterval = DefaultCheckpointInterval
	}
	if c.TruncateLength <= 0 {
		c.TruncateLength = DefaultTruncateLength
	}
	if c.RateLimitDelay <= 0 {
		c.RateLimitDelay = DefaultRateLimitDelay
	}
	if c.CheckpointPath == "" && c.InputPath != "" {
		c.CheckpointPath = derivedPath(c.InputPath, "checkpoint")
	}
	if c.OutputPath == "" && c.InputPath != "" {
		c.OutputPath = derivedPath(c.InputPath, "translated")
	}
}

// Validate reports configuration errors that Normalize cannot repair.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("input path is required")
	}
	if c.CheckpointPath == c.InputPath {
		return fmt.Errorf("checkpoint path must differ from input path")
	}
	if c.OutputPath == c.InputPath {
		return fmt.Errorf("output path must differ from input path")
	}
	return nil
}

func derivedPath(input, tag string) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	return base + "." + tag + ext
}
