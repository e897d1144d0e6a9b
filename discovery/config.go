package discovery

import (
	"fmt"
	"path/filepath"
)

// Config carries every knob the pipeline needs. Zero values are not
// usable; call Validate (or build the pipeline through NewPipeline,
// which validates for you) before running anything.
type Config struct {
	// MinCount is the frequency cutoff applied both to raw ngram
	// records and to aggregated candidates.
	MinCount uint64

	// MinLen and MaxLen bound the character length of emitted words.
	MinLen int
	MaxLen int

	// Order is the n of the ngram statistics, at least 2.
	Order int

	// MemoryFraction is the share of *available* system memory the
	// external counter may use, in (0, 1]. The driver rescales it to a
	// share of total memory because that is what the counter's flag
	// means.
	MemoryFraction float64

	// MinPMI holds per-order PMI thresholds in nats. Entry k applies to
	// ngrams of k+1 characters; lookups clamp to the last entry.
	MinPMI []float64

	// CounterPath overrides the location of the count_ngrams binary.
	// Empty means "./count_ngrams" relative to the working directory.
	CounterPath string

	// WorkDir receives the four intermediate and final files.
	WorkDir string
}

// Validate reports the first configuration error, or nil.
func (c *Config) Validate() error {
	if c.Order < 2 {
		return fmt.Errorf("order must be at least 2, got %d", c.Order)
	}
	if c.MemoryFraction <= 0 || c.MemoryFraction > 1 {
		return fmt.Errorf("memory fraction must be in (0,1], got %g", c.MemoryFraction)
	}
	if c.MinLen > c.MaxLen {
		return fmt.Errorf("min length %d exceeds max length %d", c.MinLen, c.MaxLen)
	}
	if len(c.MinPMI) == 0 {
		return fmt.Errorf("at least one PMI threshold is required")
	}
	return nil
}

// File handoff paths inside WorkDir. The corpus file is written by the
// normalizer and re-read by the aggregator; vocab and ngrams are the
// counter's outputs; output is the final vocabulary.
func (c *Config) CorpusPath() string { return filepath.Join(c.WorkDir, "corpus.txt") }
func (c *Config) VocabPath() string  { return filepath.Join(c.WorkDir, "chars.vocab") }
func (c *Config) NgramPath() string  { return filepath.Join(c.WorkDir, "ngrams.bin") }
func (c *Config) OutputPath() string { return filepath.Join(c.WorkDir, "words.vocab") }
