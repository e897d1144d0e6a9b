package discovery

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// Pipeline sequences the whole discovery run. The corpus is consumed
// twice: once to write the normalized file the counter reads, and once
// more from that same file to aggregate candidates, which is why the
// normalizer materializes it instead of streaming.
type Pipeline struct {
	cfg     Config
	counter Counter
	workers int
}

// NewPipeline validates the configuration and builds a pipeline backed
// by the external counter (or a substitute via WithCounter).
func NewPipeline(cfg Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg: cfg,
		counter: &ExternalCounter{
			BinaryPath:     cfg.CounterPath,
			Order:          cfg.Order,
			MemoryFraction: cfg.MemoryFraction,
		},
	}, nil
}

// WithCounter swaps the ngram counter implementation.
func (p *Pipeline) WithCounter(c Counter) *Pipeline {
	p.counter = c
	return p
}

// WithWorkers sets the aggregation worker count; zero means NumCPU.
func (p *Pipeline) WithWorkers(n int) *Pipeline {
	p.workers = n
	return p
}

// Run executes C1 through C8 over the documents from docs and writes the
// final vocabulary. It returns the number of words emitted.
func (p *Pipeline) Run(docs <-chan string) (int, error) {
	if p.cfg.WorkDir != "" {
		if err := os.MkdirAll(p.cfg.WorkDir, 0o755); err != nil {
			return 0, fmt.Errorf("creating work dir %s: %w", p.cfg.WorkDir, err)
		}
	}

	log.Info().Str("corpus", p.cfg.CorpusPath()).Msg("pass 1: normalizing corpus")
	if err := WriteCorpus(docs, p.cfg.CorpusPath()); err != nil {
		return 0, err
	}

	if err := p.counter.Count(p.cfg.CorpusPath(), p.cfg.VocabPath(), p.cfg.NgramPath()); err != nil {
		return 0, err
	}

	idx, err := LoadNgramIndex(p.cfg.VocabPath(), p.cfg.NgramPath(), p.cfg.Order, p.cfg.MinCount)
	if err != nil {
		return 0, err
	}

	retained := FilterNgrams(idx, p.cfg.MinPMI)
	trie := BuildTrie(retained)

	log.Info().Msg("pass 2: aggregating candidates")
	cands, err := AggregateCandidates(p.cfg.CorpusPath(), trie, p.cfg.MinCount, p.workers)
	if err != nil {
		return 0, err
	}

	final := FilterVocab(cands, retained, p.cfg.Order, p.cfg.MinLen, p.cfg.MaxLen)
	if err := WriteVocab(final, p.cfg.OutputPath()); err != nil {
		return 0, err
	}
	log.Info().Int("words", final.Len()).Str("output", p.cfg.OutputPath()).Msg("vocabulary written")
	return final.Len(), nil
}
