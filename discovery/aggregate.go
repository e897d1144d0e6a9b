package discovery

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Candidates is a count map that remembers first-seen order, so that the
// emitter can break count ties deterministically.
type Candidates struct {
	counts map[string]uint64
	order  []string
}

func NewCandidates() *Candidates {
	return &Candidates{counts: make(map[string]uint64)}
}

func (c *Candidates) Inc(w string, n uint64) {
	if _, ok := c.counts[w]; !ok {
		c.order = append(c.order, w)
	}
	c.counts[w] += n
}

func (c *Candidates) Count(w string) uint64 { return c.counts[w] }
func (c *Candidates) Len() int              { return len(c.counts) }

// Each walks candidates in first-seen order.
func (c *Candidates) Each(fn func(w string, n uint64)) {
	for _, w := range c.order {
		fn(w, c.counts[w])
	}
}

// merge folds other into c, keeping c's order for shared keys.
func (c *Candidates) merge(other *Candidates) {
	other.Each(c.Inc)
}

// dropBelow removes entries under the count floor.
func (c *Candidates) dropBelow(minCount uint64) {
	kept := c.order[:0]
	for _, w := range c.order {
		if c.counts[w] < minCount {
			delete(c.counts, w)
			continue
		}
		kept = append(kept, w)
	}
	c.order = kept
}

// AggregateCandidates runs the second corpus pass: every line of the
// normalized corpus is a sentence, spaces inside it only mark token
// joints, and the trie's tokens are counted. Lines are fanned out to
// workers; each worker accumulates privately and the partial maps merge
// in worker order, so reruns over the same corpus agree.
func AggregateCandidates(corpusPath string, trie *Trie, minCount uint64, workers int) (*Candidates, error) {
	f, err := os.Open(corpusPath)
	if err != nil {
		return nil, fmt.Errorf("opening corpus file %s: %w", corpusPath, err)
	}
	defer f.Close()

	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	parts := make([]*Candidates, workers)
	lines := make([]chan string, workers)
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		parts[i] = NewCandidates()
		lines[i] = make(chan string, 256)
		part, in := parts[i], lines[i]
		g.Go(func() error {
			for line := range in {
				sentence := strings.ReplaceAll(line, " ", "")
				if sentence == "" {
					continue
				}
				for _, w := range trie.Tokenize(sentence) {
					part.Inc(w, 1)
				}
			}
			return nil
		})
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	n := 0
	for scanner.Scan() {
		lines[n%workers] <- scanner.Text()
		n++
		if n%100000 == 0 {
			log.Info().Int("sentences", n).Msg("aggregating candidates")
		}
	}
	for _, in := range lines {
		close(in)
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading corpus file %s: %w", corpusPath, err)
	}

	all := parts[0]
	for _, part := range parts[1:] {
		all.merge(part)
	}
	all.dropBelow(minCount)
	log.Info().Int("sentences", n).Int("candidates", all.Len()).Msg("aggregation done")
	return all, nil
}
