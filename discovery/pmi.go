package discovery

import (
	"math"

	"github.com/rs/zerolog/log"
)

// StringSet is the PMI-retained ngram set. It feeds both the trie and
// the back-off verification, so it outlives the trie.
type StringSet map[string]struct{}

func (s StringSet) Contains(w string) bool {
	_, ok := s[w]
	return ok
}

// FilterNgrams keeps the "solid" ngrams: strings whose weakest internal
// cut still clears the per-order PMI threshold. Requiring the minimum
// over all splits is what separates genuine words from a frequent affix
// glued to a rare stem.
func FilterNgrams(idx *NgramIndex, minPMI []float64) StringSet {
	retained := make(StringSet)
	total := float64(idx.Total)
	for k := len(idx.Tables) - 1; k >= 1; k-- {
		threshold := minPMI[min(k, len(minPMI)-1)]
		for w, c := range idx.Tables[k] {
			runes := []rune(w)
			pmi := math.Inf(1)
			for j := 0; j < k; j++ {
				left := idx.lookup(j, string(runes[:j+1]))
				right := idx.lookup(k-1-j, string(runes[j+1:]))
				if r := total * float64(c) / (left * right); r < pmi {
					pmi = r
				}
			}
			if math.Log(pmi) >= threshold {
				retained[w] = struct{}{}
			}
		}
	}
	log.Info().Int("retained", len(retained)).Msg("PMI filter done")
	return retained
}
