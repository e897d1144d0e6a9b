package discovery

// FilterVocab validates aggregated candidates against the PMI-retained
// set. Short candidates pass on frequency alone; anything from three
// characters up to the ngram order must itself be a retained ngram, and
// longer candidates must be covered by retained order-length windows at
// every position.
func FilterVocab(cands *Candidates, retained StringSet, order, minLen, maxLen int) *Candidates {
	result := NewCandidates()
	cands.Each(func(w string, n uint64) {
		runes := []rune(w)
		l := len(runes)
		switch {
		case l < minLen || l > maxLen:
		case l < 3:
			result.Inc(w, n)
		case l <= order:
			if retained.Contains(w) {
				result.Inc(w, n)
			}
		default:
			for k := 0; k+order <= l; k++ {
				if !retained.Contains(string(runes[k : k+order])) {
					return
				}
			}
			result.Inc(w, n)
		}
	})
	return result
}
