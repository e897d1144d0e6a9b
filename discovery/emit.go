package discovery

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// WriteVocab writes the final vocabulary, one "<word> <count>" line per
// entry, sorted by descending count with first-seen order breaking ties.
// The file appears atomically: a temp file in the same directory is
// renamed over the target, so a crash never leaves a partial vocabulary.
func WriteVocab(cands *Candidates, path string) error {
	type entry struct {
		word  string
		count uint64
	}
	entries := make([]entry, 0, cands.Len())
	cands.Each(func(w string, n uint64) {
		entries = append(entries, entry{w, n})
	})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].count > entries[j].count
	})

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating vocabulary file %s: %w", tmp, err)
	}
	w := bufio.NewWriter(f)
	for _, e := range entries {
		if _, err := w.WriteString(e.word + " " + strconv.FormatUint(e.count, 10) + "\n"); err != nil {
			f.Close()
			os.Remove(tmp)
			return fmt.Errorf("writing vocabulary file %s: %w", tmp, err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing vocabulary file %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing vocabulary file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming vocabulary file to %s: %w", path, err)
	}
	return nil
}
