package discovery

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// Reserved slots at the head of the counter's vocab. Index 1 is the
// begin-of-sentence marker, index 2 end-of-sentence; index 0 is the
// unknown word. None of them are real characters, so ingestion skips
// every index below firstChar.
const (
	bosIndex  = 1
	eosIndex  = 2
	firstChar = 3
)

// NgramIndex holds the multi-order frequency tables reconstructed from
// the counter's output. Tables[k] maps strings of exactly k+1 characters
// to their counts; Total is the PMI reference frequency. The index is
// read-only once LoadNgramIndex returns.
type NgramIndex struct {
	Chars  []string
	Tables []map[string]uint64
	Total  uint64

	order    int
	minCount uint64
}

// LoadNgramIndex reads the counter's vocab and ngram files and back-fills
// the order tables.
func LoadNgramIndex(vocabPath, ngramPath string, order int, minCount uint64) (*NgramIndex, error) {
	idx := &NgramIndex{
		Tables:   make([]map[string]uint64, order),
		order:    order,
		minCount: minCount,
	}
	for i := range idx.Tables {
		idx.Tables[i] = make(map[string]uint64)
	}
	if err := idx.readChars(vocabPath); err != nil {
		return nil, err
	}
	if err := idx.readNgrams(ngramPath); err != nil {
		return nil, err
	}
	return idx, nil
}

// readChars loads the NUL-separated character vocabulary. A trailing
// empty entry is kept so indices keep lining up with the ngram file.
func (idx *NgramIndex) readChars(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading vocab file %s: %w", path, err)
	}
	idx.Chars = strings.Split(string(data), "\x00")
	return nil
}

// readNgrams walks the packed record file. Each record is order u32
// character indices followed by a u64 count, little-endian.
func (idx *NgramIndex) readNgrams(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading ngram file %s: %w", path, err)
	}
	recordSize := idx.order*4 + 8
	if len(data)%recordSize != 0 {
		return fmt.Errorf("ngram file %s: %d trailing bytes at offset %d are not a whole record",
			path, len(data)%recordSize, len(data)-len(data)%recordSize)
	}

	chars := make([]string, 0, idx.order)
	records := 0
	for off := 0; off < len(data); off += recordSize {
		rec := data[off : off+recordSize]
		count := binary.LittleEndian.Uint64(rec[idx.order*4:])
		records++
		if records%100000 == 0 {
			log.Info().Int("records", records).Msg("loading ngrams")
		}
		if count < idx.minCount {
			continue
		}

		bos, eos := false, false
		chars = chars[:0]
		for i := 0; i < idx.order; i++ {
			w := binary.LittleEndian.Uint32(rec[i*4:])
			switch {
			case w == bosIndex:
				bos = true
			case w == eosIndex:
				eos = true
			case w >= firstChar:
				if int(w) >= len(idx.Chars) {
					return fmt.Errorf("ngram file %s: character index %d out of vocab range at offset %d",
						path, w, off+i*4)
				}
				chars = append(chars, idx.Chars[w])
			}
		}
		if len(chars) == 0 {
			continue
		}
		idx.Total += count
		idx.backfill(chars, count, bos, eos)
	}
	log.Info().Int("records", records).Uint64("total", idx.Total).Msg("ngrams loaded")
	return nil
}

// backfill reconstructs the substring counts the counter never emits.
// The counter writes only left-anchored windows, so a window ending a
// sentence is the last chance to see its interior substrings; a window
// opening a sentence must contribute its prefix chain alone, because the
// windows starting at its interior positions exist separately.
func (idx *NgramIndex) backfill(chars []string, count uint64, bos, eos bool) {
	if bos && !eos {
		key := ""
		for j, c := range chars {
			key += c
			idx.Tables[j][key] += count
		}
		return
	}
	for i := range chars {
		key := ""
		for j := i; j < len(chars); j++ {
			key += chars[j]
			idx.Tables[j-i][key] += count
		}
	}
}

// lookup returns the count of s in table k (strings of k+1 characters),
// defaulting missing entries to Total so PMI denominators stay finite.
func (idx *NgramIndex) lookup(k int, s string) float64 {
	if c, ok := idx.Tables[k][s]; ok {
		return float64(c)
	}
	return float64(idx.Total)
}
