package discovery

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	indices []uint32
	count   uint64
}

func packRecords(order int, recs []record) []byte {
	out := make([]byte, 0, len(recs)*(order*4+8))
	for _, r := range recs {
		for _, w := range r.indices {
			out = binary.LittleEndian.AppendUint32(out, w)
		}
		out = binary.LittleEndian.AppendUint64(out, r.count)
	}
	return out
}

func writeCounterFiles(t *testing.T, vocab []string, order int, recs []record) (string, string) {
	t.Helper()
	dir := t.TempDir()
	vocabPath := filepath.Join(dir, "chars.vocab")
	ngramPath := filepath.Join(dir, "ngrams.bin")

	joined := make([]byte, 0)
	for i, v := range vocab {
		if i > 0 {
			joined = append(joined, 0)
		}
		joined = append(joined, v...)
	}
	require.NoError(t, os.WriteFile(vocabPath, joined, 0o644))
	require.NoError(t, os.WriteFile(ngramPath, packRecords(order, recs), 0o644))
	return vocabPath, ngramPath
}

var testVocab = []string{"", "<s>", "</s>", "甲", "乙", "丙"}

func TestLoadInteriorRecord(t *testing.T) {
	vocabPath, ngramPath := writeCounterFiles(t, testVocab, 3, []record{
		{[]uint32{3, 4, 5}, 10},
	})

	idx, err := LoadNgramIndex(vocabPath, ngramPath, 3, 1)
	require.NoError(t, err)

	assert.Equal(t, uint64(10), idx.Total)
	assert.Equal(t, map[string]uint64{"甲": 10, "乙": 10, "丙": 10}, idx.Tables[0])
	assert.Equal(t, map[string]uint64{"甲乙": 10, "乙丙": 10}, idx.Tables[1])
	assert.Equal(t, map[string]uint64{"甲乙丙": 10}, idx.Tables[2])
}

func TestLoadSentenceFinalRecord(t *testing.T) {
	// The </s> slot means no later window will see this record's
	// interior, so the suffix counts are recovered here.
	vocabPath, ngramPath := writeCounterFiles(t, testVocab, 3, []record{
		{[]uint32{2, 3, 4}, 10},
	})

	idx, err := LoadNgramIndex(vocabPath, ngramPath, 3, 1)
	require.NoError(t, err)

	assert.Equal(t, map[string]uint64{"甲": 10, "乙": 10}, idx.Tables[0])
	assert.Equal(t, map[string]uint64{"甲乙": 10}, idx.Tables[1])
	assert.Empty(t, idx.Tables[2])
}

func TestLoadSentenceInitialRecord(t *testing.T) {
	// A <s> record contributes its prefix chain only: the windows
	// starting at its interior positions exist in the file themselves.
	vocabPath, ngramPath := writeCounterFiles(t, testVocab, 3, []record{
		{[]uint32{1, 3, 4}, 7},
	})

	idx, err := LoadNgramIndex(vocabPath, ngramPath, 3, 1)
	require.NoError(t, err)

	assert.Equal(t, map[string]uint64{"甲": 7}, idx.Tables[0])
	assert.Equal(t, map[string]uint64{"甲乙": 7}, idx.Tables[1])
	assert.Empty(t, idx.Tables[2])
}

func TestLoadSkipsBelowMinCount(t *testing.T) {
	vocabPath, ngramPath := writeCounterFiles(t, testVocab, 3, []record{
		{[]uint32{3, 4, 5}, 10},
		{[]uint32{4, 5, 3}, 2},
	})

	idx, err := LoadNgramIndex(vocabPath, ngramPath, 3, 5)
	require.NoError(t, err)

	assert.Equal(t, uint64(10), idx.Total)
	assert.NotContains(t, idx.Tables[2], "乙丙甲")
}

func TestLoadSkipsMarkerOnlyRecord(t *testing.T) {
	vocabPath, ngramPath := writeCounterFiles(t, testVocab, 3, []record{
		{[]uint32{1, 2, 2}, 99},
	})

	idx, err := LoadNgramIndex(vocabPath, ngramPath, 3, 1)
	require.NoError(t, err)

	assert.Zero(t, idx.Total)
	for _, table := range idx.Tables {
		assert.Empty(t, table)
	}
}

func TestTableInvariants(t *testing.T) {
	vocabPath, ngramPath := writeCounterFiles(t, testVocab, 3, []record{
		{[]uint32{3, 4, 5}, 10},
		{[]uint32{4, 5, 3}, 6},
		{[]uint32{2, 5, 4}, 3},
		{[]uint32{5, 5, 5}, 4},
	})

	idx, err := LoadNgramIndex(vocabPath, ngramPath, 3, 2)
	require.NoError(t, err)

	// Every entry in table k has exactly k+1 characters and at least
	// the cutoff count.
	for k, table := range idx.Tables {
		for s, c := range table {
			assert.Equal(t, k+1, utf8.RuneCountInString(s), "table %d key %q", k, s)
			assert.GreaterOrEqual(t, c, uint64(2))
		}
	}

	// Both length-k prefixes and suffixes carry at least the count of
	// any length-k+1 entry.
	for k := 1; k < len(idx.Tables); k++ {
		for s, c := range idx.Tables[k] {
			runes := []rune(s)
			assert.GreaterOrEqual(t, idx.Tables[k-1][string(runes[:k])], c, "prefix of %q", s)
			assert.GreaterOrEqual(t, idx.Tables[k-1][string(runes[1:])], c, "suffix of %q", s)
		}
	}
}

func TestLoadRejectsTruncatedFile(t *testing.T) {
	vocabPath, ngramPath := writeCounterFiles(t, testVocab, 3, []record{
		{[]uint32{3, 4, 5}, 10},
	})
	data, err := os.ReadFile(ngramPath)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(ngramPath, data[:len(data)-3], 0o644))

	_, err = LoadNgramIndex(vocabPath, ngramPath, 3, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offset")
}

func TestLoadRejectsOutOfRangeIndex(t *testing.T) {
	vocabPath, ngramPath := writeCounterFiles(t, testVocab, 3, []record{
		{[]uint32{3, 99, 5}, 10},
	})

	_, err := LoadNgramIndex(vocabPath, ngramPath, 3, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of vocab range")
}

func TestVocabKeepsTrailingEmptyEntry(t *testing.T) {
	dir := t.TempDir()
	vocabPath := filepath.Join(dir, "chars.vocab")
	ngramPath := filepath.Join(dir, "ngrams.bin")
	require.NoError(t, os.WriteFile(vocabPath, []byte("\x00<s>\x00</s>\x00甲\x00"), 0o644))
	require.NoError(t, os.WriteFile(ngramPath, nil, 0o644))

	idx, err := LoadNgramIndex(vocabPath, ngramPath, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "<s>", "</s>", "甲", ""}, idx.Chars)
}

func TestRecordRoundTrip(t *testing.T) {
	// Full-order entries of non-overlapping records survive a
	// load-and-repack cycle, up to record order.
	vocab := []string{"", "<s>", "</s>", "甲", "乙", "丙", "丁", "戊", "己"}
	recs := []record{
		{[]uint32{3, 4, 5}, 10},
		{[]uint32{6, 7, 8}, 4},
	}
	vocabPath, ngramPath := writeCounterFiles(t, vocab, 3, recs)

	idx, err := LoadNgramIndex(vocabPath, ngramPath, 3, 1)
	require.NoError(t, err)

	charIndex := make(map[rune]uint32)
	for i, c := range vocab {
		if len(c) > 0 && i >= firstChar {
			charIndex[[]rune(c)[0]] = uint32(i)
		}
	}
	repacked := make(map[string]record)
	for s, c := range idx.Tables[2] {
		var indices []uint32
		for _, r := range s {
			indices = append(indices, charIndex[r])
		}
		repacked[s] = record{indices, c}
	}

	want := map[string]record{
		"甲乙丙": recs[0],
		"丁戊己": recs[1],
	}
	assert.Equal(t, want, repacked)
}
