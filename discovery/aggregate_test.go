package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpusFile(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))
	return path
}

func TestAggregateCandidates(t *testing.T) {
	path := writeCorpusFile(t, "今 天 天 气\n今 天 不 错\n")
	trie := trieOf("今天", "不错")

	cands, err := AggregateCandidates(path, trie, 1, 1)
	require.NoError(t, err)

	assert.Equal(t, uint64(2), cands.Count("今天"))
	assert.Equal(t, uint64(1), cands.Count("不错"))
	assert.Equal(t, uint64(1), cands.Count("天"))
	assert.Equal(t, uint64(1), cands.Count("气"))
}

func TestAggregateNewlineIsBarrier(t *testing.T) {
	// "今天" split across sentences must not combine.
	path := writeCorpusFile(t, "今\n天\n")
	trie := trieOf("今天")

	cands, err := AggregateCandidates(path, trie, 1, 1)
	require.NoError(t, err)

	assert.Zero(t, cands.Count("今天"))
	assert.Equal(t, uint64(1), cands.Count("今"))
	assert.Equal(t, uint64(1), cands.Count("天"))
}

func TestAggregateDropsBelowMinCount(t *testing.T) {
	path := writeCorpusFile(t, "今 天\n今 天\n不 错\n")
	trie := trieOf("今天", "不错")

	cands, err := AggregateCandidates(path, trie, 2, 1)
	require.NoError(t, err)

	assert.Equal(t, uint64(2), cands.Count("今天"))
	assert.Zero(t, cands.Count("不错"))
}

func TestAggregateParallelMatchesSerial(t *testing.T) {
	var lines string
	for i := 0; i < 100; i++ {
		lines += "今 天 天 气 不 错\n今 天 我 不 上 班\n"
	}
	path := writeCorpusFile(t, lines)
	trie := trieOf("今天", "天气", "不错", "上班")

	serial, err := AggregateCandidates(path, trie, 1, 1)
	require.NoError(t, err)
	parallel, err := AggregateCandidates(path, trie, 1, 4)
	require.NoError(t, err)

	assert.Equal(t, serial.Len(), parallel.Len())
	serial.Each(func(w string, n uint64) {
		assert.Equal(t, n, parallel.Count(w), "candidate %q", w)
	})
}

func TestAggregateDeterministicOrder(t *testing.T) {
	var lines string
	for i := 0; i < 50; i++ {
		lines += "今 天 天 气 不 错\n上 班 不 错\n"
	}
	path := writeCorpusFile(t, lines)
	trie := trieOf("今天", "天气", "不错", "上班")

	collect := func(c *Candidates) []string {
		var order []string
		c.Each(func(w string, n uint64) { order = append(order, w) })
		return order
	}

	first, err := AggregateCandidates(path, trie, 1, 3)
	require.NoError(t, err)
	second, err := AggregateCandidates(path, trie, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, collect(first), collect(second))
}

func TestCandidatesOrderAndCounts(t *testing.T) {
	c := NewCandidates()
	c.Inc("乙", 1)
	c.Inc("甲", 1)
	c.Inc("乙", 1)

	var order []string
	c.Each(func(w string, n uint64) { order = append(order, w) })
	assert.Equal(t, []string{"乙", "甲"}, order)
	assert.Equal(t, uint64(2), c.Count("乙"))
}
