package discovery

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

// The normalizer rewrites raw documents into the counter's input format:
// tokens that may combine into a word are separated by a single ASCII
// space, tokens that must not combine are separated by a newline. The
// aggregator honours the same contract on the second pass, so a newline
// is a hard barrier for the longest-match tokenizer.

var (
	// HTML-ish tag spans become barriers.
	tagRe = regexp.MustCompile(`<[^<>]{1,64}>`)

	// Entity residue that tag stripping leaves behind in web corpora.
	fillerRe = regexp.MustCompile(`&(?:nbsp|amp|lt|gt|quot);`)

	// Anything outside the permitted class is a barrier. The class is
	// CJK unified ideographs, ASCII alphanumerics and the identifier
	// punctuation that may glue a token together.
	disallowedRe = regexp.MustCompile(`[^\p{Han}0-9A-Za-z _#@$:/.&\-]+`)

	// A token is a single CJK character, or an identifier-like run such
	// as "www.example.com" or "up-to-date". A connectorless run of
	// alphanumerics yields one token per character, so plain Latin text
	// is counted character-wise just like Chinese.
	tokenRe = regexp.MustCompile(`[0-9A-Za-z_#@$]+(?:[:/.&\-]+[0-9A-Za-z_#@$]+)+|[\p{Han}0-9A-Za-z_#@$]`)
)

// NormalizeDocument applies the token/barrier rules to one document and
// returns its lines, one sentence per entry, tokens space-separated.
// Lines with no tokens are dropped.
func NormalizeDocument(doc string) []string {
	s := strings.ReplaceAll(doc, "　", " ")
	s = strings.TrimSpace(s)
	s = tagRe.ReplaceAllString(s, "\n")
	s = fillerRe.ReplaceAllString(s, "\n")
	s = disallowedRe.ReplaceAllString(s, "\n")

	var lines []string
	for _, raw := range strings.Split(s, "\n") {
		lines = append(lines, splitSentences(raw)...)
	}
	return lines
}

// splitSentences tokenizes one newline-free span. Gaps between tokens
// that contain connector punctuation act as barriers; gaps of plain
// spaces do not.
func splitSentences(raw string) []string {
	matches := tokenRe.FindAllStringIndex(raw, -1)
	if len(matches) == 0 {
		return nil
	}
	var sentences []string
	var cur []string
	prevEnd := -1
	for _, m := range matches {
		if prevEnd >= 0 {
			gap := raw[prevEnd:m[0]]
			if strings.ContainsAny(gap, ":/.&-") {
				sentences = append(sentences, strings.Join(cur, " "))
				cur = cur[:0]
			}
		}
		cur = append(cur, raw[m[0]:m[1]])
		prevEnd = m[1]
	}
	if len(cur) > 0 {
		sentences = append(sentences, strings.Join(cur, " "))
	}
	return sentences
}

// WriteCorpus streams documents from docs through the normalizer into a
// single UTF-8 corpus file. The file is the restartable copy of the
// corpus: the counter reads it once and the aggregator reads it again.
func WriteCorpus(docs <-chan string, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating corpus file %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	n := 0
	for doc := range docs {
		for _, line := range NormalizeDocument(doc) {
			if _, err := w.WriteString(line + "\n"); err != nil {
				f.Close()
				return fmt.Errorf("writing corpus file %s: %w", path, err)
			}
		}
		n++
		if n%10000 == 0 {
			log.Info().Int("documents", n).Msg("exporting corpus")
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing corpus file %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing corpus file %s: %w", path, err)
	}
	log.Info().Int("documents", n).Msg("corpus exported")
	return nil
}
