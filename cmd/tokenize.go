package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"word_discovery/discovery"
)

var tokenizeVocab string

// tokenizeCmd represents the tokenize command
var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [text...]",
	Short: "Segment text with a discovered vocabulary",
	Long: `Loads an emitted vocabulary file into the longest-match trie and
segments the given text, or stdin when no arguments are passed. Output
is one line per input line, tokens separated by spaces.`,
	RunE: runTokenize,
}

func runTokenize(cmd *cobra.Command, args []string) error {
	trie, err := LoadVocabTrie(tokenizeVocab)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		for _, text := range args {
			fmt.Println(strings.Join(trie.Tokenize(text), " "))
		}
		return nil
	}
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fmt.Println(strings.Join(trie.Tokenize(scanner.Text()), " "))
	}
	return scanner.Err()
}

// LoadVocabTrie reads a "<word> <count>" vocabulary file into a trie.
// The MCP services reuse it to serve tokenization.
func LoadVocabTrie(path string) (*discovery.Trie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening vocabulary file %s: %w", path, err)
	}
	defer f.Close()
	return ReadVocabTrie(f)
}

// ReadVocabTrie builds the trie from a vocabulary reader. Separated from
// the file plumbing largely to facilitate testing.
func ReadVocabTrie(r io.Reader) (*discovery.Trie, error) {
	trie := discovery.NewTrie()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word, _, _ := strings.Cut(scanner.Text(), " ")
		if word != "" {
			trie.Add(word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return trie, nil
}

func init() {
	tokenizeCmd.Flags().StringVarP(&tokenizeVocab, "vocab", "v", "", "path to a discovered vocabulary file")
	tokenizeCmd.MarkFlagRequired("vocab")
	rootCmd.AddCommand(tokenizeCmd)
}
