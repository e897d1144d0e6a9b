package cmd

import (
	"github.com/spf13/cobra"

	"word_discovery/discovery"
)

var (
	normalizeGlob   string
	normalizeOutput string
)

// normalizeCmd represents the normalize command
var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Export the normalized corpus file without running discovery",
	Long: `Writes the counter-ready corpus: tokens that may combine into a word
are separated by a space, tokens that must not combine by a newline.
Useful for inspecting what the counter will see, or for feeding
count_ngrams by hand.`,
	RunE: runNormalize,
}

func runNormalize(cmd *cobra.Command, args []string) error {
	feed := make(chan string)
	if err := FeedCorpusGlob(feed, normalizeGlob); err != nil {
		return err
	}
	return discovery.WriteCorpus(feed, normalizeOutput)
}

func init() {
	normalizeCmd.Flags().StringVarP(&normalizeGlob, "corpus", "c", "", "glob or directory of corpus documents")
	normalizeCmd.MarkFlagRequired("corpus")
	normalizeCmd.Flags().StringVarP(&normalizeOutput, "output", "o", "corpus.txt", "path for the normalized corpus file")
	rootCmd.AddCommand(normalizeCmd)
}
