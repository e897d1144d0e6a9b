package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"word_discovery/discovery"
)

var (
	corpusGlob     string
	workDir        string
	ngramOrder     int
	minCount       uint64
	minLen         int
	maxLen         int
	memoryFraction float64
	minPMI         []float64
	counterPath    string
	workers        int
)

// discoverCmd represents the discover command
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Run the full word-discovery pipeline over a corpus",
	Long: `Runs normalization, external ngram counting, PMI filtering, trie
pre-segmentation and back-off verification, then writes the ranked
vocabulary (one "<word> <count>" line per entry) into the work directory.

The count_ngrams binary must be reachable; by default it is looked up in
the current working directory, use --counter to point elsewhere.`,
	RunE: runDiscover,
}

func runDiscover(cmd *cobra.Command, args []string) error {
	pipeline, err := discovery.NewPipeline(discovery.Config{
		MinCount:       minCount,
		MinLen:         minLen,
		MaxLen:         maxLen,
		Order:          ngramOrder,
		MemoryFraction: memoryFraction,
		MinPMI:         minPMI,
		CounterPath:    counterPath,
		WorkDir:        workDir,
	})
	if err != nil {
		return err
	}
	pipeline.WithWorkers(workers)

	feed := make(chan string)
	if err := FeedCorpusGlob(feed, corpusGlob); err != nil {
		return err
	}
	words, err := pipeline.Run(feed)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Discovered %d words\n", words)
	return nil
}

func init() {
	discoverCmd.Flags().StringVarP(&corpusGlob, "corpus", "c", "", "glob or directory of corpus documents")
	discoverCmd.MarkFlagRequired("corpus")
	discoverCmd.Flags().StringVarP(&workDir, "workdir", "w", ".", "directory for intermediate and output files")
	discoverCmd.Flags().IntVarP(&ngramOrder, "order", "n", 4, "ngram order used by the counter")
	discoverCmd.Flags().Uint64Var(&minCount, "min-count", 32, "frequency cutoff for ngrams and candidates")
	discoverCmd.Flags().IntVar(&minLen, "min-len", 2, "minimum emitted word length in characters")
	discoverCmd.Flags().IntVar(&maxLen, "max-len", 8, "maximum emitted word length in characters")
	discoverCmd.Flags().Float64VarP(&memoryFraction, "memory", "m", 0.5, "fraction of available memory for the counter")
	discoverCmd.Flags().Float64SliceVar(&minPMI, "min-pmi", []float64{0, 2, 4, 6}, "per-order PMI thresholds in nats")
	discoverCmd.Flags().StringVar(&counterPath, "counter", "", "path to the count_ngrams binary")
	discoverCmd.Flags().IntVar(&workers, "workers", 0, "aggregation workers (0 = all CPUs)")
	rootCmd.AddCommand(discoverCmd)
}
