//go:build mcp

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"

	"word_discovery/cmd"
	"word_discovery/discovery"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// DiscoverInput defines the input for the word-discovery tool.
type DiscoverInput struct {
	CorpusGlob     string    `json:"corpusGlob" jsonschema:"Glob or directory of corpus documents to discover words from"`
	WorkDir        string    `json:"workDir,omitempty" jsonschema:"Directory for intermediate and output files (default: current directory)"`
	Order          int       `json:"order,omitempty" jsonschema:"Ngram order used by the counter (default: 4)"`
	MinCount       uint64    `json:"minCount,omitempty" jsonschema:"Frequency cutoff for ngrams and candidates (default: 32)"`
	MinLen         int       `json:"minLen,omitempty" jsonschema:"Minimum emitted word length in characters (default: 2)"`
	MaxLen         int       `json:"maxLen,omitempty" jsonschema:"Maximum emitted word length in characters (default: 8)"`
	MemoryFraction float64   `json:"memoryFraction,omitempty" jsonschema:"Fraction of available memory for the counter (default: 0.5)"`
	MinPMI         []float64 `json:"minPmi,omitempty" jsonschema:"Per-order PMI thresholds in nats (default: [0,2,4,6])"`
	CounterPath    string    `json:"counterPath,omitempty" jsonschema:"Path to the count_ngrams binary"`
}

// DiscoverOutput defines the output for the word-discovery tool.
type DiscoverOutput struct {
	Words          int    `json:"words" jsonschema:"Number of words emitted"`
	VocabularyPath string `json:"vocabularyPath" jsonschema:"Path of the written vocabulary file"`
}

// TokenizeInput defines the input for the tokenization tool.
type TokenizeInput struct {
	Text string `json:"text" jsonschema:"The text to segment with the loaded vocabulary"`
}

// TokenizeOutput defines the output for the tokenization tool.
type TokenizeOutput struct {
	Tokens []string `json:"tokens" jsonschema:"The longest-match segmentation of the input text"`
}

// WordDiscoveryServer holds the shared state for the MCP server.
type WordDiscoveryServer struct {
	trie *discovery.Trie
}

func main() {
	var vocabularyFile string
	var port string
	var transport string

	flag.StringVar(&vocabularyFile, "vocabulary", "", "path to a discovered vocabulary file (required for the tokenize tool)")
	flag.StringVar(&port, "port", "8080", "port to listen on for HTTP MCP server")
	flag.StringVar(&transport, "transport", "stdio", "transport type: 'stdio' for Claude Desktop or 'http' for Kubernetes")
	flag.Parse()

	server := &WordDiscoveryServer{}

	if vocabularyFile != "" {
		trie, err := cmd.LoadVocabTrie(vocabularyFile)
		if err != nil {
			log.Fatalf("Error loading vocabulary file: %v", err)
		}
		server.trie = trie
		log.Println("Vocabulary loaded successfully")
	} else {
		log.Println("Warning: --vocabulary not provided. The tokenize tool will not be available.")
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "word-discovery",
		Version: "1.0.0",
	}, nil)

	// The discovery tool carries all of its inputs, so it is always on.
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "discover_words",
		Description: "Induces a vocabulary of multi-character words from a raw text corpus without any prior lexicon, using ngram counting and PMI filtering.",
	}, server.handleDiscover)

	if server.trie != nil {
		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        "tokenize_text",
			Description: "Segments text with the loaded discovered vocabulary using longest-match trie tokenization.",
		}, server.handleTokenize)
	}

	switch transport {
	case "stdio":
		log.Println("Starting word-discovery MCP server on stdio...")
		if err := mcpServer.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
			log.Fatalf("Server error: %v", err)
		}

	case "http":
		httpHandler := mcp.NewStreamableHTTPHandler(
			func(r *http.Request) *mcp.Server {
				return mcpServer
			},
			nil,
		)

		http.Handle("/mcp", httpHandler)

		// Health check endpoint for Kubernetes
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok"))
		})

		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
		})

		addr := ":" + port
		log.Printf("Starting word-discovery MCP server on http://0.0.0.0%s/mcp\n", addr)
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Fatalf("Server error: %v", err)
		}

	default:
		log.Fatalf("Unknown transport: %s (use 'stdio' or 'http')", transport)
	}
}

// handleDiscover runs the full pipeline for an MCP request.
func (s *WordDiscoveryServer) handleDiscover(ctx context.Context, req *mcp.CallToolRequest, input DiscoverInput) (*mcp.CallToolResult, DiscoverOutput, error) {
	if input.CorpusGlob == "" {
		return nil, DiscoverOutput{}, fmt.Errorf("corpusGlob is required")
	}

	cfg := discovery.Config{
		MinCount:       input.MinCount,
		MinLen:         input.MinLen,
		MaxLen:         input.MaxLen,
		Order:          input.Order,
		MemoryFraction: input.MemoryFraction,
		MinPMI:         input.MinPMI,
		CounterPath:    input.CounterPath,
		WorkDir:        input.WorkDir,
	}
	if cfg.Order == 0 {
		cfg.Order = 4
	}
	if cfg.MinCount == 0 {
		cfg.MinCount = 32
	}
	if cfg.MinLen == 0 {
		cfg.MinLen = 2
	}
	if cfg.MaxLen == 0 {
		cfg.MaxLen = 8
	}
	if cfg.MemoryFraction == 0 {
		cfg.MemoryFraction = 0.5
	}
	if len(cfg.MinPMI) == 0 {
		cfg.MinPMI = []float64{0, 2, 4, 6}
	}

	pipeline, err := discovery.NewPipeline(cfg)
	if err != nil {
		return nil, DiscoverOutput{}, err
	}

	feed := make(chan string)
	if err := cmd.FeedCorpusGlob(feed, input.CorpusGlob); err != nil {
		return nil, DiscoverOutput{}, err
	}
	words, err := pipeline.Run(feed)
	if err != nil {
		return nil, DiscoverOutput{}, err
	}

	output := DiscoverOutput{Words: words, VocabularyPath: cfg.OutputPath()}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Discovered %d words, vocabulary written to %s\n", words, output.VocabularyPath)},
		},
	}, output, nil
}

// handleTokenize segments text for an MCP request.
func (s *WordDiscoveryServer) handleTokenize(ctx context.Context, req *mcp.CallToolRequest, input TokenizeInput) (*mcp.CallToolResult, TokenizeOutput, error) {
	if input.Text == "" {
		return nil, TokenizeOutput{}, fmt.Errorf("text is required")
	}

	output := TokenizeOutput{Tokens: s.trie.Tokenize(input.Text)}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: strings.Join(output.Tokens, " ")},
		},
	}, output, nil
}
