package mcp_server

import (
	"context"
	"encoding/json"
	"net/http"

	"word_discovery/cmd"
	"word_discovery/discovery"
)

type discoverServiceImpl struct{}

func NewDiscoverService() DiscoverService {
	return &discoverServiceImpl{}
}

func (s *discoverServiceImpl) Discover(ctx context.Context, req *DiscoverRequest) (*DiscoverResponse, error) {
	cfg := discovery.Config{
		MinCount:       req.MinCount,
		MinLen:         req.MinLen,
		MaxLen:         req.MaxLen,
		Order:          req.Order,
		MemoryFraction: req.MemoryFraction,
		MinPMI:         req.MinPMI,
		CounterPath:    req.CounterPath,
		WorkDir:        req.WorkDir,
	}
	applyDefaults(&cfg)

	pipeline, err := discovery.NewPipeline(cfg)
	if err != nil {
		return nil, err
	}

	feed := make(chan string)
	if err := cmd.FeedCorpusGlob(feed, req.CorpusGlob); err != nil {
		return nil, err
	}
	words, err := pipeline.Run(feed)
	if err != nil {
		return nil, err
	}
	return &DiscoverResponse{Words: words, VocabularyPath: cfg.OutputPath()}, nil
}

func applyDefaults(cfg *discovery.Config) {
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
}

// HandleDiscover provides an HTTP handler for full pipeline runs.
func HandleDiscover(service DiscoverService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Only POST method is supported", http.StatusMethodNotAllowed)
			return
		}

		var req DiscoverRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		resp, err := service.Discover(r.Context(), &req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}
