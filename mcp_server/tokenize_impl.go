package mcp_server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"word_discovery/discovery"
)

type tokenizeServiceImpl struct {
	trie *discovery.Trie
}

func NewTokenizeService(trie *discovery.Trie) TokenizeService {
	return &tokenizeServiceImpl{trie: trie}
}

func (s *tokenizeServiceImpl) Tokenize(ctx context.Context, req *TokenizeRequest) (*TokenizeResponse, error) {
	if s.trie == nil {
		return nil, fmt.Errorf("no vocabulary loaded")
	}
	return &TokenizeResponse{Tokens: s.trie.Tokenize(req.Text)}, nil
}

// HandleTokenize provides an HTTP handler for tokenization requests.
func HandleTokenize(service TokenizeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Only POST method is supported", http.StatusMethodNotAllowed)
			return
		}

		var req TokenizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		resp, err := service.Tokenize(r.Context(), &req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}
