//go:build http

package main

import (
	"flag"
	"log"
	"net/http"

	"word_discovery/cmd"
	"word_discovery/mcp_server"
)

func main() {
	var vocabularyFile string
	var addr string

	flag.StringVar(&vocabularyFile, "vocabulary", "", "path to a discovered vocabulary file (required for the tokenize service)")
	flag.StringVar(&addr, "addr", ":8080", "listen address")
	flag.Parse()

	discoverService := mcp_server.NewDiscoverService()
	http.HandleFunc("/discover/run", mcp_server.HandleDiscover(discoverService))

	if vocabularyFile != "" {
		trie, err := cmd.LoadVocabTrie(vocabularyFile)
		if err != nil {
			log.Fatalf("Error loading vocabulary file: %v", err)
		}
		tokenizeService := mcp_server.NewTokenizeService(trie)
		http.HandleFunc("/tokenize", mcp_server.HandleTokenize(tokenizeService))
	} else {
		log.Println("Warning: --vocabulary not provided. The tokenize service will not be available.")
	}

	log.Printf("Starting word-discovery server on %s", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
