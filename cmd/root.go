/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "word_discovery",
	Short: "Unsupervised Chinese word discovery from raw text",
	Long: `word_discovery induces a vocabulary of multi-character words from a
raw corpus without any prior lexicon. It normalizes the text, counts
character ngrams with the bundled count_ngrams binary, keeps the ngrams
whose every internal cut clears a mutual-information threshold, and
re-segments the corpus with a longest-match trie to rank candidates.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.word_discovery.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".word_discovery" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".word_discovery")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// FeedCorpusGlob expands a glob (or a bare directory) into document
// contents on the feed channel, one document per file, closing the feed
// once every file has been read. The pipeline consumes its corpus this
// way so any layout that resolves to files works.
func FeedCorpusGlob(feed chan string, pattern string) error {
	if info, err := os.Stat(pattern); err == nil && info.IsDir() {
		pattern = filepath.Join(pattern, "*")
	}
	paths, err := filepath.Glob(pattern)
	if err != nil {
		close(feed)
		return fmt.Errorf("bad corpus glob %q: %w", pattern, err)
	}
	sort.Strings(paths)
	go func() {
		defer close(feed)
		for _, path := range paths {
			data, err := os.ReadFile(path)
			if err != nil {
				fmt.Printf("Could not access file: %v\n", err)
				os.Exit(1)
			}
			feed <- string(data)
		}
	}()
	return nil
}
