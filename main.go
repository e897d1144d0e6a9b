//go:build !mcp && !http

package main

import "word_discovery/cmd"

func main() {
	cmd.Execute()
}
