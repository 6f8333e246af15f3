// Package main is the entry point for the deckforge CLI.
package main

import (
	"os"

	"github.com/avaldr/deckforge/cmd/deckforge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
