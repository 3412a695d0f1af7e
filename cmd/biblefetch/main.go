// Package main provides the entry point for the biblefetch CLI.
package main

import (
	"os"

	"github.com/VeryOriginalIK/BibleFetch/cmd/biblefetch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
