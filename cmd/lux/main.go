// Package main is the entry point for the lux CLI.
package main

import (
	"os"

	"github.com/luxcatalog/lux/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
