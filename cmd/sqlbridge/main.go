// Package main provides the sqlbridge CLI, an editor bridge for the SQLGlot
// transpilation engine.
package main

import (
	"os"

	"github.com/leapstack-labs/sqlbridge/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
