// Package main provides the sqlt command.
package main

import (
	"os"

	"github.com/leapstack-labs/sqlt/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
