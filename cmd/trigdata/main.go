// Package main provides the trigdata command.
package main

import (
	"os"

	"github.com/leapstack-labs/trigdata/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
