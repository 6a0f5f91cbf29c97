// Package main is the sqlassist CLI entry point.
package main

import (
	"os"

	"github.com/leapstack-labs/sqlassist/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
