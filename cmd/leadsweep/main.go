// Package main is the entry point for the leadsweep CLI.
package main

import (
	"os"

	_ "time/tzdata"

	"github.com/leadsweep/leadsweep/cmd/leadsweep/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
