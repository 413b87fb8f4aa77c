// Package main provides the entry point for the creatormatch CLI.
package main

import (
	"os"

	"github.com/drumbeatlabs/creatormatch/cmd/creatormatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
