package main

import (
	"os"

	"github.com/santosa/bandarlab/cmd/bandarlab/commands"
)

// main is the entry point for the bandarlab CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
