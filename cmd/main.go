package main

// Entry point: runs the cobra command tree.
// A non-nil error means bad usage, so the process exits with status 1.

import (
	"fmt"
	"os"

	"top-traders/cmd/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
