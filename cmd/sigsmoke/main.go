// Package main implements the command-line interface for sigsmoke, the
// declarative smoke checker for the SIG-TE application source tree.
package main

import (
	"fmt"
	"os"

	"sigsmoke/pkg/cmd"

	// Import check package to trigger init() registration
	_ "sigsmoke/pkg/checks"
)

func main() {
	rootCmd := cmd.NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
