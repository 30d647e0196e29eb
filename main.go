// ABOUTME: Entry point for the lexibridge CLI
// ABOUTME: Command-line tool for legal document upload, analysis, and Q&A

package main

import (
	"fmt"
	"os"

	"github.com/lexibridge/lexibridge-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
