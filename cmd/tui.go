// ABOUTME: TUI command for the lexibridge CLI
// ABOUTME: Launches the interactive terminal interface

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lexibridge/lexibridge-cli/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal interface",
	Long: `Start the full-screen terminal interface.

Sign in, pick a document to upload, review the AI analysis, and ask
follow-up questions without leaving the terminal.`,
	Run: func(cmd *cobra.Command, args []string) {
		exitOnError(runTUI(os.Stderr))
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// runTUI starts the TUI and returns exit code
func runTUI(w io.Writer) int {
	cfg, err := loadConfig()
	if err != nil {
		return reportError(w, err)
	}

	store := newSession()
	apiClient := newClient(cfg, store)
	controller := newController(cfg, apiClient)

	if err := tui.Run(store, apiClient, controller, cfg.AcceptedExtensions, cfg.DocumentsCacheDuration()); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	return exitOK
}
