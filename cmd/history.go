// ABOUTME: History command for the lexibridge CLI
// ABOUTME: Shows past Q&A exchanges recorded by the backend

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

var historyDocumentID string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past questions and answers",
	Long: `Show the Q&A history recorded by the backend, most recent last.

With --document only exchanges about that document are shown.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitOnError(runHistory(ctx, os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&historyDocumentID, "document", "", "Only show exchanges for this document ID")
}

// runHistory prints the Q&A history and returns exit code
func runHistory(ctx context.Context, w io.Writer) int {
	cfg, err := loadConfig()
	if err != nil {
		return reportError(w, err)
	}
	c := newClient(cfg, newSession())

	entries, err := c.ChatHistory(ctx)
	if err != nil {
		return reportError(w, err)
	}

	if historyDocumentID != "" {
		filtered := entries[:0]
		for _, e := range entries {
			if e.DocumentID == historyDocumentID {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(entries, "", "  ")
		fmt.Fprintln(w, string(data))
		return exitOK
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No history yet.")
		return exitOK
	}

	for i, e := range entries {
		if i > 0 {
			fmt.Fprintln(w, strings.Repeat("-", 40))
		}
		if e.DocumentName != "" {
			fmt.Fprintf(w, "[%s] %s\n", e.DocumentName, e.Timestamp)
		} else {
			fmt.Fprintln(w, e.Timestamp)
		}
		fmt.Fprintf(w, "Q: %s\nA: %s\n", e.Question, e.AIResponse)
	}
	return exitOK
}
