// ABOUTME: Ask command for the lexibridge CLI
// ABOUTME: Sends a follow-up question about an analyzed document

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var askDocumentID string

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the AI a question about a document",
	Long: `Send a question about an analyzed document and print the answer.

Without --document, the most recently uploaded document is used.
Run 'lexibridge suggest' for starter questions.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitOnError(runAsk(ctx, os.Stdout, args[0]))
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVar(&askDocumentID, "document", "", "Document ID (defaults to the most recent upload)")
}

// runAsk executes the question round trip and returns exit code
func runAsk(ctx context.Context, w io.Writer, question string) int {
	ref, code := resolveDocument(w, askDocumentID)
	if code != exitOK {
		return code
	}

	cfg, err := loadConfig()
	if err != nil {
		return reportError(w, err)
	}
	controller := newController(cfg, newClient(cfg, newSession()))
	if err := controller.ResumeAnalyzed(ref); err != nil {
		return reportError(w, err)
	}

	exchange, err := controller.Ask(ctx, question)
	if err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		out := map[string]string{
			"documentId": ref.ID,
			"question":   exchange.Question,
			"answer":     exchange.ResponseText,
		}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintln(w, exchange.ResponseText)
	}
	return exitOK
}
