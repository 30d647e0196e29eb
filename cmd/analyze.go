// ABOUTME: Analyze command for the lexibridge CLI
// ABOUTME: Runs the initial AI analysis and prints the extracted summary

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lexibridge/lexibridge-cli/internal/workflow"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [documentId]",
	Short: "Run AI analysis on an uploaded document",
	Long: `Request the initial AI analysis for a document and print the extracted
summary: key points, risks, clauses, and recommendations.

Without an argument, the most recently uploaded document is analyzed.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		docID := ""
		if len(args) > 0 {
			docID = args[0]
		}
		exitOnError(runAnalyze(ctx, os.Stdout, docID))
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

// runAnalyze executes the analysis and returns exit code
func runAnalyze(ctx context.Context, w io.Writer, docID string) int {
	ref, code := resolveDocument(w, docID)
	if code != exitOK {
		return code
	}

	cfg, err := loadConfig()
	if err != nil {
		return reportError(w, err)
	}
	controller := newController(cfg, newClient(cfg, newSession()))
	if err := controller.Resume(ref); err != nil {
		return reportError(w, err)
	}

	s, err := controller.Analyze(ctx)
	if err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatSummaryJSON(s, controller.FallbackUsed()))
	} else {
		fmt.Fprintln(w, formatSummaryHuman(s, controller.FallbackUsed()))
	}
	return exitOK
}

// resolveDocument picks the target document: the given identifier, or the
// most recent upload when none was given.
func resolveDocument(w io.Writer, docID string) (workflow.DocumentRef, int) {
	if docID != "" {
		return workflow.DocumentRef{ID: docID}, exitOK
	}

	current, ok := newRecentDocs().Current()
	if !ok {
		fmt.Fprintln(w, "Error: no document selected. Upload one first or pass a document ID.")
		return workflow.DocumentRef{}, exitUsage
	}
	return workflow.DocumentRef{
		ID:         current.DocumentID,
		Filename:   current.Filename,
		UploadedAt: current.UploadedAt,
	}, exitOK
}
