// ABOUTME: Upload command for the lexibridge CLI
// ABOUTME: Validates and uploads a document, optionally running analysis

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/lexibridge/lexibridge-cli/internal/recentdocs"
)

var uploadAnalyze bool

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a document for analysis",
	Long: `Validate and upload a legal document (PDF or Word) to the backend.

The returned document identifier is remembered as the current document, so
a following 'lexibridge analyze' or 'lexibridge ask' needs no arguments.
With --analyze the initial analysis runs immediately after the upload.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitOnError(runUpload(ctx, os.Stdout, args[0]))
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().BoolVar(&uploadAnalyze, "analyze", false, "Run the initial analysis after uploading")
}

// runUpload executes the upload flow and returns exit code
func runUpload(ctx context.Context, w io.Writer, path string) int {
	cfg, err := loadConfig()
	if err != nil {
		return reportError(w, err)
	}
	store := newSession()
	controller := newController(cfg, newClient(cfg, store))

	if err := controller.Select(path); err != nil {
		return reportError(w, err)
	}

	sel := controller.Selected()
	if !IsJSONOutput() {
		if sel.Pages > 0 {
			fmt.Fprintf(w, "Uploading %s (%s, %d pages)...\n", sel.Name, humanize.Bytes(uint64(sel.SizeBytes)), sel.Pages)
		} else {
			fmt.Fprintf(w, "Uploading %s (%s)...\n", sel.Name, humanize.Bytes(uint64(sel.SizeBytes)))
		}
	}

	ref, err := controller.Upload(ctx)
	if err != nil {
		return reportError(w, err)
	}

	if err := newRecentDocs().Add(recentdocs.Entry{
		DocumentID: ref.ID,
		Filename:   ref.Filename,
		UploadedAt: ref.UploadedAt,
	}); err != nil {
		fmt.Fprintf(w, "Warning: could not record document pointer: %v\n", err)
	}

	if !uploadAnalyze {
		if IsJSONOutput() {
			data, _ := json.MarshalIndent(map[string]string{"documentId": ref.ID, "filename": ref.Filename}, "", "  ")
			fmt.Fprintln(w, string(data))
		} else {
			fmt.Fprintf(w, "Uploaded. Document ID: %s\n", ref.ID)
		}
		return exitOK
	}

	if !IsJSONOutput() {
		fmt.Fprintln(w, "Analyzing...")
	}
	s, err := controller.Analyze(ctx)
	if err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		out := map[string]any{
			"documentId": ref.ID,
			"filename":   ref.Filename,
			"summary":    json.RawMessage(formatSummaryJSON(s, controller.FallbackUsed())),
		}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintf(w, "Document ID: %s\n\n%s\n", ref.ID, formatSummaryHuman(s, controller.FallbackUsed()))
	}
	return exitOK
}
