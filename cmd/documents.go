// ABOUTME: Documents command family for the lexibridge CLI
// ABOUTME: List, show, download, and delete uploaded documents

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lexibridge/lexibridge-cli/internal/client"
)

var (
	downloadAll    bool
	downloadOutDir string
)

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "Manage uploaded documents",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitOnError(runDocumentsList(ctx, os.Stdout))
	},
}

var documentsShowCmd = &cobra.Command{
	Use:   "show <documentId>",
	Short: "Show one document's details",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitOnError(runDocumentsShow(ctx, os.Stdout, args[0]))
	},
}

var documentsDownloadCmd = &cobra.Command{
	Use:   "download [documentId]",
	Short: "Download document files",
	Long: `Download one document, or every uploaded document with --all.

Files are written to the output directory named after each document.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		docID := ""
		if len(args) > 0 {
			docID = args[0]
		}
		exitOnError(runDocumentsDownload(ctx, os.Stdout, docID))
	},
}

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete <documentId>",
	Short: "Delete an uploaded document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitOnError(runDocumentsDelete(ctx, os.Stdout, args[0]))
	},
}

func init() {
	rootCmd.AddCommand(documentsCmd)
	documentsCmd.AddCommand(documentsShowCmd)
	documentsCmd.AddCommand(documentsDownloadCmd)
	documentsCmd.AddCommand(documentsDeleteCmd)
	documentsDownloadCmd.Flags().BoolVar(&downloadAll, "all", false, "Download every uploaded document")
	documentsDownloadCmd.Flags().StringVarP(&downloadOutDir, "out", "o", ".", "Output directory")
}

// runDocumentsList prints the document listing and returns exit code
func runDocumentsList(ctx context.Context, w io.Writer) int {
	cfg, err := loadConfig()
	if err != nil {
		return reportError(w, err)
	}
	c := newClient(cfg, newSession())

	docs, err := c.Documents(ctx)
	if err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(docs, "", "  ")
		fmt.Fprintln(w, string(data))
		return exitOK
	}

	if len(docs) == 0 {
		fmt.Fprintln(w, "No documents uploaded yet.")
		return exitOK
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSIZE\tSTATUS")
	for _, d := range docs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.ID, d.DocumentName, humanize.Bytes(uint64(d.FileSize)), d.AnalysisStatus)
	}
	tw.Flush()
	return exitOK
}

// runDocumentsShow prints one document's details and returns exit code
func runDocumentsShow(ctx context.Context, w io.Writer, docID string) int {
	cfg, err := loadConfig()
	if err != nil {
		return reportError(w, err)
	}
	c := newClient(cfg, newSession())

	doc, err := c.Document(ctx, docID)
	if err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(doc, "", "  ")
		fmt.Fprintln(w, string(data))
		return exitOK
	}

	fmt.Fprintf(w, "ID:       %s\nName:     %s\nSize:     %s\nStatus:   %s\nUploaded: %s\n",
		doc.ID, doc.DocumentName, humanize.Bytes(uint64(doc.FileSize)), doc.AnalysisStatus, doc.CreatedAt)
	if doc.AISummary != "" {
		fmt.Fprintf(w, "\n%s\n", doc.AISummary)
	}
	return exitOK
}

// runDocumentsDownload fetches one or all document files and returns exit code
func runDocumentsDownload(ctx context.Context, w io.Writer, docID string) int {
	if downloadAll && docID != "" {
		fmt.Fprintln(w, "Error: pass a document ID or --all, not both.")
		return exitUsage
	}
	if !downloadAll && docID == "" {
		fmt.Fprintln(w, "Error: pass a document ID, or --all for every document.")
		return exitUsage
	}

	cfg, err := loadConfig()
	if err != nil {
		return reportError(w, err)
	}
	c := newClient(cfg, newSession())

	if !downloadAll {
		name, err := downloadOne(ctx, c, docID, "")
		if err != nil {
			return reportError(w, err)
		}
		fmt.Fprintf(w, "Downloaded %s\n", name)
		return exitOK
	}

	docs, err := c.Documents(ctx)
	if err != nil {
		return reportError(w, err)
	}
	if len(docs) == 0 {
		fmt.Fprintln(w, "No documents to download.")
		return exitOK
	}

	// Bounded fan-out; the backend is a small service, keep it polite.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	names := make([]string, len(docs))
	for i, d := range docs {
		g.Go(func() error {
			name, err := downloadOne(gctx, c, d.ID, d.OriginalName)
			if err != nil {
				return fmt.Errorf("document %s: %w", d.ID, err)
			}
			names[i] = name
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return reportError(w, err)
	}

	for _, name := range names {
		fmt.Fprintf(w, "Downloaded %s\n", name)
	}
	return exitOK
}

// downloadOne streams a single document into the output directory and
// returns the file name written.
func downloadOne(ctx context.Context, c *client.Client, docID, preferredName string) (string, error) {
	name := preferredName
	if name == "" {
		name = docID + ".pdf"
	}
	name = filepath.Base(strings.TrimSpace(name))

	if err := os.MkdirAll(downloadOutDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(downloadOutDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := c.DownloadDocument(ctx, docID, f); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// runDocumentsDelete removes a document and returns exit code
func runDocumentsDelete(ctx context.Context, w io.Writer, docID string) int {
	cfg, err := loadConfig()
	if err != nil {
		return reportError(w, err)
	}
	c := newClient(cfg, newSession())

	if err := c.DeleteDocument(ctx, docID); err != nil {
		return reportError(w, err)
	}

	fmt.Fprintf(w, "Deleted document %s\n", docID)
	return exitOK
}
