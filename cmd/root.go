// ABOUTME: Root command for the lexibridge CLI
// ABOUTME: Handles global flags, configuration, and shared client construction

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lexibridge/lexibridge-cli/internal/client"
	"github.com/lexibridge/lexibridge-cli/internal/config"
	"github.com/lexibridge/lexibridge-cli/internal/logger"
	"github.com/lexibridge/lexibridge-cli/internal/recentdocs"
	"github.com/lexibridge/lexibridge-cli/internal/session"
	"github.com/lexibridge/lexibridge-cli/internal/workflow"
)

var (
	apiURL     string
	jsonOutput bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "lexibridge",
	Short: "CLI for the LexiBridge legal document analyzer",
	Long: `lexibridge is a command-line interface for the LexiBridge backend.

Upload legal documents, run AI analysis, and ask follow-up questions
about the analyzed document, from scripts or the interactive TUI.

Environment Variables:
  LEXIBRIDGE_API_URL  Backend API URL (default: http://localhost:8000)
  LOG_LEVEL           debug, info, warn, error (default: warn)`,
}

// Execute runs the root command
func Execute() error {
	logger.Init()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides LEXIBRIDGE_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// loadConfig builds the effective configuration, with the --api-url flag
// taking priority over everything else.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(session.DefaultConfigDir())
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	return cfg, nil
}

// newSession opens the session store in the config directory
func newSession() *session.Store {
	return session.New(session.DefaultConfigDir())
}

// newClient builds the API client backed by the session store
func newClient(cfg *config.Config, store *session.Store) *client.Client {
	c := client.New(cfg.APIURL, store)
	c.AskTimeout = cfg.AskTimeoutDuration()
	return c
}

// newController builds a workflow controller from the configuration
func newController(cfg *config.Config, api workflow.DocumentAPI) *workflow.Controller {
	return workflow.NewController(api, workflow.Config{
		AcceptedExtensions: cfg.AcceptedExtensions,
		StrictAnalyze:      cfg.StrictAnalyze,
	})
}

// newRecentDocs opens the recent-documents pointer store
func newRecentDocs() *recentdocs.RecentDocs {
	return recentdocs.New(session.DefaultConfigDir())
}

// exitOnError converts a non-zero run result into a process exit
func exitOnError(code int) {
	if code != 0 {
		os.Exit(code)
	}
}

// Exit codes shared by all commands:
//
//	0 - success
//	1 - invalid input (bad flags, failed validation)
//	2 - backend or network error
//	3 - authentication required
const (
	exitOK     = 0
	exitUsage  = 1
	exitError  = 2
	exitNoAuth = 3
)

// reportError prints the error and picks the exit code by error kind
func reportError(w io.Writer, err error) int {
	fmt.Fprintf(w, "Error: %v\n", err)

	var authErr *client.AuthError
	if errors.As(err, &authErr) {
		fmt.Fprintln(w, "Run 'lexibridge login' to authenticate.")
		return exitNoAuth
	}
	var valErr *client.ValidationError
	if errors.As(err, &valErr) {
		return exitUsage
	}
	var toErr *client.TimeoutError
	if errors.As(err, &toErr) {
		fmt.Fprintln(w, "The request can be retried.")
	}
	return exitError
}
