// ABOUTME: Health command for the lexibridge CLI
// ABOUTME: Checks backend connectivity and service status

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

	"github.com/lexibridge/lexibridge-cli/internal/client"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend connectivity",
	Long:  `Check connectivity to the LexiBridge backend and verify database and AI service status.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitOnError(runHealth(ctx, os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// runHealth executes the health check and returns exit code
func runHealth(ctx context.Context, w io.Writer) int {
	cfg, err := loadConfig()
	if err != nil {
		return reportError(w, err)
	}
	c := client.New(cfg.APIURL, nil)

	resp, err := c.Health(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatHealthJSON(cfg.APIURL, resp))
	} else {
		fmt.Fprintln(w, formatHealthHuman(cfg.APIURL, resp))
	}

	return exitOK
}

// formatHealthHuman formats health response for human readability
func formatHealthHuman(url string, resp *client.HealthResponse) string {
	return fmt.Sprintf(`Backend:    %s
Status:     %s
Database:   %s
AI Service: %s`, url, resp.Status, resp.Database, resp.AIService)
}

// formatHealthJSON formats health response as JSON
func formatHealthJSON(url string, resp *client.HealthResponse) string {
	output := map[string]interface{}{
		"backend":    url,
		"status":     resp.Status,
		"database":   resp.Database,
		"ai_service": resp.AIService,
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
