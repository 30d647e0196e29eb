// ABOUTME: Suggest command for the lexibridge CLI
// ABOUTME: Prints starter questions for document Q&A

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lexibridge/lexibridge-cli/internal/workflow"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Show suggested questions for document Q&A",
	Run: func(cmd *cobra.Command, args []string) {
		exitOnError(runSuggest(os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(w io.Writer) int {
	questions := workflow.SuggestedQuestions()

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(questions, "", "  ")
		fmt.Fprintln(w, string(data))
		return exitOK
	}

	for i, q := range questions {
		fmt.Fprintf(w, "%d. %s\n", i+1, q)
	}
	return exitOK
}
