// ABOUTME: Shared output rendering for summaries and Q&A exchanges
// ABOUTME: Human-readable and JSON formatting used by several commands

package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lexibridge/lexibridge-cli/internal/summary"
)

// formatSummaryHuman renders the four-bucket summary as labeled sections
func formatSummaryHuman(s *summary.Summary, fallback bool) string {
	var b strings.Builder
	if fallback {
		b.WriteString("(analysis unavailable, showing locally generated placeholder)\n\n")
	}
	writeSection(&b, "Key Points", s.KeyPoints)
	writeSection(&b, "Risks", s.Risks)
	writeSection(&b, "Clauses", s.Clauses)
	writeSection(&b, "Recommendations", s.Recommendations)
	return strings.TrimRight(b.String(), "\n")
}

func writeSection(b *strings.Builder, title string, items []string) {
	fmt.Fprintf(b, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "  - %s\n", item)
	}
	b.WriteString("\n")
}

// formatSummaryJSON renders the summary for --json output
func formatSummaryJSON(s *summary.Summary, fallback bool) string {
	output := map[string]any{
		"keyPoints":       s.KeyPoints,
		"risks":           s.Risks,
		"clauses":         s.Clauses,
		"recommendations": s.Recommendations,
		"fallback":        fallback,
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
