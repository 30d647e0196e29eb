// ABOUTME: Tests for shared summary rendering
// ABOUTME: Verifies human and JSON formatting of the four buckets

package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/lexibridge/lexibridge-cli/internal/summary"
)

func sampleSummary() *summary.Summary {
	return &summary.Summary{
		KeyPoints:       []string{"Twelve month term"},
		Risks:           []string{"Unlimited liability"},
		Clauses:         []string{"Termination clause"},
		Recommendations: []string{"Have counsel review the liability cap"},
	}
}

func TestFormatSummaryHuman(t *testing.T) {
	output := formatSummaryHuman(sampleSummary(), false)

	for _, want := range []string{"Key Points:", "Risks:", "Clauses:", "Recommendations:", "Unlimited liability"} {
		if !bytes.Contains([]byte(output), []byte(want)) {
			t.Errorf("expected output to contain %q", want)
		}
	}
	if bytes.Contains([]byte(output), []byte("placeholder")) {
		t.Error("did not expect the fallback notice")
	}
}

func TestFormatSummaryHumanFallbackNotice(t *testing.T) {
	output := formatSummaryHuman(sampleSummary(), true)

	if !bytes.Contains([]byte(output), []byte("locally generated placeholder")) {
		t.Error("expected the fallback notice")
	}
}

func TestFormatSummaryJSON(t *testing.T) {
	output := formatSummaryJSON(sampleSummary(), true)

	var parsed struct {
		KeyPoints       []string `json:"keyPoints"`
		Risks           []string `json:"risks"`
		Clauses         []string `json:"clauses"`
		Recommendations []string `json:"recommendations"`
		Fallback        bool     `json:"fallback"`
	}
	if err := json.Unmarshal([]byte(output), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(parsed.KeyPoints) != 1 || parsed.KeyPoints[0] != "Twelve month term" {
		t.Errorf("unexpected keyPoints: %v", parsed.KeyPoints)
	}
	if !parsed.Fallback {
		t.Error("expected fallback flag to be true")
	}
}
