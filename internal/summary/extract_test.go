// ABOUTME: Tests for the summary extraction heuristic covering keyword and
// ABOUTME: glyph matching, section headers, truncation, and placeholders

package summary

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `# Contract Analysis

**Key Points:**
• The agreement runs for a fixed term of 24 months.
• Either party may assign with written consent.

**Potential Issues:**
• Risk: ambiguous termination clause
⚠ Liability is uncapped for data breaches.

**Clauses:**
§ Section 7.2 governs confidentiality obligations.

**Recommendations:**
→ Negotiate a liability cap before signing.
We suggest reviewing the indemnity wording with counsel.
`

func TestExtractSample(t *testing.T) {
	s := Extract(sampleResponse)

	assert.Contains(t, s.KeyPoints, "The agreement runs for a fixed term of 24 months.")
	assert.Contains(t, s.KeyPoints, "Either party may assign with written consent.")

	assert.Contains(t, s.Risks, "Risk: ambiguous termination clause")
	assert.Contains(t, s.Risks, "Liability is uncapped for data breaches.")

	assert.Contains(t, s.Clauses, "Section 7.2 governs confidentiality obligations.")

	assert.Contains(t, s.Recommendations, "Negotiate a liability cap before signing.")
	assert.Contains(t, s.Recommendations, "We suggest reviewing the indemnity wording with counsel.")
}

func TestBulletAndGlyphStripping(t *testing.T) {
	s := Extract("• Risk: ambiguous termination clause")

	require.NotEmpty(t, s.Risks)
	assert.Equal(t, "Risk: ambiguous termination clause", s.Risks[0], "bullet marker must be stripped")
	// "clause" is a clauses keyword, so the line legitimately lands there too.
	assert.Contains(t, s.Clauses, "Risk: ambiguous termination clause")
	assert.Equal(t, []string{Placeholder}, s.Recommendations)
}

func TestEmptyInputGetsPlaceholders(t *testing.T) {
	for _, input := range []string{"", "   \n\n  ", "nothing relevant here"} {
		s := Extract(input)
		assert.Equal(t, []string{Placeholder}, s.Risks, "input %q", input)
		assert.Equal(t, []string{Placeholder}, s.Clauses, "input %q", input)
		assert.Equal(t, []string{Placeholder}, s.Recommendations, "input %q", input)
		assert.NotEmpty(t, s.KeyPoints, "input %q", input)
	}
}

func TestDeterministic(t *testing.T) {
	first := Extract(sampleResponse)
	second := Extract(sampleResponse)
	assert.Equal(t, first, second)
}

func TestCaseInsensitiveKeywords(t *testing.T) {
	s := Extract("This WARNING applies to late payment.\nWe ADVISE prompt review.")

	assert.Contains(t, s.Risks, "This WARNING applies to late payment.")
	assert.Contains(t, s.Recommendations, "We ADVISE prompt review.")
}

func TestSectionHeaderCollectsBullets(t *testing.T) {
	// The body lines carry no bucket keywords; only the header places them.
	text := strings.Join([]string{
		"Potential Issues:",
		"• Payment terms are one-sided.",
		"• No cure period before default.",
		"",
		"• This bullet is outside the section.",
	}, "\n")

	s := Extract(text)
	assert.Contains(t, s.Risks, "Payment terms are one-sided.")
	assert.Contains(t, s.Risks, "No cure period before default.")
	assert.NotContains(t, s.Risks, "This bullet is outside the section.")
}

func TestHeaderLinesAreNotContent(t *testing.T) {
	s := Extract("**Risks:**\n• Something dangerous here, a real risk.")

	for _, item := range s.Risks {
		assert.NotEqual(t, "Risks:", item)
	}
	assert.Contains(t, s.Risks, "Something dangerous here, a real risk.")
}

func TestTruncation(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "• Risk number %d in this agreement.\n", i)
	}

	s := Extract(b.String())
	assert.Len(t, s.Risks, maxRisks)
	assert.Equal(t, "Risk number 0 in this agreement.", s.Risks[0], "input order is preserved")
}

func TestKeyPointsSoftFallback(t *testing.T) {
	// No key-point keywords anywhere, but bullet structure exists.
	s := Extract("• The term is five years.\n• Governing law is Delaware.")

	assert.Contains(t, s.KeyPoints, "The term is five years.")
	assert.Contains(t, s.KeyPoints, "Governing law is Delaware.")
}

func TestEmphasisStripped(t *testing.T) {
	s := Extract("**Risk**: the warranty period is **unusually short**.")

	require.NotEmpty(t, s.Risks)
	assert.Equal(t, "Risk: the warranty period is unusually short.", s.Risks[0])
}

func TestFallbackSummaryIsMarked(t *testing.T) {
	s := FallbackSummary("lease.pdf")

	require.NotEmpty(t, s.KeyPoints)
	assert.Contains(t, s.KeyPoints[0], "lease.pdf")
	assert.Contains(t, s.KeyPoints[0], "placeholder")
	assert.NotEmpty(t, s.Risks)
	assert.NotEmpty(t, s.Clauses)
	assert.NotEmpty(t, s.Recommendations)

	unnamed := FallbackSummary("")
	assert.Contains(t, unnamed.KeyPoints[0], "the document")
}
