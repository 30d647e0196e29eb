// ABOUTME: Deterministic extraction of a four-bucket summary from free-form
// ABOUTME: analysis text using keyword tables, marker glyphs, and section headers

package summary

import "strings"

// Placeholder is substituted for any bucket the heuristic leaves empty, so
// callers never render an empty section.
const Placeholder = "No specific information found"

// Per-bucket truncation limits
const (
	maxKeyPoints       = 5
	maxRisks           = 4
	maxClauses         = 4
	maxRecommendations = 3
)

// Marker glyphs the backend uses to flag categorized lines
const (
	riskGlyph           = "⚠"
	clauseGlyph         = "§"
	recommendationGlyph = "→"
)

// Summary holds the four categorized bullet lists. Every slice has at least
// one entry; buckets with no matches carry the Placeholder string.
type Summary struct {
	KeyPoints       []string `json:"keyPoints"`
	Risks           []string `json:"risks"`
	Clauses         []string `json:"clauses"`
	Recommendations []string `json:"recommendations"`
}

// Keyword tables, matched as case-insensitive substrings
var (
	keyPointKeywords       = []string{"key point", "main point", "important point"}
	riskKeywords           = []string{"risk", "warning", "concern"}
	clauseKeywords         = []string{"clause", "section", "article"}
	recommendationKeywords = []string{"recommend", "suggest", "advise"}
)

// Section-header keyword tables for the sentinel pass. Broader than the
// line-match tables: a header like "Potential Issues:" opens the risks
// section even though no body line says "risk".
var (
	keyPointHeaders       = []string{"key points", "main points", "important points", "summary"}
	riskHeaders           = []string{"risks", "risk", "potential issues", "warnings", "concerns"}
	clauseHeaders         = []string{"clauses", "clause", "terms", "sections", "articles"}
	recommendationHeaders = []string{"recommendations", "suggestions", "advice"}
)

// Extract classifies the response text into the four buckets. Pure function:
// identical input always yields an identical Summary.
func Extract(text string) Summary {
	lines := strings.Split(text, "\n")

	s := Summary{
		KeyPoints:       collect(lines, keyPointKeywords, keyPointHeaders, "", maxKeyPoints),
		Risks:           collect(lines, riskKeywords, riskHeaders, riskGlyph, maxRisks),
		Clauses:         collect(lines, clauseKeywords, clauseHeaders, clauseGlyph, maxClauses),
		Recommendations: collect(lines, recommendationKeywords, recommendationHeaders, recommendationGlyph, maxRecommendations),
	}

	// Soft fallback for key points only: when nothing matched directly,
	// general bullet or emphasized lines stand in so the headline bucket is
	// populated whenever the response has any structure at all.
	if len(s.KeyPoints) == 0 {
		s.KeyPoints = collectBullets(lines, maxKeyPoints)
	}

	s.KeyPoints = orPlaceholder(s.KeyPoints)
	s.Risks = orPlaceholder(s.Risks)
	s.Clauses = orPlaceholder(s.Clauses)
	s.Recommendations = orPlaceholder(s.Recommendations)
	return s
}

// FallbackSummary builds a locally generated stand-in summary for when
// analysis could not be obtained. The wording marks it as a fallback so it
// cannot be mistaken for backend output.
func FallbackSummary(filename string) Summary {
	name := strings.TrimSpace(filename)
	if name == "" {
		name = "the document"
	}
	return Summary{
		KeyPoints:       []string{"Automatic analysis was unavailable for " + name + "; this is a locally generated placeholder."},
		Risks:           []string{Placeholder},
		Clauses:         []string{Placeholder},
		Recommendations: []string{"Retry the analysis, or review " + name + " manually."},
	}
}

// collect gathers lines for one bucket: the union of direct keyword/glyph
// matches and bullet lines under a matching section header, in input order
// without duplicates, truncated to max.
func collect(lines, keywords, headers []string, glyph string, max int) []string {
	matched := make([]bool, len(lines))

	// Direct pass: any line containing a bucket keyword or the glyph.
	for i, line := range lines {
		if isHeading(line) {
			continue
		}
		lower := strings.ToLower(line)
		if glyph != "" && strings.Contains(line, glyph) {
			matched[i] = true
			continue
		}
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				matched[i] = true
				break
			}
		}
	}

	// Sentinel pass: a header line naming the bucket opens a section; the
	// bullet-marked lines that follow belong to it until a blank line.
	inSection := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if isSectionHeader(line, headers) {
			inSection = true
			continue
		}
		if !inSection {
			continue
		}
		if trimmed == "" {
			inSection = false
			continue
		}
		if isBulletOrEmphasis(line) && !isHeading(line) {
			matched[i] = true
		}
	}

	var out []string
	for i, line := range lines {
		if !matched[i] {
			continue
		}
		cleaned := cleanLine(line)
		if cleaned == "" {
			continue
		}
		out = append(out, cleaned)
		if len(out) == max {
			break
		}
	}
	return out
}

// collectBullets gathers general bullet or emphasized lines, skipping
// headers, for the key-points soft fallback.
func collectBullets(lines []string, max int) []string {
	var out []string
	for _, line := range lines {
		if isHeading(line) || !isBulletOrEmphasis(line) {
			continue
		}
		cleaned := cleanLine(line)
		if cleaned == "" {
			continue
		}
		out = append(out, cleaned)
		if len(out) == max {
			break
		}
	}
	return out
}

// isSectionHeader reports whether the line looks like a header for one of the
// given section names: short, names the section, and reads as a title rather
// than body prose.
func isSectionHeader(line string, headers []string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || len(trimmed) > 60 {
		return false
	}
	lower := strings.ToLower(stripMarkup(trimmed))
	lower = strings.TrimSuffix(strings.TrimSpace(lower), ":")
	for _, h := range headers {
		if lower == h || strings.HasPrefix(lower, h+" ") || strings.HasSuffix(lower, " "+h) {
			return true
		}
	}
	return false
}

// isHeading reports whether a line is a structural header rather than
// content: a markdown heading, or a short line ending in a colon, or a short
// fully-bold line.
func isHeading(line string) bool {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "#") {
		return true
	}
	cleaned := stripMarkup(trimmed)
	if strings.HasSuffix(cleaned, ":") && len(strings.Fields(cleaned)) <= 4 {
		return true
	}
	if strings.HasPrefix(trimmed, "**") && strings.HasSuffix(trimmed, "**") &&
		len(strings.Fields(cleaned)) <= 4 {
		return true
	}
	return false
}

// isBulletOrEmphasis reports whether a line carries bullet or emphasis
// markup. Plain "-" bullets must lead the line so hyphenated prose does not
// count.
func isBulletOrEmphasis(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "•") ||
		strings.HasPrefix(trimmed, "- ") ||
		strings.HasPrefix(trimmed, "* ") ||
		strings.Contains(trimmed, "**")
}

// cleanLine strips bullet markers, category glyphs, and emphasis markup,
// then trims whitespace.
func cleanLine(line string) string {
	s := strings.TrimSpace(line)
	for {
		switch {
		case strings.HasPrefix(s, "•"):
			s = strings.TrimSpace(strings.TrimPrefix(s, "•"))
		case strings.HasPrefix(s, "- "):
			s = strings.TrimSpace(strings.TrimPrefix(s, "- "))
		case strings.HasPrefix(s, "* "):
			s = strings.TrimSpace(strings.TrimPrefix(s, "* "))
		case strings.HasPrefix(s, riskGlyph):
			s = strings.TrimSpace(strings.TrimPrefix(s, riskGlyph))
		case strings.HasPrefix(s, clauseGlyph):
			s = strings.TrimSpace(strings.TrimPrefix(s, clauseGlyph))
		case strings.HasPrefix(s, recommendationGlyph):
			s = strings.TrimSpace(strings.TrimPrefix(s, recommendationGlyph))
		default:
			return strings.TrimSpace(stripMarkup(s))
		}
	}
}

// stripMarkup removes markdown emphasis markers without touching the words
func stripMarkup(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	return s
}

func orPlaceholder(items []string) []string {
	if len(items) == 0 {
		return []string{Placeholder}
	}
	return items
}
