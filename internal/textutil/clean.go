// ABOUTME: Text cleanup for extractor output before ingestion
// ABOUTME: Repairs character-spaced PDF text and normalizes whitespace
package textutil

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	multiSpace = regexp.MustCompile(`\s{2,}`)
	anySpace   = regexp.MustCompile(`\s+`)
)

// CleanExtractedText repairs text whose extractor inserted spaces between
// characters ("M a y  2 0 2 5" becomes "May 2025") and collapses repeated
// whitespace. The retrieval engine assumes its input has been through this
// or an equivalent cleanup.
func CleanExtractedText(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		out = append(out, repairSpacedLine(line))
	}
	joined := strings.Join(out, "\n")
	return strings.TrimSpace(joined)
}

// NormalizeWhitespace collapses all whitespace runs to single spaces.
func NormalizeWhitespace(text string) string {
	return strings.TrimSpace(anySpace.ReplaceAllString(text, " "))
}

// repairSpacedLine joins runs of single-character tokens separated by
// single spaces. Word boundaries in spaced-out text appear as two or more
// spaces, so groups are split on those first.
func repairSpacedLine(line string) string {
	groups := multiSpace.Split(line, -1)
	words := make([]string, 0, len(groups))
	for _, group := range groups {
		if group == "" {
			continue
		}
		words = append(words, joinIfSpaced(group))
	}
	return strings.Join(words, " ")
}

// joinIfSpaced collapses "M a y" to "May" when every space-separated token
// is a single rune; anything else is returned unchanged.
func joinIfSpaced(group string) string {
	tokens := strings.Split(group, " ")
	if len(tokens) < 2 {
		return group
	}
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) != 1 {
			return group
		}
	}
	return strings.Join(tokens, "")
}
