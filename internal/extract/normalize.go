package extract

import "strings"

// evidenceSnippetLimit caps every stored evidence snippet, in runes.
const evidenceSnippetLimit = 180

// NormalizeText collapses runs of whitespace to single spaces and trims the
// result. Every resolver sees text through this first.
func NormalizeText(text string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}

// snippet truncates normalized text for the evidence trail.
func snippet(text string) string {
	return truncateRunes(text, evidenceSnippetLimit)
}

func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
