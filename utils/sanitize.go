package utils

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	// Letters, digits, whitespace and common punctuation survive; everything
	// else is stripped
	disallowedTextChars = regexp.MustCompile(`[^\p{L}\p{N}_\s\-.,()/]`)
)

// SanitizeText normalizes a free-form text field: trims and collapses
// whitespace, strips unusual characters, and title-cases the result
func SanitizeText(text string) string {
	text = whitespaceRun.ReplaceAllString(strings.TrimSpace(text), " ")
	if text == "" {
		return ""
	}
	text = disallowedTextChars.ReplaceAllString(text, "")
	return cases.Title(language.English).String(text)
}
