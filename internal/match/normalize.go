package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lower = cases.Lower(language.Und)

// Normalize reduces a title to its comparison form: case-folded, symbols
// mapped to words, punctuation collapsed to single spaces.
func Normalize(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	normalized := lower.String(input)
	normalized = strings.ReplaceAll(normalized, "&", " and ")
	normalized = strings.ReplaceAll(normalized, "+", " and ")

	var builder strings.Builder
	prevSpace := false
	for _, r := range normalized {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			builder.WriteRune(r)
			prevSpace = false
		default:
			if !prevSpace && builder.Len() > 0 {
				builder.WriteByte(' ')
				prevSpace = true
			}
		}
	}
	return strings.TrimSpace(builder.String())
}
