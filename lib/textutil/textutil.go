package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

var stripDiacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Normalize folds a problem name into its canonical lookup form:
// diacritics removed, lowercased, inner whitespace collapsed to single
// spaces, leading/trailing whitespace trimmed.
//
//	Normalize("Dívčí válka") == "divci valka"
//
// Normalize is idempotent and never fails; input that cannot be
// decomposed is passed through as-is.
func Normalize(name string) string {
	if name == "" {
		return ""
	}
	folded, _, err := transform.String(stripDiacritics, name)
	if err != nil {
		folded = name
	}
	folded = strings.ToLower(folded)
	folded = whitespaceRegex.ReplaceAllString(folded, " ")
	return strings.TrimSpace(folded)
}

// ContainsAny reports whether s contains any of the given substrings.
func ContainsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
