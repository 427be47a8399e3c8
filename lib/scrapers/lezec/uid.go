package lezec

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// UidCandidate is one guess at how the site expects a display name to
// be encoded in the `uid` query parameter. The site stores usernames
// in windows-1250 and compares hex-encoded bytes, but some accounts
// predate that convention, so a handful of case and encoding variants
// have to be tried in order.
type UidCandidate struct {
	Text         string
	UppercaseHex bool
	// LegacyBytes selects windows-1250 byte encoding over raw
	// Unicode code points.
	LegacyBytes bool
}

// Hex renders the candidate as the hex string the site expects.
// ok is false when the text cannot be represented in windows-1250,
// in which case the candidate should be dropped.
func (c UidCandidate) Hex() (string, bool) {
	format := "%02x"
	if c.UppercaseHex {
		format = "%02X"
	}

	var sb strings.Builder
	if c.LegacyBytes {
		encoded, err := charmap.Windows1250.NewEncoder().String(c.Text)
		if err != nil {
			return "", false
		}
		for _, b := range []byte(encoded) {
			fmt.Fprintf(&sb, format, b)
		}
		return sb.String(), true
	}

	for _, r := range c.Text {
		fmt.Fprintf(&sb, format, r)
	}
	return sb.String(), true
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) <= 1 {
		return strings.ToUpper(s)
	}
	return strings.ToUpper(string(runes[0])) + strings.ToLower(string(runes[1:]))
}

// EncodeCandidates produces the ordered, de-duplicated list of uid
// encodings to try for a display name. Lowercase with windows-1250
// bytes comes first because that is what the site uses for almost
// every account; uppercase-hex variants trail as a long-shot
// fallback. The original-case Unicode candidate is always present,
// so the list is never empty.
func EncodeCandidates(displayName string) []UidCandidate {
	lower := strings.ToLower(displayName)
	upper := strings.ToUpper(displayName)

	ordered := []UidCandidate{
		{Text: lower, LegacyBytes: true},
		{Text: lower},
		{Text: displayName, LegacyBytes: true},
		{Text: displayName},
		{Text: capitalize(displayName), LegacyBytes: true},
		{Text: capitalize(displayName)},
		{Text: upper, LegacyBytes: true},
		{Text: upper},
		{Text: lower, UppercaseHex: true, LegacyBytes: true},
		{Text: displayName, UppercaseHex: true, LegacyBytes: true},
	}

	seen := make(map[UidCandidate]struct{}, len(ordered))
	var out []UidCandidate
	for _, cand := range ordered {
		if _, dup := seen[cand]; dup {
			continue
		}
		seen[cand] = struct{}{}
		out = append(out, cand)
	}
	return out
}
