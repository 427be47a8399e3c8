package lezec

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestEncodeCandidatesOrdering(t *testing.T) {
	candidates := EncodeCandidates("Lucaa")

	require.NotEmpty(t, candidates)
	// lowercase windows-1250 is the site's dominant convention and
	// must be tried first
	require.Equal(t, UidCandidate{Text: "lucaa", LegacyBytes: true}, candidates[0])
	require.Equal(t, UidCandidate{Text: "lucaa"}, candidates[1])

	// uppercase-hex fallbacks come last
	last := candidates[len(candidates)-1]
	require.True(t, last.UppercaseHex)

	// original-case unicode candidate is always present
	require.Contains(t, candidates, UidCandidate{Text: "Lucaa"})

	seen := map[UidCandidate]struct{}{}
	for _, cand := range candidates {
		_, dup := seen[cand]
		require.False(t, dup, "duplicate candidate: %+v", cand)
		seen[cand] = struct{}{}
	}
}

func TestEncodeCandidatesAllCaseVariants(t *testing.T) {
	// a name where lowercase, original, capitalized and uppercase all
	// differ produces the full candidate list
	got := EncodeCandidates("luCA")
	want := []UidCandidate{
		{Text: "luca", LegacyBytes: true},
		{Text: "luca"},
		{Text: "luCA", LegacyBytes: true},
		{Text: "luCA"},
		{Text: "Luca", LegacyBytes: true},
		{Text: "Luca"},
		{Text: "LUCA", LegacyBytes: true},
		{Text: "LUCA"},
		{Text: "luca", UppercaseHex: true, LegacyBytes: true},
		{Text: "luCA", UppercaseHex: true, LegacyBytes: true},
	}
	require.Empty(t, cmp.Diff(want, got))
}

func TestEncodeCandidatesNeverEmpty(t *testing.T) {
	for _, name := range []string{"", "a", "Lucaa", "Řehoř", "🧗🧗🧗"} {
		candidates := EncodeCandidates(name)
		require.NotEmpty(t, candidates, "name: %q", name)
	}
}

func TestUidCandidateHex(t *testing.T) {
	hex, ok := UidCandidate{Text: "lucaa", LegacyBytes: true}.Hex()
	require.True(t, ok)
	require.Equal(t, "6c75636161", hex)

	hex, ok = UidCandidate{Text: "lucaa"}.Hex()
	require.True(t, ok)
	require.Equal(t, "6c75636161", hex)

	hex, ok = UidCandidate{Text: "lucaa", UppercaseHex: true, LegacyBytes: true}.Hex()
	require.True(t, ok)
	require.Equal(t, "6C75636161", hex)

	// ř is 0xf8 in windows-1250 but U+0159 in unicode
	hex, ok = UidCandidate{Text: "ř", LegacyBytes: true}.Hex()
	require.True(t, ok)
	require.Equal(t, "f8", hex)

	hex, ok = UidCandidate{Text: "ř"}.Hex()
	require.True(t, ok)
	require.Equal(t, "159", hex)
}

func TestUidCandidateHexOutsideRepertoire(t *testing.T) {
	// emoji cannot be represented in windows-1250, the candidate is
	// dropped rather than mangled
	_, ok := UidCandidate{Text: "🧗", LegacyBytes: true}.Hex()
	require.False(t, ok)

	// the unicode encoding always succeeds
	hex, ok := UidCandidate{Text: "🧗"}.Hex()
	require.True(t, ok)
	require.Equal(t, "1f9d7", hex)
}
