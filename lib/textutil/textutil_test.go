package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"Dívčí válka", "divci valka"},
		{"Vlnová dálka", "vlnova dalka"},
		{"Palcošmé", "palcosme"},
		{"Barbařiny první krůčky", "barbariny prvni krucky"},
		{"České Budějovice", "ceske budejovice"},
		{"CESKE  BUDEJOVICE", "ceske budejovice"},
		{"  spaced \t out\nname  ", "spaced out name"},
		{"", ""},
		{"už", "uz"},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, Normalize(test.input), "input: %q", test.input)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Dívčí válka", "České Budějovice", "plain name", "🧗 emoji"}
	for _, in := range inputs {
		once := Normalize(in)
		require.Equal(t, once, Normalize(once))
	}
}

func TestNormalizeDiacriticInsensitive(t *testing.T) {
	require.Equal(t, Normalize("České Budějovice"), Normalize("CESKE BUDEJOVICE"))
}

func TestContainsAny(t *testing.T) {
	require.True(t, ContainsAny("Moravský Kras", "Kras"))
	require.True(t, ContainsAny("Nějaký Kras", "Moravský", "Kras"))
	require.False(t, ContainsAny("Brno-střed", "Moravský", "Kras"))
}
