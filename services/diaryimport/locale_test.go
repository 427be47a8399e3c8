package diaryimport

import (
	"testing"

	"karst-backend/lib/scrapers/lezec"

	"github.com/stretchr/testify/require"
)

func TestFilterRegionEntries(t *testing.T) {
	entries := []lezec.DiaryEntry{
		// allow-listed area
		{Name: "a", Location: "Holštejn"},
		// neither allow-listed nor carrying a region substring
		{Name: "b", Location: "Brno-střed"},
		// substring matches
		{Name: "c", Location: "Nějaký Kras"},
		{Name: "d", Location: "Moravský ráj"},
		// different region
		{Name: "e", Location: "Adršpach"},
		// no location at all
		{Name: "f", Location: ""},
		// exact macro-region name
		{Name: "g", Location: "Moravský Kras"},
	}

	filtered := FilterRegionEntries(entries)

	var names []string
	for _, entry := range filtered {
		names = append(names, entry.Name)
	}
	require.Equal(t, []string{"a", "c", "d", "g"}, names)
}
