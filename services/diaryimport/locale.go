package diaryimport

import (
	"karst-backend/lib/scrapers/lezec"
	"karst-backend/lib/textutil"
)

// Areas of the Moravský Kras region as they appear in diary location
// cells. The list is deliberately generous: a false positive here
// just gets rejected by the matcher, a false negative is lost.
var regionAllowList = []string{
	"Panský Les",
	"Sloup",
	"Holštejn",
	"Rudice",
	"Ostrov",
	"Ostaš",
	"Ludvíkov",
	"Ludvíkov (Nad Hřbitovem)",
	"Moravský Kras",
}

// Substrings that mark a location as belonging to the macro-region
// even when the exact area name is unknown.
var regionSubstrings = []string{"Moravský", "Kras"}

// FilterRegionEntries keeps the entries whose location belongs to the
// target region, either by exact area name or by macro-region
// substring.
func FilterRegionEntries(entries []lezec.DiaryEntry) []lezec.DiaryEntry {
	var filtered []lezec.DiaryEntry
	for _, entry := range entries {
		if inRegion(entry.Location) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

func inRegion(location string) bool {
	for _, area := range regionAllowList {
		if location == area {
			return true
		}
	}
	return textutil.ContainsAny(location, regionSubstrings...)
}
