package diaryimport

import (
	"context"
	"fmt"
	"log/slog"

	"karst-backend/lib/scrapers/lezec"
	"karst-backend/lib/textutil"
	"karst-backend/services/catalog"

	"github.com/antzucaro/matchr"
)

// partialNamePrefixLen is the prefix length for the last-resort name
// match. The value is inherited from earlier import tooling with no
// recorded rationale; it misbehaves on short names in both
// directions, so treat it as a placeholder rather than tuning it.
const partialNamePrefixLen = 10

// suggestionThreshold filters the similarity suggestions logged for
// unmatched entries.
const suggestionThreshold = 0.75

type Strategy int

const (
	StrategyNone Strategy = iota
	// StrategyExternalID matched on the site's route key embedded in
	// an external link. Highest confidence.
	StrategyExternalID
	// StrategyExactName matched on the normalized display name
	// within a region area.
	StrategyExactName
	// StrategyPartialName matched on a name-prefix substring.
	// Lowest confidence.
	StrategyPartialName
)

func (s Strategy) String() string {
	switch s {
	case StrategyExternalID:
		return "external-id"
	case StrategyExactName:
		return "exact-name"
	case StrategyPartialName:
		return "partial-name"
	default:
		return "none"
	}
}

// MatchResult reports the resolved problem and the strategy that
// found it; a nil Problem means no tier succeeded.
type MatchResult struct {
	Problem  *catalog.Problem
	Strategy Strategy
}

func (r MatchResult) Matched() bool {
	return r.Problem != nil
}

// regionAreaHints covers the macro-region: the two region substrings
// plus every allow-listed sub-area name, so an area called plain
// "Holštejn" is a candidate too.
func regionAreaHints() []string {
	hints := make([]string, 0, len(regionSubstrings)+len(regionAllowList))
	hints = append(hints, regionSubstrings...)
	hints = append(hints, regionAllowList...)
	return hints
}

type Matcher struct {
	catalog catalog.Service
}

func NewMatcher(cat catalog.Service) Matcher {
	return Matcher{catalog: cat}
}

// Match resolves a diary entry to a catalog problem, trying
// strategies in decreasing order of confidence and stopping at the
// first hit.
func (m Matcher) Match(ctx context.Context, entry lezec.DiaryEntry) (MatchResult, error) {
	regionAreas, err := m.catalog.FindRegionAreas(ctx, regionAreaHints())
	if err != nil {
		return MatchResult{}, err
	}

	if entry.LezecID != "" {
		result, err := m.matchByExternalID(ctx, entry, regionAreas)
		if err != nil {
			return MatchResult{}, err
		}
		if result.Matched() {
			return result, nil
		}
	}

	result, err := m.matchByName(ctx, entry, regionAreas)
	if err != nil {
		return MatchResult{}, err
	}
	if result.Matched() {
		return result, nil
	}

	m.logSuggestion(ctx, entry, regionAreas)
	return MatchResult{}, nil
}

// matchByExternalID scans external links for the site's route key.
// The scan is scoped to region areas plus any area matching the
// entry's own location; with no such areas it falls back to the whole
// catalog.
func (m Matcher) matchByExternalID(ctx context.Context, entry lezec.DiaryEntry, regionAreas []catalog.Area) (MatchResult, error) {
	areas := regionAreas
	if entry.Location != "" {
		locationAreas, err := m.catalog.FindRegionAreas(ctx, []string{entry.Location})
		if err != nil {
			return MatchResult{}, err
		}
		areas = mergeAreas(areas, locationAreas)
	}

	areaIDs := make([]int64, len(areas))
	for i, a := range areas {
		areaIDs[i] = a.ID
	}

	fragment := fmt.Sprintf("key=%s", entry.LezecID)
	problems, err := m.catalog.FindByExternalLink(ctx, fragment, areaIDs)
	if err != nil {
		return MatchResult{}, err
	}
	if len(problems) == 0 {
		return MatchResult{}, nil
	}

	slog.DebugContext(ctx, "matched by external link", "name", entry.Name, "lezec_id", entry.LezecID)
	return MatchResult{Problem: &problems[0], Strategy: StrategyExternalID}, nil
}

func (m Matcher) matchByName(ctx context.Context, entry lezec.DiaryEntry, regionAreas []catalog.Area) (MatchResult, error) {
	normalized := textutil.Normalize(entry.Name)
	for _, area := range regionAreas {
		problems, err := m.catalog.FindByNormalizedName(ctx, normalized, area.ID)
		if err != nil {
			return MatchResult{}, err
		}
		if len(problems) > 0 {
			slog.DebugContext(ctx, "matched by normalized name", "name", entry.Name, "area", area.Name)
			return MatchResult{Problem: &problems[0], Strategy: StrategyExactName}, nil
		}
	}

	prefix := namePrefix(entry.Name)
	if prefix == "" {
		return MatchResult{}, nil
	}
	for _, area := range regionAreas {
		problems, err := m.catalog.FindByNameSubstring(ctx, prefix, area.ID)
		if err != nil {
			return MatchResult{}, err
		}
		if len(problems) > 0 {
			slog.DebugContext(ctx, "matched by partial name", "name", entry.Name, "area", area.Name)
			return MatchResult{Problem: &problems[0], Strategy: StrategyPartialName}, nil
		}
	}

	return MatchResult{}, nil
}

func namePrefix(name string) string {
	runes := []rune(name)
	if len(runes) <= partialNamePrefixLen {
		return name
	}
	return string(runes[:partialNamePrefixLen])
}

// logSuggestion surfaces the closest catalog name for an unmatched
// entry so stale diary spellings can be fixed by hand. It never
// produces a match on its own.
func (m Matcher) logSuggestion(ctx context.Context, entry lezec.DiaryEntry, regionAreas []catalog.Area) {
	normalized := textutil.Normalize(entry.Name)
	var bestName string
	var bestSimilarity float64

	for _, area := range regionAreas {
		problems, err := m.catalog.ListProblemsByArea(ctx, area.ID)
		if err != nil {
			slog.WarnContext(ctx, "failed to list area problems for suggestion", "area", area.Name, "err", err)
			return
		}
		for _, p := range problems {
			similarity := matchr.JaroWinkler(normalized, p.NameNormalized, false)
			if similarity > bestSimilarity {
				bestSimilarity = similarity
				bestName = p.Name
			}
		}
	}

	if bestSimilarity >= suggestionThreshold {
		slog.InfoContext(
			ctx, "no match, but a similar problem exists",
			"entry", entry.Name,
			"closest", bestName,
			"similarity", bestSimilarity,
		)
	}
}

func mergeAreas(left, right []catalog.Area) []catalog.Area {
	seen := make(map[int64]struct{}, len(left))
	merged := make([]catalog.Area, 0, len(left)+len(right))
	for _, a := range left {
		seen[a.ID] = struct{}{}
		merged = append(merged, a)
	}
	for _, a := range right {
		if _, dup := seen[a.ID]; dup {
			continue
		}
		merged = append(merged, a)
	}
	return merged
}
