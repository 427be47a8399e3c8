package diaryimport

import (
	"context"
	"testing"
	"time"

	"karst-backend/lib/scrapers/lezec"
	"karst-backend/lib/testutil"
	"karst-backend/services/catalog"
	catalogdb "karst-backend/services/catalog/db"

	"github.com/stretchr/testify/require"
)

func setupMatcher(t *testing.T) (Matcher, catalog.Service, context.Context) {
	res, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/diaryimport",
		DbSchema: catalogdb.Schema,
	})
	t.Cleanup(cleanup)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	t.Cleanup(cancel)

	cat := catalog.NewService(res.DB)
	return NewMatcher(cat), cat, ctx
}

func TestMatchTierOrdering(t *testing.T) {
	matcher, cat, ctx := setupMatcher(t)

	area, err := cat.CreateArea(ctx, "Moravský Kras")
	require.NoError(t, err)

	// one problem carries the external id, a different one carries
	// the exact name; the id must win
	linked, err := cat.CreateProblem(ctx, catalog.CreateProblemRequest{
		AreaID: area.ID,
		Name:   "Úplně jiné jméno",
	})
	require.NoError(t, err)
	err = cat.AddExternalLink(ctx, linked.ID, "lezec.cz", "https://www.lezec.cz/cesta.php?key=4821")
	require.NoError(t, err)

	named, err := cat.CreateProblem(ctx, catalog.CreateProblemRequest{
		AreaID: area.ID,
		Name:   "Kniha",
	})
	require.NoError(t, err)

	result, err := matcher.Match(ctx, lezec.DiaryEntry{
		Name:     "Kniha",
		LezecID:  "4821",
		Location: "Moravský Kras",
	})
	require.NoError(t, err)
	require.True(t, result.Matched())
	require.Equal(t, StrategyExternalID, result.Strategy)
	require.Equal(t, linked.ID, result.Problem.ID)

	// without the id, the exact-name tier picks the other problem
	result, err = matcher.Match(ctx, lezec.DiaryEntry{
		Name:     "Kniha",
		Location: "Moravský Kras",
	})
	require.NoError(t, err)
	require.True(t, result.Matched())
	require.Equal(t, StrategyExactName, result.Strategy)
	require.Equal(t, named.ID, result.Problem.ID)
}

func TestMatchExactNameIsDiacriticInsensitive(t *testing.T) {
	matcher, cat, ctx := setupMatcher(t)

	area, err := cat.CreateArea(ctx, "Holštejn")
	require.NoError(t, err)
	problem, err := cat.CreateProblem(ctx, catalog.CreateProblemRequest{
		AreaID: area.ID,
		Name:   "Dívčí válka",
	})
	require.NoError(t, err)

	result, err := matcher.Match(ctx, lezec.DiaryEntry{
		Name:     "DIVCI VALKA",
		Location: "Holštejn",
	})
	require.NoError(t, err)
	require.True(t, result.Matched())
	require.Equal(t, StrategyExactName, result.Strategy)
	require.Equal(t, problem.ID, result.Problem.ID)
}

func TestMatchPartialName(t *testing.T) {
	matcher, cat, ctx := setupMatcher(t)

	area, err := cat.CreateArea(ctx, "Sloup")
	require.NoError(t, err)
	problem, err := cat.CreateProblem(ctx, catalog.CreateProblemRequest{
		AreaID: area.ID,
		Name:   "Velká převislá hrana vlevo",
	})
	require.NoError(t, err)

	// same 10-char prefix, different tail
	result, err := matcher.Match(ctx, lezec.DiaryEntry{
		Name:     "Velká přev",
		Location: "Sloup",
	})
	require.NoError(t, err)
	require.True(t, result.Matched())
	require.Equal(t, StrategyPartialName, result.Strategy)
	require.Equal(t, problem.ID, result.Problem.ID)
}

func TestMatchUnmatched(t *testing.T) {
	matcher, cat, ctx := setupMatcher(t)

	area, err := cat.CreateArea(ctx, "Moravský Kras")
	require.NoError(t, err)
	_, err = cat.CreateProblem(ctx, catalog.CreateProblemRequest{
		AreaID: area.ID,
		Name:   "Kniha",
	})
	require.NoError(t, err)

	result, err := matcher.Match(ctx, lezec.DiaryEntry{
		Name:     "Něco úplně neznámého",
		Location: "Moravský Kras",
	})
	require.NoError(t, err)
	require.False(t, result.Matched())
	require.Equal(t, StrategyNone, result.Strategy)
}
