// Package diaryimport reconciles a climber's public lezec.cz diary
// with the local catalog and records their ascents exactly once.
package diaryimport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"karst-backend/lib/scrapers/lezec"
	"karst-backend/services/catalog"
	"karst-backend/services/ticks"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("services/diaryimport")

// Stats counts the fate of every region entry in one run. The
// accumulator lives and dies with the run; nothing is persisted.
type Stats struct {
	Matched  int
	Created  int
	Existing int
	NotFound int
	Errors   int
}

type Result struct {
	Success bool
	Message string
	Stats
}

type Importer struct {
	lezec   *lezec.Client
	catalog catalog.Service
	ticks   ticks.Service
	matcher Matcher
}

func NewImporter(client *lezec.Client, cat catalog.Service, tk ticks.Service) Importer {
	return Importer{
		lezec:   client,
		catalog: cat,
		ticks:   tk,
		matcher: NewMatcher(cat),
	}
}

// Run imports the public diary published under displayName and
// records ascents for user. Re-running with the same inputs is a
// no-op: every previously created tick is counted as existing.
func (i Importer) Run(ctx context.Context, user, displayName string) Result {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()
	span.SetAttributes(
		attribute.String("user", user),
		attribute.String("display_name", displayName),
	)

	doc, found := i.fetchDiary(ctx, displayName)
	if !found {
		return Result{
			Message: fmt.Sprintf(
				"Could not find diary for %q. Check that the username is correct and the diary is public on lezec.cz.",
				displayName,
			),
		}
	}

	entries := i.lezec.ExtractEntries(doc)
	if len(entries) == 0 {
		return Result{
			Message: "No boulder ticks found in diary. The diary might be empty, private, or the username might be incorrect.",
		}
	}

	regionEntries := FilterRegionEntries(entries)
	slog.InfoContext(ctx, "extracted diary entries",
		"total", len(entries), "region", len(regionEntries))
	if len(regionEntries) == 0 {
		return Result{
			Message: "No ticks found for Moravský Kras location.",
		}
	}

	var stats Stats
	for _, entry := range regionEntries {
		i.importEntry(ctx, user, entry, &stats)
	}

	span.SetAttributes(
		attribute.Int("matched", stats.Matched),
		attribute.Int("created", stats.Created),
	)
	return Result{
		Success: true,
		Message: fmt.Sprintf("Import completed. Found %d ticks from Moravský Kras.", len(regionEntries)),
		Stats:   stats,
	}
}

// fetchDiary walks the uid candidates in order until one produces a
// page that looks like a diary. Fetches are strictly sequential with
// the politeness delay in between; the first valid page wins.
func (i Importer) fetchDiary(ctx context.Context, displayName string) (*goquery.Document, bool) {
	first := true
	for _, candidate := range lezec.EncodeCandidates(displayName) {
		uidHex, ok := candidate.Hex()
		if !ok {
			// not representable in the legacy encoding, move on
			continue
		}

		if !first {
			time.Sleep(i.lezec.Delay)
		}
		first = false

		doc, valid := i.lezec.FetchDiary(ctx, uidHex)
		if valid {
			slog.InfoContext(ctx, "found diary",
				"text", candidate.Text,
				"legacy_bytes", candidate.LegacyBytes,
				"uppercase_hex", candidate.UppercaseHex,
			)
			return doc, true
		}
	}
	return nil, false
}

// importEntry resolves one entry and creates its tick when missing.
// Every failure mode lands in a counter; nothing aborts the batch.
func (i Importer) importEntry(ctx context.Context, user string, entry lezec.DiaryEntry, stats *Stats) {
	result, err := i.matcher.Match(ctx, entry)
	if err != nil {
		slog.ErrorContext(ctx, "match failed", "name", entry.Name, "err", err)
		stats.Errors++
		return
	}
	if !result.Matched() {
		slog.InfoContext(ctx, "no catalog match for entry", "name", entry.Name, "location", entry.Location)
		stats.NotFound++
		return
	}
	stats.Matched++

	exists, err := i.ticks.Exists(ctx, user, result.Problem.ID)
	if err != nil {
		slog.ErrorContext(ctx, "tick lookup failed", "name", entry.Name, "err", err)
		stats.Errors++
		return
	}
	if exists {
		stats.Existing++
		return
	}

	err = i.ticks.Create(ctx, ticks.Tick{
		User:      user,
		ProblemID: result.Problem.ID,
		Date:      entry.Date,
		Notes:     importNotes(entry.Style),
	})
	switch {
	case err == nil:
		slog.InfoContext(ctx, "created tick",
			"name", entry.Name, "strategy", result.Strategy.String())
		stats.Created++
	case errors.Is(err, ticks.ErrAlreadyExists):
		// lost a race with another writer, same outcome as exists
		stats.Existing++
	default:
		slog.ErrorContext(ctx, "failed to create tick", "name", entry.Name, "err", err)
		stats.Errors++
	}
}

func importNotes(style string) string {
	if style == "" {
		return "Imported from lezec.cz diary."
	}
	return fmt.Sprintf("Imported from lezec.cz diary. Style: %s", style)
}
