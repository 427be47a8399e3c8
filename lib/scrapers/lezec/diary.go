package lezec

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"time"

	"karst-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/encoding/charmap"
)

const diaryPath = "/denik.php"

// fixed diary filters: routes tab, boulders only, all styles, all years
const (
	diaryTabRoutes  = "1"
	categoryBoulder = "3"
	styleAll        = "0"
	yearAllSentinel = "9997"
	uidParamSuffix  = "h"
	routeKeyParam   = "key"
	routeDetailPath = "cesta.php"
)

// Heuristics for telling the diary data table apart from the layout
// and navigation tables that share the page with it.
const (
	diaryMinRows        = 5
	diaryMinHeaderCells = 4
	diaryMinRowCells    = 4
	diaryDateFormat     = "02.01.2006"
	diaryDateLength     = 10
)

// The header row of the real table carries these column labels
// (date, route, grade).
var diaryHeaderMarkers = []string{"Datum", "Cesta", "Klas"}

// A valid diary page titles itself with one of these.
var diaryPageMarkers = []string{"deníček", "denik"}

// DiaryEntry is one row of a climber's public diary.
type DiaryEntry struct {
	Name string
	// LezecID is the site's route key taken from the row's detail
	// link, empty when the link carries none.
	LezecID  string
	Grade    string
	Date     time.Time
	Style    string
	Location string
}

// FetchDiary requests the diary page for one hex-encoded uid and
// reports whether the response looks like an actual diary. Transport
// errors and pages that do not carry the diary title both come back
// as ok=false so the caller can move on to the next uid candidate.
func (c *Client) FetchDiary(ctx context.Context, uidHex string) (*goquery.Document, bool) {
	ctx, span := tracer.Start(ctx, "FetchDiary")
	defer span.End()
	span.SetAttributes(attribute.String("uid", uidHex))

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"par":  diaryTabRoutes,
			"uid":  uidHex + uidParamSuffix,
			"ckat": categoryBoulder,
			"cstl": styleAll,
			"crok": yearAllSentinel,
		}).
		Get(c.endpoint(diaryPath))
	if err != nil {
		slog.WarnContext(ctx, "diary fetch failed", "uid", uidHex, "err", err)
		return nil, false
	}
	if res.IsError() {
		slog.WarnContext(ctx, "diary fetch returned error status", "uid", uidHex, "status", res.StatusCode())
		return nil, false
	}

	doc, err := c.parseWindows1250("denik-"+uidHex, res.Body())
	if err != nil {
		slog.WarnContext(ctx, "failed to parse diary page", "uid", uidHex, "err", err)
		return nil, false
	}

	pageText := strings.ToLower(doc.Text())
	if !strings.Contains(pageText, diaryPageMarkers[0]) &&
		!strings.Contains(pageText, diaryPageMarkers[1]) {
		return doc, false
	}
	// a page can carry the title yet belong to nobody; require the
	// proper title or at least one extracted entry
	if strings.Contains(pageText, diaryPageMarkers[0]) {
		return doc, true
	}
	return doc, len(c.ExtractEntries(doc)) > 0
}

// the site serves windows-1250; decode before handing the bytes to
// the parser or every diacritic turns to mojibake
func (c *Client) parseWindows1250(label string, body []byte) (*goquery.Document, error) {
	decoded, err := charmap.Windows1250.NewDecoder().Bytes(body)
	if err != nil {
		return nil, err
	}
	c.dumpPage(label, decoded)
	return goquery.NewDocumentFromReader(bytes.NewReader(decoded))
}

// ExtractEntries locates the diary data table on a parsed page and
// returns its rows in page order. A page without a qualifying table
// yields an empty list, which callers treat as "diary not found or
// empty" rather than a failure.
func (c *Client) ExtractEntries(doc *goquery.Document) []DiaryEntry {
	table := findDiaryTable(doc)
	if table == nil {
		return nil
	}

	var entries []DiaryEntry
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return // header
		}
		entry, ok := c.parseDiaryRow(row)
		if !ok {
			return
		}
		entries = append(entries, entry)
	})
	return entries
}

// findDiaryTable scans every table on the page for the one that (a)
// has enough rows, (b) has a proper header row naming the date, route
// and grade columns and (c) opens its first data row with a
// DD.MM.YYYY date. Navigation tables routinely pass one or two of
// these checks, never all three.
func findDiaryTable(doc *goquery.Document) *goquery.Selection {
	var found *goquery.Selection

	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		rows := table.Find("tr")
		if rows.Length() <= diaryMinRows {
			return true
		}

		header := rows.First()
		headerText := header.Text()
		if header.Find("th").Length() < diaryMinHeaderCells {
			return true
		}
		for _, marker := range diaryHeaderMarkers {
			if !strings.Contains(headerText, marker) {
				return true
			}
		}

		firstCell := rows.Eq(1).Find("td").First()
		if firstCell.Length() == 0 {
			return true
		}
		cellText := htmlutil.CleanText(firstCell)
		if !strings.Contains(cellText, ".") || len(cellText) != diaryDateLength {
			return true
		}

		found = table
		return false
	})

	return found
}

func (c *Client) parseDiaryRow(row *goquery.Selection) (DiaryEntry, bool) {
	cells := row.Find("td, th")
	// need at least date, name, area, grade
	if cells.Length() < diaryMinRowCells {
		return DiaryEntry{}, false
	}

	dateText := htmlutil.CleanText(cells.Eq(0))
	if dateText == "" {
		return DiaryEntry{}, false
	}
	date, err := time.Parse(diaryDateFormat, dateText)
	if err != nil {
		slog.Debug("skipping diary row with unparseable date", "date", dateText)
		return DiaryEntry{}, false
	}

	anchor, ok := htmlutil.FirstAnchor(cells.Eq(1))
	if !ok {
		return DiaryEntry{}, false
	}

	entry := DiaryEntry{
		Name: anchor.Name,
		Date: date,
	}
	if strings.Contains(anchor.Href, routeDetailPath+"?"+routeKeyParam+"=") {
		entry.LezecID = htmlutil.QueryParam(c.baseURL, anchor.Href, routeKeyParam)
	}

	entry.Location = htmlutil.CleanText(cells.Eq(2))
	if cells.Length() > 3 {
		entry.Grade = htmlutil.CleanText(cells.Eq(3))
	}
	if cells.Length() > 5 {
		entry.Style = htmlutil.CleanText(cells.Eq(5))
	}
	return entry, true
}
