package lezec

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"karst-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
)

const routeListPath = "/cesty.php"

// Route type filter values for the list page.
const (
	RouteTypeBoulder  = "1"
	RouteTypeMountain = "2"
	RouteTypeRock     = "4"
)

// LocationMoravskyKras is the site's location id for the Moravský
// Kras region; 0 means all locations.
const (
	LocationAll          = 0
	LocationMoravskyKras = 199
)

const (
	routeListMinRows  = 10
	routeListMinCells = 5
	paginationParam   = "lim"
)

// navigation cells that show up in decoy tables on the list page
var routeListNavLabels = []string{
	"Metodika",
	"Knihy",
	"Závody",
	"Žebříček",
	"Výsledky",
	"Deníčky",
	"Stěny",
	"Prodejny",
	"Kontakt",
	"Databáze cest",
	"Nové cesty",
}

// Route is one row of the site's route list.
type Route struct {
	LezecID   string `json:"id"`
	Name      string `json:"name"`
	Grade     string `json:"grade,omitempty"`
	Sector    string `json:"sector,omitempty"`
	Area      string `json:"area,omitempty"`
	Location  string `json:"location,omitempty"`
	DetailURL string `json:"detail_url"`
}

// RouteFilter narrows the list page. Zero values mean "all".
type RouteFilter struct {
	Type       string
	LocationID int
}

// FetchRoutes walks the paginated route list and returns every route
// matching the filter. Pages after the first are fetched with the
// politeness delay in between; a failed page is logged and skipped,
// an empty page ends the walk.
func (c *Client) FetchRoutes(ctx context.Context, filter RouteFilter) ([]Route, error) {
	ctx, span := tracer.Start(ctx, "FetchRoutes")
	defer span.End()
	span.SetAttributes(
		attribute.String("type", filter.Type),
		attribute.Int("location", filter.LocationID),
	)

	form := map[string]string{
		"cpol": strconv.Itoa(filter.LocationID),
	}
	if filter.Type != "" {
		form["cchr"] = filter.Type
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetFormData(form).
		Post(c.endpoint(routeListPath))
	if err != nil {
		return nil, err
	}

	// unlike the diary, the list page is served as utf-8
	c.dumpPage("cesty-1", res.Body())
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, err
	}

	routes := c.extractRouteList(doc)
	slog.InfoContext(ctx, "fetched route list page", "page", 1, "routes", len(routes))

	for i, pageURL := range c.paginationLinks(doc) {
		time.Sleep(c.Delay)

		pageRes, err := c.http.R().SetContext(ctx).Get(pageURL)
		if err != nil {
			slog.WarnContext(ctx, "failed to fetch route list page", "page", i+2, "err", err)
			continue
		}
		c.dumpPage(fmt.Sprintf("cesty-%d", i+2), pageRes.Body())
		pageDoc, err := goquery.NewDocumentFromReader(bytes.NewReader(pageRes.Body()))
		if err != nil {
			slog.WarnContext(ctx, "failed to parse route list page", "page", i+2, "err", err)
			continue
		}

		pageRoutes := c.extractRouteList(pageDoc)
		if len(pageRoutes) == 0 {
			break
		}
		routes = append(routes, pageRoutes...)
		slog.InfoContext(ctx, "fetched route list page", "page", i+2, "routes", len(pageRoutes))
	}

	return routes, nil
}

// extractRouteList pulls routes out of the main data table, falling
// back to scanning every detail link on the page when no table
// qualifies.
func (c *Client) extractRouteList(doc *goquery.Document) []Route {
	table := findRouteListTable(doc)
	if table == nil {
		return c.extractRoutesFromLinks(doc)
	}

	var routes []Route
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td, th")
		if cells.Length() < 2 {
			return
		}
		anchor, ok := htmlutil.FirstAnchor(row)
		if !ok || !strings.Contains(anchor.Href, routeDetailPath+"?"+routeKeyParam+"=") {
			return
		}
		id := htmlutil.QueryParam(c.baseURL, anchor.Href, routeKeyParam)
		if id == "" {
			return
		}

		name := anchor.Name
		if name == "" {
			name = htmlutil.CleanText(cells.Eq(0))
		}
		if name == "" {
			return
		}

		route := Route{
			LezecID:   id,
			Name:      name,
			DetailURL: c.resolve(anchor.Href),
		}
		if cells.Length() > 1 {
			route.Grade = htmlutil.CleanText(cells.Eq(1))
		}
		if cells.Length() > 2 {
			route.Sector = htmlutil.CleanText(cells.Eq(2))
		}
		if cells.Length() > 3 {
			route.Area = htmlutil.CleanText(cells.Eq(3))
		}
		if cells.Length() > 4 {
			route.Location = htmlutil.CleanText(cells.Eq(4))
		}
		routes = append(routes, route)
	})
	return routes
}

func findRouteListTable(doc *goquery.Document) *goquery.Selection {
	var found *goquery.Selection

	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		rows := table.Find("tr")
		if rows.Length() <= routeListMinRows {
			return true
		}

		// check the first few data rows for route-like structure
		for i := 1; i < rows.Length() && i < 6; i++ {
			row := rows.Eq(i)
			cells := row.Find("td, th")
			if cells.Length() < routeListMinCells {
				continue
			}
			firstCell := htmlutil.CleanText(cells.Eq(0))
			if firstCell == "" || len(firstCell) >= 100 || isNavLabel(firstCell) {
				continue
			}
			anchor, ok := htmlutil.FirstAnchor(row)
			if ok && strings.Contains(anchor.Href, routeDetailPath+"?"+routeKeyParam+"=") {
				found = table
				return false
			}
		}
		return true
	})

	return found
}

func isNavLabel(text string) bool {
	for _, label := range routeListNavLabels {
		if text == label {
			return true
		}
	}
	return false
}

// extractRoutesFromLinks is the low-fidelity fallback: every detail
// link becomes a route, with the grade split off the link text when
// it looks appended.
func (c *Client) extractRoutesFromLinks(doc *goquery.Document) []Route {
	var routes []Route
	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		if !strings.Contains(href, routeDetailPath+"?"+routeKeyParam+"=") {
			return
		}
		id := htmlutil.QueryParam(c.baseURL, href, routeKeyParam)
		if id == "" {
			return
		}
		text := htmlutil.CleanText(link)
		if text == "" {
			return
		}

		route := Route{
			LezecID:   id,
			Name:      text,
			DetailURL: c.resolve(href),
		}
		if idx := strings.LastIndex(text, " "); idx > 0 {
			route.Name = strings.TrimSpace(text[:idx])
			route.Grade = strings.TrimSpace(text[idx+1:])
		}
		routes = append(routes, route)
	})
	return routes
}

// paginationLinks collects the numbered page links (they carry a
// `lim` offset parameter) in ascending offset order.
func (c *Client) paginationLinks(doc *goquery.Document) []string {
	seen := map[string]struct{}{}
	var links []string

	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		if !strings.Contains(href, routeListPath[1:]) || !strings.Contains(href, paginationParam+"=") {
			return
		}
		full := c.resolve(href)
		if _, dup := seen[full]; dup {
			return
		}
		seen[full] = struct{}{}
		links = append(links, full)
	})

	sort.Slice(links, func(i, j int) bool {
		return paginationOffset(links[i]) < paginationOffset(links[j])
	})
	return links
}

func paginationOffset(link string) int {
	v := htmlutil.QueryParam(nil, link, paginationParam)
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func (c *Client) resolve(href string) string {
	parsed, err := c.baseURL.Parse(href)
	if err != nil {
		return href
	}
	return parsed.String()
}
