package lezec

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func routeListTable(startKey, count int) string {
	var sb strings.Builder
	sb.WriteString("<table><tr><th>Cesta</th><th>Klas</th><th>Sektor</th><th>Oblast</th><th>Poloha</th></tr>")
	for i := 0; i < count; i++ {
		key := startKey + i
		fmt.Fprintf(
			&sb,
			`<tr><td><a href="/cesta.php?key=%d">Cesta %d</a></td><td>6A</td><td>Sektor</td><td>Holštejn</td><td>Moravský Kras</td></tr>`,
			key, key,
		)
	}
	sb.WriteString("</table>")
	return sb.String()
}

func TestExtractRouteList(t *testing.T) {
	page := "<html><body>" + decoyTable + routeListTable(100, 12) + "</body></html>"
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)

	client := testClient(t, DefaultBaseURL)
	routes := client.extractRouteList(doc)

	require.Len(t, routes, 12)
	require.Equal(t, "100", routes[0].LezecID)
	require.Equal(t, "Cesta 100", routes[0].Name)
	require.Equal(t, "6A", routes[0].Grade)
	require.Equal(t, "Sektor", routes[0].Sector)
	require.Equal(t, "Holštejn", routes[0].Area)
	require.Equal(t, "Moravský Kras", routes[0].Location)
	require.Equal(t, DefaultBaseURL+"/cesta.php?key=100", routes[0].DetailURL)
}

func TestExtractRouteListFallback(t *testing.T) {
	// no qualifying table, falls back to bare detail links
	page := `<html><body><p><a href="/cesta.php?key=42">Kniha 7A</a></p></body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)

	client := testClient(t, DefaultBaseURL)
	routes := client.extractRouteList(doc)

	require.Len(t, routes, 1)
	require.Equal(t, "42", routes[0].LezecID)
	require.Equal(t, "Kniha", routes[0].Name)
	require.Equal(t, "7A", routes[0].Grade)
}

func TestFetchRoutesPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("lim") {
		case "":
			require.Equal(t, http.MethodPost, r.Method)
			require.NoError(t, r.ParseForm())
			require.Equal(t, RouteTypeBoulder, r.PostForm.Get("cchr"))
			require.Equal(t, "199", r.PostForm.Get("cpol"))
			page := "<html><body>" +
				routeListTable(100, 12) +
				`<small><a href="/cesty.php?lim=200">3</a> <a href="/cesty.php?lim=100">2</a></small>` +
				"</body></html>"
			w.Write([]byte(page))
		case "100":
			w.Write([]byte("<html><body>" + routeListTable(200, 11) + "</body></html>"))
		case "200":
			// empty page ends the walk
			w.Write([]byte("<html><body></body></html>"))
		}
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	routes, err := client.FetchRoutes(context.Background(), RouteFilter{
		Type:       RouteTypeBoulder,
		LocationID: LocationMoravskyKras,
	})
	require.NoError(t, err)

	// pagination links are followed in lim order: 12 + 11 routes
	require.Len(t, routes, 23)
	require.Equal(t, "100", routes[0].LezecID)
	require.Equal(t, "200", routes[12].LezecID)
}
