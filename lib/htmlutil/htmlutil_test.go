package htmlutil

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parseBody(t *testing.T, markup string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc.Find("body")
}

func TestGetText(t *testing.T) {
	node, err := html.Parse(strings.NewReader(
		"<html><body><div>Sloní <b>hřbet</b><span> 6B</span></div></body></html>",
	))
	require.NoError(t, err)
	require.Equal(t, "Sloní hřbet 6B", GetText(node))
}

func TestCleanText(t *testing.T) {
	sel := parseBody(t, "<html><body><div>\n  Sloní\n\t <b>hřbet</b>  </div></body></html>")
	require.Equal(t, "Sloní hřbet", CleanText(sel))
}

func TestFirstAnchor(t *testing.T) {
	sel := parseBody(t, `<html><body><div><a href="/cesta.php?key=42">Kniha</a> <a href="/other">x</a></div></body></html>`)
	anchor, ok := FirstAnchor(sel)
	require.True(t, ok)
	require.Equal(t, "Kniha", anchor.Name)
	require.Equal(t, "/cesta.php?key=42", anchor.Href)

	_, ok = FirstAnchor(parseBody(t, "<html><body><div>Bez odkazu</div></body></html>"))
	require.False(t, ok)
}

func TestQueryParam(t *testing.T) {
	base, err := url.Parse("https://www.lezec.cz")
	require.NoError(t, err)

	require.Equal(t, "42", QueryParam(base, "/cesta.php?key=42", "key"))
	require.Equal(t, "42", QueryParam(nil, "https://www.lezec.cz/cesta.php?key=42", "key"))
	require.Equal(t, "", QueryParam(base, "/cesta.php", "key"))
	require.Equal(t, "", QueryParam(base, "://bad url", "key"))
}
