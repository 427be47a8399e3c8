package htmlutil

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// GetText collects the text nodes under node in document order,
// including text hidden inside nested elements.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

type Anchor struct {
	Name string
	Href string
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText collapses the visible text of a selection the way a
// browser renders it: non-printable runes dropped, runs of whitespace
// squashed.
func CleanText(sel *goquery.Selection) string {
	var buffer bytes.Buffer
	for _, node := range sel.Nodes {
		buffer.WriteString(GetText(node))
	}
	text := removeNonPrintable(buffer.String())
	text = strings.Trim(text, " \t\n")
	return innerWhitespace.ReplaceAllString(text, " ")
}

// FirstAnchor returns the first <a href> inside the selection, or
// ok=false when the selection contains no anchor with an href.
func FirstAnchor(sel *goquery.Selection) (Anchor, bool) {
	link := sel.Find("a[href]").First()
	if link.Length() == 0 {
		return Anchor{}, false
	}
	href, _ := link.Attr("href")
	return Anchor{
		Name: CleanText(link),
		Href: href,
	}, true
}

// QueryParam extracts a single query parameter from a possibly
// relative URL, resolving it against base first. Returns "" when the
// URL cannot be parsed or the parameter is absent.
func QueryParam(base *url.URL, href, key string) string {
	link, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil {
		link = base.ResolveReference(link)
	}
	return link.Query().Get(key)
}
