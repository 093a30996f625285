package news

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText strips markup from an RSS description and collapses whitespace.
// Input that does not parse is returned trimmed.
func PlainText(html string) string {
	if !strings.ContainsAny(html, "<&") {
		return collapse(html)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return collapse(html)
	}
	doc.Find("script, style, noscript").Remove()
	return collapse(doc.Text())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
