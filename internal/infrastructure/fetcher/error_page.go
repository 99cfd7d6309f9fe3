package fetcher

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// pageTitle extracts the <title> of an HTML document, whitespace-collapsed.
// Hosts that removed an asset usually answer with such a page.
func pageTitle(r io.Reader) string {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return ""
	}

	title := doc.Find("head > title").First().Text()
	if title == "" {
		title = doc.Find("title").First().Text()
	}
	return strings.Join(strings.Fields(title), " ")
}
