package boxscore

import (
	"errors"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoTableFound reports a document without any <table>; the run cannot
// proceed past it.
var ErrNoTableFound = errors.New("no <table> found in document")

// LoadDocument parses raw HTML into a queryable document.
func LoadDocument(r io.Reader) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(r)
}

// Title returns the trimmed text of the document's <title> element, or ""
// when there is none.
func Title(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// ExtractTable locates the single results table and returns its header cells
// (lowercased) plus one raw row per data row, in document order. Rows with no
// <td> cells (the header row, spacers, section breaks) are skipped rather
// than emitted empty.
func ExtractTable(doc *goquery.Document) ([]string, [][]string, error) {
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, nil, ErrNoTableFound
	}

	var headers []string
	table.Find("th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, strings.ToLower(strings.TrimSpace(th.Text())))
	})

	var rows [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(td.Text()))
		})
		if len(cells) == 0 {
			return
		}
		rows = append(rows, cells)
	})

	return headers, rows, nil
}
