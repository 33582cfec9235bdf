package byrbt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var detailIDPattern = regexp.MustCompile(`id=(\d+)`)

// ParseListing extracts the torrent records from a listing page. The
// listing table carries a header row followed by one row per torrent;
// a page with no results yields an empty slice.
func ParseListing(page *Page) ([]Record, error) {
	table := page.Doc.Find("table.torrents").First()
	if table.Length() == 0 {
		return nil, &ParseError{Page: "listing", What: "torrents table not found"}
	}

	// The HTML parser normalizes the site's form-in-table markup into
	// a regular tbody; direct children only, so rows of the nested
	// name tables are not picked up.
	rows := table.ChildrenFiltered("tbody").ChildrenFiltered("tr")
	if rows.Length() == 0 {
		return nil, &ParseError{Page: "listing", What: "torrents table has no rows"}
	}

	records := make([]Record, 0, rows.Length()-1)
	var parseErr error

	rows.Slice(1, goquery.ToEnd).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		record, err := parseRow(row)
		if err != nil {
			parseErr = err
			return false
		}
		records = append(records, record)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return records, nil
}

func parseRow(row *goquery.Selection) (Record, error) {
	cells := row.ChildrenFiltered("td")
	if cells.Length() < 8 {
		return Record{}, &ParseError{Page: "listing", What: fmt.Sprintf("row has %d cells, want at least 8", cells.Length())}
	}

	var record Record

	record.Category = cells.Eq(0).Find("a img").First().AttrOr("title", "")

	// The second cell nests its own table; its first cell holds the
	// detail link, promotion marks and subtitle.
	name := cells.Eq(1).Find("td").First()
	if name.Length() == 0 {
		return Record{}, &ParseError{Page: "listing", What: "row is missing the name cell"}
	}

	link := name.Find("a").First()
	href, _ := link.Attr("href")
	match := detailIDPattern.FindStringSubmatch(href)
	if match == nil {
		return Record{}, &ParseError{Page: "listing", What: "row link carries no torrent id"}
	}
	id, err := strconv.Atoi(match[1])
	if err != nil || id <= 0 {
		return Record{}, &ParseError{Page: "listing", What: fmt.Sprintf("row link carries invalid torrent id %q", match[1])}
	}
	record.ID = id

	record.Title = strings.TrimSpace(link.Find("b").First().Text())
	if record.Title == "" {
		record.Title = strings.TrimSpace(link.Text())
	}
	if record.Title == "" {
		return Record{}, &ParseError{Page: "listing", What: "row has no title"}
	}

	record.Subtitle = textAfterBr(name)

	classes := make(map[string]bool)
	name.ChildrenFiltered("b").Find("font").Each(func(_ int, font *goquery.Selection) {
		if class, ok := font.Attr("class"); ok {
			for _, c := range strings.Fields(class) {
				classes[c] = true
			}
		}
	})
	if classes["hot"] {
		record.Hot = true
		delete(classes, "hot")
	}
	record.Tag = pickTag(classes)

	record.Seeding = name.ChildrenFiltered(`img[src="pic/seeding.png"]`).Length() > 0
	record.Finished = name.ChildrenFiltered(`img[src="pic/finished.png"]`).Length() > 0

	record.Size = cellText(cells.Eq(4))
	record.Seeders = firstText(cells.Eq(5))
	record.Leechers = firstText(cells.Eq(6))
	record.Completed = firstText(cells.Eq(7))

	return record, nil
}

// textAfterBr returns the text immediately following the selection's
// first direct <br> child, which the listing uses for the subtitle.
func textAfterBr(sel *goquery.Selection) string {
	br := sel.ChildrenFiltered("br").First()
	if br.Length() == 0 {
		return ""
	}

	var sb strings.Builder
	for n := br.Nodes[0].NextSibling; n != nil; n = n.NextSibling {
		if n.Type != html.TextNode {
			break
		}
		sb.WriteString(n.Data)
	}
	return strings.TrimSpace(sb.String())
}

// cellText joins a cell's direct text pieces with spaces. Size cells
// stack the value over its unit with a <br> between them.
func cellText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}

	var parts []string
	for n := sel.Nodes[0].FirstChild; n != nil; n = n.NextSibling {
		if n.Type != html.TextNode {
			continue
		}
		if text := strings.TrimSpace(n.Data); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// firstText returns the first non-empty text node under the selection.
// Count cells wrap their number in varying markup.
func firstText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}

	var walk func(*html.Node) string
	walk = func(n *html.Node) string {
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				return text
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if text := walk(child); text != "" {
				return text
			}
		}
		return ""
	}
	return walk(sel.Nodes[0])
}
