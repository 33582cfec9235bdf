package byrbt

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Detail is the part of a torrent detail page needed to download and
// file the torrent.
type Detail struct {
	FileName string
	Link     string // torrent file link, usually site-relative
	Category string // category label as shown on the page, e.g. 电影
}

// DetailPath returns the site-relative path of a torrent detail page.
func DetailPath(id int) string {
	return fmt.Sprintf("details.php?id=%d", id)
}

// ParseDetail extracts the download link, file name and category label
// from a torrent detail page.
func ParseDetail(page *Page) (*Detail, error) {
	link := page.Doc.Find("td a.index").First()
	if link.Length() == 0 {
		return nil, &ParseError{Page: "detail", What: "download link not found"}
	}

	href, ok := link.Attr("href")
	if !ok || href == "" {
		return nil, &ParseError{Page: "detail", What: "download link has no href"}
	}

	// Base strips any path the site sneaks into the name, so the file
	// always lands inside the seed directory.
	name := filepath.Base(strings.TrimSpace(link.Text()))
	if name == "." || name == string(filepath.Separator) {
		return nil, &ParseError{Page: "detail", What: "download link has no file name"}
	}

	category := strings.TrimSpace(page.Doc.Find("span#type").First().Text())

	return &Detail{FileName: name, Link: href, Category: category}, nil
}
