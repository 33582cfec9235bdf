package byrbt

import (
	"net/url"
	"strconv"
	"strings"
)

// ListQuery identifies one page of the torrents listing. The zero value
// requests the first page of the unfiltered listing. Queries are values
// built fresh for every command; nothing mutates them after rendering.
type ListQuery struct {
	Category string // category wire code, empty for all categories
	Tag      string // promotion state wire code, empty for all states
	Page     int
	Search   string // encoded search terms, empty for a plain listing
}

// Path renders the query as a site-relative URL. Parameters appear in
// the fixed order category, tag, page; the page is always present and
// search terms are appended last, the exact shape the tracker expects.
func (q ListQuery) Path() string {
	var sb strings.Builder
	sb.WriteString("torrents.php?")

	if q.Category != "" {
		sb.WriteString("cat=")
		sb.WriteString(q.Category)
		sb.WriteByte('&')
	}
	if q.Tag != "" {
		sb.WriteString("spstate=")
		sb.WriteString(q.Tag)
		sb.WriteByte('&')
	}
	sb.WriteString("page=")
	sb.WriteString(strconv.Itoa(q.Page))

	if q.Search != "" {
		sb.WriteByte('&')
		sb.WriteString(q.Search)
	}

	return sb.String()
}

// EncodeSearch joins search terms into the fragment the tracker
// expects: individually escaped terms separated by plus signs.
func EncodeSearch(terms []string) string {
	if len(terms) == 0 {
		return ""
	}

	escaped := make([]string, len(terms))
	for i, term := range terms {
		escaped[i] = url.QueryEscape(term)
	}
	return strings.Join(escaped, "+")
}
