package byrbt

import (
	"testing"
)

func TestListQueryPath(t *testing.T) {
	tests := []struct {
		name  string
		query ListQuery
		want  string
	}{
		{
			name:  "zero value",
			query: ListQuery{},
			want:  "torrents.php?page=0",
		},
		{
			name:  "category tag and page",
			query: ListQuery{Category: "408", Tag: "2", Page: 2},
			want:  "torrents.php?cat=408&spstate=2&page=2",
		},
		{
			name:  "category only",
			query: ListQuery{Category: "408"},
			want:  "torrents.php?cat=408&page=0",
		},
		{
			name:  "tag only",
			query: ListQuery{Tag: "2", Page: 1},
			want:  "torrents.php?spstate=2&page=1",
		},
		{
			name:  "search terms only",
			query: ListQuery{Search: "foo+bar"},
			want:  "torrents.php?page=0&foo+bar",
		},
		{
			name:  "everything",
			query: ListQuery{Category: "408", Tag: "2", Page: 3, Search: "foo+bar"},
			want:  "torrents.php?cat=408&spstate=2&page=3&foo+bar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.Path(); got != tt.want {
				t.Errorf("Path() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeSearch(t *testing.T) {
	tests := []struct {
		name  string
		terms []string
		want  string
	}{
		{
			name:  "no terms",
			terms: nil,
			want:  "",
		},
		{
			name:  "single term",
			terms: []string{"foo"},
			want:  "foo",
		},
		{
			name:  "two terms",
			terms: []string{"foo", "bar"},
			want:  "foo+bar",
		},
		{
			name:  "non-ascii term escaped",
			terms: []string{"进击的巨人"},
			want:  "%E8%BF%9B%E5%87%BB%E7%9A%84%E5%B7%A8%E4%BA%BA",
		},
		{
			name:  "reserved characters escaped",
			terms: []string{"foo&bar", "a=b"},
			want:  "foo%26bar+a%3Db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EncodeSearch(tt.terms); got != tt.want {
				t.Errorf("EncodeSearch(%v) = %q, want %q", tt.terms, got, tt.want)
			}
		})
	}
}
