package byrbt

// DiscountTag is a promotion state shown on a listing row.
type DiscountTag string

// Promotion states as the tracker names them in row classes.
const (
	TagNone          DiscountTag = ""
	TagFree          DiscountTag = "free"
	TagTwoUp         DiscountTag = "twoup"
	TagTwoUpFree     DiscountTag = "twoupfree"
	TagHalfDown      DiscountTag = "halfdown"
	TagTwoUpHalfDown DiscountTag = "twouphalfdown"
	TagThirtyPercent DiscountTag = "thirtypercent"
)

// tagPriority fixes which promotion wins when a row carries several
// classes: the states most favorable to the downloader come first.
var tagPriority = []DiscountTag{
	TagTwoUpFree,
	TagFree,
	TagTwoUpHalfDown,
	TagHalfDown,
	TagThirtyPercent,
	TagTwoUp,
}

// tagLabels are the display strings the site itself uses.
var tagLabels = map[DiscountTag]string{
	TagFree:          "免费",
	TagTwoUp:         "2x上传",
	TagTwoUpFree:     "免费&2x上传",
	TagHalfDown:      "50%下载",
	TagTwoUpHalfDown: "50%下载&2x上传",
	TagThirtyPercent: "30%下载",
}

// Label returns the promotion display string, empty for TagNone.
func (t DiscountTag) Label() string {
	return tagLabels[t]
}

// pickTag selects the promotion tag from a row's class set using the
// fixed priority order. The hot class is not a promotion and must be
// removed by the caller first.
func pickTag(classes map[string]bool) DiscountTag {
	for _, tag := range tagPriority {
		if classes[string(tag)] {
			return tag
		}
	}
	return TagNone
}

// Record is one row of the torrents listing. The three counts are kept
// as the display strings the site shows.
type Record struct {
	ID        int
	Category  string
	Title     string
	Subtitle  string
	Tag       DiscountTag
	Hot       bool
	Seeding   bool
	Finished  bool
	Size      string
	Seeders   string
	Leechers  string
	Completed string
}

// categoryKeys maps the category label shown on a detail page to the
// key used in the download location table.
var categoryKeys = map[string]string{
	"电影": "movie",
	"剧集": "episode",
	"动漫": "anime",
	"音乐": "music",
	"综艺": "show",
	"游戏": "game",
	"软件": "software",
	"资料": "material",
	"体育": "sport",
	"记录": "documentary",
}

// CategoryKey returns the location table key for a detail page category
// label, falling back to the default bucket for unknown labels.
func CategoryKey(label string) string {
	if key, ok := categoryKeys[label]; ok {
		return key
	}
	return "default"
}
