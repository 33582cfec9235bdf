package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byrlab/byrbt-bot/byrbt"
	"github.com/byrlab/byrbt-bot/command"
	"github.com/byrlab/byrbt-bot/config"
)

const listingHTML = `<html><body>
<table class="torrents">
<tr><td class="colhead">类型</td><td class="colhead">标题</td></tr>
<tr>
  <td><a href="?"><img title="电影" src="pic/trans.gif" /></a></td>
  <td><table><tr><td><a href="details.php?id=42&amp;hit=1"><b>The.Answer.2024</b></a><img src="pic/seeding.png" /></td></tr></table></td>
  <td>0</td><td>today</td><td>1.5<br />GB</td><td>120</td><td>3</td><td>7</td>
</tr>
<tr>
  <td><a href="?"><img title="音乐" src="pic/trans.gif" /></a></td>
  <td><table><tr><td><a href="details.php?id=43&amp;hit=1"><b>Other.Album.2020</b></a></td></tr></table></td>
  <td>0</td><td>today</td><td>300<br />MB</td><td>4</td><td>0</td><td>1</td>
</tr>
</table>
</body></html>`

const detailHTML = `<html><body>
<table>
<tr><td>类型: <span id="type">电影</span></td></tr>
<tr><td><a class="index" href="download.php?id=123456">[BYRBT].Some.Movie.2023.torrent</a></td></tr>
</table>
</body></html>`

// fakeSite serves canned pages keyed by the fetched path. With expired
// set it serves the login page instead until the next Login call.
type fakeSite struct {
	pages       map[string]string
	torrent     []byte
	authed      bool
	expired     bool
	stayExpired bool
	loginErr    error
	logins      int
	saves       int
	fetched     []string
}

func (s *fakeSite) LoadOrLogin(ctx context.Context) error {
	return s.Login(ctx)
}

func (s *fakeSite) Login(context.Context) error {
	s.logins++
	if s.loginErr != nil {
		s.authed = false
		return s.loginErr
	}
	s.authed = true
	if !s.stayExpired {
		s.expired = false
	}
	return nil
}

func (s *fakeSite) SaveCookies() error {
	s.saves++
	return nil
}

func (s *fakeSite) Authenticated() bool {
	return s.authed
}

func (s *fakeSite) FetchPage(_ context.Context, path string) (*byrbt.Page, error) {
	s.fetched = append(s.fetched, path)

	if s.expired {
		return byrbt.ParsePage(&url.URL{Path: "/login.php"}, strings.NewReader("<html><body>login</body></html>"))
	}

	body, ok := s.pages[path]
	if !ok {
		return nil, fmt.Errorf("no fixture for %s", path)
	}

	base := path
	if i := strings.IndexByte(base, '?'); i >= 0 {
		base = base[:i]
	}
	return byrbt.ParsePage(&url.URL{Path: "/" + base}, strings.NewReader(body))
}

func (s *fakeSite) DownloadTorrent(_ context.Context, link string) ([]byte, error) {
	if s.torrent == nil {
		return nil, &byrbt.DownloadError{StatusCode: 404, URL: link}
	}
	return s.torrent, nil
}

type fakeClient struct {
	registered [][2]string // torrent path, destination dir
	removed    []int
	listOut    string
	err        error
}

func (c *fakeClient) Register(_ context.Context, torrentPath, dir string) error {
	if c.err != nil {
		return c.err
	}
	c.registered = append(c.registered, [2]string{torrentPath, dir})
	return nil
}

func (c *fakeClient) List(context.Context) (string, error) {
	return c.listOut, c.err
}

func (c *fakeClient) Remove(_ context.Context, id int) error {
	if c.err != nil {
		return c.err
	}
	c.removed = append(c.removed, id)
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()

	mkdir := func(name string) string {
		dir := filepath.Join(base, name)
		require.NoError(t, os.MkdirAll(dir, 0755))
		return dir
	}

	return &config.Config{
		Site: config.SiteConfig{
			BaseURL:    "https://bt.byr.cn/",
			Categories: map[string]string{"movie": "408", "anime": "405"},
			Tags:       map[string]string{"free": "2", "twoup": "1"},
		},
		Account: config.AccountConfig{Username: "user", Password: "pass"},
		Bot: config.BotConfig{
			CookieDir: filepath.Join(base, "cookies"),
			SeedDir:   filepath.Join(base, "seeds"),
		},
		Client: config.ClientConfig{
			Type:         "transmission",
			Transmission: config.TransmissionConfig{Command: "transmission-remote"},
		},
		Locations: map[string]string{
			"default": mkdir("downloads"),
			"movie":   mkdir("movies"),
			"named":   mkdir("named"),
		},
		Logging: config.LoggingConfig{Level: "info", Format: "console"},
	}
}

func newTestBot(t *testing.T, site Site, client *fakeClient) (*Bot, *bytes.Buffer) {
	t.Helper()

	b, err := New(testConfig(t), site, client, zerolog.Nop())
	require.NoError(t, err)

	out := &bytes.Buffer{}
	b.out = out
	return b, out
}

func TestRunExitsOnExit(t *testing.T) {
	site := &fakeSite{}
	b, out := newTestBot(t, site, &fakeClient{})
	b.in = strings.NewReader("exit\n")

	require.NoError(t, b.Run(context.Background()))

	assert.Contains(t, out.String(), "Commands:")
	assert.Equal(t, 1, site.logins)
}

func TestRunExitsOnEndOfInput(t *testing.T) {
	b, _ := newTestBot(t, &fakeSite{}, &fakeClient{})
	b.in = strings.NewReader("")

	require.NoError(t, b.Run(context.Background()))
}

func TestRunSurvivesStartupLoginFailure(t *testing.T) {
	site := &fakeSite{loginErr: errors.New("tracker down")}
	b, out := newTestBot(t, site, &fakeClient{})
	b.in = strings.NewReader("ls\nexit\n")

	require.NoError(t, b.Run(context.Background()))

	assert.Contains(t, out.String(), "Login failed")
	assert.Contains(t, out.String(), "Not logged in")
	assert.Empty(t, site.fetched)
}

func TestRunReportsParseErrors(t *testing.T) {
	b, out := newTestBot(t, &fakeSite{}, &fakeClient{})
	b.in = strings.NewReader("dl\nexit\n")

	require.NoError(t, b.Run(context.Background()))

	assert.Contains(t, out.String(), "download needs a torrent id")
}

func TestDispatchUnknownCommand(t *testing.T) {
	site := &fakeSite{authed: true}
	b, out := newTestBot(t, site, &fakeClient{})

	b.dispatch(context.Background(), command.Invalid{Input: "xyz"})

	assert.Contains(t, out.String(), `Unknown command "xyz"`)
	assert.Empty(t, site.fetched)
}

func TestDispatchList(t *testing.T) {
	site := &fakeSite{
		authed: true,
		pages:  map[string]string{"torrents.php?cat=408&page=0": listingHTML},
	}
	b, out := newTestBot(t, site, &fakeClient{})

	b.dispatch(context.Background(), command.List{ListOptions: command.ListOptions{Category: "movie"}})

	assert.Contains(t, out.String(), "[42] The.Answer.2024")
	assert.Contains(t, out.String(), "[43] Other.Album.2020")
	assert.NotContains(t, out.String(), "Error:")
}

func TestDispatchSearch(t *testing.T) {
	site := &fakeSite{
		authed: true,
		pages:  map[string]string{"torrents.php?page=0&foo+bar": listingHTML},
	}
	b, out := newTestBot(t, site, &fakeClient{})

	b.dispatch(context.Background(), command.Search{Terms: []string{"foo", "bar"}})

	assert.Contains(t, out.String(), "The.Answer.2024")
}

func TestDispatchListWithFilter(t *testing.T) {
	site := &fakeSite{
		authed: true,
		pages:  map[string]string{"torrents.php?page=0": listingHTML},
	}
	b, out := newTestBot(t, site, &fakeClient{})

	b.dispatch(context.Background(), command.List{ListOptions: command.ListOptions{Filter: "Seeding"}})

	assert.Contains(t, out.String(), "The.Answer.2024")
	assert.NotContains(t, out.String(), "Other.Album.2020")
}

func TestDispatchListTorrents(t *testing.T) {
	client := &fakeClient{listOut: "torrent client listing\n"}
	b, out := newTestBot(t, &fakeSite{authed: true}, client)

	b.dispatch(context.Background(), command.ListTorrents{})

	assert.Contains(t, out.String(), "torrent client listing")
}

func TestDispatchRemoveTorrent(t *testing.T) {
	client := &fakeClient{}
	b, out := newTestBot(t, &fakeSite{authed: true}, client)

	b.dispatch(context.Background(), command.RemoveTorrent{ID: 3})

	assert.Equal(t, []int{3}, client.removed)
	assert.Contains(t, out.String(), "Removed torrent 3")
}

func TestDispatchRefresh(t *testing.T) {
	site := &fakeSite{}
	b, out := newTestBot(t, site, &fakeClient{})

	b.dispatch(context.Background(), command.Refresh{})

	assert.Equal(t, 1, site.logins)
	assert.Equal(t, 1, site.saves)
	assert.Contains(t, out.String(), "Logged in")
}

func TestDispatchContainsClientErrors(t *testing.T) {
	client := &fakeClient{err: errors.New("exit status 1")}
	b, out := newTestBot(t, &fakeSite{authed: true}, client)

	b.dispatch(context.Background(), command.ListTorrents{})
	assert.Contains(t, out.String(), "Error:")

	// The loop keeps serving commands after a failure.
	client.err = nil
	client.listOut = "recovered\n"
	b.dispatch(context.Background(), command.ListTorrents{})
	assert.Contains(t, out.String(), "recovered")
}

func TestDispatchHelp(t *testing.T) {
	b, out := newTestBot(t, &fakeSite{authed: true}, &fakeClient{})

	b.dispatch(context.Background(), command.Help{})

	assert.Contains(t, out.String(), "remove-torrent (trm)")
}
