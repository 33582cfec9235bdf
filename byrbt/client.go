package byrbt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

const (
	loginPath     = "login.php"
	takeLoginPath = "takelogin.php"
	indexPath     = "index.php"

	// userAgent mimics a plain browser; the tracker refuses requests
	// with the default Go user agent.
	userAgent = "Magic Browser"

	// maxCaptchaSize and maxTorrentSize cap the raw downloads so a
	// misbehaving page cannot exhaust memory.
	maxCaptchaSize = 1 << 20  // 1 MiB
	maxTorrentSize = 16 << 20 // 16 MiB

	cookieFileName = "byrbt.cookies"
)

// Client is an authenticated session against the tracker site. Session
// state changes only through Login, LoadOrLogin and the cookie
// operations; everything else just uses the session.
type Client struct {
	baseURL    *url.URL
	username   string
	password   string
	cookiePath string
	solver     CaptchaSolver
	httpClient *http.Client
	logger     zerolog.Logger

	authenticated bool
}

// NewClient creates a new tracker client. The cookie directory is
// created if absent; failure to create it is a startup error.
func NewClient(baseURL, username, password, cookieDir string, solver CaptchaSolver, logger zerolog.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	if err := os.MkdirAll(cookieDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cookie directory: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		baseURL:    u,
		username:   username,
		password:   password,
		cookiePath: filepath.Join(cookieDir, cookieFileName),
		solver:     solver,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
		logger: logger.With().Str("component", "byrbt").Logger(),
	}, nil
}

// Authenticated reports whether the client holds a session it believes
// to be valid. The belief can be stale: the tracker reveals expiry only
// by redirecting a later request to its login page.
func (c *Client) Authenticated() bool {
	return c.authenticated
}

// Page is a fetched tracker page together with the URL that finally
// served it after redirects.
type Page struct {
	URL *url.URL
	Doc *goquery.Document
}

// ParsePage parses an HTML body into a Page.
func ParsePage(u *url.URL, r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return &Page{URL: u, Doc: doc}, nil
}

// IsLogin reports whether the page is the tracker login page, which the
// site serves in place of any other page once the session has expired.
func (p *Page) IsLogin() bool {
	return p.URL != nil && strings.HasSuffix(p.URL.Path, "/"+loginPath)
}

// resolve turns a site-relative path into an absolute URL.
func (c *Client) resolve(path string) string {
	ref, err := url.Parse(path)
	if err != nil {
		return c.baseURL.String() + path
	}
	return c.baseURL.ResolveReference(ref).String()
}

// get performs a GET against a site-relative path using the session.
func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(path), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// FetchPage fetches a site-relative path and parses the body as HTML.
// It does not interpret the response: callers check Page.IsLogin to
// detect an expired session.
func (c *Client) FetchPage(ctx context.Context, path string) (*Page, error) {
	resp, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, path)
	}

	return ParsePage(resp.Request.URL, resp.Body)
}

// DownloadTorrent fetches a torrent file over the session. The link may
// be site-relative, as extracted from a detail page.
func (c *Client) DownloadTorrent(ctx context.Context, link string) ([]byte, error) {
	resp, err := c.get(ctx, link)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &DownloadError{StatusCode: resp.StatusCode, URL: link}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxTorrentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read torrent file: %w", err)
	}
	if len(data) > maxTorrentSize {
		return nil, fmt.Errorf("torrent file exceeds %d bytes", maxTorrentSize)
	}
	return data, nil
}

// loginForm is what the login page provides for one login attempt: the
// captcha image to solve and the hash tying the answer to it.
type loginForm struct {
	CaptchaSrc string
	ImageHash  string
}

func parseLoginForm(doc *goquery.Document) (*loginForm, error) {
	src, ok := doc.Find(`img[alt="CAPTCHA"]`).First().Attr("src")
	if !ok || src == "" {
		return nil, &ParseError{Page: "login", What: "captcha image not found"}
	}

	hash, ok := doc.Find(`input[name="imagehash"]`).First().Attr("value")
	if !ok || hash == "" {
		return nil, &ParseError{Page: "login", What: "imagehash field not found"}
	}

	return &loginForm{CaptchaSrc: src, ImageHash: hash}, nil
}

func (c *Client) fetchCaptcha(ctx context.Context, src string) ([]byte, error) {
	resp, err := c.get(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch captcha image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching captcha image", resp.StatusCode)
	}

	image, err := io.ReadAll(io.LimitReader(resp.Body, maxCaptchaSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read captcha image: %w", err)
	}
	if len(image) > maxCaptchaSize {
		return nil, fmt.Errorf("captcha image exceeds %d bytes", maxCaptchaSize)
	}
	return image, nil
}

// Login performs the captcha-assisted login flow. The tracker answers a
// successful login with a redirect to the index page; landing anywhere
// else means the credentials or the captcha answer were rejected, and
// the session is left unauthenticated. There is no automatic retry.
func (c *Client) Login(ctx context.Context) error {
	c.authenticated = false

	c.logger.Info().Str("username", c.username).Msg("Logging in to tracker")

	page, err := c.FetchPage(ctx, loginPath)
	if err != nil {
		return fmt.Errorf("failed to fetch login page: %w", err)
	}

	form, err := parseLoginForm(page.Doc)
	if err != nil {
		return err
	}

	image, err := c.fetchCaptcha(ctx, form.CaptchaSrc)
	if err != nil {
		return err
	}

	answer, err := c.solver.Solve(ctx, image)
	if err != nil {
		return fmt.Errorf("failed to solve captcha: %w", err)
	}
	c.logger.Debug().Str("answer", answer).Msg("Captcha solved")

	values := url.Values{}
	values.Set("username", c.username)
	values.Set("password", c.password)
	values.Set("imagestring", answer)
	values.Set("imagehash", form.ImageHash)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve(takeLoginPath), strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if !strings.HasSuffix(resp.Request.URL.Path, "/"+indexPath) {
		return fmt.Errorf("%w: landed on %s", ErrLoginFailed, resp.Request.URL.Path)
	}

	c.authenticated = true
	c.logger.Info().Msg("Login successful")
	return nil
}

// LoadOrLogin restores a saved session from disk, or performs a fresh
// login and persists the new cookies when no usable saved session
// exists.
func (c *Client) LoadOrLogin(ctx context.Context) error {
	err := c.LoadCookies()
	if err == nil {
		c.authenticated = true
		c.logger.Info().Msg("Restored saved session")
		return nil
	}

	if errors.Is(err, ErrNoCookies) {
		c.logger.Info().Msg("No saved session, logging in")
	} else {
		c.logger.Warn().Err(err).Msg("Failed to load saved session, logging in")
	}

	if err := c.Login(ctx); err != nil {
		return err
	}
	return c.SaveCookies()
}
