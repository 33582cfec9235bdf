package bot

import (
	"context"

	"github.com/byrlab/byrbt-bot/byrbt"
)

// Site is the tracker session the bot operates on.
type Site interface {
	// LoadOrLogin restores a saved session or performs a fresh login.
	LoadOrLogin(ctx context.Context) error
	// Login performs a fresh login.
	Login(ctx context.Context) error
	// SaveCookies persists the current session.
	SaveCookies() error
	// Authenticated reports whether a session is believed to be valid.
	Authenticated() bool
	// FetchPage fetches and parses a site-relative page.
	FetchPage(ctx context.Context, path string) (*byrbt.Page, error)
	// DownloadTorrent fetches a torrent file.
	DownloadTorrent(ctx context.Context, link string) ([]byte, error)
}
