package bot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/byrlab/byrbt-bot/byrbt"
	"github.com/byrlab/byrbt-bot/command"
)

// fetchPage fetches a page over the session. When the tracker serves
// its login page instead, the session has expired: log in again, save
// the fresh cookies and retry once.
func (b *Bot) fetchPage(ctx context.Context, path string) (*byrbt.Page, error) {
	if !b.site.Authenticated() {
		return nil, byrbt.ErrNotAuthenticated
	}

	page, err := b.site.FetchPage(ctx, path)
	if err != nil {
		return nil, err
	}
	if !page.IsLogin() {
		return page, nil
	}

	b.logger.Info().Msg("Session expired, logging in again")
	if err := b.site.Login(ctx); err != nil {
		return nil, err
	}
	if err := b.site.SaveCookies(); err != nil {
		return nil, err
	}

	page, err = b.site.FetchPage(ctx, path)
	if err != nil {
		return nil, err
	}
	if page.IsLogin() {
		return nil, byrbt.ErrNotAuthenticated
	}
	return page, nil
}

// download fetches a torrent by id, saves the file under the seed
// directory and registers it with the torrent client, pointing the
// client at the resolved destination directory.
func (b *Bot) download(ctx context.Context, cmd command.Download) error {
	page, err := b.fetchPage(ctx, byrbt.DetailPath(cmd.ID))
	if err != nil {
		return err
	}

	detail, err := byrbt.ParseDetail(page)
	if err != nil {
		return err
	}

	dir := b.resolveLocation(cmd, detail.Category)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}

	data, err := b.site.DownloadTorrent(ctx, detail.Link)
	if err != nil {
		return err
	}

	torrentPath := filepath.Join(b.cfg.Bot.SeedDir, detail.FileName)
	if err := os.WriteFile(torrentPath, data, 0644); err != nil {
		return fmt.Errorf("failed to save torrent file: %w", err)
	}
	b.logger.Info().Str("file", torrentPath).Str("destination", dir).Msg("Saved torrent file")

	if err := b.client.Register(ctx, torrentPath, dir); err != nil {
		return err
	}

	if b.cfg.Bot.DeleteAfterAdd {
		if err := os.Remove(torrentPath); err != nil {
			b.logger.Warn().Err(err).Str("file", torrentPath).Msg("Failed to delete torrent file")
		}
	}

	fmt.Fprintf(b.out, "Added %s -> %s\n", detail.FileName, dir)
	return nil
}

// resolveLocation picks the destination directory for a download. An
// explicit location must name a configured path or an existing
// directory; anything else falls back to the category default, which
// is created later if absent.
func (b *Bot) resolveLocation(cmd command.Download, category string) string {
	var dir string
	switch {
	case cmd.Location != "":
		path, ok := b.cfg.Locations[cmd.Location]
		if !ok {
			b.logger.Warn().Str("location", cmd.Location).Msg("Unknown download location, using category default")
			break
		}
		dir = path
	case cmd.Path != "":
		dir = cmd.Path
	}

	if dir != "" {
		if isDir(dir) {
			return dir
		}
		b.logger.Warn().Str("dir", dir).Msg("Not an existing directory, using category default")
	}

	return b.categoryDefault(category)
}

// categoryDefault returns the configured location for a detail-page
// category label, falling back to the default bucket.
func (b *Bot) categoryDefault(category string) string {
	if path, ok := b.cfg.Locations[byrbt.CategoryKey(category)]; ok {
		return path
	}
	return b.cfg.Locations["default"]
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
