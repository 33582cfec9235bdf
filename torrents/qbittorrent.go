package torrents

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/autobrr/go-qbittorrent"
	"github.com/rs/zerolog"
)

// QBittorrent drives a qBittorrent instance over its web API.
type QBittorrent struct {
	client *qbittorrent.Client
	logger zerolog.Logger

	// listed holds the hashes in the order of the last List output;
	// Remove ids index into this snapshot.
	listed []string
}

// NewQBittorrent creates a qBittorrent-backed torrent client and
// verifies the connection by logging in.
func NewQBittorrent(url, username, password string, logger zerolog.Logger) (*QBittorrent, error) {
	client := qbittorrent.NewClient(qbittorrent.Config{
		Host:     url,
		Username: username,
		Password: password,
	})

	if err := client.Login(); err != nil {
		return nil, fmt.Errorf("failed to connect to qBittorrent: %w", err)
	}

	return &QBittorrent{
		client: client,
		logger: logger.With().Str("component", "qbittorrent").Logger(),
	}, nil
}

// Register adds a torrent file with dir as its save path.
func (q *QBittorrent) Register(ctx context.Context, torrentPath, dir string) error {
	data, err := os.ReadFile(torrentPath)
	if err != nil {
		return fmt.Errorf("failed to read torrent file: %w", err)
	}

	opts := map[string]string{"savepath": dir}
	if err := q.client.AddTorrentFromMemoryCtx(ctx, data, opts); err != nil {
		return fmt.Errorf("failed to add torrent: %w", err)
	}

	q.logger.Debug().Str("torrent", torrentPath).Str("savepath", dir).Msg("Added torrent")
	return nil
}

// List returns a numbered view of the client's torrents. The numbers
// are what Remove takes as id.
func (q *QBittorrent) List(ctx context.Context) (string, error) {
	torrents, err := q.client.GetTorrentsCtx(ctx, qbittorrent.TorrentFilterOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to list torrents: %w", err)
	}

	if len(torrents) == 0 {
		q.listed = q.listed[:0]
		return "No torrents in qBittorrent\n", nil
	}

	q.listed = q.listed[:0]
	var sb strings.Builder
	for i, t := range torrents {
		q.listed = append(q.listed, t.Hash)
		fmt.Fprintf(&sb, "%4d  %5.1f%%  %-20s  %s\n", i+1, t.Progress*100, string(t.State), t.Name)
	}
	return sb.String(), nil
}

// Remove removes a torrent by its number in the last List output. The
// torrent's data is kept.
func (q *QBittorrent) Remove(ctx context.Context, id int) error {
	if id < 1 || id > len(q.listed) {
		return fmt.Errorf("no torrent numbered %d, run list-torrents first", id)
	}

	hash := q.listed[id-1]
	if err := q.client.DeleteTorrentsCtx(ctx, []string{hash}, false); err != nil {
		return fmt.Errorf("failed to remove torrent: %w", err)
	}

	q.logger.Debug().Str("hash", hash).Msg("Removed torrent")
	return nil
}
