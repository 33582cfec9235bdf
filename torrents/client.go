// Package torrents drives the external torrent client that picks up
// downloaded torrent files.
package torrents

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/byrlab/byrbt-bot/config"
)

// Client is the torrent client the bot registers downloads with.
type Client interface {
	// Register hands a saved torrent file to the client, with dir as
	// the destination for the completed download.
	Register(ctx context.Context, torrentPath, dir string) error
	// List returns a printable view of the client's torrents.
	List(ctx context.Context) (string, error)
	// Remove removes a torrent by the id shown in the List output.
	Remove(ctx context.Context, id int) error
}

// New creates the torrent client selected by the configuration.
func New(cfg config.ClientConfig, logger zerolog.Logger) (Client, error) {
	switch cfg.Type {
	case "transmission":
		return NewTransmission(cfg.Transmission.Command, logger), nil
	case "qbittorrent":
		return NewQBittorrent(cfg.QBittorrent.URL, cfg.QBittorrent.Username, cfg.QBittorrent.Password, logger)
	default:
		return nil, fmt.Errorf("unknown torrent client type %q", cfg.Type)
	}
}
