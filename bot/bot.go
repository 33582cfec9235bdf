// Package bot implements the interactive command loop tying the
// tracker session, the listing parser and the torrent client together.
package bot

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/byrlab/byrbt-bot/byrbt"
	"github.com/byrlab/byrbt-bot/command"
	"github.com/byrlab/byrbt-bot/config"
	"github.com/byrlab/byrbt-bot/torrents"
)

const usage = `Commands:
  list (ls)            [-c <category>] [-t <tag>] [-p <page>] [-f <filter>]
  search (se)          [-c <category>] [-t <tag>] [-p <page>] [-f <filter>] -i <terms...>
  download (dl)        <id> [-l <location> | -c <absolute-path>]
  list-torrents (tls)
  remove-torrent (trm) <id>
  refresh              log in again
  help                 show this help
  exit                 quit
`

// Bot runs the interactive command loop.
type Bot struct {
	cfg       *config.Config
	site      Site
	client    torrents.Client
	parser    *command.Parser
	formatter byrbt.RecordFormatter
	logger    zerolog.Logger

	in  io.Reader
	out io.Writer
}

// New creates a bot reading commands from stdin. The torrent-save
// directory is created if absent.
func New(cfg *config.Config, site Site, client torrents.Client, logger zerolog.Logger) (*Bot, error) {
	if err := os.MkdirAll(cfg.Bot.SeedDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create torrent directory: %w", err)
	}

	color := cfg.Logging.Color && isatty.IsTerminal(os.Stdout.Fd())

	return &Bot{
		cfg:       cfg,
		site:      site,
		client:    client,
		parser:    command.NewParser(logger),
		formatter: byrbt.NewConsoleFormatter(color),
		logger:    logger.With().Str("component", "bot").Logger(),
		in:        os.Stdin,
		out:       os.Stdout,
	}, nil
}

// Run starts the session and serves commands until exit or end of
// input. A failed startup login leaves the loop running; commands that
// need the session fail until a refresh succeeds.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.site.LoadOrLogin(ctx); err != nil {
		b.logger.Error().Err(err).Msg("Login failed, starting without a session")
		fmt.Fprintln(b.out, "Login failed, run refresh to try again")
	}

	fmt.Fprint(b.out, usage)

	scanner := bufio.NewScanner(b.in)
	for {
		fmt.Fprint(b.out, "> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			fmt.Fprintln(b.out)
			return nil
		}

		cmd, err := b.parser.Parse(scanner.Text())
		if err != nil {
			fmt.Fprintln(b.out, err)
			continue
		}

		if _, ok := cmd.(command.Exit); ok {
			return nil
		}
		b.dispatch(ctx, cmd)
	}
}

// dispatch runs one command. Failures are reported to the operator and
// contained; the loop keeps accepting input.
func (b *Bot) dispatch(ctx context.Context, cmd command.Command) {
	var err error
	switch cmd := cmd.(type) {
	case command.List:
		err = b.list(ctx, cmd.ListOptions, nil)
	case command.Search:
		err = b.list(ctx, cmd.ListOptions, cmd.Terms)
	case command.Download:
		err = b.download(ctx, cmd)
	case command.ListTorrents:
		err = b.listTorrents(ctx)
	case command.RemoveTorrent:
		err = b.removeTorrent(ctx, cmd.ID)
	case command.Refresh:
		err = b.refresh(ctx)
	case command.Help:
		fmt.Fprint(b.out, usage)
	case command.Invalid:
		if strings.TrimSpace(cmd.Input) != "" {
			fmt.Fprintf(b.out, "Unknown command %q, type help for usage\n", strings.Fields(cmd.Input)[0])
		}
	}

	if err != nil {
		b.logger.Error().Err(err).Str("command", cmd.Name()).Msg("Command failed")
		if errors.Is(err, byrbt.ErrNotAuthenticated) {
			fmt.Fprintln(b.out, "Not logged in, run refresh to log in again")
			return
		}
		fmt.Fprintln(b.out, "Error:", err)
	}
}

func (b *Bot) list(ctx context.Context, opts command.ListOptions, terms []string) error {
	query := b.buildQuery(opts, terms)

	page, err := b.fetchPage(ctx, query.Path())
	if err != nil {
		return err
	}

	records, err := byrbt.ParseListing(page)
	if err != nil {
		return err
	}

	if opts.Filter != "" {
		records, err = filterRecords(records, opts.Filter)
		if err != nil {
			return err
		}
	}

	fmt.Fprint(b.out, b.formatter.FormatRecords(records))
	return nil
}

func (b *Bot) listTorrents(ctx context.Context) error {
	out, err := b.client.List(ctx)
	if err != nil {
		return err
	}
	fmt.Fprint(b.out, out)
	return nil
}

func (b *Bot) removeTorrent(ctx context.Context, id int) error {
	if err := b.client.Remove(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(b.out, "Removed torrent %d\n", id)
	return nil
}

func (b *Bot) refresh(ctx context.Context) error {
	if err := b.site.Login(ctx); err != nil {
		return err
	}
	if err := b.site.SaveCookies(); err != nil {
		return err
	}
	fmt.Fprintln(b.out, "Logged in")
	return nil
}
