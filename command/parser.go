package command

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Parser parses operator input lines.
type Parser struct {
	logger zerolog.Logger
}

// NewParser creates a new command parser.
func NewParser(logger zerolog.Logger) *Parser {
	return &Parser{
		logger: logger.With().Str("component", "command").Logger(),
	}
}

// Parse turns one input line into a typed command. An unrecognized verb
// yields Invalid with a nil error; a known verb with broken arguments
// yields a ParseError.
func (p *Parser) Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Invalid{Input: line}, nil
	}

	verb, args := fields[0], fields[1:]
	switch verb {
	case "list", "ls":
		opts, _, err := p.parseListOptions(args, false)
		if err != nil {
			return nil, err
		}
		return List{ListOptions: opts}, nil
	case "search", "se":
		opts, terms, err := p.parseListOptions(args, true)
		if err != nil {
			return nil, err
		}
		return Search{ListOptions: opts, Terms: terms}, nil
	case "download", "dl":
		return p.parseDownload(args)
	case "list-torrents", "tls":
		if err := noArgs(verb, args); err != nil {
			return nil, err
		}
		return ListTorrents{}, nil
	case "remove-torrent", "trm":
		return p.parseRemoveTorrent(args)
	case "refresh":
		if err := noArgs(verb, args); err != nil {
			return nil, err
		}
		return Refresh{}, nil
	case "help":
		if err := noArgs(verb, args); err != nil {
			return nil, err
		}
		return Help{}, nil
	case "exit":
		if err := noArgs(verb, args); err != nil {
			return nil, err
		}
		return Exit{}, nil
	default:
		return Invalid{Input: line}, nil
	}
}

// parseListOptions parses the flags shared by list and search. With
// withTerms set, -i is accepted; it must come last since it consumes
// the rest of the line.
func (p *Parser) parseListOptions(args []string, withTerms bool) (ListOptions, []string, error) {
	var opts ListOptions
	var terms []string

	i := 0
	for i < len(args) {
		switch flag := args[i]; flag {
		case "-c", "-t", "-f":
			if i+1 >= len(args) {
				return opts, nil, &ParseError{Message: fmt.Sprintf("%s needs a value", flag)}
			}
			switch flag {
			case "-c":
				opts.Category = args[i+1]
			case "-t":
				opts.Tag = args[i+1]
			case "-f":
				opts.Filter = args[i+1]
			}
			i += 2
		case "-p":
			if i+1 >= len(args) {
				p.logger.Warn().Msg("Missing page number, using page 0")
				i++
				continue
			}
			page, err := strconv.Atoi(args[i+1])
			if err != nil || page < 0 {
				p.logger.Warn().Str("page", args[i+1]).Msg("Invalid page number, using page 0")
				page = 0
			}
			opts.Page = page
			i += 2
		case "-i":
			if !withTerms {
				return opts, nil, &ParseError{Message: "-i is only valid for search"}
			}
			if i+1 >= len(args) {
				return opts, nil, &ParseError{Message: "-i needs at least one search term"}
			}
			terms = args[i+1:]
			i = len(args)
		default:
			return opts, nil, &ParseError{Message: fmt.Sprintf("unexpected token %q", flag)}
		}
	}

	if withTerms && len(terms) == 0 {
		return opts, nil, &ParseError{Message: "search needs -i followed by search terms"}
	}
	return opts, terms, nil
}

func (p *Parser) parseDownload(args []string) (Command, error) {
	if len(args) == 0 {
		return nil, &ParseError{Message: "download needs a torrent id"}
	}

	id, err := parseID(args[0])
	if err != nil {
		return nil, err
	}
	cmd := Download{ID: id}

	i := 1
	for i < len(args) {
		switch flag := args[i]; flag {
		case "-l":
			if i+1 >= len(args) {
				return nil, &ParseError{Message: "-l needs a location name"}
			}
			cmd.Location = args[i+1]
			i += 2
		case "-c":
			if i+1 >= len(args) {
				return nil, &ParseError{Message: "-c needs a directory path"}
			}
			cmd.Path = args[i+1]
			i += 2
		default:
			return nil, &ParseError{Message: fmt.Sprintf("unexpected token %q", flag)}
		}
	}

	if cmd.Location != "" && cmd.Path != "" {
		return nil, &ParseError{Message: "-l and -c are mutually exclusive"}
	}
	if cmd.Path != "" && !filepath.IsAbs(cmd.Path) {
		return nil, &ParseError{Message: fmt.Sprintf("custom path %q is not absolute", cmd.Path)}
	}
	return cmd, nil
}

func (p *Parser) parseRemoveTorrent(args []string) (Command, error) {
	if len(args) == 0 {
		return nil, &ParseError{Message: "remove-torrent needs a torrent id"}
	}
	if len(args) > 1 {
		return nil, &ParseError{Message: fmt.Sprintf("unexpected token %q", args[1])}
	}

	id, err := parseID(args[0])
	if err != nil {
		return nil, err
	}
	return RemoveTorrent{ID: id}, nil
}

func parseID(token string) (int, error) {
	id, err := strconv.Atoi(token)
	if err != nil || id <= 0 {
		return 0, &ParseError{Message: fmt.Sprintf("invalid torrent id %q", token)}
	}
	return id, nil
}

func noArgs(verb string, args []string) error {
	if len(args) > 0 {
		return &ParseError{Message: fmt.Sprintf("%s takes no arguments", verb)}
	}
	return nil
}
