package bot

import (
	"github.com/byrlab/byrbt-bot/byrbt"
	"github.com/byrlab/byrbt-bot/command"
)

// buildQuery maps the parsed options through the configured name
// tables into a listing query. A name that does not resolve leaves
// that filter unset and is logged.
func (b *Bot) buildQuery(opts command.ListOptions, terms []string) byrbt.ListQuery {
	query := byrbt.ListQuery{Page: opts.Page}

	if opts.Category != "" {
		if code, ok := b.cfg.Site.Categories[opts.Category]; ok {
			query.Category = code
		} else {
			b.logger.Warn().Str("category", opts.Category).Msg("Unknown category, listing all categories")
		}
	}

	if opts.Tag != "" {
		if code, ok := b.cfg.Site.Tags[opts.Tag]; ok {
			query.Tag = code
		} else {
			b.logger.Warn().Str("tag", opts.Tag).Msg("Unknown tag, listing all promotions")
		}
	}

	if len(terms) > 0 {
		query.Search = byrbt.EncodeSearch(terms)
	}

	return query
}
