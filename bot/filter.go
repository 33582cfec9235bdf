package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/byrlab/byrbt-bot/byrbt"
)

// compileFilter compiles a record filter expression. Record fields are
// undefined at compile time, so only the helpers are type checked.
func compileFilter(expression string) (*vm.Program, error) {
	program, err := expr.Compile(expression,
		expr.Env(filterHelpers()),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", expression, err)
	}
	return program, nil
}

// filterRecords keeps the records for which the expression is true.
func filterRecords(records []byrbt.Record, expression string) ([]byrbt.Record, error) {
	program, err := compileFilter(expression)
	if err != nil {
		return nil, err
	}

	filtered := make([]byrbt.Record, 0, len(records))
	for _, record := range records {
		out, err := expr.Run(program, filterEnv(record))
		if err != nil {
			return nil, fmt.Errorf("filter failed on torrent %d: %w", record.ID, err)
		}
		keep, ok := out.(bool)
		if !ok {
			return nil, fmt.Errorf("filter %q returned %T, want bool", expression, out)
		}
		if keep {
			filtered = append(filtered, record)
		}
	}
	return filtered, nil
}

// filterEnv builds the evaluation environment for one record.
func filterEnv(record byrbt.Record) map[string]any {
	env := filterHelpers()
	env["ID"] = record.ID
	env["Category"] = record.Category
	env["Title"] = record.Title
	env["Subtitle"] = record.Subtitle
	env["Tag"] = string(record.Tag)
	env["Hot"] = record.Hot
	env["Seeding"] = record.Seeding
	env["Finished"] = record.Finished
	env["Size"] = record.Size
	env["Seeders"] = record.Seeders
	env["Leechers"] = record.Leechers
	env["Snatched"] = record.Completed
	return env
}

// filterHelpers returns the case-insensitive string helpers. They cannot be
// named contains, startsWith or endsWith: those are expr operator tokens and
// a call like contains(Title, "x") does not parse.
func filterHelpers() map[string]any {
	return map[string]any{
		"icontains": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"istartswith": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"iendswith": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
		"lower": strings.ToLower,
		// num parses the leading number out of a count or size string,
		// e.g. num(Seeders) or num(Size).
		"num": func(s string) float64 {
			fields := strings.Fields(s)
			if len(fields) == 0 {
				return 0
			}
			n, err := strconv.ParseFloat(strings.ReplaceAll(fields[0], ",", ""), 64)
			if err != nil {
				return 0
			}
			return n
		},
	}
}
