package byrbt

import (
	"fmt"
	"strings"
)

// RecordFormatter defines the interface for formatting listing output
type RecordFormatter interface {
	FormatRecords(records []Record) string
}

// ConsoleFormatter provides console output formatting for listing
// records
type ConsoleFormatter struct {
	color bool
}

// NewConsoleFormatter creates a new console formatter. With color
// enabled, hot rows and promotion labels are highlighted.
func NewConsoleFormatter(color bool) *ConsoleFormatter {
	return &ConsoleFormatter{color: color}
}

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
)

// FormatRecords formats a page of listing records for console display
func (f *ConsoleFormatter) FormatRecords(records []Record) string {
	if len(records) == 0 {
		return "No torrents found\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString("\nTorrent")
	if len(records) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d):\n\n", len(records))

	for i, record := range records {
		isLast := i == len(records)-1
		f.formatRecord(&sb, record, isLast)

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// formatRecord formats a single listing row
func (f *ConsoleFormatter) formatRecord(sb *strings.Builder, record Record, isLast bool) {
	prefix := "├"
	if isLast {
		prefix = "╰"
	}

	title := record.Title
	if record.Hot {
		title = f.paint(ansiRed, title)
	}
	fmt.Fprintf(sb, "%s── [%d] %s\n", prefix, record.ID, title)

	indent := "│   "
	if isLast {
		indent = "    "
	}

	if record.Subtitle != "" {
		fmt.Fprintf(sb, "%s%s\n", indent, record.Subtitle)
	}

	var marks []string
	if label := record.Tag.Label(); label != "" {
		marks = append(marks, f.paint(ansiGreen, label))
	}
	if record.Hot {
		marks = append(marks, f.paint(ansiRed, "hot"))
	}
	if record.Seeding {
		marks = append(marks, f.paint(ansiCyan, "seeding"))
	}
	if record.Finished {
		marks = append(marks, f.paint(ansiYellow, "finished"))
	}
	if len(marks) > 0 {
		fmt.Fprintf(sb, "%s%s\n", indent, strings.Join(marks, " | "))
	}

	fmt.Fprintf(sb, "%sCategory: %s  Size: %s\n", indent, record.Category, record.Size)
	fmt.Fprintf(sb, "%sSeeders: %s  Leechers: %s  Snatched: %s\n", indent, record.Seeders, record.Leechers, record.Completed)
}

func (f *ConsoleFormatter) paint(color, s string) string {
	if !f.color {
		return s
	}
	return color + s + ansiReset
}
