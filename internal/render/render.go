// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-14
// Last Modified: 2026-10-16

// Package render formats import results and duplicate reports for the
// terminal.
package render

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	humanize "github.com/dustin/go-humanize"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/similigh/labmigrate/internal/core/issue"
	"github.com/similigh/labmigrate/internal/duplicates"
	"github.com/similigh/labmigrate/internal/importer"
)

const maxTitleWidth = 60

var (
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff7300"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	skipStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// ColorsEnabled reports whether output may contain ANSI styling.
func ColorsEnabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

func styled(text string, style lipgloss.Style) string {
	if ColorsEnabled() {
		return style.Render(text)
	}
	return text
}

// truncate shortens a string to maxLen runes, appending an ellipsis if truncated.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// Glyph returns the status marker for an outcome.
func Glyph(s importer.Status) string {
	switch s {
	case importer.StatusImported:
		return "✅"
	case importer.StatusWouldImport:
		return "🔎"
	case importer.StatusSkipped:
		return "⏩"
	case importer.StatusFailed:
		return "🚫"
	default:
		return "•"
	}
}

// OutcomeLine renders the per-issue progress line.
func OutcomeLine(o importer.Outcome) string {
	head := fmt.Sprintf("%s Issue #%d %q", Glyph(o.Status), o.Issue.SourceID, o.Issue.Title)

	switch o.Status {
	case importer.StatusImported:
		return head + " / " + styled(fmt.Sprintf("Imported as #%d", o.Number), okStyle)
	case importer.StatusWouldImport:
		return head + " / " + styled("Would be imported (dry run)", okStyle)
	case importer.StatusSkipped:
		return head + " / " + styled("Already imported, skipping", skipStyle)
	case importer.StatusFailed:
		reason := "unknown error"
		if o.Err != nil {
			reason = o.Err.Error()
		}
		return head + " / " + styled("Error ("+reason+")", failStyle)
	default:
		return head
	}
}

// Table renders rows under headers, using lipgloss when colors are enabled
// and aligned plain text otherwise. An empty caption is omitted.
func Table(caption string, headers []string, rows [][]string) string {
	var b strings.Builder
	if caption != "" {
		b.WriteString(styled(caption, titleStyle))
		b.WriteString("\n")
	}

	if !ColorsEnabled() {
		b.WriteString(plainTable(headers, rows))
		return b.String()
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
			if row == table.HeaderRow {
				return s.Inherit(headerStyle)
			}
			return s
		})
	if len(headers) > 0 {
		t = t.Headers(headers...)
	}

	b.WriteString(t.Render())
	b.WriteString("\n")
	return b.String()
}

func plainTable(headers []string, rows [][]string) string {
	widths := make([]int, 0)
	measure := func(cells []string) {
		for i, c := range cells {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if n := utf8.RuneCountInString(c); n > widths[i] {
				widths[i] = n
			}
		}
	}
	measure(headers)
	for _, r := range rows {
		measure(r)
	}

	var b strings.Builder
	line := func(cells []string) {
		for i, c := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(c)
			if i < len(cells)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(c)))
			}
		}
		b.WriteString("\n")
	}

	if len(headers) > 0 {
		line(headers)
		total := 0
		for _, w := range widths {
			total += w + 2
		}
		b.WriteString(strings.Repeat("-", total-2))
		b.WriteString("\n")
	}
	for _, r := range rows {
		line(r)
	}
	return b.String()
}

// SummaryTable renders the import totals.
func SummaryTable(s *importer.Summary) string {
	rows := [][]string{
		{"Total issues", strconv.Itoa(s.Total)},
		{"Imported issues", strconv.Itoa(s.Imported)},
		{"Non imported issues", strconv.Itoa(s.NotImported())},
		{"Already imported issues", strconv.Itoa(s.AlreadyImported())},
		{"Failed imports", strconv.Itoa(s.FailedCount())},
	}
	caption := "Import results"
	if s.DryRun {
		caption = "Import results (dry run)"
	}
	return Table(caption, nil, rows)
}

// FailedTable renders the issues whose import failed.
func FailedTable(failed []importer.Failure) string {
	rows := make([][]string, 0, len(failed))
	for _, f := range failed {
		rows = append(rows, []string{
			strconv.Itoa(f.Issue.SourceID),
			truncate(f.Issue.Title, maxTitleWidth),
			truncate(f.Reason, maxTitleWidth),
			created(f.Issue),
		})
	}
	return Table("Failed imports", []string{"id", "title", "reason", "created"}, rows)
}

// SkippedTable renders the issues that already existed at the destination.
func SkippedTable(skipped []issue.Record) string {
	rows := make([][]string, 0, len(skipped))
	for _, r := range skipped {
		rows = append(rows, []string{
			strconv.Itoa(r.SourceID),
			truncate(r.Title, maxTitleWidth),
			created(r),
		})
	}
	return Table("Already imported issues", []string{"id", "title", "created"}, rows)
}

// DuplicatesTable renders each duplicated title with its comma-joined ids.
func DuplicatesTable(repo string, groups []duplicates.Group) string {
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		ids := make([]string, len(g.IDs))
		for i, id := range g.IDs {
			ids[i] = strconv.Itoa(id)
		}
		rows = append(rows, []string{truncate(g.Title, maxTitleWidth), strings.Join(ids, ",")})
	}
	return Table(fmt.Sprintf("Duplicate issues in the %s GitHub repository", repo), []string{"title", "issue ids"}, rows)
}

func created(r issue.Record) string {
	if r.CreatedAt == 0 {
		return "unknown"
	}
	return humanize.Time(r.Created())
}
