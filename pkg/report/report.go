// Package report renders audit results as markdown, JSON, CSV or a
// terminal table.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"

	"github.com/seojunpark/axlint/pkg/audit"
)

// Format selects an output renderer.
type Format string

const (
	Markdown Format = "markdown"
	JSON     Format = "json"
	CSV      Format = "csv"
	Table    Format = "table"
)

// ParseFormat maps a flag value to a Format. "md" is accepted as an
// alias for markdown.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	if f == "md" {
		return Markdown, nil
	}

	switch f {
	case Markdown, JSON, CSV, Table:
		return f, nil
	}

	return "", fmt.Errorf("report: unknown format %q", s)
}

// Filename returns the conventional output filename for a format.
func Filename(f Format) string {
	switch f {
	case JSON:
		return "axlint-report.json"
	case CSV:
		return "axlint-report.csv"
	case Table:
		return "axlint-report.txt"
	default:
		return "axlint-report.md"
	}
}

// Write renders the report in the given format.
func Write(w io.Writer, r *audit.Report, f Format) error {
	switch f {
	case Markdown:
		return writeMarkdown(w, r)
	case JSON:
		return writeJSON(w, r)
	case CSV:
		return writeCSV(w, r)
	case Table:
		return writeTable(w, r)
	}

	return fmt.Errorf("report: unknown format %q", f)
}

func writeJSON(w io.Writer, r *audit.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("report: encode json: %w", err)
	}

	return nil
}

var csvHeader = []string{
	"file", "line", "widget", "kind", "priority", "wcag",
	"resource_id", "label", "suggestion", "confidence", "source",
}

func writeCSV(w io.Writer, r *audit.Report) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("report: write csv: %w", err)
	}

	for _, f := range r.Findings {
		rec := []string{
			f.Element.File,
			strconv.Itoa(f.Element.Line),
			f.Element.Widget,
			string(f.Kind),
			string(f.Priority),
			f.WCAG,
			f.Element.ResourceID,
			f.Element.Label(),
			f.Suggestion.Label,
			strconv.FormatFloat(f.Suggestion.Confidence, 'f', 2, 64),
			string(f.Suggestion.Source),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("report: write csv: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("report: write csv: %w", err)
	}

	return nil
}

func writeMarkdown(w io.Writer, r *audit.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Accessibility Report: %s\n\n", r.App)
	fmt.Fprintf(&b, "Generated %s\n\n", r.GeneratedAt.Format(time.RFC3339))

	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Widgets audited | %d |\n", r.TotalElements)
	fmt.Fprintf(&b, "| Labeled | %d (%.1f%%) |\n", r.Labeled, r.Coverage)
	fmt.Fprintf(&b, "| Unlabeled | %d |\n", r.Unlabeled)
	fmt.Fprintf(&b, "| Findings | %d |\n\n", len(r.Findings))

	for _, p := range []audit.Priority{audit.PriorityHigh, audit.PriorityMedium, audit.PriorityLow} {
		if r.ByPriority[p] == 0 {
			continue
		}

		fmt.Fprintf(&b, "## %s Priority (%d)\n\n", priorityTitle(p), r.ByPriority[p])
		for _, f := range r.Findings {
			if f.Priority == p {
				writeFinding(&b, f)
			}
		}
	}

	if len(r.Findings) == 0 {
		b.WriteString("No accessibility issues found.\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("report: write markdown: %w", err)
	}

	return nil
}

func writeFinding(b *strings.Builder, f audit.Finding) {
	fmt.Fprintf(b, "### `%s:%d` %s\n\n", f.Element.File, f.Element.Line, f.Element.Widget)
	fmt.Fprintf(b, "%s WCAG 2.2 %s (%s).\n\n", kindText(f.Kind), f.WCAG, audit.CriterionName(f.WCAG))

	if cur := f.Element.Label(); cur != "" {
		fmt.Fprintf(b, "Current label: %q\n\n", cur)
	}

	fmt.Fprintf(b, "Suggested label: **%s** (%s, %.2f)\n\n", f.Suggestion.Label, f.Suggestion.Source, f.Suggestion.Confidence)

	if len(f.Alternatives) > 0 {
		fmt.Fprintf(b, "Alternatives: %s\n\n", strings.Join(f.Alternatives, ", "))
	}
}

func kindText(k audit.Kind) string {
	switch k {
	case audit.KindClickableUnlabeled:
		return "Tappable widget has no accessible name."
	case audit.KindImprovement:
		return "Existing label can be more descriptive."
	default:
		return "Widget has no accessible label."
	}
}

func priorityTitle(p audit.Priority) string {
	switch p {
	case audit.PriorityHigh:
		return "High"
	case audit.PriorityMedium:
		return "Medium"
	default:
		return "Low"
	}
}

// Terminal table styles.
var (
	tableTitleStyle  = lipgloss.NewStyle().Bold(true)
	tableDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // gray
	tableHighStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // red
	tableMediumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // yellow
	tableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

const suggestionWidth = 40

func writeTable(w io.Writer, r *audit.Report) error {
	var b strings.Builder

	b.WriteString(tableTitleStyle.Render(fmt.Sprintf("%s: %d widgets, %.1f%% labeled", r.App, r.TotalElements, r.Coverage)))
	b.WriteByte('\n')
	b.WriteString(tableDimStyle.Render(fmt.Sprintf("%d findings (high %d / medium %d / low %d)",
		len(r.Findings),
		r.ByPriority[audit.PriorityHigh],
		r.ByPriority[audit.PriorityMedium],
		r.ByPriority[audit.PriorityLow])))
	b.WriteString("\n")

	if len(r.Findings) > 0 {
		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(tableBorderStyle).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return tableTitleStyle.PaddingLeft(1).PaddingRight(1)
				}
				return lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
			}).
			Headers("LOCATION", "WIDGET", "PRIORITY", "WCAG", "SUGGESTION")

		for _, f := range r.Findings {
			t.Row(
				fmt.Sprintf("%s:%d", f.Element.File, f.Element.Line),
				f.Element.Widget,
				priorityCell(f.Priority),
				f.WCAG,
				runewidth.Truncate(f.Suggestion.Label, suggestionWidth, "…"),
			)
		}

		b.WriteByte('\n')
		b.WriteString(t.Render())
		b.WriteByte('\n')
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("report: write table: %w", err)
	}

	return nil
}

func priorityCell(p audit.Priority) string {
	switch p {
	case audit.PriorityHigh:
		return tableHighStyle.Render(string(p))
	case audit.PriorityMedium:
		return tableMediumStyle.Render(string(p))
	default:
		return string(p)
	}
}
