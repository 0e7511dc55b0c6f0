// Package formatter renders command output as aligned terminal tables.
package formatter

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	sepWidth    = 2
	minColWidth = 3
	ellipsis    = "…"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("236"))
	keyStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	valueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("248"))
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// ColumnHint provides display hints for one column.
type ColumnHint struct {
	// MaxWidth caps the column width (in cells). 0 = no cap.
	MaxWidth int

	// Priority controls column importance when shrinking.
	// Higher values resist shrinking; lower values shrink first.
	Priority int

	// Align controls text alignment: "right" or "left" (default).
	Align string
}

// TableOptions configures table rendering.
type TableOptions struct {
	// NoColor disables styling.
	NoColor bool

	// TotalWidth is the total available width. If 0, uses terminal width.
	TotalWidth int

	// RowNumbers adds a leading "#" column numbered from 1.
	RowNumbers bool

	// Hints are indexed like the columns.
	Hints []ColumnHint
}

// RenderTable renders rows under a header line and a separator. Columns
// wider than the available width are shrunk lowest priority first.
func RenderTable(columns []string, rows [][]string, opts TableOptions) string {
	if len(columns) == 0 || len(rows) == 0 {
		return ""
	}

	totalWidth := opts.TotalWidth
	if totalWidth <= 0 {
		totalWidth = terminalWidth()
	}

	rowNumWidth := 0
	available := totalWidth
	if opts.RowNumbers {
		rowNumWidth = len(fmt.Sprintf("%d", len(rows))) + 2
		available -= rowNumWidth + sepWidth
	}
	widths := columnWidths(columns, rows, available, opts.Hints)

	var b strings.Builder
	b.WriteString(renderRow(columns, widths, rowNumWidth, "#", opts, true))
	b.WriteString("\n")

	total := rowNumWidth
	if opts.RowNumbers {
		total += sepWidth
	}
	for i, w := range widths {
		total += w
		if i < len(widths)-1 {
			total += sepWidth
		}
	}
	separator := strings.Repeat("─", total)
	if !opts.NoColor {
		separator = separatorStyle.Render(separator)
	}
	b.WriteString(separator + "\n")

	for i, row := range rows {
		b.WriteString(renderRow(row, widths, rowNumWidth, fmt.Sprintf("%d", i+1), opts, false))
		b.WriteString("\n")
	}
	return b.String()
}

func renderRow(values []string, widths []int, rowNumWidth int, num string, opts TableOptions, header bool) string {
	parts := make([]string, 0, len(widths)+1)
	if opts.RowNumbers {
		cell := padRight(num, rowNumWidth)
		if !opts.NoColor {
			if header {
				cell = headerStyle.Render(cell)
			} else {
				cell = keyStyle.Render(cell)
			}
		}
		parts = append(parts, cell)
	}

	for i, w := range widths {
		val := ""
		if i < len(values) {
			val = truncate(values[i], w)
		}
		last := i == len(widths)-1
		right := i < len(opts.Hints) && opts.Hints[i].Align == "right"
		switch {
		case right:
			val = padLeft(val, w)
		case !last || header:
			val = padRight(val, w)
		}
		if !opts.NoColor {
			if header {
				val = headerStyle.Render(val)
			} else {
				val = valueStyle.Render(val)
			}
		}
		parts = append(parts, val)
	}
	return strings.TrimRight(strings.Join(parts, strings.Repeat(" ", sepWidth)), " ")
}

// columnWidths sizes each column to its widest cell, applies MaxWidth caps
// and then shrinks until the row fits availableWidth.
func columnWidths(columns []string, rows [][]string, availableWidth int, hints []ColumnHint) []int {
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = lipgloss.Width(col)
	}
	for _, row := range rows {
		for i, val := range row {
			if i < len(widths) {
				if w := lipgloss.Width(val); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}
	for i := range widths {
		if i < len(hints) && hints[i].MaxWidth > 0 && widths[i] > hints[i].MaxWidth {
			widths[i] = hints[i].MaxWidth
		}
	}

	usable := availableWidth - (len(columns)-1)*sepWidth
	if usable > 0 {
		shrinkByPriority(widths, usable, hints)
	}
	return widths
}

// shrinkByPriority reduces widths in place, lowest priority first and
// left to right among equal priorities, never below minColWidth.
func shrinkByPriority(widths []int, usableWidth int, hints []ColumnHint) {
	total := 0
	for _, w := range widths {
		total += w
	}
	excess := total - usableWidth
	if excess <= 0 {
		return
	}

	order := make([]int, len(widths))
	for i := range order {
		order[i] = i
	}
	priority := func(i int) int {
		if i < len(hints) {
			return hints[i].Priority
		}
		return 0
	}
	sort.SliceStable(order, func(a, b int) bool {
		return priority(order[a]) < priority(order[b])
	})

	for _, idx := range order {
		if excess <= 0 {
			break
		}
		shrinkable := widths[idx] - minColWidth
		if shrinkable <= 0 {
			continue
		}
		shrink := min(shrinkable, excess)
		widths[idx] -= shrink
		excess -= shrink
	}
}

func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, ellipsis)
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func padLeft(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return strings.Repeat(" ", width-w) + s
	}
	return s
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 120
	}
	return width
}
