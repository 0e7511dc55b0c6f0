package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/searchbar/internal/suggest"
)

const ellipsis = "…"

// dropdownTop is the screen row of the first suggestion: the title is on
// row 0 and the input on row 1.
const dropdownTop = 2

// inputRow is the screen row of the search input.
const inputRow = dropdownTop - 1

// truncate shortens s to at most width terminal cells.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, ellipsis)
}

// splitRow truncates a row to width and returns the part to emphasise and
// the remainder.
func splitRow(row suggest.Row, width int) (match, rest string) {
	text := truncate(row.Value, width)
	if row.Match == "" {
		return "", text
	}
	if strings.HasPrefix(text, row.Match) {
		return row.Match, text[len(row.Match):]
	}
	// The ellipsis landed inside the matched prefix.
	return text, ""
}

func renderDropdown(rows []suggest.Row, focus, width int, st styles) []string {
	if len(rows) == 0 {
		return nil
	}
	inner := width - 2
	lines := make([]string, 0, len(rows))
	for i, row := range rows {
		match, rest := splitRow(row, inner)
		if i == focus {
			text := match + rest
			pad := inner - runewidth.StringWidth(text)
			if pad < 0 {
				pad = 0
			}
			lines = append(lines, "  "+st.focus.Render(text+strings.Repeat(" ", pad)))
			continue
		}
		line := "  "
		if match != "" {
			line += st.match.Render(match)
		}
		if rest != "" {
			line += st.row.Render(rest)
		}
		lines = append(lines, line)
	}
	return lines
}

// rowAt maps a screen row to a suggestion index, or -1.
func rowAt(y, count int) int {
	i := y - dropdownTop
	if i < 0 || i >= count {
		return -1
	}
	return i
}
