package ui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/searchbar/internal/tracking"
)

const footerHint = "enter search • tab results • ctrl+o settings • ctrl+v speak • f1 help • ctrl+c quit"

// View implements tea.Model.
func (m *Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	if m.cfg.UI.Mouse {
		v.MouseMode = tea.MouseModeCellMotion
	}
	return v
}

func (m *Model) render() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	st := m.styles

	if m.helpVisible {
		return renderHelp(m.help, st, width)
	}

	lines := []string{
		st.title.Render("searchbar"),
		m.input.View(),
	}

	switch {
	case m.alert != "":
		lines = append(lines, "", st.alert.Render(truncate(m.alert, width-2)),
			st.status.Render("press enter to dismiss"))
	case m.settings != nil:
		lines = append(lines, "")
		lines = append(lines, m.settings.view(st, width)...)
	default:
		lines = append(lines, renderDropdown(m.nav.Rows(), m.nav.FocusIndex(), width, st)...)
		lines = append(lines, m.resultLines(width)...)
	}

	if m.height > 1 && len(lines) > m.height-1 {
		lines = lines[:m.height-1]
	}
	for m.height > 1 && len(lines) < m.height-1 {
		lines = append(lines, "")
	}
	lines = append(lines, m.statusLine(width))
	return strings.Join(lines, "\n")
}

func (m *Model) resultLines(width int) []string {
	st := m.styles
	var lines []string
	if len(m.links) > 0 || len(m.results) > 0 {
		lines = append(lines, "")
	}
	for _, l := range m.links {
		label := tracking.Label + " (" + strings.ToUpper(l.Carrier) + ")"
		lines = append(lines, fmt.Sprintf("%s %s",
			st.link.Render(label),
			st.resultURL.Render(truncate(l.URL, width-runewidth.StringWidth(label)-1))))
	}
	if len(m.links) > 0 && len(m.results) > 0 {
		lines = append(lines, "")
	}

	active := -1
	if m.focus == focusResults {
		active = m.keys.ActiveIdx()
	}
	for i, r := range m.results {
		title := truncate(fmt.Sprintf("%d. %s", i+1, r.Title), width-2)
		if i == active {
			lines = append(lines, "  "+st.focus.Render(title))
		} else {
			lines = append(lines, "  "+st.resultTitle.Render(title))
		}
		lines = append(lines, "     "+st.resultURL.Render(truncate(r.URL, width-5)))
		if r.Snippet != "" {
			lines = append(lines, "     "+st.snippet.Render(truncate(r.Snippet, width-5)))
		}
	}
	return lines
}

func (m *Model) statusLine(width int) string {
	if m.status == "" {
		return m.styles.status.Render(truncate(footerHint, width))
	}
	if m.statusErr {
		return m.styles.statusError.Render(truncate(m.status, width))
	}
	return m.styles.status.Render(truncate(m.status, width))
}
