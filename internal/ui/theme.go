package ui

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/searchbar/internal/config"
)

// Theme defines the colors used across the UI.
type Theme struct {
	Name        string
	TitleFG     color.Color // Header line
	InputFG     color.Color // Search input text
	MatchFG     color.Color // Matched prefix in a suggestion
	RowFG       color.Color // Unfocused suggestion rows
	FocusFG     color.Color // Focused suggestion or result
	FocusBG     color.Color
	ResultTitle color.Color
	ResultURL   color.Color
	Snippet     color.Color
	LinkFG      color.Color // Tracking links
	StatusColor color.Color
	StatusError color.Color
	AlertFG     color.Color
	AlertBG     color.Color
	HelpKey     color.Color
	HelpValue   color.Color
}

// DarkTheme is used when the instance reports dark mode.
func DarkTheme() Theme {
	return Theme{
		Name:        config.ThemeDark,
		TitleFG:     lipgloss.Color("81"),
		InputFG:     lipgloss.Color("255"),
		MatchFG:     lipgloss.Color("214"),
		RowFG:       lipgloss.Color("250"),
		FocusFG:     lipgloss.Color("16"),
		FocusBG:     lipgloss.Color("81"),
		ResultTitle: lipgloss.Color("117"),
		ResultURL:   lipgloss.Color("108"),
		Snippet:     lipgloss.Color("245"),
		LinkFG:      lipgloss.Color("220"),
		StatusColor: lipgloss.Color("244"),
		StatusError: lipgloss.Color("203"),
		AlertFG:     lipgloss.Color("231"),
		AlertBG:     lipgloss.Color("88"),
		HelpKey:     lipgloss.Color("81"),
		HelpValue:   lipgloss.Color("252"),
	}
}

// LightTheme is the default palette.
func LightTheme() Theme {
	return Theme{
		Name:        config.ThemeLight,
		TitleFG:     lipgloss.Color("25"),
		InputFG:     lipgloss.Color("16"),
		MatchFG:     lipgloss.Color("130"),
		RowFG:       lipgloss.Color("238"),
		FocusFG:     lipgloss.Color("231"),
		FocusBG:     lipgloss.Color("25"),
		ResultTitle: lipgloss.Color("18"),
		ResultURL:   lipgloss.Color("28"),
		Snippet:     lipgloss.Color("240"),
		LinkFG:      lipgloss.Color("94"),
		StatusColor: lipgloss.Color("242"),
		StatusError: lipgloss.Color("160"),
		AlertFG:     lipgloss.Color("231"),
		AlertBG:     lipgloss.Color("124"),
		HelpKey:     lipgloss.Color("25"),
		HelpValue:   lipgloss.Color("236"),
	}
}

// SelectTheme picks the palette for the configured theme name. "auto" (or
// empty) follows the instance's dark preference.
func SelectTheme(name string, remoteDark bool) Theme {
	switch name {
	case config.ThemeDark:
		return DarkTheme()
	case config.ThemeLight:
		return LightTheme()
	}
	if remoteDark {
		return DarkTheme()
	}
	return LightTheme()
}

type styles struct {
	title       lipgloss.Style
	match       lipgloss.Style
	row         lipgloss.Style
	focus       lipgloss.Style
	resultTitle lipgloss.Style
	resultURL   lipgloss.Style
	snippet     lipgloss.Style
	link        lipgloss.Style
	status      lipgloss.Style
	statusError lipgloss.Style
	alert       lipgloss.Style
	helpKey     lipgloss.Style
	helpValue   lipgloss.Style
}

func newStyles(th Theme, noColor bool) styles {
	if noColor {
		plain := lipgloss.NewStyle()
		bold := plain.Bold(true)
		return styles{
			title: bold, match: bold, row: plain, focus: plain.Reverse(true),
			resultTitle: bold, resultURL: plain, snippet: plain, link: plain.Underline(true),
			status: plain, statusError: bold, alert: plain.Reverse(true),
			helpKey: bold, helpValue: plain,
		}
	}
	return styles{
		title:       lipgloss.NewStyle().Foreground(th.TitleFG).Bold(true),
		match:       lipgloss.NewStyle().Foreground(th.MatchFG).Bold(true),
		row:         lipgloss.NewStyle().Foreground(th.RowFG),
		focus:       lipgloss.NewStyle().Foreground(th.FocusFG).Background(th.FocusBG),
		resultTitle: lipgloss.NewStyle().Foreground(th.ResultTitle).Bold(true),
		resultURL:   lipgloss.NewStyle().Foreground(th.ResultURL),
		snippet:     lipgloss.NewStyle().Foreground(th.Snippet),
		link:        lipgloss.NewStyle().Foreground(th.LinkFG).Underline(true),
		status:      lipgloss.NewStyle().Foreground(th.StatusColor),
		statusError: lipgloss.NewStyle().Foreground(th.StatusError).Bold(true),
		alert:       lipgloss.NewStyle().Foreground(th.AlertFG).Background(th.AlertBG).Bold(true).Padding(0, 1),
		helpKey:     lipgloss.NewStyle().Foreground(th.HelpKey).Bold(true),
		helpValue:   lipgloss.NewStyle().Foreground(th.HelpValue),
	}
}
