package ui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/searchbar/internal/prefs"
)

type settingsMode int

const (
	settingsBrowse settingsMode = iota
	settingsEdit
	settingsNameLoad
	settingsNameSave
)

// settingsAction is what the panel asks the model to do after a key.
type settingsAction int

const (
	settingsNone settingsAction = iota
	settingsClose
	settingsApply
	settingsLoadNamed
	settingsSaveNamed
)

// settingsPanel edits a private copy of the instance preferences.
type settingsPanel struct {
	options []string
	cursor  int
	mode    settingsMode
	field   textinput.Model
	form    prefs.Form
	loading bool
}

func newSettingsPanel(form prefs.Form) *settingsPanel {
	field := textinput.New()
	field.CharLimit = 256
	return &settingsPanel{
		options: prefs.Options(),
		field:   field,
		form:    prefs.Fill(form.Map()),
	}
}

func (p *settingsPanel) current() string {
	if p.cursor < 0 || p.cursor >= len(p.options) {
		return ""
	}
	return p.options[p.cursor]
}

func (p *settingsPanel) prompt(mode settingsMode, label, value string) tea.Cmd {
	p.mode = mode
	p.field.Prompt = label
	p.field.SetValue(value)
	p.field.CursorEnd()
	return p.field.Focus()
}

func (p *settingsPanel) endPrompt() {
	p.mode = settingsBrowse
	p.field.Blur()
}

// handleKey applies msg and returns the follow-up action. name is set for
// the named load and save actions.
func (p *settingsPanel) handleKey(msg tea.KeyPressMsg) (action settingsAction, name string, cmd tea.Cmd) {
	key := msg.String()
	if p.mode != settingsBrowse {
		switch key {
		case "esc":
			p.endPrompt()
			return settingsNone, "", nil
		case "enter":
			value := p.field.Value()
			mode := p.mode
			p.endPrompt()
			switch mode {
			case settingsEdit:
				p.form.SetString(p.current(), value)
			case settingsNameLoad:
				return settingsLoadNamed, strings.TrimSpace(value), nil
			case settingsNameSave:
				return settingsSaveNamed, strings.TrimSpace(value), nil
			}
			return settingsNone, "", nil
		}
		p.field, cmd = p.field.Update(msg)
		return settingsNone, "", cmd
	}

	switch key {
	case "esc":
		return settingsClose, "", nil
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.options)-1 {
			p.cursor++
		}
	case "space", " ", "enter":
		opt := p.current()
		if prefs.IsBool(opt) {
			p.form.Toggle(opt)
			break
		}
		return settingsNone, "", p.prompt(settingsEdit, opt+": ", p.form.String(opt))
	case "a":
		return settingsApply, "", nil
	case "ctrl+l":
		return settingsNone, "", p.prompt(settingsNameLoad, "Load config: ", "")
	case "ctrl+s":
		return settingsNone, "", p.prompt(settingsNameSave, "Save config as: ", "")
	}
	return settingsNone, "", nil
}

func (p *settingsPanel) view(st styles, width int) []string {
	lines := []string{st.title.Render("Instance settings")}
	if p.loading {
		lines = append(lines, st.status.Render("Loading..."))
	}
	for i, opt := range p.options {
		var text string
		if prefs.IsBool(opt) {
			box := "[ ]"
			if p.form.Bool(opt) {
				box = "[x]"
			}
			text = fmt.Sprintf("%s %s", box, opt)
		} else {
			text = fmt.Sprintf("    %s: %s", opt, p.form.String(opt))
		}
		text = truncate(text, width-2)
		if i == p.cursor && p.mode == settingsBrowse {
			lines = append(lines, "  "+st.focus.Render(text))
			continue
		}
		lines = append(lines, "  "+st.row.Render(text))
	}
	lines = append(lines, "")
	if p.mode != settingsBrowse {
		lines = append(lines, p.field.View())
	} else {
		lines = append(lines, st.status.Render(truncate("space toggle • enter edit • a apply • ctrl+l load • ctrl+s save • esc close", width)))
	}
	return lines
}
