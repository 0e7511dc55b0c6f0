package ui

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/searchbar/internal/api"
	"github.com/oakwood-commons/searchbar/internal/prefs"
	"github.com/oakwood-commons/searchbar/internal/results"
	"github.com/oakwood-commons/searchbar/internal/speech"
	"github.com/oakwood-commons/searchbar/internal/suggest"
)

// suggestDebounceMsg fires once typing has paused; stale ids are dropped.
type suggestDebounceMsg struct {
	id    int
	query string
}

type suggestResultMsg struct {
	res suggest.Result
}

type searchResultMsg struct {
	seq     int
	query   string
	results []results.Result
	err     error
}

// prefsLoadedMsg carries preferences read back from the instance.
type prefsLoadedMsg struct {
	form  prefs.Form
	err   error
	quiet bool   // report failures on the status line instead of an alert
	rerun bool   // repeat the last search on success
	note  string // status text on success
}

type prefsSavedMsg struct {
	name string
	err  error
}

type speechResultMsg struct {
	res speech.Result
	err error
}

func (m *Model) fetchCmd(req suggest.Request) tea.Cmd {
	ctx, f := m.ctx, m.fetcher
	return func() tea.Msg {
		return suggestResultMsg{res: f.Fetch(ctx, req)}
	}
}

func (m *Model) searchCmd(seq int, req api.SearchRequest) tea.Cmd {
	ctx, inst := m.ctx, m.inst
	return func() tea.Msg {
		res, err := inst.Search(ctx, req)
		return searchResultMsg{seq: seq, query: req.Query, results: res, err: err}
	}
}

// loadPrefsCmd reads the instance preferences; base supplies the flags of
// the resulting message.
func (m *Model) loadPrefsCmd(base prefsLoadedMsg) tea.Cmd {
	if m.inst == nil {
		return nil
	}
	ctx, b := m.ctx, m.bridge
	return func() tea.Msg {
		base.form, base.err = b.Load(ctx)
		return base
	}
}

func (m *Model) loadNamedCmd(name string) tea.Cmd {
	ctx, b := m.ctx, m.bridge
	return func() tea.Msg {
		form, err := b.LoadNamed(ctx, name)
		return prefsLoadedMsg{form: form, err: err, rerun: true, note: "Loaded config " + name}
	}
}

func (m *Model) applyPrefsCmd(form prefs.Form) tea.Cmd {
	ctx, b := m.ctx, m.bridge
	form = prefs.Fill(form.Map())
	return func() tea.Msg {
		got, err := b.Apply(ctx, form)
		return prefsLoadedMsg{form: got, err: err, rerun: true, note: "Settings applied"}
	}
}

func (m *Model) saveNamedCmd(name string, form prefs.Form) tea.Cmd {
	ctx, b := m.ctx, m.bridge
	form = prefs.Fill(form.Map())
	return func() tea.Msg {
		return prefsSavedMsg{name: name, err: b.Save(ctx, name, form)}
	}
}

func (m *Model) recognizeCmd(ctx context.Context) tea.Cmd {
	rec, lang := m.recognizer, m.cfg.Speech.Lang
	return func() tea.Msg {
		res, err := rec.Recognize(ctx, lang)
		return speechResultMsg{res: res, err: err}
	}
}
