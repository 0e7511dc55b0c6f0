// Package ui is the terminal front-end: a search input with an
// autocomplete dropdown, a result list, the instance settings panel and
// speech input, driven by Bubble Tea.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/searchbar/internal/api"
	"github.com/oakwood-commons/searchbar/internal/config"
	"github.com/oakwood-commons/searchbar/internal/keyboard"
	"github.com/oakwood-commons/searchbar/internal/limiter"
	"github.com/oakwood-commons/searchbar/internal/navigator"
	"github.com/oakwood-commons/searchbar/internal/prefs"
	"github.com/oakwood-commons/searchbar/internal/results"
	"github.com/oakwood-commons/searchbar/internal/speech"
	"github.com/oakwood-commons/searchbar/internal/suggest"
	"github.com/oakwood-commons/searchbar/internal/tracking"
	"github.com/oakwood-commons/searchbar/pkg/logger"
)

// Instance is the search instance the UI talks to. *api.Client implements it.
type Instance interface {
	suggest.Source
	prefs.Service
	Search(ctx context.Context, req api.SearchRequest) ([]results.Result, error)
}

// Options configure a Model.
type Options struct {
	Instance Instance
	Config   config.Config
	// Recognizer handles ctrl+v; nil disables speech input.
	Recognizer speech.Recognizer
	// Matcher filters suggestions; nil keeps prefix matches.
	Matcher      suggest.Matcher
	InitialQuery string
}

// InputPlaceholder is shown in the empty search input.
const InputPlaceholder = "Search"

type focusArea int

const (
	focusInput focusArea = iota
	focusResults
)

// Model is the Bubble Tea model. Use it through a pointer.
type Model struct {
	ctx  context.Context
	inst Instance
	cfg  config.Config

	input      textinput.Model
	nav        *navigator.Navigator
	fetcher    *suggest.Fetcher
	matcher    suggest.Matcher
	debounceID int
	// candidates of the last applied lookup, re-filtered on every edit
	candidates []string

	results   []results.Result
	keys      *keyboard.Navigator
	focus     focusArea
	links     []tracking.Link
	searchSeq int
	searching bool
	lastQuery string

	// set by the navigator's form when a suggestion is committed
	pendingQuery string
	hasPending   bool

	recognizer   speech.Recognizer
	speech       *speech.Session
	cancelSpeech context.CancelFunc

	bridge   *prefs.Bridge
	prefs    prefs.Form
	settings *settingsPanel

	alert       string
	status      string
	statusErr   bool
	helpVisible bool
	help        []helpLine

	theme  Theme
	styles styles
	width  int
	height int

	initialQuery string
}

type searchInput struct{ m *Model }

func (s searchInput) Value() string { return s.m.input.Value() }

func (s searchInput) SetValue(v string) {
	s.m.input.SetValue(v)
	s.m.input.CursorEnd()
}

func (s searchInput) SetPlaceholder(p string) { s.m.input.Placeholder = p }

type searchForm struct{ m *Model }

func (f searchForm) Submit(query string) {
	f.m.pendingQuery = query
	f.m.hasPending = true
}

type resultFocus struct{ m *Model }

func (r resultFocus) FocusSearch() {
	r.m.focus = focusInput
	r.m.input.Focus()
}

func (r resultFocus) FocusResult(int) {
	r.m.focus = focusResults
	r.m.input.Blur()
}

// inputOwner is active while speech or the settings panel owns the input.
type inputOwner struct{ m *Model }

func (o inputOwner) IsActive() bool { return o.m.speech.IsActive() || o.m.settings != nil }

// New builds a model for opts. ctx carries the logger and bounds every
// request the model issues.
func New(ctx context.Context, opts Options) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = InputPlaceholder
	input.CharLimit = 2048
	input.Focus()

	m := &Model{
		ctx:          ctx,
		inst:         opts.Instance,
		cfg:          opts.Config,
		input:        input,
		fetcher:      suggest.NewFetcher(opts.Instance),
		matcher:      opts.Matcher,
		recognizer:   opts.Recognizer,
		bridge:       prefs.NewBridge(opts.Instance),
		prefs:        prefs.NewForm(),
		help:         parseHelp(helpMarkdown),
		initialQuery: strings.TrimSpace(opts.InitialQuery),
	}
	m.nav = navigator.New(searchInput{m}, searchForm{m})
	m.keys = keyboard.New(resultFocus{m}, inputOwner{m})
	m.speech = speech.NewSession(searchInput{m}, InputPlaceholder)
	if m.initialQuery != "" {
		m.input.SetValue(m.initialQuery)
		m.input.CursorEnd()
	}
	m.applyPrefs(m.prefs)
	m.resize(80, 24)
	return m
}

// Init loads the instance preferences and runs the initial query.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.loadPrefsCmd(prefsLoadedMsg{quiet: true})}
	if m.initialQuery != "" {
		cmds = append(cmds, m.submit(m.initialQuery))
	}
	return tea.Batch(cmds...)
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	iw := w - len(m.input.Prompt) - 1
	if iw < 10 {
		iw = 10
	}
	m.input.SetWidth(iw)
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m *Model) applyPrefs(form prefs.Form) {
	m.prefs = form
	m.theme = SelectTheme(m.cfg.UI.Theme, form.Bool("dark"))
	m.styles = newStyles(m.theme, m.cfg.UI.NoColor)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	case tea.MouseClickMsg:
		return m, m.handleClick(msg.Mouse())
	case suggestDebounceMsg:
		if msg.id != m.debounceID {
			return m, nil
		}
		return m, m.fetchCmd(m.fetcher.Issue(msg.query))
	case suggestResultMsg:
		m.applySuggestions(msg.res)
		return m, nil
	case searchResultMsg:
		m.applyResults(msg)
		return m, nil
	case prefsLoadedMsg:
		return m, m.applyLoaded(msg)
	case prefsSavedMsg:
		m.applySaved(msg)
		return m, nil
	case speechResultMsg:
		return m, m.applySpeech(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		m.stopListening()
		return tea.Quit
	}
	if m.alert != "" {
		if key == "enter" || key == "esc" {
			m.alert = ""
		}
		return nil
	}
	if m.helpVisible {
		if key == "f1" || key == "esc" || key == "q" {
			m.helpVisible = false
		}
		return nil
	}
	if key == "f1" {
		m.helpVisible = true
		return nil
	}
	if m.settings != nil {
		return m.handleSettingsKey(msg)
	}
	if m.speech.IsActive() {
		switch {
		case key == "esc":
			m.stopListening()
		case m.focus == focusResults:
			// results stay navigable; the input owner hook blocks "/"
			m.keys.HandleKey(key)
		}
		return nil
	}

	switch key {
	case "ctrl+o":
		return m.openSettings()
	case "ctrl+v":
		return m.startListening()
	}
	if m.focus == focusResults {
		return m.handleResultKey(key)
	}
	return m.handleInputKey(msg)
}

func (m *Model) handleInputKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "up":
		if m.nav.OnKeydown(navigator.KeyUp) {
			m.haltSuggestions()
		}
		return nil
	case "down":
		if m.nav.OnKeydown(navigator.KeyDown) {
			m.haltSuggestions()
			return nil
		}
		m.keys.FocusResult(0)
		return nil
	case "enter":
		if m.nav.OnKeydown(navigator.KeyEnter) {
			return m.takePending()
		}
		return m.submit(m.input.Value())
	case "tab":
		if len(m.results) > 0 {
			m.nav.Close()
			m.haltSuggestions()
			m.keys.FocusResult(0)
		}
		return nil
	case "esc":
		if m.nav.Open() {
			m.nav.Close()
			m.haltSuggestions()
		}
		return nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return cmd
	}
	m.nav.OnKeydown(navigator.KeyOther)
	m.renderSuggestions(m.input.Value())
	return tea.Batch(cmd, m.scheduleSuggest(m.input.Value()))
}

func (m *Model) handleResultKey(key string) tea.Cmd {
	if m.keys.HandleKey(key) {
		return nil
	}
	switch key {
	case "tab", "esc":
		m.keys.FocusSearch()
	case "enter", "o":
		if r, ok := m.activeResult(); ok {
			if err := OpenURL(r.URL); err != nil {
				m.setStatus("Open failed: "+err.Error(), true)
				break
			}
			m.setStatus("Opened "+r.URL, false)
		}
	case "y":
		if r, ok := m.activeResult(); ok {
			if err := CopyToClipboard(r.URL); err != nil {
				m.setStatus("Copy failed: "+err.Error(), true)
				break
			}
			m.setStatus("Copied "+r.URL, false)
		}
	case "q":
		return tea.Quit
	}
	return nil
}

func (m *Model) activeResult() (results.Result, bool) {
	i := m.keys.ActiveIdx()
	if i < 0 || i >= len(m.results) {
		return results.Result{}, false
	}
	return m.results[i], true
}

func (m *Model) handleClick(mouse tea.Mouse) tea.Cmd {
	if mouse.Button != tea.MouseLeft || m.alert != "" || m.helpVisible || m.settings != nil {
		return nil
	}
	if !m.nav.Open() || mouse.Y == inputRow {
		return nil
	}
	if i := rowAt(mouse.Y, len(m.nav.Rows())); i >= 0 {
		if m.nav.OnCommit(i) {
			return m.takePending()
		}
		return nil
	}
	m.nav.OnClickOutside()
	m.haltSuggestions()
	return nil
}

// haltSuggestions drops the pending debounce and every in-flight lookup.
func (m *Model) haltSuggestions() {
	m.debounceID++
	m.fetcher.Invalidate()
}

func (m *Model) scheduleSuggest(query string) tea.Cmd {
	m.haltSuggestions()
	if query == "" || !m.cfg.Suggest.Enabled || m.inst == nil {
		m.candidates = nil
		m.nav.Close()
		return nil
	}
	delay := time.Duration(m.cfg.Suggest.DebounceMs) * time.Millisecond
	if delay <= 0 {
		return m.fetchCmd(m.fetcher.Issue(query))
	}
	id := m.debounceID
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return suggestDebounceMsg{id: id, query: query}
	})
}

func (m *Model) applySuggestions(res suggest.Result) {
	if !m.fetcher.IsCurrent(res.Seq) {
		return
	}
	if res.Err != nil {
		m.candidates = nil
		m.nav.Close()
		return
	}
	m.candidates = res.Candidates
	m.renderSuggestions(res.Query)
}

// renderSuggestions replaces the dropdown with the last candidates that
// match query.
func (m *Model) renderSuggestions(query string) {
	rows := suggest.Render(m.candidates, query, m.matcher)
	if len(rows) == 0 {
		m.nav.Close()
		return
	}
	m.nav.Render(suggest.Limit(rows, m.cfg.Suggest.MaxRows))
}

func (m *Model) takePending() tea.Cmd {
	if !m.hasPending {
		return nil
	}
	q := m.pendingQuery
	m.pendingQuery, m.hasPending = "", false
	return m.submit(q)
}

// submit starts a search for query, superseding any running search.
func (m *Model) submit(query string) tea.Cmd {
	query = strings.TrimSpace(query)
	m.haltSuggestions()
	m.nav.Close()
	if query == "" || m.inst == nil {
		return nil
	}
	m.searchSeq++
	m.searching = true
	m.lastQuery = query
	m.links = tracking.Detect(query)
	m.setStatus("Searching...", false)
	return m.searchCmd(m.searchSeq, api.SearchRequest{
		Query:   query,
		Country: m.cfg.Search.Country,
		GetOnly: m.prefs.Bool("get_only"),
	})
}

func (m *Model) applyResults(msg searchResultMsg) {
	if msg.seq != m.searchSeq {
		return
	}
	m.searching = false
	if msg.err != nil {
		logger.FromContext(m.ctx).Error(msg.err, "search failed", "query", msg.query)
		m.setStatus("Search failed: "+msg.err.Error(), true)
		return
	}
	m.results = limiter.Apply(limiter.Config{Limit: m.cfg.Search.Limit}, msg.results)
	m.keys.SetCount(len(m.results))
	if m.focus == focusResults {
		m.keys.FocusSearch()
	}
	if len(m.results) == 0 {
		m.setStatus(fmt.Sprintf("No results for %q", msg.query), false)
		return
	}
	m.setStatus(fmt.Sprintf("%d results for %q", len(m.results), msg.query), false)
}

func (m *Model) openSettings() tea.Cmd {
	m.nav.Close()
	m.haltSuggestions()
	m.settings = newSettingsPanel(m.prefs)
	m.settings.loading = true
	m.input.Blur()
	return m.loadPrefsCmd(prefsLoadedMsg{})
}

func (m *Model) closeSettings() tea.Cmd {
	m.settings = nil
	if m.focus == focusInput {
		return m.input.Focus()
	}
	return nil
}

func (m *Model) handleSettingsKey(msg tea.KeyPressMsg) tea.Cmd {
	action, name, cmd := m.settings.handleKey(msg)
	switch action {
	case settingsClose:
		return m.closeSettings()
	case settingsApply:
		m.settings.loading = true
		return m.applyPrefsCmd(m.settings.form)
	case settingsLoadNamed:
		m.settings.loading = true
		return m.loadNamedCmd(name)
	case settingsSaveNamed:
		return m.saveNamedCmd(name, m.settings.form)
	}
	return cmd
}

func (m *Model) applyLoaded(msg prefsLoadedMsg) tea.Cmd {
	if m.settings != nil {
		m.settings.loading = false
	}
	if msg.err != nil {
		logger.FromContext(m.ctx).Error(msg.err, "instance settings request failed")
		if msg.quiet {
			m.setStatus(prefs.AlertText(msg.err), true)
		} else {
			m.alert = prefs.AlertText(msg.err)
		}
		return nil
	}
	m.applyPrefs(msg.form)
	if m.settings != nil {
		m.settings.form = prefs.Fill(msg.form.Map())
	}
	if msg.note != "" {
		m.setStatus(msg.note, false)
	}
	if msg.rerun && m.lastQuery != "" {
		return m.submit(m.lastQuery)
	}
	return nil
}

func (m *Model) applySaved(msg prefsSavedMsg) {
	if msg.err != nil {
		logger.FromContext(m.ctx).Error(msg.err, "saving instance settings failed", "name", msg.name)
		m.alert = prefs.AlertText(msg.err)
		return
	}
	m.setStatus("Saved config "+msg.name, false)
}

func (m *Model) startListening() tea.Cmd {
	if m.recognizer == nil {
		m.alert = speech.Message(speech.ErrNotConfigured)
		return nil
	}
	if !m.speech.Start() {
		return nil
	}
	m.nav.Close()
	m.haltSuggestions()
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelSpeech = cancel
	return m.recognizeCmd(ctx)
}

func (m *Model) stopListening() {
	if m.cancelSpeech != nil {
		m.cancelSpeech()
		m.cancelSpeech = nil
	}
}

func (m *Model) applySpeech(msg speechResultMsg) tea.Cmd {
	m.stopListening()
	if !m.speech.IsActive() {
		return nil
	}
	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			m.speech.Finish()
			m.setStatus("Listening cancelled", false)
			return nil
		}
		logger.FromContext(m.ctx).V(1).Info("speech recognition failed", "error", msg.err.Error())
		m.alert = m.speech.Fail(msg.err)
		return nil
	}
	m.speech.Apply(msg.res)
	return m.submit(m.speech.Finish())
}

// Query returns the text in the search input.
func (m *Model) Query() string { return m.input.Value() }

// Results returns the results of the last completed search.
func (m *Model) Results() []results.Result { return m.results }
