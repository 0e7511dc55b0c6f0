// Package apitest provides an in-memory search instance for tests.
package apitest

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Hit is a search result served by Instance.
type Hit struct {
	Title   string
	URL     string
	Snippet string
}

// Instance is a fake Whoogle-compatible server. Fields may be modified
// between requests while holding Mu.
type Instance struct {
	Mu sync.Mutex

	// Suggestions maps a query to its autocomplete candidates.
	Suggestions map[string][]string
	// AutocompleteDisabled makes /autocomplete answer with an object.
	AutocompleteDisabled bool
	// Config is served by GET /config.
	Config map[string]any
	// Saved holds named configs stored with POST /config?name=.
	Saved map[string]map[string]any
	// Hits are returned for every search.
	Hits []Hit
	// Fail forces the given status for a path ("/config", "/search", ...).
	Fail map[string]int

	// Requests records "METHOD /path" for every request served.
	Requests []string
	// LastForm is the parsed form of the last request.
	LastForm map[string][]string
	// LastUserAgent is the User-Agent header of the last request.
	LastUserAgent string

	Server *httptest.Server
}

// NewServer starts an Instance and stops it when the test ends.
func NewServer(t testing.TB) *Instance {
	t.Helper()
	in := &Instance{
		Suggestions: map[string][]string{},
		Config:      map[string]any{},
		Saved:       map[string]map[string]any{},
		Fail:        map[string]int{},
	}
	in.Server = httptest.NewServer(http.HandlerFunc(in.serve))
	t.Cleanup(in.Server.Close)
	return in
}

// URL returns the instance root.
func (in *Instance) URL() string { return in.Server.URL }

// RequestLog returns a copy of the recorded requests.
func (in *Instance) RequestLog() []string {
	in.Mu.Lock()
	defer in.Mu.Unlock()
	return append([]string(nil), in.Requests...)
}

func (in *Instance) serve(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()

	in.Mu.Lock()
	defer in.Mu.Unlock()
	in.Requests = append(in.Requests, r.Method+" "+r.URL.Path)
	in.LastForm = r.Form
	in.LastUserAgent = r.UserAgent()

	if code, ok := in.Fail[r.URL.Path]; ok {
		http.Error(w, http.StatusText(code), code)
		return
	}

	switch {
	case r.URL.Path == "/autocomplete" && r.Method == http.MethodPost:
		if in.AutocompleteDisabled {
			writeJSON(w, map[string]any{})
			return
		}
		q := r.PostForm.Get("q")
		candidates := in.Suggestions[q]
		if candidates == nil {
			candidates = []string{}
		}
		writeJSON(w, []any{q, candidates})
	case r.URL.Path == "/config" && r.Method == http.MethodGet:
		writeJSON(w, in.Config)
	case r.URL.Path == "/config" && r.Method == http.MethodPut:
		saved, ok := in.Saved[r.URL.Query().Get("name")]
		if !ok {
			http.Error(w, "config not found", http.StatusNotFound)
			return
		}
		in.Config = saved
		w.WriteHeader(http.StatusOK)
	case r.URL.Path == "/config" && r.Method == http.MethodPost:
		values := map[string]any{}
		for k, v := range r.PostForm {
			if len(v) == 0 {
				continue
			}
			if v[0] == "on" {
				values[k] = true
			} else {
				values[k] = v[0]
			}
		}
		if name := r.URL.Query().Get("name"); name != "" {
			in.Saved[name] = values
		}
		in.Config = values
		w.WriteHeader(http.StatusOK)
	case r.URL.Path == "/search":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, in.page())
	default:
		http.NotFound(w, r)
	}
}

func (in *Instance) page() string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><body><div id="main">`)
	for _, h := range in.Hits {
		fmt.Fprintf(&b, `<div><div><div><a href="%s"><h3>%s</h3></a><div>%s</div></div></div></div>`,
			html.EscapeString(h.URL), html.EscapeString(h.Title), html.EscapeString(h.Snippet))
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
