package suggest

import (
	"strings"
	"unicode/utf8"

	"github.com/oakwood-commons/searchbar/internal/limiter"
)

// Matcher decides whether a candidate is shown for a query.
type Matcher interface {
	Match(candidate, query string) bool
}

// MatcherFunc adapts a plain function to Matcher.
type MatcherFunc func(candidate, query string) bool

// Match calls f.
func (f MatcherFunc) Match(candidate, query string) bool { return f(candidate, query) }

// PrefixMatcher keeps candidates that start with the query, ignoring case.
type PrefixMatcher struct{}

// Match implements Matcher.
func (PrefixMatcher) Match(candidate, query string) bool {
	_, ok := matchedPrefix(candidate, query)
	return ok
}

// Row is one dropdown entry. Match is the part of Value that matched the
// query, in the candidate's own case; Rest is the remainder.
type Row struct {
	Value string
	Match string
	Rest  string
}

// Render filters candidates through m (PrefixMatcher when nil) and builds
// the rows in candidate order. An empty query yields no rows.
func Render(candidates []string, query string, m Matcher) []Row {
	if query == "" || len(candidates) == 0 {
		return nil
	}
	if m == nil {
		m = PrefixMatcher{}
	}

	var rows []Row
	for _, c := range candidates {
		if !m.Match(c, query) {
			continue
		}
		row := Row{Value: c, Rest: c}
		if prefix, ok := matchedPrefix(c, query); ok {
			row.Match = prefix
			row.Rest = c[len(prefix):]
		}
		rows = append(rows, row)
	}
	return rows
}

// Limit caps rows at n entries; n <= 0 means unlimited.
func Limit(rows []Row, n int) []Row {
	if n <= 0 {
		return rows
	}
	return limiter.Apply(limiter.Config{Limit: n}, rows)
}

// Values returns the candidate text of every row.
func Values(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Value
	}
	return out
}

// matchedPrefix returns the leading runes of candidate that equal query
// under Unicode case folding.
func matchedPrefix(candidate, query string) (string, bool) {
	n := utf8.RuneCountInString(query)
	end := 0
	for i := 0; i < n; i++ {
		if end >= len(candidate) {
			return "", false
		}
		_, size := utf8.DecodeRuneInString(candidate[end:])
		end += size
	}
	prefix := candidate[:end]
	if !strings.EqualFold(prefix, query) {
		return "", false
	}
	return prefix, true
}
