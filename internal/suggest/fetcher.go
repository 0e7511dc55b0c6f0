// Package suggest fetches autocomplete candidates for the search input and
// turns them into dropdown rows.
package suggest

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/oakwood-commons/searchbar/pkg/logger"
)

// ErrStale is returned by Fetch when a newer request was issued before the
// source was queried.
var ErrStale = errors.New("suggestion request superseded")

// Source returns candidate completions for a query.
type Source interface {
	Autocomplete(ctx context.Context, query string) ([]string, error)
}

// Request is one issued suggestion lookup.
type Request struct {
	Seq   uint64
	Query string
}

// Result is the outcome of a Request.
type Result struct {
	Seq        uint64
	Query      string
	Candidates []string
	Err        error
}

// Fetcher tags every lookup with a sequence number so that responses which
// arrive after a newer query was issued can be discarded.
type Fetcher struct {
	src Source
	seq atomic.Uint64
}

// NewFetcher returns a Fetcher backed by src.
func NewFetcher(src Source) *Fetcher {
	return &Fetcher{src: src}
}

// Issue starts a new lookup for query, superseding every earlier one.
func (f *Fetcher) Issue(query string) Request {
	return Request{Seq: f.seq.Add(1), Query: query}
}

// Invalidate supersedes all in-flight lookups without starting a new one.
func (f *Fetcher) Invalidate() {
	f.seq.Add(1)
}

// Latest returns the sequence number of the most recently issued lookup.
func (f *Fetcher) Latest() uint64 {
	return f.seq.Load()
}

// IsCurrent reports whether a response tagged seq may still be applied.
func (f *Fetcher) IsCurrent(seq uint64) bool {
	return seq == f.seq.Load()
}

// Fetch queries the source for req. Failures are logged at debug level and
// returned in Result.Err; callers render nothing for them.
func (f *Fetcher) Fetch(ctx context.Context, req Request) Result {
	res := Result{Seq: req.Seq, Query: req.Query}
	if !f.IsCurrent(req.Seq) {
		res.Err = ErrStale
		return res
	}

	lgr := logger.FromContext(ctx)
	candidates, err := f.src.Autocomplete(ctx, req.Query)
	if err != nil {
		lgr.V(1).Info("autocomplete failed", "seq", req.Seq, "query", req.Query, "error", err.Error())
		res.Err = err
		return res
	}
	lgr.V(1).Info("autocomplete", "seq", req.Seq, "query", req.Query, "candidates", len(candidates))
	res.Candidates = candidates
	return res
}
