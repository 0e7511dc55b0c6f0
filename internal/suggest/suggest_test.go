package suggest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/searchbar/internal/cel"
)

const (
	timeout = time.Second
	tick    = 5 * time.Millisecond
)

type blockingSource struct {
	mu      sync.Mutex
	gates   map[string]chan struct{}
	answers map[string][]string
	calls   []string
}

func newBlockingSource() *blockingSource {
	return &blockingSource{gates: map[string]chan struct{}{}, answers: map[string][]string{}}
}

func (s *blockingSource) answer(query string, candidates []string, block bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[query] = candidates
	if block {
		s.gates[query] = make(chan struct{})
	}
}

func (s *blockingSource) release(query string) {
	s.mu.Lock()
	gate := s.gates[query]
	s.mu.Unlock()
	close(gate)
}

func (s *blockingSource) Autocomplete(ctx context.Context, query string) ([]string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, query)
	gate := s.gates[query]
	answer := s.answers[query]
	s.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return answer, nil
}

type failingSource struct{ err error }

func (f failingSource) Autocomplete(context.Context, string) ([]string, error) { return nil, f.err }

// panel mimics the caller: only current, successful results are rendered.
type panel struct {
	f    *Fetcher
	rows []Row
}

func (p *panel) apply(res Result) {
	if res.Err != nil || !p.f.IsCurrent(res.Seq) {
		return
	}
	p.rows = Render(res.Candidates, res.Query, nil)
}

func TestRenderApScenario(t *testing.T) {
	rows := Render([]string{"apple", "apply", "banana"}, "ap", nil)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"apple", "apply"}, Values(rows))
	assert.Equal(t, Row{Value: "apple", Match: "ap", Rest: "ple"}, rows[0])
}

func TestRenderKeepsCandidateCaseAndOrder(t *testing.T) {
	rows := Render([]string{"Zebra", "APPLE pie", "apricot", "Ap"}, "ap", nil)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"APPLE pie", "apricot", "Ap"}, Values(rows))
	assert.Equal(t, "AP", rows[0].Match)
	assert.Equal(t, "PLE pie", rows[0].Rest)
	assert.Equal(t, "", rows[2].Rest)
}

func TestRenderMultibytePrefix(t *testing.T) {
	rows := Render([]string{"Äpfel", "apfel", "äpfelchen"}, "äp", nil)
	assert.Equal(t, []string{"Äpfel", "äpfelchen"}, Values(rows))
	assert.Equal(t, "Äp", rows[0].Match)
	assert.Equal(t, "fel", rows[0].Rest)
}

func TestRenderEmptyInputs(t *testing.T) {
	assert.Nil(t, Render([]string{"apple"}, "", nil))
	assert.Nil(t, Render(nil, "ap", nil))
	assert.Nil(t, Render([]string{"banana"}, "ap", nil))
	assert.Nil(t, Render([]string{"a"}, "ap", nil), "candidate shorter than the query")
}

func TestRenderWithCELMatcher(t *testing.T) {
	m, err := cel.NewMatcher("candidate.contains(query)")
	require.NoError(t, err)

	rows := Render([]string{"green apple", "apple", "pear"}, "apple", m)
	require.Len(t, rows, 2)
	assert.Equal(t, Row{Value: "green apple", Rest: "green apple"}, rows[0], "non-prefix matches are not highlighted")
	assert.Equal(t, Row{Value: "apple", Match: "apple"}, rows[1])
}

func TestRenderWithMatcherFunc(t *testing.T) {
	none := MatcherFunc(func(string, string) bool { return false })
	assert.Nil(t, Render([]string{"apple"}, "ap", none))
}

func TestLimit(t *testing.T) {
	rows := Render([]string{"a1", "a2", "a3"}, "a", nil)
	assert.Len(t, Limit(rows, 2), 2)
	assert.Len(t, Limit(rows, 0), 3)
	assert.Len(t, Limit(rows, 10), 3)
}

func TestFetcherSequence(t *testing.T) {
	f := NewFetcher(failingSource{})
	r1 := f.Issue("a")
	r2 := f.Issue("ap")
	assert.Less(t, r1.Seq, r2.Seq)
	assert.False(t, f.IsCurrent(r1.Seq))
	assert.True(t, f.IsCurrent(r2.Seq))

	f.Invalidate()
	assert.False(t, f.IsCurrent(r2.Seq))
	assert.Equal(t, r2.Seq+1, f.Latest())
}

func TestFetchReturnsCandidates(t *testing.T) {
	src := newBlockingSource()
	src.answer("ap", []string{"apple", "apply"}, false)
	f := NewFetcher(src)

	res := f.Fetch(context.Background(), f.Issue("ap"))
	require.NoError(t, res.Err)
	assert.Equal(t, "ap", res.Query)
	assert.Equal(t, []string{"apple", "apply"}, res.Candidates)
}

func TestFetchSkipsSupersededRequest(t *testing.T) {
	src := newBlockingSource()
	f := NewFetcher(src)

	old := f.Issue("a")
	f.Issue("ap")
	res := f.Fetch(context.Background(), old)
	assert.ErrorIs(t, res.Err, ErrStale)
	assert.Empty(t, src.calls)
}

func TestFetchFailureIsReported(t *testing.T) {
	boom := errors.New("connection refused")
	f := NewFetcher(failingSource{err: boom})
	res := f.Fetch(context.Background(), f.Issue("ap"))
	assert.ErrorIs(t, res.Err, boom)
	assert.Nil(t, res.Candidates)

	p := &panel{f: f}
	p.apply(res)
	assert.Nil(t, p.rows)
}

func TestStaleResponseNeverOverwritesNewerList(t *testing.T) {
	src := newBlockingSource()
	src.answer("a", []string{"avocado", "apple"}, true)
	src.answer("ap", []string{"apple", "apply"}, false)
	f := NewFetcher(src)
	p := &panel{f: f}

	oldReq := f.Issue("a")
	oldDone := make(chan Result, 1)
	go func() { oldDone <- f.Fetch(context.Background(), oldReq) }()

	// Wait until the old request is in flight at the source.
	require.Eventually(t, func() bool {
		src.mu.Lock()
		defer src.mu.Unlock()
		return len(src.calls) == 1
	}, timeout, tick)

	p.apply(f.Fetch(context.Background(), f.Issue("ap")))
	require.Equal(t, []string{"apple", "apply"}, Values(p.rows))

	src.release("a")
	stale := <-oldDone
	require.NoError(t, stale.Err)
	p.apply(stale)

	assert.Equal(t, []string{"apple", "apply"}, Values(p.rows))
}
