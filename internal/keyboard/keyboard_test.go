package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	events []int // -1 for search
}

func (r *recorder) FocusSearch()      { r.events = append(r.events, -1) }
func (r *recorder) FocusResult(i int) { r.events = append(r.events, i) }

type hook bool

func (h hook) IsActive() bool { return bool(h) }

func TestDownStopsAtLastResult(t *testing.T) {
	rec := &recorder{}
	n := New(rec, nil)
	n.SetCount(3)

	for _, key := range []string{"j", "down", "j", "j"} {
		assert.True(t, n.HandleKey(key))
	}
	assert.Equal(t, 2, n.ActiveIdx())
	assert.Equal(t, []int{0, 1, 2}, rec.events)
}

func TestUpFromFirstFocusesSearch(t *testing.T) {
	rec := &recorder{}
	n := New(rec, nil)
	n.SetCount(2)
	n.HandleKey("j")
	n.HandleKey("j")

	n.HandleKey("k")
	assert.Equal(t, 0, n.ActiveIdx())
	n.HandleKey("up")
	assert.Equal(t, -1, n.ActiveIdx())
	assert.Equal(t, []int{0, 1, 0, -1}, rec.events)
}

func TestSlashFocusesSearch(t *testing.T) {
	rec := &recorder{}
	n := New(rec, hook(false))
	n.SetCount(4)
	n.FocusResult(2)

	assert.True(t, n.HandleKey("/"))
	assert.Equal(t, -1, n.ActiveIdx())
}

func TestSlashSuppressedWhileHookActive(t *testing.T) {
	rec := &recorder{}
	n := New(rec, hook(true))
	n.SetCount(4)
	n.FocusResult(2)

	assert.False(t, n.HandleKey("/"))
	assert.Equal(t, 2, n.ActiveIdx())
	assert.Equal(t, []int{2}, rec.events)
}

func TestUnboundKeysAreNotConsumed(t *testing.T) {
	n := New(&recorder{}, nil)
	n.SetCount(1)
	assert.False(t, n.HandleKey("x"))
	assert.False(t, n.HandleKey("enter"))
}

func TestNoResults(t *testing.T) {
	rec := &recorder{}
	n := New(rec, nil)
	n.HandleKey("j")
	assert.Equal(t, -1, n.ActiveIdx())
	assert.Empty(t, rec.events)

	n.HandleKey("k")
	assert.Equal(t, []int{-1}, rec.events)
}

func TestSetCountResetsFocus(t *testing.T) {
	n := New(nil, nil)
	n.SetCount(5)
	n.FocusResult(3)
	n.SetCount(2)
	assert.Equal(t, -1, n.ActiveIdx())
	assert.Equal(t, 2, n.Count())

	n.FocusResult(7)
	assert.Equal(t, -1, n.ActiveIdx(), "out of range focus is ignored")
}
