// Package navigator tracks keyboard and pointer focus over the rendered
// suggestion rows of a search input.
//
// A Navigator is either idle (FocusIndex -1, the typed query is shown) or
// focused on a row, in which case the input previews that row's value.
package navigator

import (
	"github.com/oakwood-commons/searchbar/internal/suggest"
)

// Input is the text control the suggestions belong to.
type Input interface {
	Value() string
	SetValue(string)
}

// Form submits a query.
type Form interface {
	Submit(query string)
}

// Key is a navigation key delivered to OnKeydown.
type Key int

const (
	KeyOther Key = iota
	KeyUp
	KeyDown
	KeyEnter
)

// Idle is the FocusIndex when no row is focused.
const Idle = -1

// Navigator owns the focus state of one suggestion panel.
type Navigator struct {
	input    Input
	form     Form
	rows     []suggest.Row
	focus    int
	original string
}

// New returns an idle navigator with no rows.
func New(input Input, form Form) *Navigator {
	return &Navigator{input: input, form: form, focus: Idle}
}

// OnInput handles an edit of the input: focus returns to idle and the
// current value becomes the text to restore. The rows stay until the
// caller renders the list for the new value.
func (n *Navigator) OnInput() {
	n.focus = Idle
	n.original = n.input.Value()
}

// Render replaces the panel with rows and resets focus.
func (n *Navigator) Render(rows []suggest.Row) {
	n.rows = rows
	n.focus = Idle
	n.original = n.input.Value()
}

// OnKeydown applies a key and reports whether it was consumed. Up and down
// are ignored when no rows are shown; enter is only consumed when a row is
// focused, so the caller can submit the typed query otherwise.
func (n *Navigator) OnKeydown(k Key) bool {
	switch k {
	case KeyDown:
		if len(n.rows) == 0 {
			return false
		}
		n.focusRow((n.focus + 1) % len(n.rows))
		return true
	case KeyUp:
		if len(n.rows) == 0 {
			return false
		}
		if n.focus <= 0 {
			n.focus = Idle
			n.input.SetValue(n.original)
			return true
		}
		n.focusRow(n.focus - 1)
		return true
	case KeyEnter:
		if n.focus == Idle || len(n.rows) == 0 {
			return false
		}
		return n.OnCommit(n.focus)
	default:
		n.OnInput()
		return false
	}
}

// OnCommit selects row i from any state: the input takes the row's value,
// the panel closes and the form is submitted. Out of range indices are
// ignored.
func (n *Navigator) OnCommit(i int) bool {
	if i < 0 || i >= len(n.rows) {
		return false
	}
	value := n.rows[i].Value
	n.input.SetValue(value)
	n.Close()
	if n.form != nil {
		n.form.Submit(value)
	}
	return true
}

// OnClickOutside closes the panel and keeps whatever the input shows.
func (n *Navigator) OnClickOutside() {
	n.Close()
}

// Close removes the panel and returns to idle.
func (n *Navigator) Close() {
	n.rows = nil
	n.focus = Idle
}

func (n *Navigator) focusRow(i int) {
	n.focus = i
	n.input.SetValue(n.rows[i].Value)
}

// FocusIndex returns the focused row, or Idle.
func (n *Navigator) FocusIndex() int { return n.focus }

// OriginalQuery returns the text restored when focus returns to idle.
func (n *Navigator) OriginalQuery() string { return n.original }

// Rows returns the rendered rows.
func (n *Navigator) Rows() []suggest.Row { return n.rows }

// Open reports whether a panel is shown.
func (n *Navigator) Open() bool { return len(n.rows) > 0 }
