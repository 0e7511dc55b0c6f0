// Package keyboard moves focus across search results with vi-style keys
// while the search input is not focused.
package keyboard

// Target receives focus changes.
type Target interface {
	FocusSearch()
	FocusResult(i int)
}

// ActivityHook reports whether another widget currently owns the search
// input. While it is active, the focus-search shortcut is ignored.
type ActivityHook interface {
	IsActive() bool
}

// Action is a navigation command bound to a key.
type Action int

const (
	None Action = iota
	Up
	Down
	FocusSearch
)

// Keymap maps key names (as reported by the terminal) to actions.
var Keymap = map[string]Action{
	"up":   Up,
	"k":    Up,
	"down": Down,
	"j":    Down,
	"/":    FocusSearch,
}

// Navigator tracks the active result. ActiveIdx -1 means the search input
// has focus.
type Navigator struct {
	target Target
	hook   ActivityHook
	count  int
	active int
}

// New returns a navigator with the search input focused. hook may be nil.
func New(target Target, hook ActivityHook) *Navigator {
	return &Navigator{target: target, hook: hook, active: -1}
}

// SetCount replaces the number of results and moves focus back to search.
func (n *Navigator) SetCount(count int) {
	n.count = count
	n.active = -1
}

// Count returns the number of navigable results.
func (n *Navigator) Count() int { return n.count }

// ActiveIdx returns the focused result, or -1.
func (n *Navigator) ActiveIdx() int { return n.active }

// HandleKey applies the action bound to key and reports whether the key
// was consumed.
func (n *Navigator) HandleKey(key string) bool {
	action, ok := Keymap[key]
	if !ok {
		return false
	}
	switch action {
	case Up:
		n.GoUp()
	case Down:
		n.GoDown()
	case FocusSearch:
		if n.hook != nil && n.hook.IsActive() {
			return false
		}
		n.FocusSearch()
	}
	return true
}

// GoUp focuses the previous result, or the search input from the first one.
func (n *Navigator) GoUp() {
	if n.active > 0 {
		n.FocusResult(n.active - 1)
		return
	}
	n.FocusSearch()
}

// GoDown focuses the next result. It stops at the last one.
func (n *Navigator) GoDown() {
	if n.active < n.count-1 {
		n.FocusResult(n.active + 1)
	}
}

// FocusResult focuses result i.
func (n *Navigator) FocusResult(i int) {
	if i < 0 || i >= n.count {
		return
	}
	n.active = i
	if n.target != nil {
		n.target.FocusResult(i)
	}
}

// FocusSearch returns focus to the search input.
func (n *Navigator) FocusSearch() {
	n.active = -1
	if n.target != nil {
		n.target.FocusSearch()
	}
}
