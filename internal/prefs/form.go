// Package prefs binds the instance's remote preferences to an editable
// settings form.
package prefs

import (
	"fmt"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Option names understood by the instance.
var (
	BoolOptions   = []string{"nojs", "dark", "safe", "alts", "new_tab", "get_only"}
	StringOptions = []string{"near", "url"}
)

// Options returns every option name, booleans first.
func Options() []string {
	return append(slices.Clone(BoolOptions), StringOptions...)
}

// IsBool reports whether option is a checkbox option.
func IsBool(option string) bool { return slices.Contains(BoolOptions, option) }

// IsString reports whether option is a text option.
func IsString(option string) bool { return slices.Contains(StringOptions, option) }

// ElementID returns the form field id of option: "config-" followed by the
// option with its first underscore replaced by a dash.
func ElementID(option string) string {
	return "config-" + strings.Replace(option, "_", "-", 1)
}

// Form holds one value per option. Options not present are unchecked or
// empty.
type Form struct {
	bools   map[string]bool
	strings map[string]string
}

// NewForm returns a form with every checkbox unchecked and every field empty.
func NewForm() Form {
	return Form{bools: map[string]bool{}, strings: map[string]string{}}
}

// Fill builds a form from a GET /config response. Checkboxes are checked
// when the value is truthy; text fields take the value when it is truthy.
func Fill(values map[string]any) Form {
	f := NewForm()
	for _, opt := range BoolOptions {
		f.bools[opt] = Truthy(values[opt])
	}
	for _, opt := range StringOptions {
		v := values[opt]
		if Truthy(v) {
			f.strings[opt] = stringify(v)
		} else {
			f.strings[opt] = ""
		}
	}
	return f
}

// Bool returns the checked state of a checkbox option.
func (f Form) Bool(option string) bool { return f.bools[option] }

// String returns the value of a text option.
func (f Form) String(option string) string { return f.strings[option] }

// SetBool checks or unchecks option.
func (f *Form) SetBool(option string, checked bool) {
	f.init()
	f.bools[option] = checked
}

// SetString sets a text option.
func (f *Form) SetString(option, value string) {
	f.init()
	f.strings[option] = value
}

// Toggle flips a checkbox option.
func (f *Form) Toggle(option string) {
	f.SetBool(option, !f.Bool(option))
}

// Set assigns raw to option, parsing booleans the way the CLI accepts them.
func (f *Form) Set(option, raw string) error {
	switch {
	case IsBool(option):
		b, err := parseBool(raw)
		if err != nil {
			return fmt.Errorf("option %s: %w", option, err)
		}
		f.SetBool(option, b)
	case IsString(option):
		f.SetString(option, raw)
	default:
		return fmt.Errorf("unknown option %q (valid: %s)", option, strings.Join(Options(), ", "))
	}
	return nil
}

func (f *Form) init() {
	if f.bools == nil {
		f.bools = map[string]bool{}
	}
	if f.strings == nil {
		f.strings = map[string]string{}
	}
}

// Encode returns the values a browser would post: checked boxes as "on",
// unchecked boxes omitted, text fields verbatim.
func (f Form) Encode() url.Values {
	out := url.Values{}
	for _, opt := range BoolOptions {
		if f.bools[opt] {
			out.Set(opt, "on")
		}
	}
	for _, opt := range StringOptions {
		out.Set(opt, f.strings[opt])
	}
	return out
}

// Map returns the form as option → bool or string.
func (f Form) Map() map[string]any {
	out := make(map[string]any, len(BoolOptions)+len(StringOptions))
	for _, opt := range BoolOptions {
		out[opt] = f.bools[opt]
	}
	for _, opt := range StringOptions {
		out[opt] = f.strings[opt]
	}
	return out
}

// Truthy applies JavaScript truthiness to a decoded JSON value.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	case int:
		return t != 0
	case int64:
		return t != 0
	default:
		return true
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "true", "1", "yes", "y":
		return true, nil
	case "off", "false", "0", "no", "n", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", raw)
}
