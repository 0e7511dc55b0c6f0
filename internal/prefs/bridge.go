package prefs

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
)

var (
	// ErrEmptyName is returned when a named config operation has no name.
	ErrEmptyName = errors.New("config name is empty")
	// ErrInvalidName is returned for names outside [A-Za-z0-9_.+-].
	ErrInvalidName = errors.New("config name contains invalid characters")
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_.+-]+$`)

// ValidateName checks a config name before it is sent to the instance.
func ValidateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Action names a bridge operation.
type Action string

const (
	ActionLoad Action = "load"
	ActionSave Action = "save"
)

// OpError wraps a failed bridge operation.
type OpError struct {
	Action Action
	Err    error
}

func (e *OpError) Error() string {
	if e.Action == ActionSave {
		return "saving config: " + e.Err.Error()
	}
	return "loading config: " + e.Err.Error()
}

func (e *OpError) Unwrap() error { return e.Err }

// AlertText returns the message shown to the user for err.
func AlertText(err error) string {
	var op *OpError
	if !errors.As(err, &op) {
		return err.Error()
	}
	switch {
	case errors.Is(err, ErrEmptyName):
		return "Must specify a name for the config to " + string(op.Action)
	case errors.Is(err, ErrInvalidName):
		return "Config names may only contain letters, digits, and _ . + -"
	case op.Action == ActionSave:
		return "Error saving config"
	default:
		return "Error loading config"
	}
}

// Service is the remote side of the bridge. *api.Client implements it.
type Service interface {
	GetConfig(ctx context.Context) (map[string]any, error)
	LoadConfig(ctx context.Context, name string) error
	SaveConfig(ctx context.Context, name string, form url.Values) error
	ApplyConfig(ctx context.Context, form url.Values) error
}

// Bridge reads and writes the instance's preferences.
type Bridge struct {
	svc Service
}

// NewBridge returns a Bridge over svc.
func NewBridge(svc Service) *Bridge {
	return &Bridge{svc: svc}
}

// Load fetches the current preferences into a form.
func (b *Bridge) Load(ctx context.Context) (Form, error) {
	values, err := b.svc.GetConfig(ctx)
	if err != nil {
		return Form{}, &OpError{Action: ActionLoad, Err: err}
	}
	return Fill(values), nil
}

// LoadNamed switches the instance to the saved config name and returns the
// preferences it now reports.
func (b *Bridge) LoadNamed(ctx context.Context, name string) (Form, error) {
	if err := ValidateName(name); err != nil {
		return Form{}, &OpError{Action: ActionLoad, Err: err}
	}
	if err := b.svc.LoadConfig(ctx, name); err != nil {
		return Form{}, &OpError{Action: ActionLoad, Err: err}
	}
	return b.Load(ctx)
}

// Save stores form on the instance under name.
func (b *Bridge) Save(ctx context.Context, name string, form Form) error {
	if err := ValidateName(name); err != nil {
		return &OpError{Action: ActionSave, Err: err}
	}
	if err := b.svc.SaveConfig(ctx, name, form.Encode()); err != nil {
		return &OpError{Action: ActionSave, Err: err}
	}
	return nil
}

// Apply makes form the instance's active preferences and returns what the
// instance reports afterwards.
func (b *Bridge) Apply(ctx context.Context, form Form) (Form, error) {
	if err := b.svc.ApplyConfig(ctx, form.Encode()); err != nil {
		return Form{}, &OpError{Action: ActionSave, Err: err}
	}
	return b.Load(ctx)
}
