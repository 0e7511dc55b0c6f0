package ui

import (
	"context"
	"os"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"
)

// Run starts the TUI and blocks until the user quits. The terminal size is
// detected up front and falls back to 80x24.
func Run(ctx context.Context, opts Options, progOpts ...tea.ProgramOption) error {
	m := New(ctx, opts)

	w, h := 80, 24
	if tw, th, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 0 && th > 0 {
		w, h = tw, th
	}
	m.resize(w, h)

	progOpts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithWindowSize(w, h)}, progOpts...)
	_, err := tea.NewProgram(m, progOpts...).Run()
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
