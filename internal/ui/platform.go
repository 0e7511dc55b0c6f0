package ui

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"
)

// Result actions go through these so tests can stub them out.
var (
	copyToClipboardFn = clipboard.WriteAll
	openURLFn         = openURLImpl
)

// CopyToClipboard copies text to the system clipboard.
func CopyToClipboard(text string) error { return copyToClipboardFn(text) }

// OpenURL opens a result in the default browser.
func OpenURL(url string) error { return openURLFn(url) }

// StubPlatformActions replaces the clipboard and browser actions with
// recorders and returns a restore function.
func StubPlatformActions() (copied, opened *[]string, restore func()) {
	origCopy, origOpen := copyToClipboardFn, openURLFn
	copied, opened = &[]string{}, &[]string{}
	copyToClipboardFn = func(s string) error { *copied = append(*copied, s); return nil }
	openURLFn = func(s string) error { *opened = append(*opened, s); return nil }
	return copied, opened, func() {
		copyToClipboardFn = origCopy
		openURLFn = origOpen
	}
}

// browserCommands lists the launcher per GOOS; the URL is appended.
var browserCommands = map[string][]string{
	"darwin":  {"open"},
	"linux":   {"xdg-open"},
	"freebsd": {"xdg-open"},
	"windows": {"rundll32", "url.dll,FileProtocolHandler"},
}

// openURLImpl starts the browser and does not wait for it.
func openURLImpl(url string) error {
	argv, ok := browserCommands[runtime.GOOS]
	if !ok {
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	if _, err := exec.LookPath(argv[0]); err != nil {
		return fmt.Errorf("%s not found: %w", argv[0], err)
	}
	args := append(append([]string(nil), argv[1:]...), url)
	return exec.CommandContext(context.Background(), argv[0], args...).Start()
}
