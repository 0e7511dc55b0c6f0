// Package speech turns a spoken query into search input text.
package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// waitDelay bounds how long a cancelled recognizer may keep its pipes open.
const waitDelay = 2 * time.Second

// Code categorises a recognition failure.
type Code string

const (
	CodeNoSpeech   Code = "no-speech"
	CodeNotAllowed Code = "not-allowed"
	CodeNoMatch    Code = "no-match"
)

// Exit codes of the external recognizer command.
const (
	ExitNoSpeech   = 2
	ExitNotAllowed = 3
	ExitNoMatch    = 4
)

var (
	// ErrNoMatch is returned when speech was heard but not understood.
	ErrNoMatch = errors.New("speech not recognized")
	// ErrNotConfigured is returned when no recognizer command is set.
	ErrNotConfigured = errors.New("speech recognition is not configured")
)

// Error is a categorised recognition failure.
type Error struct {
	Code Code
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("speech recognition: %s: %v", e.Code, e.Err)
	}
	return "speech recognition: " + string(e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches ErrNoMatch for no-match errors.
func (e *Error) Is(target error) bool {
	return target == ErrNoMatch && e.Code == CodeNoMatch
}

// Result is one recognised utterance.
type Result struct {
	Transcript string
}

// Recognizer captures one utterance in the given language.
type Recognizer interface {
	Recognize(ctx context.Context, lang string) (Result, error)
}

// ExecRecognizer runs an external command that records a single utterance
// and prints its transcript on stdout. The language is passed in
// SEARCHBAR_SPEECH_LANG.
type ExecRecognizer struct {
	Command []string
}

// Recognize implements Recognizer.
func (r ExecRecognizer) Recognize(ctx context.Context, lang string) (Result, error) {
	if len(r.Command) == 0 {
		return Result{}, ErrNotConfigured
	}
	cmd := exec.CommandContext(ctx, r.Command[0], r.Command[1:]...)
	cmd.Env = append(os.Environ(), "SEARCHBAR_SPEECH_LANG="+lang)
	cmd.WaitDelay = waitDelay
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, &Error{Code: "aborted", Err: ctx.Err()}
		}
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			switch ee.ExitCode() {
			case ExitNoSpeech:
				return Result{}, &Error{Code: CodeNoSpeech}
			case ExitNotAllowed:
				return Result{}, &Error{Code: CodeNotAllowed}
			case ExitNoMatch:
				return Result{}, &Error{Code: CodeNoMatch}
			}
			if msg := firstLine(stderr.String()); msg != "" {
				return Result{}, &Error{Code: Code(msg), Err: err}
			}
			return Result{}, &Error{Code: Code(fmt.Sprintf("exit-%d", ee.ExitCode())), Err: err}
		}
		return Result{}, &Error{Code: "audio-capture", Err: err}
	}

	transcript := strings.TrimSpace(string(out))
	if transcript == "" {
		return Result{}, ErrNoMatch
	}
	return Result{Transcript: transcript}, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// Message returns the alert shown for a recognition error.
func Message(err error) string {
	if errors.Is(err, ErrNoMatch) {
		return "Could not understand speech. Please try again."
	}
	var se *Error
	if errors.As(err, &se) {
		switch se.Code {
		case CodeNoSpeech:
			return "No speech was detected. Please try again."
		case CodeNotAllowed:
			return "Microphone access was denied. Please allow access to use speech-to-text."
		}
		return "An error occurred during speech recognition: " + string(se.Code)
	}
	return "An error occurred during speech recognition: " + err.Error()
}
