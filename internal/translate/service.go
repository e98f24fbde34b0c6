// Package translate talks to the external translation service and keeps
// the per-layout translation overlay.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Service turns one prompt into one reply.
type Service interface {
	Translate(ctx context.Context, prompt string) (string, error)
}

// ErrRateLimited marks a service failure that is worth retrying.
var ErrRateLimited = errors.New("translation rate limited")

type ErrorCode string

const (
	ErrorRateLimited ErrorCode = "RATE_LIMITED"
	ErrorFailed      ErrorCode = "TRANSLATION_FAILED"
)

// Error is returned once the retry policy gives up.
type Error struct {
	Code     ErrorCode
	Attempts int
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s after %d attempt(s) (caused by: %v)", e.Code, e.Attempts, e.Cause)
	}
	return fmt.Sprintf("%s after %d attempt(s)", e.Code, e.Attempts)
}

func (e *Error) Unwrap() error { return e.Cause }

func IsRateLimited(err error) bool { return errors.Is(err, ErrRateLimited) }

// Languages names the source and target language used in prompts.
type Languages struct {
	Source string
	Target string
}

// BatchPrompt asks for a line-preserving translation of lines.
func BatchPrompt(lang Languages, lines []string) string {
	return fmt.Sprintf("Translate the following %s text to %s. Keep each line separate:\n\n%s",
		lang.Source, lang.Target, strings.Join(lines, "\n"))
}

// SelectionPrompt asks for a translation of a single selection.
func SelectionPrompt(lang Languages, text string) string {
	return fmt.Sprintf("Translate the following %s text to %s:\n\n%s", lang.Source, lang.Target, text)
}

// SplitLines splits a reply on newlines and trims each line. Empty lines are
// kept so positions still line up with the request.
func SplitLines(reply string) []string {
	lines := strings.Split(strings.ReplaceAll(reply, "\r\n", "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return lines
}
