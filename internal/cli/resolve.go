package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/focusguard/internal/domain"
)

var errNoSessions = errors.New("no focus sessions recorded yet")

// resolveSessionID maps "last" to the most recent session and expands the
// short ids shown by history. Anything else is passed through unchanged.
func resolveSessionID(ctx context.Context, app *App, arg string) (string, error) {
	if arg == "last" {
		s, err := app.Focus.LastSession(ctx)
		if err != nil {
			return "", err
		}
		if s == nil {
			return "", errNoSessions
		}
		return s.ID, nil
	}

	sessions, err := app.Focus.History(ctx)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, s := range sessions {
		if s.ID == arg {
			return arg, nil
		}
		if strings.HasPrefix(s.ID, arg) {
			matches = append(matches, s.ID)
		}
	}
	if len(matches) > 1 {
		return "", fmt.Errorf("session id %q is ambiguous (%d matches): %w", arg, len(matches), domain.ErrInvalidInput)
	}
	if len(matches) == 1 {
		return matches[0], nil
	}
	return arg, nil
}

func stringOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
