package cli

import (
	"errors"
	"strings"

	"github.com/alexanderramin/focusguard/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// focusHuhTheme returns a huh theme matching the formatter palette.
func focusHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// promptWorkContext asks what the user was working on. Aborting the form
// counts as no answer.
func promptWorkContext() (string, error) {
	var note string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("What were you working on?").
				Description("Saved with the session. Leave empty to skip.").
				CharLimit(2000).
				Value(&note),
		),
	).WithTheme(focusHuhTheme()).WithShowHelp(false)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(note), nil
}

// DefaultNotePrompt is the interactive work-context prompt used by main.
var DefaultNotePrompt = promptWorkContext
