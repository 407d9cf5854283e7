package cli

import (
	"errors"

	"github.com/alexanderramin/tally/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// tallyHuhTheme matches huh forms to the formatter palette.
func tallyHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Blurred.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)

	return t
}

// repriceNote explains which entries a cascade touches.
const repriceNote = "Only entries still carrying the old rate change."

// confirmForm builds a yes/no form writing into result. It defaults to no.
func confirmForm(title, description string, result *bool) *huh.Form {
	*result = false
	confirm := huh.NewConfirm().
		Title(title).
		Affirmative("Reprice").
		Negative("Cancel").
		Value(result)
	if description != "" {
		confirm = confirm.Description(description)
	}
	return huh.NewForm(huh.NewGroup(confirm)).
		WithTheme(tallyHuhTheme()).
		WithShowHelp(false)
}

// confirmPrompt asks on the terminal. Aborting the form counts as no.
func confirmPrompt(title string) (bool, error) {
	var ok bool
	err := confirmForm(title, repriceNote, &ok).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return ok, nil
}
