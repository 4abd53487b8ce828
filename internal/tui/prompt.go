package tui

import (
	"context"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// Confirm asks a yes/no question. When no answer can be read from a
// terminal it returns fallback without prompting.
func Confirm(title, description string, fallback bool) (bool, error) {
	if !CanPrompt() {
		return fallback, nil
	}

	answer := fallback
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&answer),
		),
	).WithTheme(currentThemeOrDefault())
	if err := form.Run(); err != nil {
		return false, err
	}
	return answer, nil
}

// WithSpinner runs action while a spinner shows title. The spinner is
// only drawn on an interactive terminal. Cancelling ctx stops the spinner
// and is passed on to action.
func WithSpinner(ctx context.Context, title string, action func(context.Context) error) error {
	if !IsInteractive() {
		return action(ctx)
	}

	return spinner.New().
		Context(ctx).
		Title(title).
		ActionWithErr(action).
		Run()
}
