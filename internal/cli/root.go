package cli

import (
	"context"
	"time"

	"github.com/alexanderramin/studysync/internal/attention"
	"github.com/alexanderramin/studysync/internal/cli/formatter"
	"github.com/alexanderramin/studysync/internal/service"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// App holds the services and terminal hooks used by CLI commands.
type App struct {
	Sessions      service.SessionService
	Tuning        attention.Tuning
	DefaultUserID string

	// Serve runs the HTTP API until ctx is cancelled. Nil disables "serve".
	Serve func(ctx context.Context) error

	// IsInteractive reports whether stdout is a terminal. Nil means false.
	IsInteractive func() bool
	// Confirm asks a yes/no question. Defaults to a huh confirm form.
	Confirm func(title string) (bool, error)
	// Now defaults to time.Now.
	Now func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) confirm(title string) (bool, error) {
	if a.Confirm != nil {
		return a.Confirm(title)
	}
	return huhConfirm(title)
}

func huhConfirm(title string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(studysyncHuhTheme()).WithShowHelp(false).Run()
	return ok, err
}

func studysyncHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	return t
}

// NewRootCmd creates the top-level "studysync" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "studysync",
		Short:         "Attention tracking for study sessions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newSessionCmd(app),
		newMonitorCmd(app),
		newLabelsCmd(app),
		newServeCmd(app),
	)

	return root
}
