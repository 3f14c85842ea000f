package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/sadopc/workhours/internal/logging"
	"github.com/sadopc/workhours/internal/store"
	"github.com/sadopc/workhours/internal/workspace"
	"github.com/spf13/cobra"
)

// PreferenceStore persists the local UI flags.
type PreferenceStore interface {
	LoadPreferences(ctx context.Context) (store.Preferences, error)
	SavePreferences(ctx context.Context, p store.Preferences) error
}

// App holds what the commands operate on.
type App struct {
	Workspace *workspace.Workspace
	Prefs     PreferenceStore
	ExportDir string
	Logger    *slog.Logger

	// Now defaults to time.Now.
	Now func() time.Time
	// IsInteractive reports whether a person is at the terminal.
	IsInteractive func() bool
	// Confirm asks a yes/no question; defaults to a huh prompt.
	Confirm func(title string) (bool, error)
	// RunTUI starts the full-screen interface.
	RunTUI func(ctx context.Context) error
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) confirm(title string) (bool, error) {
	if a.Confirm != nil {
		return a.Confirm(title)
	}
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&ok),
		),
	).WithShowHelp(false).Run()
	return ok, err
}

// NewRootCmd creates the top-level "workhours" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "workhours",
		Short:         "Track worked hours per employer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log := logging.FromContext(cmd.Context(), app.Logger).With("command", cmd.CommandPath())
			ctx := logging.ContextWithLogger(cmd.Context(), log)
			cmd.SetContext(ctx)
			log.Debug("command started", "args", args)
			return app.Workspace.Load(ctx)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.RunTUI == nil || !app.interactive() {
				return cmd.Help()
			}
			return app.RunTUI(cmd.Context())
		},
	}

	root.AddCommand(
		newEntryCmd(app),
		newEmployerCmd(app),
		newSummaryCmd(app),
		newExportCmd(app),
		newPrefsCmd(app),
	)

	return root
}

// confirmDestructive returns nil when the user agreed to title, either up
// front with --yes or at an interactive prompt.
func confirmDestructive(app *App, yes bool, title string) error {
	if yes {
		return nil
	}
	if !app.interactive() {
		return fmt.Errorf("refusing to delete without --yes when not attached to a terminal")
	}
	ok, err := app.confirm(title)
	if err != nil {
		return fmt.Errorf("confirm: %w", err)
	}
	if !ok {
		return errCancelled
	}
	return nil
}
