package cli

import (
	"fmt"
	"strings"

	"github.com/sadopc/workhours/internal/store"
	"github.com/spf13/cobra"
)

func newPrefsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change local preferences",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the current preferences",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := app.Prefs.LoadPreferences(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "theme: %s\nhelp on start: %s\n", p.Theme, onOff(!p.HelpDismissed))
				return nil
			},
		},
		&cobra.Command{
			Use:       "theme <light|dark>",
			Short:     "Set the color theme",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{string(store.ThemeLight), string(store.ThemeDark)},
			RunE: func(cmd *cobra.Command, args []string) error {
				return updatePrefs(cmd, app, func(p *store.Preferences) error {
					p.Theme = store.Theme(strings.ToLower(args[0]))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "help <on|off>",
			Short: "Show the help overlay when the interface starts",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return updatePrefs(cmd, app, func(p *store.Preferences) error {
					switch strings.ToLower(args[0]) {
					case "on":
						p.HelpDismissed = false
					case "off":
						p.HelpDismissed = true
					default:
						return fmt.Errorf("expected on or off, got %q", args[0])
					}
					return nil
				})
			},
		},
	)

	return cmd
}

func updatePrefs(cmd *cobra.Command, app *App, change func(*store.Preferences) error) error {
	p, err := app.Prefs.LoadPreferences(cmd.Context())
	if err != nil {
		return err
	}
	if err := change(&p); err != nil {
		return err
	}
	if err := app.Prefs.SavePreferences(cmd.Context(), p); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "theme: %s\nhelp on start: %s\n", p.Theme, onOff(!p.HelpDismissed))
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
