package cli

import (
	"fmt"
	"strconv"

	"github.com/sadopc/workhours/internal/aggregate"
	"github.com/sadopc/workhours/internal/timecalc"
	"github.com/spf13/cobra"
)

func newEmployerCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "employer",
		Aliases: []string{"employers"},
		Short:   "Manage employers",
	}

	cmd.AddCommand(
		newEmployerAddCmd(app),
		newEmployerListCmd(app),
		newEmployerRenameCmd(app),
		newEmployerRemoveCmd(app),
	)

	return cmd
}

func newEmployerAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add an employer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := app.Workspace.AddEmployer(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added employer %q\n", e.Name)
			return nil
		},
	}
}

func newEmployerListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List employers with their totals",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			employers := app.Workspace.Employers()
			out := cmd.OutOrStdout()
			if len(employers) == 0 {
				fmt.Fprintln(out, "No employers yet. Add one with: workhours employer add <name>")
				return nil
			}

			totals := make(map[string]aggregate.EmployerTotal)
			for _, t := range aggregate.ByEmployer(app.Workspace.Intervals()) {
				totals[t.Employer] = t
			}
			rows := make([][]string, 0, len(employers))
			for _, e := range employers {
				t := totals[e.Name]
				rows = append(rows, []string{e.Name, strconv.Itoa(t.Entries), timecalc.FormatDuration(t.Minutes)})
			}
			fmt.Fprint(out, renderTable([]string{"EMPLOYER", "ENTRIES", "TOTAL"}, rows))
			return nil
		},
	}
}

func newEmployerRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <name> <new-name>",
		Short: "Rename an employer; its entries follow",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, ok := app.Workspace.FindEmployer(args[0])
			if !ok {
				return fmt.Errorf("unknown employer %q", args[0])
			}
			renamed, err := app.Workspace.RenameEmployer(cmd.Context(), e.ID, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %q to %q\n", e.Name, renamed.Name)
			return nil
		},
	}
}

func newEmployerRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete an employer and all of its entries",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, ok := app.Workspace.FindEmployer(args[0])
			if !ok {
				return fmt.Errorf("unknown employer %q", args[0])
			}
			n := len(app.Workspace.Filtered(aggregate.Filter{Employer: e.Name}))
			title := fmt.Sprintf("Delete %q and its %d entries?", e.Name, n)
			if err := confirmDestructive(app, yes, title); err != nil {
				return err
			}
			removed, err := app.Workspace.RemoveEmployer(cmd.Context(), e.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted employer %q and %d entries\n", e.Name, removed)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
