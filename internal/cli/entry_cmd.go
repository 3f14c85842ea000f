package cli

import (
	"fmt"
	"strconv"

	"github.com/sadopc/workhours/internal/aggregate"
	"github.com/sadopc/workhours/internal/store"
	"github.com/sadopc/workhours/internal/timecalc"
	"github.com/sadopc/workhours/internal/workspace"
	"github.com/spf13/cobra"
)

func newEntryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "entry",
		Aliases: []string{"entries"},
		Short:   "Manage work entries",
	}

	cmd.AddCommand(
		newEntryAddCmd(app),
		newEntryListCmd(app),
		newEntryEditCmd(app),
		newEntryRemoveCmd(app),
	)

	return cmd
}

func registerDraftFlags(cmd *cobra.Command, d *workspace.Draft) {
	cmd.Flags().StringVar(&d.Date, "date", "", "Work date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&d.Employer, "employer", "", "Employer name")
	cmd.Flags().StringVar(&d.StartTime, "start", "", "Start time (HH:MM)")
	cmd.Flags().StringVar(&d.EndTime, "end", "", "End time (HH:MM, earlier than start means overnight)")
	cmd.Flags().StringVar(&d.Break, "break", "", "Break in minutes")
}

func newEntryAddCmd(app *App) *cobra.Command {
	var d workspace.Draft

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a work entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if d.Date == "" {
				d.Date = timecalc.Today(app.now())
			}
			iv, err := app.Workspace.AddInterval(cmd.Context(), d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added entry #%d: %s %s %s-%s, %s\n",
				iv.ID, timecalc.FormatDate(iv.Date), iv.EmployerName, iv.StartTime, iv.EndTime,
				timecalc.FormatDuration(iv.NetMinutes))
			return nil
		},
	}

	registerDraftFlags(cmd, &d)
	_ = cmd.MarkFlagRequired("employer")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func newEntryListCmd(app *App) *cobra.Command {
	var ff filterFlags

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List work entries, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ff.filter(app)
			if err != nil {
				return err
			}
			ivs := app.Workspace.Filtered(f)
			out := cmd.OutOrStdout()
			if len(ivs) == 0 {
				fmt.Fprintln(out, "No entries.")
				return nil
			}
			fmt.Fprint(out, renderTable(intervalHeaders, intervalRows(ivs)))
			fmt.Fprintf(out, "\nTotal: %s (%d entries)\n",
				timecalc.FormatDuration(aggregate.TotalMinutes(ivs)), len(ivs))
			return nil
		},
	}

	ff.register(cmd.Flags())
	return cmd
}

var intervalHeaders = []string{"ID", "DATE", "EMPLOYER", "START", "END", "BREAK", "NET"}

func intervalRows(ivs []store.WorkInterval) [][]string {
	rows := make([][]string, 0, len(ivs))
	for _, iv := range ivs {
		rows = append(rows, []string{
			strconv.FormatInt(iv.ID, 10),
			timecalc.FormatDate(iv.Date),
			iv.EmployerName,
			iv.StartTime,
			iv.EndTime,
			fmt.Sprintf("%d min", iv.BreakMinutes),
			timecalc.FormatDuration(iv.NetMinutes),
		})
	}
	return rows
}

func newEntryEditCmd(app *App) *cobra.Command {
	var d workspace.Draft

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a work entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			cur, ok := app.Workspace.FindInterval(id)
			if !ok {
				return fmt.Errorf("entry #%d: %w", id, store.ErrNotFound)
			}

			// Flags that were not given keep the entry's current value.
			merged := workspace.DraftFrom(cur)
			flags := cmd.Flags()
			for name, f := range map[string]struct{ dst, src *string }{
				"date":     {&merged.Date, &d.Date},
				"employer": {&merged.Employer, &d.Employer},
				"start":    {&merged.StartTime, &d.StartTime},
				"end":      {&merged.EndTime, &d.EndTime},
				"break":    {&merged.Break, &d.Break},
			} {
				if flags.Changed(name) {
					*f.dst = *f.src
				}
			}

			iv, err := app.Workspace.EditInterval(cmd.Context(), id, merged)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated entry #%d: %s %s %s-%s, %s\n",
				iv.ID, timecalc.FormatDate(iv.Date), iv.EmployerName, iv.StartTime, iv.EndTime,
				timecalc.FormatDuration(iv.NetMinutes))
			return nil
		},
	}

	registerDraftFlags(cmd, &d)
	return cmd
}

func newEntryRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a work entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			cur, ok := app.Workspace.FindInterval(id)
			if !ok {
				return fmt.Errorf("entry #%d: %w", id, store.ErrNotFound)
			}
			title := fmt.Sprintf("Delete entry #%d (%s, %s)?", id, timecalc.FormatDate(cur.Date), cur.EmployerName)
			if err := confirmDestructive(app, yes, title); err != nil {
				return err
			}
			if err := app.Workspace.RemoveInterval(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry #%d\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
