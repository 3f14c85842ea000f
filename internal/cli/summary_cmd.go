package cli

import (
	"fmt"
	"strconv"

	"github.com/sadopc/workhours/internal/timecalc"
	"github.com/spf13/cobra"
)

func newSummaryCmd(app *App) *cobra.Command {
	var ff filterFlags

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show total hours overall, filtered and per employer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ff.filter(app)
			if err != nil {
				return err
			}
			sum := app.Workspace.Summary(f)
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Overall:  %s\n", timecalc.FormatDuration(sum.Overall))
			if !f.IsZero() {
				fmt.Fprintf(out, "Filtered: %s\n", timecalc.FormatDuration(sum.Filtered))
			}
			if len(sum.ByEmployer) == 0 {
				return nil
			}

			rows := make([][]string, 0, len(sum.ByEmployer))
			for _, t := range sum.ByEmployer {
				rows = append(rows, []string{t.Employer, strconv.Itoa(t.Entries), timecalc.FormatDuration(t.Minutes)})
			}
			fmt.Fprintln(out)
			fmt.Fprint(out, renderTable([]string{"EMPLOYER", "ENTRIES", "TOTAL"}, rows))
			return nil
		},
	}

	ff.register(cmd.Flags())
	return cmd
}
