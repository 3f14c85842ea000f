package cli

import (
	"fmt"

	"github.com/sadopc/workhours/internal/export"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		ff        filterFlags
		format    string
		dir       string
		statement string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export entries to CSV, JSON or a PDF statement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = app.ExportDir
			}
			path, err := runExport(app, ff, format, statement, dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
			return nil
		},
	}

	ff.register(cmd.Flags())
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Output format: csv, json or pdf")
	cmd.Flags().StringVar(&dir, "dir", "", "Directory to write into (default from WORKHOURS_EXPORT_DIR)")
	cmd.Flags().StringVar(&statement, "statement", "", "Write the PDF statement of one employer instead")

	return cmd
}

func runExport(app *App, ff filterFlags, format, statement, dir string) (string, error) {
	now := app.now()
	if statement != "" {
		e, ok := app.Workspace.FindEmployer(statement)
		if !ok {
			return "", fmt.Errorf("--statement: unknown employer %q", statement)
		}
		return export.SavePDF(export.EmployerStatement(e.Name, app.Workspace.Intervals(), now), dir)
	}

	f, err := ff.filter(app)
	if err != nil {
		return "", err
	}
	kind, err := export.ParseFormat(format)
	if err != nil {
		return "", err
	}
	return export.SaveFiltered(app.Workspace.Filtered(f), f, kind, dir, now)
}
