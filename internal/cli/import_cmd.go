package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/girder/internal/cli/formatter"
	"github.com/alexanderramin/girder/internal/importer"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Create a schedule from a JSON, YAML or HCL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if check {
				f, err := importer.LoadScheduleFile(args[0])
				if err != nil {
					return err
				}
				if errs := importer.ValidateScheduleFile(f); len(errs) > 0 {
					for _, e := range errs {
						fmt.Fprintln(out, formatter.StyleRed.Render("✗ ")+e.Error())
					}
					return fmt.Errorf("%s: %s", args[0], formatter.Plural(len(errs), "problem", "problems"))
				}
				fmt.Fprintf(out, "%s %s is valid (%s, %s)\n", formatter.StyleGreen.Render("✓"), args[0],
					formatter.Plural(len(f.Nodes)+len(f.People), "node", "nodes"),
					formatter.Plural(len(f.Edges), "dependency", "dependencies"))
				return nil
			}

			res, err := app.Import.ImportFile(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Imported schedule %s [%s]: %s, %s\n",
				res.Schedule.Name, res.Schedule.ShortID,
				formatter.Plural(res.NodeCount, "node", "nodes"),
				formatter.Plural(res.EdgeCount, "dependency", "dependencies"))
			if len(res.Conflicts) > 0 {
				fmt.Fprint(out, "\n"+formatter.FormatConflicts(res.Conflicts))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Validate the file without importing it")
	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	format := &formatFlag{value: importer.FormatYAML}
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the active schedule as JSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, err := activeSchedule(ctx, cmd, app)
			if err != nil {
				return err
			}
			f, err := app.Import.Export(ctx, s.ID)
			if err != nil {
				return err
			}
			data, err := importer.Encode(f, format.value)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", s.DisplayID(), output)
			return nil
		},
	}

	cmd.Flags().Var(format, "format", "Output format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}
