package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/girder/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newBaselineCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Capture and compare schedule baselines",
	}

	cmd.AddCommand(
		newBaselineSaveCmd(app),
		newBaselineListCmd(app),
		newBaselineDiffCmd(app),
		newBaselineRemoveCmd(app),
	)

	return cmd
}

func newBaselineSaveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "save NAME",
		Short: "Freeze the current dates under NAME",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, err := activeSchedule(ctx, cmd, app)
			if err != nil {
				return err
			}
			b, err := app.Baselines.Save(ctx, s.ID, args[0])
			if b != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved baseline %q with %s\n", b.Name, formatter.Plural(len(b.Entries), "entry", "entries"))
			}
			return err
		},
	}
}

func newBaselineListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved baselines",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, err := activeSchedule(ctx, cmd, app)
			if err != nil {
				return err
			}
			baselines, err := app.Baselines.List(ctx, s.ID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBaselineList(baselines))
			return nil
		},
	}
}

func newBaselineDiffCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "diff NAME",
		Short: "Compare the current plan with a baseline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, err := activeSchedule(ctx, cmd, app)
			if err != nil {
				return err
			}
			variances, err := app.Baselines.Diff(ctx, s.ID, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatVariance(args[0], variances))
			return nil
		},
	}
}

func newBaselineRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Delete a saved baseline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, err := activeSchedule(ctx, cmd, app)
			if err != nil {
				return err
			}
			if err := app.Baselines.Delete(ctx, s.ID, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed baseline %q\n", args[0])
			return nil
		},
	}
}
