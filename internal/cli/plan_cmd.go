package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/girder/internal/cli/formatter"
	"github.com/alexanderramin/girder/internal/domain"
	"github.com/spf13/cobra"
)

func newConflictsCmd(app *App) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "List scheduling conflicts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, err := activeSchedule(ctx, cmd, app)
			if err != nil {
				return err
			}
			conflicts, err := app.Planning.Conflicts(ctx, s.ID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatConflicts(conflicts))
			if strict && hasErrors(conflicts) {
				return fmt.Errorf("schedule %s has error-severity conflicts", s.DisplayID())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when an error-severity conflict exists")
	return cmd
}

func hasErrors(conflicts []domain.Conflict) bool {
	for _, c := range conflicts {
		if c.Severity == domain.SeverityError {
			return true
		}
	}
	return false
}

func newCriticalCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "critical",
		Short: "Show the critical path",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, err := activeSchedule(ctx, cmd, app)
			if err != nil {
				return err
			}
			g, err := scheduleGraph(ctx, app, s)
			if err != nil {
				return err
			}
			res, err := app.Planning.CriticalPath(ctx, s.ID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCriticalPath(g, res))
			return nil
		},
	}
}

func newAutoScheduleCmd(app *App) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "autoschedule",
		Short: "Date every unscheduled task from its predecessors",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, err := activeSchedule(ctx, cmd, app)
			if err != nil {
				return err
			}
			g, err := scheduleGraph(ctx, app, s)
			if err != nil {
				return err
			}
			res, err := app.Planning.AutoSchedule(ctx, s.ID, dryRun)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAutoSchedule(g, res, dryRun))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the result without saving it")
	return cmd
}

func newWorkloadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "workload [PERSON]",
		Short: "Show assigned hours per person",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, err := activeSchedule(ctx, cmd, app)
			if err != nil {
				return err
			}
			g, err := scheduleGraph(ctx, app, s)
			if err != nil {
				return err
			}

			var people []*domain.Node
			if len(args) == 1 {
				p, err := resolveNode(g, args[0])
				if err != nil {
					return err
				}
				people = append(people, p)
			} else {
				for _, n := range g.Nodes {
					if n.Kind == domain.NodePerson {
						people = append(people, n)
					}
				}
			}
			if len(people) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No people in this schedule."))
				return nil
			}

			limit := app.engine().Settings().WeeklyHourLimit
			for _, p := range people {
				w, err := app.Planning.Workload(ctx, s.ID, p.ID)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWorkload(g, w, limit))
			}
			return nil
		},
	}
}

func newProgressCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show deliverable progress rolled up from child tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, err := activeSchedule(ctx, cmd, app)
			if err != nil {
				return err
			}
			rollups, err := app.Planning.Rollups(ctx, s.ID)
			if err != nil {
				return err
			}
			if len(rollups) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No deliverables in this schedule."))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRollups(rollups))
			return nil
		},
	}
}
