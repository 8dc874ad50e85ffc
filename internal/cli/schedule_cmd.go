package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/girder/internal/cli/formatter"
	"github.com/alexanderramin/girder/internal/domain"
	"github.com/spf13/cobra"
)

func newScheduleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schedule",
		Aliases: []string{"sched"},
		Short:   "Manage schedules",
	}

	cmd.AddCommand(
		newScheduleCreateCmd(app),
		newScheduleListCmd(app),
		newScheduleArchiveCmd(app),
		newScheduleRemoveCmd(app),
	)

	return cmd
}

func newScheduleCreateCmd(app *App) *cobra.Command {
	var shortID, name, anchor string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			anchorDate, err := domain.ParseOptionalDate(anchor)
			if err != nil {
				return err
			}
			s := &domain.Schedule{
				ShortID:    strings.ToUpper(shortID),
				Name:       name,
				AnchorDate: anchorDate,
			}
			if err := app.Schedules.Create(context.Background(), s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created schedule %s [%s]\n", s.Name, s.ShortID)
			return nil
		},
	}

	cmd.Flags().StringVar(&shortID, "id", "", "Short ID (3-6 uppercase letters + 2-4 digits, e.g. BLD01)")
	cmd.Flags().StringVar(&name, "name", "", "Schedule name")
	cmd.Flags().StringVar(&anchor, "anchor", "", "Anchor date for unscheduled tasks (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newScheduleListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			schedules, err := app.Schedules.List(context.Background(), all)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatScheduleList(schedules))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include archived schedules")
	return cmd
}

func newScheduleArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive ID",
		Short: "Archive a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, err := app.Schedules.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.Schedules.Archive(ctx, s.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived schedule %s\n", s.DisplayID())
			return nil
		},
	}
}

func newScheduleRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Delete a schedule with all its nodes, dependencies and baselines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, err := app.Schedules.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.Schedules.Delete(ctx, s.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted schedule %s\n", s.DisplayID())
			return nil
		},
	}
}

// newStatusCmd prints the schedule summary box, deliverable progress and
// the conflict badge.
func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Summarise the active schedule",
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
			conflicts, err := app.Planning.Conflicts(ctx, s.ID)
			if err != nil {
				return err
			}
			rollups, err := app.Planning.Rollups(ctx, s.ID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.FormatScheduleSummary(s, g, len(conflicts)))
			if len(rollups) > 0 {
				fmt.Fprint(out, "\n"+formatter.FormatRollups(rollups))
			}
			return nil
		},
	}
}
