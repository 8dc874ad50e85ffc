package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/girder/internal/cli/formatter"
	"github.com/alexanderramin/girder/internal/domain"
	"github.com/spf13/cobra"
)

func newEdgeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edge",
		Aliases: []string{"dep"},
		Short:   "Manage dependencies between nodes",
	}

	cmd.AddCommand(
		newEdgeAddCmd(app),
		newEdgeListCmd(app),
		newEdgeRemoveCmd(app),
	)

	return cmd
}

func newEdgeAddCmd(app *App) *cobra.Command {
	ctype := newConstraintFlag()
	var blocked bool

	cmd := &cobra.Command{
		Use:   "add PREDECESSOR DEPENDENT",
		Short: "Make DEPENDENT wait on PREDECESSOR",
		Long: "Add a dependency and propagate the predecessor's dates downstream.\n" +
			"An edge that closes a cycle is stored and reported as a conflict.",
		Args: cobra.ExactArgs(2),
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
			from, err := resolveNode(g, args[0])
			if err != nil {
				return err
			}
			to, err := resolveNode(g, args[1])
			if err != nil {
				return err
			}

			e := &domain.Edge{
				ScheduleID: s.ID,
				From:       from.ID,
				To:         to.ID,
				Type:       ctype.value,
				Blocked:    blocked,
			}
			res, err := app.Edges.Create(ctx, e)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Linked %q %s %q [%s]\n", from.Title, ctype.value.Short(), to.Title, formatter.ShortID(e.ID))
			fmt.Fprint(out, formatter.FormatPropagation(g, res))
			return nil
		},
	}

	cmd.Flags().Var(ctype, "type", "Constraint type: FS, SS or FF")
	cmd.Flags().BoolVar(&blocked, "blocked", false, "Mark the dependency as blocked")

	return cmd
}

func newEdgeListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List dependencies of the active schedule",
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
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEdgeList(g))
			return nil
		},
	}
}

func newEdgeRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove EDGE",
		Short: "Delete a dependency (dates stay where they are)",
		Args:  cobra.ExactArgs(1),
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
			e, err := resolveEdge(g, args[0])
			if err != nil {
				return err
			}
			conflicts, err := app.Edges.Delete(ctx, e.ID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Removed dependency %q → %q\n", formatter.TitleOf(g, e.From), formatter.TitleOf(g, e.To))
			fmt.Fprint(out, formatter.FormatConflicts(conflicts))
			return nil
		},
	}
}
