package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/girder/internal/cli/formatter"
	"github.com/alexanderramin/girder/internal/domain"
	"github.com/spf13/cobra"
)

func newNodeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Manage tasks, milestones, deliverables and people",
	}

	cmd.AddCommand(
		newNodeAddCmd(app),
		newNodeListCmd(app),
		newNodeShowCmd(app),
		newNodeUpdateCmd(app),
		newNodeDatesCmd(app),
		newNodeRemoveCmd(app),
		newNodeAssignCmd(app),
		newNodeUnassignCmd(app),
	)

	return cmd
}

func newNodeAddCmd(app *App) *cobra.Command {
	var (
		title, parent, start, due string
		duration, percent         int
		assignees                 []string
		kind                      = &kindFlag{value: domain.NodeTask}
		status                    = &statusFlag{value: domain.TaskNotStarted}
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a node to the active schedule",
		Long: "Add a node to the active schedule. Without --title on an interactive\n" +
			"terminal a form asks for the node's fields.",
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

			var n *domain.Node
			if title == "" && app.interactive() {
				values := &nodeFormValues{Kind: string(kind.value)}
				if err := nodeForm(values).Run(); err != nil {
					return err
				}
				if n, err = values.node(s.ID); err != nil {
					return err
				}
			} else {
				n = newNodeOfKind(kind.value, title)
				n.ScheduleID = s.ID
				if n.Kind != domain.NodePerson {
					if n.Start, err = domain.ParseOptionalDate(start); err != nil {
						return err
					}
					if n.Due, err = domain.ParseOptionalDate(due); err != nil {
						return err
					}
				}
				if n.IsTask() {
					n.Task.Status = status.value
					n.Task.PercentComplete = percent
					if cmd.Flags().Changed("duration") {
						n.Task.DurationDays = &duration
					}
				}
			}

			if parent != "" {
				p, err := resolveNode(g, parent)
				if err != nil {
					return err
				}
				n.ParentID = &p.ID
			}
			if len(assignees) > 0 {
				if !n.IsTask() {
					return fmt.Errorf("only tasks take assignees")
				}
				for _, ref := range assignees {
					p, err := resolveNode(g, ref)
					if err != nil {
						return err
					}
					n.Task.Assignees = append(n.Task.Assignees, p.ID)
				}
			}

			if err := app.Nodes.Create(ctx, n); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %q [%s]\n", n.Kind, n.Title, formatter.ShortID(n.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Node title")
	cmd.Flags().Var(kind, "kind", "Node kind: task, milestone, deliverable, person")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent deliverable or node (title or ID)")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&duration, "duration", 0, "Duration in days, used when a date is missing")
	cmd.Flags().Var(status, "status", "Task status")
	cmd.Flags().IntVar(&percent, "percent", 0, "Task percent complete (0-100)")
	cmd.Flags().StringSliceVar(&assignees, "assign", nil, "Person to assign (title or ID, repeatable)")

	return cmd
}

func newNodeListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the nodes of the active schedule",
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
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatNodeList(g))
			return nil
		},
	}
}

func newNodeShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show NODE",
		Short: "Show a node with its relations",
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
			n, err := resolveNode(g, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatNodeDetail(g, n))
			return nil
		},
	}
}

func newNodeUpdateCmd(app *App) *cobra.Command {
	var (
		title, parent     string
		duration, percent int
		status            = &statusFlag{}
	)

	cmd := &cobra.Command{
		Use:   "update NODE",
		Short: "Update a node's fields (use 'node dates' to move it)",
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
			n, err := resolveNode(g, args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("title") {
				n.Title = title
			}
			if flags.Changed("parent") {
				if parent == "" {
					n.ParentID = nil
				} else {
					p, err := resolveNode(g, parent)
					if err != nil {
						return err
					}
					n.ParentID = &p.ID
				}
			}
			if flags.Changed("status") || flags.Changed("percent") || flags.Changed("duration") {
				if !n.IsTask() {
					return fmt.Errorf("--status, --percent and --duration apply to tasks only")
				}
			}
			if flags.Changed("status") {
				n.Task.Status = status.value
			}
			if flags.Changed("percent") {
				n.Task.PercentComplete = percent
			}
			if flags.Changed("duration") {
				n.Task.DurationDays = &duration
			}

			if err := app.Nodes.Update(ctx, n); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %q\n", n.Kind, n.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&parent, "parent", "", "New parent (title or ID, empty to clear)")
	cmd.Flags().Var(status, "status", "Task status")
	cmd.Flags().IntVar(&percent, "percent", 0, "Task percent complete (0-100)")
	cmd.Flags().IntVar(&duration, "duration", 0, "Duration in days")

	return cmd
}

func newNodeDatesCmd(app *App) *cobra.Command {
	var start, due string

	cmd := &cobra.Command{
		Use:   "dates NODE",
		Short: "Move a node and cascade the change to its dependents",
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
			n, err := resolveNode(g, args[0])
			if err != nil {
				return err
			}
			if start == "" && due == "" {
				return fmt.Errorf("pass --start, --due or both")
			}
			startDate, err := domain.ParseOptionalDate(start)
			if err != nil {
				return err
			}
			dueDate, err := domain.ParseOptionalDate(due)
			if err != nil {
				return err
			}

			res, err := app.Nodes.SetDates(ctx, n.ID, startDate, dueDate)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPropagation(g, res))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "New start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&due, "due", "", "New due date (YYYY-MM-DD)")

	return cmd
}

func newNodeRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove NODE",
		Short: "Delete a node and its dependencies",
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
			n, err := resolveNode(g, args[0])
			if err != nil {
				return err
			}
			conflicts, err := app.Nodes.Delete(ctx, n.ID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Removed %s %q\n", n.Kind, n.Title)
			if len(conflicts) > 0 {
				fmt.Fprint(out, "\n"+formatter.FormatConflicts(conflicts))
			}
			return nil
		},
	}
}

func newNodeAssignCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "assign TASK PERSON",
		Short: "Assign a person to a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editAssignment(cmd, app, args, true)
		},
	}
}

func newNodeUnassignCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unassign TASK PERSON",
		Short: "Remove a person from a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editAssignment(cmd, app, args, false)
		},
	}
}

func editAssignment(cmd *cobra.Command, app *App, args []string, assign bool) error {
	ctx := context.Background()
	s, err := activeSchedule(ctx, cmd, app)
	if err != nil {
		return err
	}
	g, err := scheduleGraph(ctx, app, s)
	if err != nil {
		return err
	}
	task, err := resolveNode(g, args[0])
	if err != nil {
		return err
	}
	person, err := resolveNode(g, args[1])
	if err != nil {
		return err
	}

	if assign {
		if err := app.Nodes.Assign(ctx, task.ID, person.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Assigned %s to %q\n", person.Title, task.Title)
	} else {
		if err := app.Nodes.Unassign(ctx, task.ID, person.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Unassigned %s from %q\n", person.Title, task.Title)
	}

	conflicts, err := app.Planning.Conflicts(ctx, s.ID)
	if err != nil {
		return err
	}
	for _, c := range conflicts {
		if c.Kind == domain.ConflictOverAllocation {
			fmt.Fprintln(cmd.OutOrStdout(), formatter.SeverityIndicator(c.Severity)+"  "+c.Message)
		}
	}
	return nil
}
