package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alexanderramin/girder/internal/config"
	"github.com/alexanderramin/girder/internal/domain"
	"github.com/alexanderramin/girder/internal/metrics"
	"github.com/alexanderramin/girder/internal/scheduler"
	"github.com/alexanderramin/girder/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Schedules service.ScheduleService
	Nodes     service.NodeService
	Edges     service.EdgeService
	Planning  service.PlanningService
	Baselines service.BaselineService
	Import    service.ImportService

	// Engine evaluates schedule files that are not stored (girder watch).
	Engine  *scheduler.Engine
	Config  config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	// Gatherer backs the /metrics endpoint of girder watch.
	Gatherer prometheus.Gatherer

	// IsInteractive reports whether stdin is a terminal. Forms are only
	// offered when it returns true.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "girder" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "girder",
		Short:         "Dependency-driven construction scheduler",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("schedule", "s", "", "Schedule short ID or UUID (default from config or GIRDER_SCHEDULE)")

	root.AddCommand(
		newScheduleCmd(app),
		newNodeCmd(app),
		newEdgeCmd(app),
		newStatusCmd(app),
		newConflictsCmd(app),
		newCriticalCmd(app),
		newAutoScheduleCmd(app),
		newWorkloadCmd(app),
		newProgressCmd(app),
		newBaselineCmd(app),
		newImportCmd(app),
		newExportCmd(app),
		newWatchCmd(app),
		newBoardCmd(app),
	)

	return root
}

// activeSchedule resolves --schedule, falling back to the configured
// default schedule.
func activeSchedule(ctx context.Context, cmd *cobra.Command, app *App) (*domain.Schedule, error) {
	ref := ""
	if f := cmd.Flag("schedule"); f != nil {
		ref = f.Value.String()
	}
	if ref == "" {
		ref = app.Config.Schedule
	}
	if ref == "" {
		return nil, fmt.Errorf("no schedule selected: pass --schedule or set GIRDER_SCHEDULE")
	}
	return app.Schedules.Resolve(ctx, ref)
}

func (app *App) logger() *slog.Logger {
	if app.Logger != nil {
		return app.Logger
	}
	return slog.Default()
}

func (app *App) interactive() bool {
	return app.IsInteractive != nil && app.IsInteractive()
}

func (app *App) engine() *scheduler.Engine {
	if app.Engine != nil {
		return app.Engine
	}
	return scheduler.New(app.Config.Scheduler())
}
