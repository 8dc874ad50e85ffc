package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alexanderramin/girder/internal/cli"
	"github.com/alexanderramin/girder/internal/config"
	"github.com/alexanderramin/girder/internal/db"
	"github.com/alexanderramin/girder/internal/metrics"
	"github.com/alexanderramin/girder/internal/repository"
	"github.com/alexanderramin/girder/internal/scheduler"
	"github.com/alexanderramin/girder/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	scheduleRepo := repository.NewSQLiteScheduleRepo(database)
	nodeRepo := repository.NewSQLiteNodeRepo(database)
	edgeRepo := repository.NewSQLiteEdgeRepo(database)
	baselineRepo := repository.NewSQLiteBaselineRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	engine := scheduler.New(cfg.Scheduler())
	m := metrics.New(prometheus.DefaultRegisterer)

	observers := []service.UseCaseObserver{service.NewMetricsUseCaseObserver(m)}
	if cfg.LogUseCases {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}
	observer := service.MultiUseCaseObserver(observers...)

	// The shared baseline archive is optional.
	var archive repository.BaselineArchive
	if cfg.PgURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		pg, err := repository.OpenPgBaselineArchive(ctx, cfg.PgURL)
		cancel()
		if err != nil {
			logger.Warn("baseline archive unavailable, keeping baselines local", "error", err)
		} else {
			defer pg.Close()
			archive = pg
		}
	}

	app := &cli.App{
		Schedules: service.NewScheduleService(scheduleRepo),
		Nodes:     service.NewNodeService(nodeRepo, edgeRepo, engine, uow, observer),
		Edges:     service.NewEdgeService(edgeRepo, engine, uow, observer),
		Planning:  service.NewPlanningService(engine, uow, observer),
		Baselines: service.NewBaselineService(baselineRepo, nodeRepo, edgeRepo, archive, observer),
		Import:    service.NewImportService(scheduleRepo, nodeRepo, edgeRepo, engine, uow, observer),

		Engine:   engine,
		Config:   cfg,
		Logger:   logger,
		Metrics:  m,
		Gatherer: prometheus.DefaultGatherer,
	}

	// Forms are only offered on a terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
