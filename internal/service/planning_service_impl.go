package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/girder/internal/db"
	"github.com/alexanderramin/girder/internal/domain"
	"github.com/alexanderramin/girder/internal/repository"
	"github.com/alexanderramin/girder/internal/scheduler"
)

type planningService struct {
	engine   *scheduler.Engine
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewPlanningService(
	engine *scheduler.Engine,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) PlanningService {
	return &planningService{
		engine:   engine,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *planningService) Graph(ctx context.Context, scheduleID string) (g *domain.Graph, err error) {
	err = s.uow.WithinSnapshot(ctx, func(ctx context.Context, tx db.DBTX) error {
		g, err = loadGraph(ctx, repository.NewSQLiteNodeRepo(tx), repository.NewSQLiteEdgeRepo(tx), scheduleID)
		return err
	})
	return g, err
}

// Conflicts evaluates the stored graph. Edge Blocked flags on the returned
// conflicts' edges are set on this evaluation only.
func (s *planningService) Conflicts(ctx context.Context, scheduleID string) (conflicts []domain.Conflict, err error) {
	uc := startUseCase(s.observer, "planning.conflicts", map[string]any{"schedule_id": scheduleID})
	defer func() { uc.done(ctx, err) }()

	g, err := s.Graph(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	conflicts = s.engine.FindConflicts(g)
	uc.fields["conflicts"] = len(conflicts)
	observeConflicts(s.observer, conflicts)
	return conflicts, nil
}

func (s *planningService) CriticalPath(ctx context.Context, scheduleID string) (res scheduler.CriticalPathResult, err error) {
	uc := startUseCase(s.observer, "planning.critical_path", map[string]any{"schedule_id": scheduleID})
	defer func() { uc.done(ctx, err) }()

	g, err := s.Graph(ctx, scheduleID)
	if err != nil {
		return scheduler.CriticalPathResult{}, err
	}
	res = s.engine.CriticalPath(g)
	uc.fields["total_days"] = res.TotalDays
	uc.fields["cycles"] = len(res.Cycles)
	observeCriticalPath(s.observer, res)
	return res, nil
}

func (s *planningService) AutoSchedule(ctx context.Context, scheduleID string, dryRun bool) (res scheduler.ScheduleResult, err error) {
	uc := startUseCase(s.observer, "planning.autoschedule", map[string]any{
		"schedule_id": scheduleID,
		"dry_run":     dryRun,
	})
	defer func() { uc.done(ctx, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txNodes := repository.NewSQLiteNodeRepo(tx)
		g, err := loadGraph(ctx, txNodes, repository.NewSQLiteEdgeRepo(tx), scheduleID)
		if err != nil {
			return err
		}
		res = s.engine.AutoSchedule(g)
		if dryRun {
			return nil
		}
		changed := make([]*domain.Node, 0, len(res.Updated))
		for _, id := range res.Updated {
			changed = append(changed, res.Graph.Node(id))
		}
		return persistDates(ctx, txNodes, changed)
	})
	if err != nil {
		return scheduler.ScheduleResult{}, err
	}
	uc.fields["updated"] = len(res.Updated)
	uc.fields["conflicts"] = len(res.Conflicts)
	observeConflicts(s.observer, res.Conflicts)
	return res, nil
}

func (s *planningService) Workload(ctx context.Context, scheduleID, personID string) (scheduler.Workload, error) {
	g, err := s.Graph(ctx, scheduleID)
	if err != nil {
		return scheduler.Workload{}, err
	}
	p := g.Node(personID)
	if p == nil || p.Kind != domain.NodePerson {
		return scheduler.Workload{}, fmt.Errorf("person %s: %w", personID, repository.ErrNotFound)
	}
	return s.engine.PersonWorkload(personID, g), nil
}

func (s *planningService) Rollups(ctx context.Context, scheduleID string) ([]domain.Rollup, error) {
	g, err := s.Graph(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	return domain.Rollups(g), nil
}
