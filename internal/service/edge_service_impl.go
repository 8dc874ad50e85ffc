package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/girder/internal/db"
	"github.com/alexanderramin/girder/internal/domain"
	"github.com/alexanderramin/girder/internal/repository"
	"github.com/alexanderramin/girder/internal/scheduler"
	"github.com/google/uuid"
)

type edgeService struct {
	edges    repository.EdgeRepo
	engine   *scheduler.Engine
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewEdgeService(
	edges repository.EdgeRepo,
	engine *scheduler.Engine,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) EdgeService {
	return &edgeService{
		edges:    edges,
		engine:   engine,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Create stores the edge even when it closes a cycle; the cycle then shows
// up as a circular_dependency conflict and the propagation abort.
func (s *edgeService) Create(ctx context.Context, e *domain.Edge) (res scheduler.PropagationResult, err error) {
	uc := startUseCase(s.observer, "edge.create", map[string]any{"from": e.From, "to": e.To})
	defer func() { uc.done(ctx, err) }()

	if e.Type == "" {
		e.Type = domain.FinishToStart
	}
	if err = e.Validate(); err != nil {
		return scheduler.PropagationResult{}, err
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	e.CreatedAt = time.Now().UTC()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txNodes := repository.NewSQLiteNodeRepo(tx)
		txEdges := repository.NewSQLiteEdgeRepo(tx)

		from, err := lookup(ctx, txNodes, e.From, "predecessor")
		if err != nil {
			return err
		}
		to, err := lookup(ctx, txNodes, e.To, "dependent")
		if err != nil {
			return err
		}
		if from.ScheduleID != to.ScheduleID {
			return fmt.Errorf("%w: %q and %q belong to different schedules", domain.ErrInvalidEdge, from.Title, to.Title)
		}
		if from.Kind == domain.NodePerson || to.Kind == domain.NodePerson {
			return fmt.Errorf("%w: people cannot be linked by constraints", domain.ErrInvalidEdge)
		}
		e.ScheduleID = from.ScheduleID
		if err := txEdges.Create(ctx, e); err != nil {
			return err
		}

		g, err := loadGraph(ctx, txNodes, txEdges, e.ScheduleID)
		if err != nil {
			return err
		}
		res = s.engine.Propagate(g, e.From, nil, nil)
		return persistDates(ctx, txNodes, res.UpdatedNodes())
	})
	if err != nil {
		return scheduler.PropagationResult{}, err
	}

	uc.fields["updated"] = len(res.Updated)
	uc.fields["conflicts"] = len(res.Conflicts)
	observePropagation(s.observer, res)
	return res, nil
}

func (s *edgeService) ListBySchedule(ctx context.Context, scheduleID string) ([]*domain.Edge, error) {
	return s.edges.ListBySchedule(ctx, scheduleID)
}

// Delete never moves dates: losing a constraint only relaxes the plan.
func (s *edgeService) Delete(ctx context.Context, id string) (conflicts []domain.Conflict, err error) {
	uc := startUseCase(s.observer, "edge.delete", map[string]any{"edge_id": id})
	defer func() { uc.done(ctx, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txEdges := repository.NewSQLiteEdgeRepo(tx)
		e, err := txEdges.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := txEdges.Delete(ctx, id); err != nil {
			return err
		}
		g, err := loadGraph(ctx, repository.NewSQLiteNodeRepo(tx), txEdges, e.ScheduleID)
		if err != nil {
			return err
		}
		conflicts = s.engine.FindConflicts(g)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.fields["conflicts"] = len(conflicts)
	observeConflicts(s.observer, conflicts)
	return conflicts, nil
}
