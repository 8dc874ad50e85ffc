package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/girder/internal/db"
	"github.com/alexanderramin/girder/internal/domain"
	"github.com/alexanderramin/girder/internal/repository"
	"github.com/alexanderramin/girder/internal/scheduler"
	"github.com/google/uuid"
)

type nodeService struct {
	nodes    repository.NodeRepo
	edges    repository.EdgeRepo
	engine   *scheduler.Engine
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewNodeService(
	nodes repository.NodeRepo,
	edges repository.EdgeRepo,
	engine *scheduler.Engine,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) NodeService {
	return &nodeService{
		nodes:    nodes,
		edges:    edges,
		engine:   engine,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *nodeService) Create(ctx context.Context, n *domain.Node) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.IsTask() && n.Task.Status == "" {
		n.Task.Status = domain.TaskNotStarted
	}
	n.SetDates(n.Start, n.Due)
	if err := n.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()
	n.CreatedAt = now
	n.UpdatedAt = now

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txNodes := repository.NewSQLiteNodeRepo(tx)
		if err := checkReferences(ctx, txNodes, n); err != nil {
			return err
		}
		return txNodes.Create(ctx, n)
	})
}

func (s *nodeService) GetByID(ctx context.Context, id string) (*domain.Node, error) {
	return s.nodes.GetByID(ctx, id)
}

func (s *nodeService) ListBySchedule(ctx context.Context, scheduleID string) ([]*domain.Node, error) {
	return s.nodes.ListBySchedule(ctx, scheduleID)
}

func (s *nodeService) Update(ctx context.Context, n *domain.Node) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txNodes := repository.NewSQLiteNodeRepo(tx)
		stored, err := txNodes.GetByID(ctx, n.ID)
		if err != nil {
			return err
		}
		if stored.Kind != n.Kind {
			return fmt.Errorf("%w: cannot change %s %q into a %s", domain.ErrInvalidNode, stored.Kind, stored.Title, n.Kind)
		}
		n.ScheduleID = stored.ScheduleID
		n.Start, n.Due = stored.Start, stored.Due
		if n.IsTask() && n.HasDates() {
			n.SetDates(n.Start, n.Due)
		}
		if err := n.Validate(); err != nil {
			return err
		}
		if err := checkReferences(ctx, txNodes, n); err != nil {
			return err
		}
		n.UpdatedAt = time.Now().UTC()
		return txNodes.Update(ctx, n)
	})
}

func (s *nodeService) Delete(ctx context.Context, id string) (conflicts []domain.Conflict, err error) {
	uc := startUseCase(s.observer, "node.delete", map[string]any{"node_id": id})
	defer func() { uc.done(ctx, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txNodes := repository.NewSQLiteNodeRepo(tx)
		n, err := txNodes.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := txNodes.Delete(ctx, id); err != nil {
			return err
		}
		g, err := loadGraph(ctx, txNodes, repository.NewSQLiteEdgeRepo(tx), n.ScheduleID)
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

func (s *nodeService) SetDates(ctx context.Context, id string, start, due *time.Time) (res scheduler.PropagationResult, err error) {
	uc := startUseCase(s.observer, "node.set_dates", map[string]any{"node_id": id})
	defer func() { uc.done(ctx, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txNodes := repository.NewSQLiteNodeRepo(tx)
		n, err := txNodes.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if n.Kind == domain.NodePerson {
			return fmt.Errorf("%w: person %q cannot carry dates", domain.ErrInvalidNode, n.Title)
		}
		g, err := loadGraph(ctx, txNodes, repository.NewSQLiteEdgeRepo(tx), n.ScheduleID)
		if err != nil {
			return err
		}

		res = s.engine.Propagate(g, id, start, due)
		if err := res.Graph.Node(id).Validate(); err != nil {
			return err
		}
		return persistDates(ctx, txNodes, res.UpdatedNodes())
	})
	if err != nil {
		return scheduler.PropagationResult{}, err
	}

	uc.fields["updated"] = len(res.Updated)
	uc.fields["conflicts"] = len(res.Conflicts)
	uc.fields["aborted"] = len(res.Aborted)
	observePropagation(s.observer, res)
	return res, nil
}

func (s *nodeService) Assign(ctx context.Context, taskID, personID string) error {
	return s.editAssignees(ctx, taskID, func(task *domain.Node) error {
		if task.AssignedTo(personID) {
			return nil
		}
		task.Task.Assignees = append(task.Task.Assignees, personID)
		return nil
	})
}

func (s *nodeService) Unassign(ctx context.Context, taskID, personID string) error {
	return s.editAssignees(ctx, taskID, func(task *domain.Node) error {
		if !task.AssignedTo(personID) {
			return fmt.Errorf("%q is not assigned to %q: %w", personID, task.Title, repository.ErrNotFound)
		}
		kept := task.Task.Assignees[:0]
		for _, a := range task.Task.Assignees {
			if a != personID {
				kept = append(kept, a)
			}
		}
		task.Task.Assignees = kept
		return nil
	})
}

func (s *nodeService) editAssignees(ctx context.Context, taskID string, edit func(*domain.Node) error) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txNodes := repository.NewSQLiteNodeRepo(tx)
		task, err := txNodes.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if !task.IsTask() {
			return fmt.Errorf("%w: only tasks take assignees, %q is a %s", domain.ErrInvalidNode, task.Title, task.Kind)
		}
		if err := edit(task); err != nil {
			return err
		}
		if err := checkReferences(ctx, txNodes, task); err != nil {
			return err
		}
		task.UpdatedAt = time.Now().UTC()
		return txNodes.Update(ctx, task)
	})
}

// checkReferences verifies that n's parent and assignees live in n's
// schedule and have a kind they can play.
func checkReferences(ctx context.Context, nodes repository.NodeRepo, n *domain.Node) error {
	if n.ParentID != nil {
		parent, err := lookup(ctx, nodes, *n.ParentID, "parent")
		if err != nil {
			return err
		}
		if parent.ScheduleID != n.ScheduleID || parent.Kind == domain.NodePerson {
			return fmt.Errorf("%w: %q cannot be the parent of %q", domain.ErrInvalidNode, parent.Title, n.Title)
		}
	}
	if !n.IsTask() {
		return nil
	}
	for _, personID := range n.Task.Assignees {
		p, err := lookup(ctx, nodes, personID, "assignee")
		if err != nil {
			return err
		}
		if p.ScheduleID != n.ScheduleID || p.Kind != domain.NodePerson {
			return fmt.Errorf("%w: %q is not a person in this schedule", domain.ErrInvalidNode, p.Title)
		}
	}
	return nil
}

func lookup(ctx context.Context, nodes repository.NodeRepo, id, role string) (*domain.Node, error) {
	n, err := nodes.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%s %s: %w", role, id, repository.ErrNotFound)
	}
	return n, err
}
