package service

import (
	"context"
	"time"

	"github.com/alexanderramin/girder/internal/domain"
	"github.com/alexanderramin/girder/internal/importer"
	"github.com/alexanderramin/girder/internal/scheduler"
)

type ScheduleService interface {
	Create(ctx context.Context, s *domain.Schedule) error
	GetByID(ctx context.Context, id string) (*domain.Schedule, error)
	// Resolve accepts a short id (BLD01) or a full UUID.
	Resolve(ctx context.Context, ref string) (*domain.Schedule, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Schedule, error)
	Update(ctx context.Context, s *domain.Schedule) error
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// NodeService edits nodes. Every date change goes through SetDates so the
// cascade is persisted with it.
type NodeService interface {
	Create(ctx context.Context, n *domain.Node) error
	GetByID(ctx context.Context, id string) (*domain.Node, error)
	ListBySchedule(ctx context.Context, scheduleID string) ([]*domain.Node, error)
	// Update writes everything except the dates, which are kept as stored.
	Update(ctx context.Context, n *domain.Node) error
	// Delete removes the node and returns the conflicts left behind.
	Delete(ctx context.Context, id string) ([]domain.Conflict, error)
	// SetDates moves a node (nil leaves a date untouched) and every node
	// downstream of it, in one transaction.
	SetDates(ctx context.Context, id string, start, due *time.Time) (scheduler.PropagationResult, error)
	Assign(ctx context.Context, taskID, personID string) error
	Unassign(ctx context.Context, taskID, personID string) error
}

type EdgeService interface {
	// Create adds the edge and propagates from its predecessor.
	Create(ctx context.Context, e *domain.Edge) (scheduler.PropagationResult, error)
	ListBySchedule(ctx context.Context, scheduleID string) ([]*domain.Edge, error)
	// Delete removes the edge and returns the conflicts left behind.
	Delete(ctx context.Context, id string) ([]domain.Conflict, error)
}

// PlanningService runs the engine over a stored schedule.
type PlanningService interface {
	Graph(ctx context.Context, scheduleID string) (*domain.Graph, error)
	Conflicts(ctx context.Context, scheduleID string) ([]domain.Conflict, error)
	CriticalPath(ctx context.Context, scheduleID string) (scheduler.CriticalPathResult, error)
	// AutoSchedule dates unscheduled tasks; with dryRun nothing is written.
	AutoSchedule(ctx context.Context, scheduleID string, dryRun bool) (scheduler.ScheduleResult, error)
	Workload(ctx context.Context, scheduleID, personID string) (scheduler.Workload, error)
	Rollups(ctx context.Context, scheduleID string) ([]domain.Rollup, error)
}

type BaselineService interface {
	Save(ctx context.Context, scheduleID, name string) (*domain.Baseline, error)
	List(ctx context.Context, scheduleID string) ([]*domain.Baseline, error)
	// Diff compares the current plan with a saved baseline. A baseline not
	// stored locally is fetched from the archive when one is configured.
	Diff(ctx context.Context, scheduleID, name string) ([]domain.Variance, error)
	Delete(ctx context.Context, scheduleID, name string) error
}

type ImportService interface {
	ImportFile(ctx context.Context, path string) (*ImportResult, error)
	ImportSchedule(ctx context.Context, f *importer.ScheduleFile) (*ImportResult, error)
	Export(ctx context.Context, scheduleID string) (*importer.ScheduleFile, error)
}

type ImportResult struct {
	Schedule  *domain.Schedule
	NodeCount int
	EdgeCount int
	Conflicts []domain.Conflict
}
