package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/girder/internal/domain"
)

type ScheduleRepo interface {
	Create(ctx context.Context, s *domain.Schedule) error
	GetByID(ctx context.Context, id string) (*domain.Schedule, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Schedule, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Schedule, error)
	Update(ctx context.Context, s *domain.Schedule) error
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// NodeRepo persists nodes together with their assignee lists.
type NodeRepo interface {
	Create(ctx context.Context, n *domain.Node) error
	GetByID(ctx context.Context, id string) (*domain.Node, error)
	ListBySchedule(ctx context.Context, scheduleID string) ([]*domain.Node, error)
	Update(ctx context.Context, n *domain.Node) error
	// UpdateDates writes only the date fields and derived duration.
	UpdateDates(ctx context.Context, id string, start, due *time.Time, durationDays *int) error
	Delete(ctx context.Context, id string) error
}

type EdgeRepo interface {
	Create(ctx context.Context, e *domain.Edge) error
	GetByID(ctx context.Context, id string) (*domain.Edge, error)
	ListBySchedule(ctx context.Context, scheduleID string) ([]*domain.Edge, error)
	Delete(ctx context.Context, id string) error
}

// BaselineRepo stores baselines alongside the schedule they belong to.
type BaselineRepo interface {
	Create(ctx context.Context, b *domain.Baseline) error
	GetByName(ctx context.Context, scheduleID, name string) (*domain.Baseline, error)
	ListBySchedule(ctx context.Context, scheduleID string) ([]*domain.Baseline, error)
	Delete(ctx context.Context, id string) error
}

// BaselineArchive is a shared, append-mostly store that baselines are
// published to so other sites can diff against them.
type BaselineArchive interface {
	Publish(ctx context.Context, b *domain.Baseline) error
	Fetch(ctx context.Context, scheduleID, name string) (*domain.Baseline, error)
}
