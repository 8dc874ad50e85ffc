package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/girder/internal/domain"
	"github.com/alexanderramin/girder/internal/repository"
	"github.com/google/uuid"
)

type baselineService struct {
	baselines repository.BaselineRepo
	nodes     repository.NodeRepo
	edges     repository.EdgeRepo
	// archive is optional; nil keeps baselines local.
	archive  repository.BaselineArchive
	observer UseCaseObserver
}

func NewBaselineService(
	baselines repository.BaselineRepo,
	nodes repository.NodeRepo,
	edges repository.EdgeRepo,
	archive repository.BaselineArchive,
	observers ...UseCaseObserver,
) BaselineService {
	return &baselineService{
		baselines: baselines,
		nodes:     nodes,
		edges:     edges,
		archive:   archive,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// Save snapshots the current dates. When an archive is configured the
// baseline is also published to it; a publish failure is returned but the
// local copy is kept.
func (s *baselineService) Save(ctx context.Context, scheduleID, name string) (b *domain.Baseline, err error) {
	uc := startUseCase(s.observer, "baseline.save", map[string]any{"schedule_id": scheduleID, "name": name})
	defer func() { uc.done(ctx, err) }()

	if name == "" {
		return nil, fmt.Errorf("baseline name is required")
	}
	g, err := loadGraph(ctx, s.nodes, s.edges, scheduleID)
	if err != nil {
		return nil, err
	}
	b = &domain.Baseline{
		ID:         uuid.New().String(),
		ScheduleID: scheduleID,
		Name:       name,
		CapturedAt: time.Now().UTC(),
		Entries:    domain.CaptureEntries(g),
	}
	if err = s.baselines.Create(ctx, b); err != nil {
		return nil, err
	}
	uc.fields["entries"] = len(b.Entries)

	if s.archive != nil {
		if err = s.archive.Publish(ctx, b); err != nil {
			return b, fmt.Errorf("baseline %q saved locally but not archived: %w", name, err)
		}
		uc.fields["archived"] = true
	}
	return b, nil
}

func (s *baselineService) List(ctx context.Context, scheduleID string) ([]*domain.Baseline, error) {
	return s.baselines.ListBySchedule(ctx, scheduleID)
}

func (s *baselineService) Diff(ctx context.Context, scheduleID, name string) ([]domain.Variance, error) {
	b, err := s.find(ctx, scheduleID, name)
	if err != nil {
		return nil, err
	}
	g, err := loadGraph(ctx, s.nodes, s.edges, scheduleID)
	if err != nil {
		return nil, err
	}
	return domain.CompareBaseline(b, g), nil
}

func (s *baselineService) Delete(ctx context.Context, scheduleID, name string) error {
	b, err := s.baselines.GetByName(ctx, scheduleID, name)
	if err != nil {
		return err
	}
	return s.baselines.Delete(ctx, b.ID)
}

func (s *baselineService) find(ctx context.Context, scheduleID, name string) (*domain.Baseline, error) {
	b, err := s.baselines.GetByName(ctx, scheduleID, name)
	if err == nil || !errors.Is(err, repository.ErrNotFound) || s.archive == nil {
		return b, err
	}
	return s.archive.Fetch(ctx, scheduleID, name)
}
