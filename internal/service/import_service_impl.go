package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/girder/internal/db"
	"github.com/alexanderramin/girder/internal/domain"
	"github.com/alexanderramin/girder/internal/importer"
	"github.com/alexanderramin/girder/internal/repository"
	"github.com/alexanderramin/girder/internal/scheduler"
)

type importService struct {
	schedules repository.ScheduleRepo
	nodes     repository.NodeRepo
	edges     repository.EdgeRepo
	engine    *scheduler.Engine
	uow       db.UnitOfWork
	observer  UseCaseObserver
}

func NewImportService(
	schedules repository.ScheduleRepo,
	nodes repository.NodeRepo,
	edges repository.EdgeRepo,
	engine *scheduler.Engine,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) ImportService {
	return &importService{
		schedules: schedules,
		nodes:     nodes,
		edges:     edges,
		engine:    engine,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	f, err := importer.LoadScheduleFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportSchedule(ctx, f)
}

func (s *importService) ImportSchedule(ctx context.Context, f *importer.ScheduleFile) (result *ImportResult, err error) {
	uc := startUseCase(s.observer, "import.schedule", map[string]any{"short_id": f.Schedule.ShortID})
	defer func() { uc.done(ctx, err) }()

	if errs := importer.ValidateScheduleFile(f); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	converted, err := importer.Convert(f)
	if err != nil {
		return nil, fmt.Errorf("converting schedule file: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteScheduleRepo(tx).Create(ctx, converted.Schedule); err != nil {
			return fmt.Errorf("creating schedule: %w", err)
		}
		txNodes := repository.NewSQLiteNodeRepo(tx)
		for _, n := range parentsFirst(converted.Nodes) {
			if err := txNodes.Create(ctx, n); err != nil {
				return fmt.Errorf("creating node %q: %w", n.Title, err)
			}
		}
		txEdges := repository.NewSQLiteEdgeRepo(tx)
		for _, e := range converted.Edges {
			if err := txEdges.Create(ctx, e); err != nil {
				return fmt.Errorf("creating edge: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	conflicts := s.engine.FindConflicts(converted.Graph())
	uc.fields["nodes"] = len(converted.Nodes)
	uc.fields["edges"] = len(converted.Edges)
	uc.fields["conflicts"] = len(conflicts)
	observeConflicts(s.observer, conflicts)

	return &ImportResult{
		Schedule:  converted.Schedule,
		NodeCount: len(converted.Nodes),
		EdgeCount: len(converted.Edges),
		Conflicts: conflicts,
	}, nil
}

func (s *importService) Export(ctx context.Context, scheduleID string) (*importer.ScheduleFile, error) {
	sched, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	g, err := loadGraph(ctx, s.nodes, s.edges, scheduleID)
	if err != nil {
		return nil, err
	}
	return importer.Export(sched, g), nil
}

// parentsFirst orders nodes so every parent precedes its children, keeping
// file order otherwise. Nodes whose parent is not in the list keep their
// place.
func parentsFirst(nodes []*domain.Node) []*domain.Node {
	present := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		present[n.ID] = true
	}
	placed := make(map[string]bool, len(nodes))
	out := make([]*domain.Node, 0, len(nodes))
	for len(out) < len(nodes) {
		progress := false
		for _, n := range nodes {
			if placed[n.ID] {
				continue
			}
			if n.ParentID != nil && present[*n.ParentID] && !placed[*n.ParentID] {
				continue
			}
			placed[n.ID] = true
			out = append(out, n)
			progress = true
		}
		if !progress {
			for _, n := range nodes {
				if !placed[n.ID] {
					out = append(out, n)
				}
			}
			break
		}
	}
	return out
}
