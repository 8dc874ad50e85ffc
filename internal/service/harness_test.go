package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/girder/internal/db"
	"github.com/alexanderramin/girder/internal/domain"
	"github.com/alexanderramin/girder/internal/repository"
	"github.com/alexanderramin/girder/internal/scheduler"
	"github.com/alexanderramin/girder/internal/testutil"
	"github.com/stretchr/testify/require"
)

type harness struct {
	db        *sql.DB
	schedules *repository.SQLiteScheduleRepo
	nodes     *repository.SQLiteNodeRepo
	edges     *repository.SQLiteEdgeRepo
	baselines *repository.SQLiteBaselineRepo
	engine    *scheduler.Engine
	uow       db.UnitOfWork
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &harness{
		db:        database,
		schedules: repository.NewSQLiteScheduleRepo(database),
		nodes:     repository.NewSQLiteNodeRepo(database),
		edges:     repository.NewSQLiteEdgeRepo(database),
		baselines: repository.NewSQLiteBaselineRepo(database),
		engine:    scheduler.New(scheduler.DefaultSettings()),
		uow:       testutil.NewTestUoW(database),
	}
}

func (h *harness) seedSchedule(t *testing.T) *domain.Schedule {
	t.Helper()
	s := testutil.NewTestSchedule("Site")
	require.NoError(t, h.schedules.Create(context.Background(), s))
	return s
}

func (h *harness) seedNodes(t *testing.T, nodes ...*domain.Node) {
	t.Helper()
	for _, n := range nodes {
		require.NoError(t, h.nodes.Create(context.Background(), n))
	}
}

func (h *harness) link(t *testing.T, scheduleID, from, to string, typ domain.ConstraintType) *domain.Edge {
	t.Helper()
	e := testutil.NewTestEdge(scheduleID, from, to, typ)
	require.NoError(t, h.edges.Create(context.Background(), e))
	return e
}

func (h *harness) reload(t *testing.T, id string) *domain.Node {
	t.Helper()
	n, err := h.nodes.GetByID(context.Background(), id)
	require.NoError(t, err)
	return n
}

func (h *harness) nodeService(uow db.UnitOfWork, observers ...UseCaseObserver) NodeService {
	return NewNodeService(h.nodes, h.edges, h.engine, uow, observers...)
}

// recordingObserver keeps every use case and engine result it receives.
type recordingObserver struct {
	events       []UseCaseEvent
	propagations []scheduler.PropagationResult
	conflicts    [][]domain.Conflict
	paths        []scheduler.CriticalPathResult
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.events = append(r.events, e)
}

func (r *recordingObserver) ObservePropagation(res scheduler.PropagationResult) {
	r.propagations = append(r.propagations, res)
}

func (r *recordingObserver) ObserveConflicts(c []domain.Conflict) {
	r.conflicts = append(r.conflicts, c)
}

func (r *recordingObserver) ObserveCriticalPath(res scheduler.CriticalPathResult) {
	r.paths = append(r.paths, res)
}

func dayPtr(n int) *time.Time {
	d := testutil.Day(n)
	return &d
}
