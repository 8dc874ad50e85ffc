package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/alexanderramin/girder/internal/config"
	"github.com/alexanderramin/girder/internal/domain"
	"github.com/alexanderramin/girder/internal/metrics"
	"github.com/alexanderramin/girder/internal/repository"
	"github.com/alexanderramin/girder/internal/scheduler"
	"github.com/alexanderramin/girder/internal/service"
	"github.com/alexanderramin/girder/internal/testutil"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	schedRepo := repository.NewSQLiteScheduleRepo(database)
	nodeRepo := repository.NewSQLiteNodeRepo(database)
	edgeRepo := repository.NewSQLiteEdgeRepo(database)
	baselineRepo := repository.NewSQLiteBaselineRepo(database)

	cfg := config.Default()
	engine := scheduler.New(cfg.Scheduler())
	return &App{
		Schedules: service.NewScheduleService(schedRepo),
		Nodes:     service.NewNodeService(nodeRepo, edgeRepo, engine, uow),
		Edges:     service.NewEdgeService(edgeRepo, engine, uow),
		Planning:  service.NewPlanningService(engine, uow),
		Baselines: service.NewBaselineService(baselineRepo, nodeRepo, edgeRepo, nil),
		Import:    service.NewImportService(schedRepo, nodeRepo, edgeRepo, engine, uow),
		Engine:    engine,
		Config:    cfg,
	}
}

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return ansi.ReplaceAllString(buf.String(), ""), err
}

func mustExec(t *testing.T, app *App, args ...string) string {
	t.Helper()
	out, err := executeCmd(t, app, args...)
	require.NoError(t, err, out)
	return out
}

// seedSite creates schedule SITE01 with Dig (dated) → Pour (2 days, undated)
// and a person Ana assigned to Dig.
func seedSite(t *testing.T, app *App) *domain.Schedule {
	t.Helper()
	mustExec(t, app, "schedule", "create", "--id", "SITE01", "--name", "Site", "--anchor", "2025-03-03")
	app.Config.Schedule = "SITE01"
	mustExec(t, app, "node", "add", "--kind", "person", "--title", "Ana")
	mustExec(t, app, "node", "add", "--title", "Dig", "--start", "2025-03-03", "--due", "2025-03-06", "--assign", "Ana")
	mustExec(t, app, "node", "add", "--title", "Pour", "--duration", "2")
	s, err := app.Schedules.Resolve(context.Background(), "SITE01")
	require.NoError(t, err)
	return s
}

func graphOf(t *testing.T, app *App, s *domain.Schedule) *domain.Graph {
	t.Helper()
	g, err := app.Planning.Graph(context.Background(), s.ID)
	require.NoError(t, err)
	return g
}

func nodeTitled(t *testing.T, g *domain.Graph, title string) *domain.Node {
	t.Helper()
	n, err := resolveNode(g, title)
	require.NoError(t, err)
	return n
}

func TestScheduleCreateAndList(t *testing.T) {
	app := testApp(t)

	out := mustExec(t, app, "schedule", "create", "--id", "twr01", "--name", "Tower")
	assert.Contains(t, out, "Created schedule Tower [TWR01]")

	out = mustExec(t, app, "schedule", "list")
	assert.Regexp(t, `TWR01\s+Tower`, out)

	_, err := executeCmd(t, app, "schedule", "create", "--id", "bad", "--name", "X")
	assert.ErrorIs(t, err, domain.ErrInvalidSchedule)
}

func TestScheduleArchiveHidesFromList(t *testing.T) {
	app := testApp(t)
	seedSite(t, app)

	mustExec(t, app, "schedule", "archive", "SITE01")
	assert.NotContains(t, mustExec(t, app, "schedule", "list"), "SITE01")
	assert.Contains(t, mustExec(t, app, "schedule", "list", "--all"), "archived")
}

func TestActiveSchedule_Required(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "node", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no schedule selected")
}

func TestScheduleFlagOverridesConfig(t *testing.T) {
	app := testApp(t)
	seedSite(t, app)
	mustExec(t, app, "schedule", "create", "--id", "OTHER01", "--name", "Other")

	out := mustExec(t, app, "--schedule", "OTHER01", "node", "list")
	assert.Contains(t, out, "No nodes")
	assert.Contains(t, mustExec(t, app, "node", "list"), "Dig")
}

func TestNodeAdd_ListAndShow(t *testing.T) {
	app := testApp(t)
	seedSite(t, app)

	out := mustExec(t, app, "node", "list")
	assert.Regexp(t, `Dig\s+2025-03-03 → 2025-03-06 \(3d\)\s+not started\s+Ana`, out)
	assert.Contains(t, out, "— → — (2d)")

	out = mustExec(t, app, "node", "show", "dig")
	assert.Contains(t, out, "assignee: Ana")
}

func TestNodeAdd_RejectsAssigningNonPerson(t *testing.T) {
	app := testApp(t)
	seedSite(t, app)

	_, err := executeCmd(t, app, "node", "add", "--title", "Frame", "--assign", "Dig")
	require.Error(t, err)
}

func TestNodeAdd_UnknownKind(t *testing.T) {
	app := testApp(t)
	seedSite(t, app)

	_, err := executeCmd(t, app, "node", "add", "--title", "X", "--kind", "phase")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown node kind")
}

func TestEdgeAdd_PropagatesAndPersists(t *testing.T) {
	app := testApp(t)
	s := seedSite(t, app)

	out := mustExec(t, app, "edge", "add", "Dig", "Pour", "--type", "fs")
	assert.Contains(t, out, `Linked "Dig" FS "Pour"`)
	assert.Contains(t, out, "UPDATED 1 NODE")

	pour := nodeTitled(t, graphOf(t, app, s), "Pour")
	require.True(t, pour.HasDates())
	assert.Equal(t, testutil.Day(4), *pour.Start)
	assert.Equal(t, testutil.Day(6), *pour.Due)

	assert.Regexp(t, `Dig\s+FS\s+Pour`, mustExec(t, app, "edge", "list"))
}

func TestEdgeAdd_CycleIsStoredAndReported(t *testing.T) {
	app := testApp(t)
	seedSite(t, app)
	mustExec(t, app, "edge", "add", "Dig", "Pour")

	out := mustExec(t, app, "edge", "add", "Pour", "Dig")
	assert.Contains(t, out, "cycle through node")

	out, err := executeCmd(t, app, "conflicts", "--strict")
	require.Error(t, err)
	assert.Contains(t, out, "Circular dependency: Dig → Pour → Dig")

	out = mustExec(t, app, "critical")
	assert.Contains(t, out, "Critical path undefined")
}

func TestEdgeRemove_KeepsDates(t *testing.T) {
	app := testApp(t)
	s := seedSite(t, app)
	mustExec(t, app, "edge", "add", "Dig", "Pour")
	e := graphOf(t, app, s).Edges[0]

	out := mustExec(t, app, "edge", "remove", e.ID[:8])
	assert.Contains(t, out, `Removed dependency "Dig" → "Pour"`)

	g := graphOf(t, app, s)
	assert.Empty(t, g.Edges)
	assert.Equal(t, testutil.Day(4), *nodeTitled(t, g, "Pour").Start)
}

func TestNodeDates_Cascades(t *testing.T) {
	app := testApp(t)
	s := seedSite(t, app)
	mustExec(t, app, "edge", "add", "Dig", "Pour")

	out := mustExec(t, app, "node", "dates", "Dig", "--due", "2025-03-10")
	assert.Contains(t, out, "UPDATED 2 NODES")

	pour := nodeTitled(t, graphOf(t, app, s), "Pour")
	assert.Equal(t, testutil.Day(8), *pour.Start)

	_, err := executeCmd(t, app, "node", "dates", "Dig")
	require.Error(t, err)
	_, err = executeCmd(t, app, "node", "dates", "Ana", "--start", "2025-03-03")
	require.Error(t, err)
}

func TestNodeUpdate_OnlyChangedFields(t *testing.T) {
	app := testApp(t)
	s := seedSite(t, app)

	mustExec(t, app, "node", "update", "Dig", "--status", "in progress", "--percent", "40")
	dig := nodeTitled(t, graphOf(t, app, s), "Dig")
	assert.Equal(t, domain.TaskInProgress, dig.Task.Status)
	assert.Equal(t, 40, dig.Task.PercentComplete)
	assert.Equal(t, testutil.Day(0), *dig.Start)

	_, err := executeCmd(t, app, "node", "update", "Ana", "--percent", "10")
	require.Error(t, err)
}

func TestNodeRemove_ReportsConflicts(t *testing.T) {
	app := testApp(t)
	s := seedSite(t, app)

	out := mustExec(t, app, "node", "remove", "Pour")
	assert.Contains(t, out, `Removed task "Pour"`)
	assert.Len(t, graphOf(t, app, s).Nodes, 2)
}

func TestAssign_WarnsOnOverAllocation(t *testing.T) {
	app := testApp(t)
	seedSite(t, app)
	mustExec(t, app, "node", "add", "--title", "Frame", "--start", "2025-03-03", "--due", "2025-03-10")

	out := mustExec(t, app, "node", "assign", "Frame", "Ana")
	assert.Contains(t, out, "Assigned Ana to \"Frame\"")
	assert.Contains(t, out, "WARNING")

	out = mustExec(t, app, "workload", "Ana")
	assert.Contains(t, out, "80h / 40h over-allocated")

	out = mustExec(t, app, "node", "unassign", "Frame", "Ana")
	assert.NotContains(t, out, "WARNING")
}

func TestAutoSchedule_DryRunSavesNothing(t *testing.T) {
	app := testApp(t)
	s := seedSite(t, app)

	out := mustExec(t, app, "autoschedule", "--dry-run")
	assert.Contains(t, out, "dry run")
	assert.False(t, nodeTitled(t, graphOf(t, app, s), "Pour").HasDates())

	mustExec(t, app, "autoschedule")
	assert.True(t, nodeTitled(t, graphOf(t, app, s), "Pour").HasDates())
}

func TestCriticalAndProgress(t *testing.T) {
	app := testApp(t)
	seedSite(t, app)
	mustExec(t, app, "edge", "add", "Dig", "Pour")
	mustExec(t, app, "node", "add", "--kind", "deliverable", "--title", "Foundations")
	mustExec(t, app, "node", "update", "Dig", "--parent", "Foundations", "--status", "done")

	out := mustExec(t, app, "critical")
	assert.Contains(t, out, "total: 5 days")

	out = mustExec(t, app, "progress")
	assert.Regexp(t, `Foundations\s+1/1`, out)

	out = mustExec(t, app, "status")
	assert.Contains(t, out, "SITE01")
	assert.Contains(t, out, "Foundations")
}

func TestBaselineSaveAndDiff(t *testing.T) {
	app := testApp(t)
	seedSite(t, app)

	assert.Contains(t, mustExec(t, app, "baseline", "save", "v1"), `Saved baseline "v1" with 1 entry`)
	assert.Contains(t, mustExec(t, app, "baseline", "list"), "v1")

	mustExec(t, app, "node", "dates", "Dig", "--start", "2025-03-05", "--due", "2025-03-08")
	out := mustExec(t, app, "baseline", "diff", "v1")
	assert.Regexp(t, `Dig\s+\+2d\s+\+2d`, out)

	mustExec(t, app, "baseline", "remove", "v1")
	_, err := executeCmd(t, app, "baseline", "diff", "v1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestImportExportRoundTrip(t *testing.T) {
	app := testApp(t)
	path := filepath.Join("..", "importer", "testdata", "tower.yaml")

	out := mustExec(t, app, "import", path)
	assert.Contains(t, out, "Imported schedule Tower A [TWR01]")

	out = mustExec(t, app, "--schedule", "TWR01", "export", "--format", "json")
	assert.Contains(t, out, `"short_id": "TWR01"`)

	dest := filepath.Join(t.TempDir(), "tower.yaml")
	mustExec(t, app, "--schedule", "TWR01", "export", "-o", dest)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: Tower A")
}

func TestImportCheck(t *testing.T) {
	app := testApp(t)

	out := mustExec(t, app, "import", "--check", filepath.Join("..", "importer", "testdata", "tower.hcl"))
	assert.Contains(t, out, "is valid")

	list := mustExec(t, app, "schedule", "list")
	assert.Contains(t, list, "No schedules yet")
}

func TestWatchOnce_RecordsMetrics(t *testing.T) {
	app := testApp(t)
	app.Metrics = metrics.New(prometheus.NewRegistry())

	out := mustExec(t, app, "watch", "--once", filepath.Join("..", "importer", "testdata", "tower.json"))
	assert.Contains(t, out, "TWR01")
	assert.Contains(t, out, "No conflicts")
	assert.Greater(t, promtest.ToFloat64(app.Metrics.CriticalPathDays), 0.0)
}
