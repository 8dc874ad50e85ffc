package formatter

import (
	"regexp"
	"strings"
	"testing"

	"github.com/alexanderramin/girder/internal/domain"
	"github.com/alexanderramin/girder/internal/scheduler"
	"github.com/alexanderramin/girder/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func sampleGraph() *domain.Graph {
	ana := testutil.NewTestPerson("s", "Ana")
	dig := testutil.NewTestTask("s", "Dig", testutil.WithDates(testutil.Day(0), testutil.Day(3)),
		testutil.WithAssignees(ana.ID), testutil.WithStatus(domain.TaskInProgress))
	pour := testutil.NewTestTask("s", "Pour", testutil.WithDates(testutil.Day(3), testutil.Day(5)))
	e := testutil.NewTestEdge("s", dig.ID, pour.ID, domain.FinishToStart)
	return domain.NewGraph([]*domain.Node{ana, dig, pour}, []*domain.Edge{e})
}

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := stripANSI(RenderTable([]string{"A", "B"}, [][]string{
		{StyleRed.Render("long cell"), "x"},
		{"s", "y"},
	}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, strings.Index(lines[2], "x"), strings.Index(lines[3], "y"))
	assert.Equal(t, "", RenderTable(nil, nil))
}

func TestRenderProgress_ClampsAndFills(t *testing.T) {
	assert.Equal(t, "[█████░░░░░]  50%", stripANSI(RenderProgress(50, 10)))
	assert.Equal(t, "[██████████] 100%", stripANSI(RenderProgress(140, 10)))
	assert.Equal(t, "[░░░░░░░░░░]   0%", stripANSI(RenderProgress(-3, 10)))
}

func TestSpan(t *testing.T) {
	g := sampleGraph()
	assert.Equal(t, "2025-03-03 → 2025-03-06 (3d)", stripANSI(Span(g.Nodes[1])))
	assert.Equal(t, "", Span(g.Nodes[0]))

	undated := testutil.NewTestTask("s", "Wait", testutil.WithDuration(4))
	assert.Equal(t, "— → — (4d)", stripANSI(Span(undated)))
}

func TestFormatNodeList_PeopleLast(t *testing.T) {
	out := stripANSI(FormatNodeList(sampleGraph()))
	assert.Less(t, strings.Index(out, "Pour"), strings.Index(out, "person"))
	assert.Contains(t, out, "in progress")
	assert.Contains(t, out, "Ana")
}

func TestFormatNodeDetail_ShowsEdges(t *testing.T) {
	g := sampleGraph()
	out := stripANSI(FormatNodeDetail(g, g.Nodes[2]))
	assert.Contains(t, out, "after:    Dig (FS)")
	assert.NotContains(t, out, "before:")
}

func TestFormatEdgeList(t *testing.T) {
	out := stripANSI(FormatEdgeList(sampleGraph()))
	assert.Regexp(t, `Dig\s+FS\s+Pour`, out)
	assert.Contains(t, stripANSI(FormatEdgeList(domain.NewGraph(nil, nil))), "No dependencies")
}

func TestFormatConflicts_GroupsByKind(t *testing.T) {
	out := stripANSI(FormatConflicts([]domain.Conflict{
		{Kind: domain.ConflictOverAllocation, Severity: domain.SeverityWarning, Message: "Ana over"},
		{Kind: domain.ConflictCircular, Severity: domain.SeverityError, Message: "Circular dependency: A → B → A"},
	}))
	assert.Less(t, strings.Index(out, "CIRCULAR DEPENDENCY"), strings.Index(out, "OVER ALLOCATION"))
	assert.Contains(t, out, "● ERROR  Circular dependency: A → B → A")
	assert.Contains(t, out, "2 conflicts")
	assert.Contains(t, stripANSI(FormatConflicts(nil)), "No conflicts")
}

func TestConflictBadge(t *testing.T) {
	assert.Equal(t, "no conflicts", stripANSI(ConflictBadge(nil)))
	assert.Equal(t, "1 conflict", stripANSI(ConflictBadge([]domain.Conflict{{Severity: domain.SeverityWarning}})))
	assert.Equal(t, "2 conflicts (1 errors)", stripANSI(ConflictBadge([]domain.Conflict{
		{Severity: domain.SeverityWarning}, {Severity: domain.SeverityError},
	})))
}

func TestFormatCriticalPath(t *testing.T) {
	g := sampleGraph()
	out := stripANSI(FormatCriticalPath(g, scheduler.CriticalPath(g)))
	assert.Less(t, strings.Index(out, "Dig"), strings.Index(out, "Pour"))
	assert.Contains(t, out, "total: 5 days")

	cyclic := stripANSI(FormatCriticalPath(g, scheduler.CriticalPathResult{Cycles: [][]string{{g.Nodes[1].ID, g.Nodes[2].ID, g.Nodes[1].ID}}}))
	assert.Contains(t, cyclic, "Dig → Pour → Dig")

	assert.Contains(t, stripANSI(FormatCriticalPath(g, scheduler.CriticalPathResult{})), "empty")
}

func TestFormatWorkload(t *testing.T) {
	g := sampleGraph()
	w := scheduler.Workload{PersonID: g.Nodes[0].ID, TotalHours: 24, TaskIDs: []string{g.Nodes[1].ID}}
	out := stripANSI(FormatWorkload(g, w, 40))
	assert.Contains(t, out, "Ana  24h / 40h")
	assert.Contains(t, out, "• Dig")

	w.IsOverAllocated = true
	assert.Contains(t, stripANSI(FormatWorkload(g, w, 16)), "over-allocated")
}

func TestFormatPropagation_ShowsBeforeAndAfter(t *testing.T) {
	before := sampleGraph()
	after := before.Clone()
	pour := after.Nodes[2]
	pour.SetDates(domain.DayPtr(testutil.Day(4)), domain.DayPtr(testutil.Day(6)))

	out := stripANSI(FormatPropagation(before, scheduler.PropagationResult{
		Graph:   after,
		Updated: []string{pour.ID},
		Aborted: []scheduler.PropagationAbort{{NodeID: "n1", Path: []string{"n0", "n1"}, Reason: scheduler.AbortCycle}},
	}))
	assert.Contains(t, out, "UPDATED 1 NODE")
	assert.Regexp(t, `Pour\s+2025-03-06 → 2025-03-08 \(2d\)\s+→\s+2025-03-07 → 2025-03-09 \(2d\)`, out)
	assert.Contains(t, out, "cycle through node n1")

	dry := stripANSI(FormatAutoSchedule(before, scheduler.ScheduleResult{Graph: before}, true))
	assert.Contains(t, dry, "dry run")
	assert.Contains(t, dry, "No dates changed")
}

func TestFormatVariance(t *testing.T) {
	late, early := 2, -1
	out := stripANSI(FormatVariance("v1", []domain.Variance{
		{Title: "Dig", StartSlip: &late, DueSlip: &early},
		{Title: "Gone", Removed: true},
	}))
	assert.Regexp(t, `Dig\s+\+2d\s+-1d`, out)
	assert.Regexp(t, `Gone\s+—\s+—\s+removed`, out)
	assert.Contains(t, stripANSI(FormatVariance("v1", nil)), `On baseline "v1"`)
}

func TestFormatScheduleList(t *testing.T) {
	s := testutil.NewTestSchedule("Tower", testutil.WithShortID("TWR01"), testutil.WithAnchorDate(testutil.Day(0)))
	out := stripANSI(FormatScheduleList([]*domain.Schedule{s}))
	assert.Regexp(t, `TWR01\s+Tower\s+2025-03-03\s+active`, out)
	assert.Contains(t, stripANSI(FormatScheduleList(nil)), "No schedules yet")

	summary := stripANSI(FormatScheduleSummary(s, sampleGraph(), 1))
	assert.Contains(t, summary, "2 tasks, 0 milestones, 0 deliverables, 1 person")
	assert.Contains(t, summary, "1 conflict")
}

func TestFormatRollups(t *testing.T) {
	out := stripANSI(FormatRollups([]domain.Rollup{{Title: "Shell", Tasks: 2, Done: 1, PercentComplete: 75}}))
	assert.Regexp(t, `Shell\s+1/2\s+\[`, out)
	assert.Contains(t, out, "75%")
	assert.Equal(t, "", FormatRollups(nil))
}
