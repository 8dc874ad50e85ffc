package scheduler

import (
	"testing"

	"github.com/alexanderramin/girder/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCriticalPath_FanIn(t *testing.T) {
	// Short chain: S1 (2d) -> S2 (3d). Long chain: L1 (4d) -> L2 (5d).
	// Both feed the successor Z (1d).
	nodes := []*domain.Node{
		datedTask("S1", 0, 2), datedTask("S2", 3, 6),
		datedTask("L1", 0, 4), datedTask("L2", 5, 10),
		datedTask("Z", 11, 12),
	}
	edges := []*domain.Edge{
		fs("e1", "S1", "S2"), fs("e2", "L1", "L2"),
		fs("e3", "S2", "Z"), fs("e4", "L2", "Z"),
	}

	res := CriticalPath(domain.NewGraph(nodes, edges))

	assert.Equal(t, []string{"L1", "L2", "Z"}, res.NodeIDs)
	assert.Equal(t, 10, res.TotalDays)
	assert.Empty(t, res.Cycles)
}

func TestCriticalPath_NoDatedNodes(t *testing.T) {
	g := domain.NewGraph(
		[]*domain.Node{durationTask("A", 3), durationTask("B", 2)},
		[]*domain.Edge{fs("e1", "A", "B")},
	)

	res := CriticalPath(g)

	assert.True(t, res.Empty())
	assert.Zero(t, res.TotalDays)
}

func TestCriticalPath_EmptyGraph(t *testing.T) {
	assert.True(t, CriticalPath(domain.NewGraph(nil, nil)).Empty())
}

func TestCriticalPath_UndatedNodeEndsChain(t *testing.T) {
	g := domain.NewGraph(
		[]*domain.Node{datedTask("A", 0, 3), durationTask("gap", 2), datedTask("C", 10, 12)},
		[]*domain.Edge{fs("e1", "A", "gap"), fs("e2", "gap", "C")},
	)

	res := CriticalPath(g)

	assert.Equal(t, []string{"A", "gap"}, res.NodeIDs)
	assert.Equal(t, 3, res.TotalDays)
}

func TestCriticalPath_UndatedMilestoneTerminus(t *testing.T) {
	g := domain.NewGraph(
		[]*domain.Node{datedTask("A", 0, 5), domain.NewMilestone("M", "Handover")},
		[]*domain.Edge{fs("e1", "A", "M")},
	)

	res := CriticalPath(g)

	assert.Equal(t, []string{"A", "M"}, res.NodeIDs)
	assert.Equal(t, 5, res.TotalDays)
}

func TestCriticalPath_EndsAtGreatestDistance(t *testing.T) {
	// Z stands alone with 20 days; X (3d) -> Y (1d) has the longer lead-in.
	g := domain.NewGraph(
		[]*domain.Node{datedTask("Z", 0, 20), datedTask("X", 0, 3), datedTask("Y", 4, 5)},
		[]*domain.Edge{fs("e1", "X", "Y")},
	)

	res := CriticalPath(g)

	assert.Equal(t, []string{"X", "Y"}, res.NodeIDs)
	assert.Equal(t, 4, res.TotalDays)
}

func TestCriticalPath_UnreachedUndatedNodesAndPersonsNeverEnd(t *testing.T) {
	g := domain.NewGraph(
		[]*domain.Node{domain.NewPerson("P", "Ana"), durationTask("U", 4), datedTask("A", 0, 2)},
		nil,
	)

	res := CriticalPath(g)

	assert.Equal(t, []string{"A"}, res.NodeIDs)
	assert.Equal(t, 2, res.TotalDays)
}

func TestCriticalPath_TieFirstWins(t *testing.T) {
	g := domain.NewGraph([]*domain.Node{datedTask("A", 0, 3), datedTask("B", 5, 8)}, nil)
	assert.Equal(t, []string{"A"}, CriticalPath(g).NodeIDs)
}

func TestCriticalPath_ZeroDurationMilestoneLinks(t *testing.T) {
	m := domain.NewMilestone("M", "Permit issued")
	m.SetDates(dayPtr(0), dayPtr(0))
	g := domain.NewGraph(
		[]*domain.Node{m, datedTask("B", 1, 4), datedTask("C", 5, 6)},
		[]*domain.Edge{fs("e1", "M", "B"), fs("e2", "B", "C")},
	)

	res := CriticalPath(g)

	assert.Equal(t, []string{"M", "B", "C"}, res.NodeIDs)
	assert.Equal(t, 4, res.TotalDays)
}

func TestCriticalPath_CyclicGraphIsReported(t *testing.T) {
	g := domain.NewGraph(
		[]*domain.Node{datedTask("A", 0, 9), datedTask("B", 0, 2), datedTask("C", 3, 4)},
		[]*domain.Edge{fs("e1", "A", "B"), fs("e2", "B", "C"), fs("e3", "C", "B")},
	)

	res := CriticalPath(g)

	assert.True(t, res.Empty())
	require.Len(t, res.Cycles, 1)
	assert.Equal(t, []string{"B", "C"}, res.Cycles[0])
}

func TestCriticalPath_DanglingEdgeIgnored(t *testing.T) {
	g := domain.NewGraph(
		[]*domain.Node{datedTask("A", 0, 3)},
		[]*domain.Edge{fs("e1", "A", "ghost"), fs("e2", "ghost", "A")},
	)

	res := CriticalPath(g)

	assert.Empty(t, res.Cycles)
	assert.Equal(t, []string{"A"}, res.NodeIDs)
}

func TestCriticalPath_DanglingEdgesAgreeWithConflicts(t *testing.T) {
	nodes := []*domain.Node{datedTask("A", 0, 3)}
	edges := []*domain.Edge{fs("e1", "A", "ghost"), fs("e2", "ghost", "A")}

	conflicts := NewDetector(DefaultSettings()).FindConflicts(nodes, edges)
	res := CriticalPath(domain.NewGraph(nodes, edges))

	assert.Empty(t, conflicts)
	assert.Empty(t, res.Cycles)
}
