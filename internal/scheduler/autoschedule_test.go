package scheduler

import (
	"testing"

	"github.com/alexanderramin/girder/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoSchedule_FromPredecessors(t *testing.T) {
	nodes := []*domain.Node{
		datedTask("A", 0, 4),
		datedTask("B", 0, 6),
		durationTask("C", 2),
		domain.NewTask("D", "No duration", domain.TaskDetail{}),
	}
	edges := []*domain.Edge{
		fs("e1", "A", "C"),
		edge("e2", "B", "C", domain.StartToStart),
		fs("e3", "C", "D"),
	}

	res := New(DefaultSettings()).AutoSchedule(domain.NewGraph(nodes, edges))

	c := res.Graph.Node("C")
	require.NotNil(t, c.Start)
	assert.Equal(t, day(6), *c.Start, "latest of A.due+1 and B.due")
	assert.Equal(t, day(8), *c.Due)

	d := res.Graph.Node("D")
	require.NotNil(t, d.Start)
	assert.Equal(t, day(9), *d.Start)
	assert.Equal(t, day(14), *d.Due, "default duration applies")
	assert.Equal(t, []string{"C", "D"}, res.Updated)
}

func TestAutoSchedule_LeavesUnanchoredTasks(t *testing.T) {
	nodes := []*domain.Node{durationTask("A", 2), durationTask("B", 3), datedTask("X", 0, 1)}
	edges := []*domain.Edge{fs("e1", "A", "B")}

	res := New(DefaultSettings()).AutoSchedule(domain.NewGraph(nodes, edges))

	assert.Nil(t, res.Graph.Node("A").Start)
	assert.Nil(t, res.Graph.Node("B").Start)
	assert.Empty(t, res.Updated)
}

func TestAutoSchedule_SkipsNonTasks(t *testing.T) {
	m := domain.NewMilestone("M", "Topping out")
	nodes := []*domain.Node{datedTask("A", 0, 4), m}
	res := New(DefaultSettings()).AutoSchedule(domain.NewGraph(nodes, []*domain.Edge{fs("e1", "A", "M")}))
	assert.Nil(t, res.Graph.Node("M").Start)
}

func TestAutoSchedule_SecondPassIsStable(t *testing.T) {
	nodes := []*domain.Node{datedTask("A", 0, 4), durationTask("B", 2), durationTask("C", 3)}
	edges := []*domain.Edge{fs("e1", "A", "B"), edge("e2", "B", "C", domain.FinishToFinish)}
	e := New(DefaultSettings())

	first := e.AutoSchedule(domain.NewGraph(nodes, edges))
	require.Len(t, first.Updated, 2)
	second := e.AutoSchedule(first.Graph)

	assert.Empty(t, second.Updated)
	for _, n := range first.Graph.Nodes {
		assert.Equal(t, n.Start, second.Graph.Node(n.ID).Start)
		assert.Equal(t, n.Due, second.Graph.Node(n.ID).Due)
	}
}

func TestAutoSchedule_CycleMembersUntouched(t *testing.T) {
	nodes := []*domain.Node{datedTask("A", 0, 2), durationTask("B", 1), durationTask("C", 1)}
	edges := []*domain.Edge{fs("e1", "A", "B"), fs("e2", "B", "C"), fs("e3", "C", "B")}

	res := New(DefaultSettings()).AutoSchedule(domain.NewGraph(nodes, edges))

	assert.Nil(t, res.Graph.Node("B").Start)
	require.NotEmpty(t, res.Conflicts)
	assert.Equal(t, domain.ConflictCircular, res.Conflicts[0].Kind)
}
