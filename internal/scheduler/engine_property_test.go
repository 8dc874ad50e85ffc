package scheduler

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/alexanderramin/girder/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var constraintTypes = []domain.ConstraintType{domain.FinishToStart, domain.StartToStart, domain.FinishToFinish}

// randomDAG only adds edges from lower to higher index, so it is acyclic.
func randomDAG(rng *rand.Rand, size int, tree bool) *domain.Graph {
	nodes := make([]*domain.Node, size)
	for i := range nodes {
		start := rng.Intn(30)
		nodes[i] = datedTask(fmt.Sprintf("n%d", i), start, start+rng.Intn(6))
	}
	var edges []*domain.Edge
	for j := 1; j < size; j++ {
		if tree {
			i := rng.Intn(j)
			edges = append(edges, edge(fmt.Sprintf("e%d", j), nodes[i].ID, nodes[j].ID, constraintTypes[rng.Intn(3)]))
			continue
		}
		for i := 0; i < j; i++ {
			if rng.Intn(4) == 0 {
				edges = append(edges, edge(fmt.Sprintf("e%d-%d", i, j), nodes[i].ID, nodes[j].ID, constraintTypes[rng.Intn(3)]))
			}
		}
	}
	return domain.NewGraph(nodes, edges)
}

func TestPropagate_Invariants_TreeHasNoDateConflicts(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	e := New(DefaultSettings())

	for trial := 0; trial < 200; trial++ {
		g := randomDAG(rng, rng.Intn(12)+2, true)
		shift := rng.Intn(20)

		res := e.Propagate(g, "n0", nil, dayPtr(30+shift))

		assert.Empty(t, res.Aborted, "trial %d", trial)
		assert.Empty(t, res.Conflicts, "trial %d: a tree cascade satisfies every edge", trial)
		for _, n := range res.Graph.Nodes {
			require.True(t, n.HasDates())
			assert.False(t, n.Due.Before(*n.Start), "trial %d node %s", trial, n.ID)
		}
	}
}

func TestPropagate_Invariants_DAGTerminatesWithoutAborts(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	e := New(DefaultSettings())

	for trial := 0; trial < 100; trial++ {
		g := randomDAG(rng, rng.Intn(10)+2, false)
		root := g.Nodes[rng.Intn(len(g.Nodes))].ID
		before := g.Clone()

		res := e.Propagate(g, root, dayPtr(1), nil)

		assert.Empty(t, res.Aborted, "trial %d", trial)
		seen := make(map[string]bool)
		for _, id := range res.Updated {
			assert.False(t, seen[id], "trial %d: %s listed twice", trial, id)
			seen[id] = true
		}
		for i, n := range g.Nodes {
			assert.Equal(t, before.Nodes[i].Start, n.Start, "input graph must not change")
			assert.Equal(t, before.Nodes[i].Due, n.Due, "input graph must not change")
		}
	}
}

func TestCriticalPath_Invariants_PathFollowsEdges(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		g := randomDAG(rng, rng.Intn(12)+1, false)

		res := CriticalPath(g)

		require.NotEmpty(t, res.NodeIDs, "trial %d", trial)
		total := 0
		for i, id := range res.NodeIDs {
			d, _ := g.Node(id).DurationDays()
			total += d
			if i > 0 {
				assert.NotNil(t, g.EdgeBetween(res.NodeIDs[i-1], id), "trial %d: path must follow edges", trial)
			}
		}
		assert.Equal(t, total, res.TotalDays, "trial %d", trial)
		last := g.Node(res.NodeIDs[len(res.NodeIDs)-1])
		lastDur, _ := last.DurationDays()
		for _, e := range g.Edges {
			d, _ := g.Node(e.From).DurationDays()
			assert.GreaterOrEqual(t, res.TotalDays-lastDur, d, "trial %d: end must have the greatest lead-in", trial)
		}
	}
}

func TestAutoSchedule_Invariants_Stable(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	e := New(DefaultSettings())

	for trial := 0; trial < 100; trial++ {
		g := randomDAG(rng, rng.Intn(10)+2, false)
		for _, n := range g.Nodes[1:] {
			if rng.Intn(2) == 0 {
				n.Start, n.Due = nil, nil
			}
		}

		first := e.AutoSchedule(g)
		second := e.AutoSchedule(first.Graph)

		assert.Empty(t, second.Updated, "trial %d", trial)
	}
}
