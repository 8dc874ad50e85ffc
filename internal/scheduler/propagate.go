package scheduler

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/girder/internal/domain"
)

// AbortReason says why part of a cascade was not applied.
type AbortReason string

const (
	// AbortCycle marks an edge leading back into the active path.
	AbortCycle AbortReason = "cycle"
	// AbortStepLimit marks a cascade cut short by MaxPropagationSteps.
	AbortStepLimit AbortReason = "step_limit"
)

// PropagationAbort records an edge the propagator refused to follow.
type PropagationAbort struct {
	NodeID string
	// Path is the active propagation path ending with NodeID.
	Path   []string
	Reason AbortReason
}

func (a PropagationAbort) String() string {
	if a.Reason == AbortStepLimit {
		return fmt.Sprintf("propagation aborted: step limit reached at node %s", a.NodeID)
	}
	return fmt.Sprintf("propagation aborted: cycle through node %s (%s)",
		a.NodeID, strings.Join(a.Path, " → "))
}

// PropagationResult is the graph after a cascade.
type PropagationResult struct {
	Graph *domain.Graph
	// Updated lists nodes whose dates changed, in first-change order.
	Updated   []string
	Conflicts []domain.Conflict
	Aborted   []PropagationAbort
}

// UpdatedNodes returns the changed nodes of the result graph.
func (r PropagationResult) UpdatedNodes() []*domain.Node {
	out := make([]*domain.Node, 0, len(r.Updated))
	for _, id := range r.Updated {
		out = append(out, r.Graph.Node(id))
	}
	return out
}

// Propagate applies newStart and/or newDue (nil leaves a date untouched)
// to nodeID, then cascades to every node downstream of it. Nodes are
// settled in topological order of the reachable subgraph: each settled
// node resolves its dependents against its fresh dates, and the write from
// the predecessor settled last wins. Every edge is evaluated at most once.
// An edge back into an already settled node closes a cycle; it is never
// applied and is reported in Aborted instead. The input graph is not
// modified.
func (e *Engine) Propagate(g *domain.Graph, nodeID string, newStart, newDue *time.Time) PropagationResult {
	out := g.Clone()
	res := PropagationResult{Graph: out}
	changes := newChangeSet()

	root := out.Node(nodeID)
	if root != nil && root.Kind != domain.NodePerson {
		start, due := root.Start, root.Due
		if newStart != nil {
			start = newStart
		}
		if newDue != nil {
			due = newDue
		}
		if root.SetDates(start, due) {
			changes.add(root.ID)
		}
		res.Aborted = e.cascade(out, root, changes)
	}

	res.Updated = changes.ids
	res.Conflicts = e.detector.FindConflicts(out.Nodes, out.Edges)
	return res
}

func (e *Engine) cascade(g *domain.Graph, root *domain.Node, changes *changeSet) []PropagationAbort {
	var aborted []PropagationAbort
	c := newCascadeWalk(g, root)
	steps := 0

	for n := c.next(); n != nil; n = c.next() {
		for _, edge := range g.Outgoing(n.ID) {
			dep := g.Node(edge.To)
			if dep.Kind == domain.NodePerson {
				continue
			}
			if c.settled[dep.ID] {
				if c.written[n.ID] {
					aborted = append(aborted, PropagationAbort{
						NodeID: dep.ID,
						Path:   append(c.path(n.ID), dep.ID),
						Reason: AbortCycle,
					})
				}
				continue
			}
			c.arrive(dep.ID)
			if !c.written[n.ID] {
				continue
			}

			steps++
			if e.settings.MaxPropagationSteps > 0 && steps > e.settings.MaxPropagationSteps {
				return append(aborted, PropagationAbort{
					NodeID: dep.ID,
					Path:   append(c.path(n.ID), dep.ID),
					Reason: AbortStepLimit,
				})
			}

			span, ok := Resolve(n, dep, edge.Type, e.settings.DefaultDurationDays)
			if !ok {
				continue
			}
			if dep.SetDates(&span.Start, &span.Due) {
				changes.add(dep.ID)
			}
			c.written[dep.ID] = true
			c.writer[dep.ID] = n.ID
		}
	}
	return aborted
}

// cascadeWalk is Kahn's algorithm over the non-person nodes reachable from
// root. A node carries its dates downstream only once a predecessor wrote
// it. When the queue runs dry only cycles remain, and one cycle entry is
// settled early so the walk continues past it.
type cascadeWalk struct {
	g        *domain.Graph
	inScope  map[string]bool
	inDegree map[string]int
	queue    []*domain.Node
	// reached holds node ids in first-arrival order.
	reached []string
	seen    map[string]bool
	settled map[string]bool
	written map[string]bool
	writer  map[string]string
}

func newCascadeWalk(g *domain.Graph, root *domain.Node) *cascadeWalk {
	c := &cascadeWalk{
		g:        g,
		inScope:  map[string]bool{root.ID: true},
		inDegree: make(map[string]int),
		queue:    []*domain.Node{root},
		seen:     map[string]bool{root.ID: true},
		settled:  make(map[string]bool),
		written:  map[string]bool{root.ID: true},
		writer:   make(map[string]string),
	}

	inScope := c.inScope
	pending := []string{root.ID}
	for len(pending) > 0 {
		id := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		for _, e := range g.Outgoing(id) {
			if inScope[e.To] || g.Node(e.To).Kind == domain.NodePerson {
				continue
			}
			inScope[e.To] = true
			pending = append(pending, e.To)
		}
	}
	for id := range inScope {
		if id == root.ID {
			continue
		}
		for _, e := range g.Incoming(id) {
			if inScope[e.From] {
				c.inDegree[id]++
			}
		}
	}
	return c
}

// next returns the following node to settle, or nil when done.
func (c *cascadeWalk) next() *domain.Node {
	var n *domain.Node
	if len(c.queue) > 0 {
		n = c.queue[0]
		c.queue = c.queue[1:]
	} else {
		n = c.cycleEntry()
	}
	if n != nil {
		c.settled[n.ID] = true
	}
	return n
}

func (c *cascadeWalk) arrive(id string) {
	if !c.seen[id] {
		c.seen[id] = true
		c.reached = append(c.reached, id)
	}
	c.inDegree[id]--
	if c.inDegree[id] == 0 {
		c.queue = append(c.queue, c.g.Node(id))
	}
}

// cycleEntry picks the earliest reached unsettled node whose unsettled
// predecessors all lie downstream of it. Each edge from those
// predecessors then closes a cycle.
func (c *cascadeWalk) cycleEntry() *domain.Node {
	for _, id := range c.reached {
		if c.settled[id] {
			continue
		}
		down := c.downstream(id)
		entry := true
		for _, e := range c.g.Incoming(id) {
			if c.inScope[e.From] && !c.settled[e.From] && !down[e.From] {
				entry = false
				break
			}
		}
		if entry {
			return c.g.Node(id)
		}
	}
	return nil
}

// downstream returns the unsettled nodes reachable from id.
func (c *cascadeWalk) downstream(id string) map[string]bool {
	out := make(map[string]bool)
	pending := []string{id}
	for len(pending) > 0 {
		cur := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		for _, e := range c.g.Outgoing(cur) {
			if out[e.To] || c.settled[e.To] || c.g.Node(e.To).Kind == domain.NodePerson {
				continue
			}
			out[e.To] = true
			pending = append(pending, e.To)
		}
	}
	return out
}

// path follows writers back to the root.
func (c *cascadeWalk) path(id string) []string {
	var ids []string
	for ; id != ""; id = c.writer[id] {
		ids = append(ids, id)
	}
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids
}

type changeSet struct {
	ids  []string
	seen map[string]bool
}

func newChangeSet() *changeSet {
	return &changeSet{seen: make(map[string]bool)}
}

func (c *changeSet) add(id string) {
	if !c.seen[id] {
		c.seen[id] = true
		c.ids = append(c.ids, id)
	}
}
