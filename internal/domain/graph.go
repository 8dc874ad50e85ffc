package domain

import (
	"fmt"
	"time"
)

// Edge is a directed precedence constraint: To depends on From.
type Edge struct {
	ID         string
	ScheduleID string
	From       string
	To         string
	Type       ConstraintType
	// Blocked is a per-evaluation annotation written by the conflict
	// detector. It is never persisted.
	Blocked   bool
	CreatedAt time.Time
}

func (e *Edge) Validate() error {
	if e.From == "" || e.To == "" {
		return fmt.Errorf("%w: both endpoints are required", ErrInvalidEdge)
	}
	if e.From == e.To {
		return fmt.Errorf("%w: %s", ErrSelfLoop, e.From)
	}
	if !ValidConstraintTypes[string(e.Type)] {
		return fmt.Errorf("%w: unknown constraint type %q", ErrInvalidEdge, e.Type)
	}
	return nil
}

func (e *Edge) Clone() *Edge {
	c := *e
	return &c
}

// Graph is the node set plus edge set of one schedule. Slices keep
// insertion order, which every traversal relies on for determinism.
// The indexes are built once by NewGraph; callers must not append to
// Nodes or Edges afterwards.
type Graph struct {
	Nodes []*Node
	Edges []*Edge

	byID     map[string]*Node
	outgoing map[string][]*Edge
	incoming map[string][]*Edge
}

// NewGraph indexes nodes and edges. Edges referencing unknown nodes are
// kept but never returned by Outgoing/Incoming.
func NewGraph(nodes []*Node, edges []*Edge) *Graph {
	g := &Graph{
		Nodes:    nodes,
		Edges:    edges,
		byID:     make(map[string]*Node, len(nodes)),
		outgoing: make(map[string][]*Edge),
		incoming: make(map[string][]*Edge),
	}
	for _, n := range nodes {
		g.byID[n.ID] = n
	}
	for _, e := range edges {
		if g.byID[e.From] == nil || g.byID[e.To] == nil {
			continue
		}
		g.outgoing[e.From] = append(g.outgoing[e.From], e)
		g.incoming[e.To] = append(g.incoming[e.To], e)
	}
	return g
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *Node {
	return g.byID[id]
}

// Outgoing returns the edges whose predecessor is id, in edge order.
func (g *Graph) Outgoing(id string) []*Edge {
	return g.outgoing[id]
}

// Incoming returns the edges whose dependent is id, in edge order.
func (g *Graph) Incoming(id string) []*Edge {
	return g.incoming[id]
}

// EdgeBetween returns the last edge from -> to, or nil.
func (g *Graph) EdgeBetween(from, to string) *Edge {
	var found *Edge
	for _, e := range g.outgoing[from] {
		if e.To == to {
			found = e
		}
	}
	return found
}

// Children returns nodes whose ParentID is parentID, in node order.
func (g *Graph) Children(parentID string) []*Node {
	var out []*Node
	for _, n := range g.Nodes {
		if n.ParentID != nil && *n.ParentID == parentID {
			out = append(out, n)
		}
	}
	return out
}

// Clone deep-copies the graph.
func (g *Graph) Clone() *Graph {
	nodes := make([]*Node, len(g.Nodes))
	for i, n := range g.Nodes {
		nodes[i] = n.Clone()
	}
	edges := make([]*Edge, len(g.Edges))
	for i, e := range g.Edges {
		edges[i] = e.Clone()
	}
	return NewGraph(nodes, edges)
}

// Conflict is a derived scheduling violation. Conflicts are recomputed on
// every query and never stored.
type Conflict struct {
	Kind     ConflictKind
	Severity Severity
	Message  string
	NodeIDs  []string
	EdgeIDs  []string
}
