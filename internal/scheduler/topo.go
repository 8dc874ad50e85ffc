package scheduler

import "github.com/alexanderramin/girder/internal/domain"

// topoOrder is Kahn's algorithm over the edges whose endpoints both exist.
// The zero in-degree queue is seeded in node order and extended in edge
// order. Nodes that never reach zero in-degree (cycle members and their
// descendants) are returned in stuck, in node order.
func topoOrder(g *domain.Graph) (order []*domain.Node, stuck []string) {
	inDegree := make(map[string]int, len(g.Nodes))
	var queue []*domain.Node
	for _, n := range g.Nodes {
		inDegree[n.ID] = len(g.Incoming(n.ID))
		if inDegree[n.ID] == 0 {
			queue = append(queue, n)
		}
	}

	order = make([]*domain.Node, 0, len(g.Nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, e := range g.Outgoing(n.ID) {
			inDegree[e.To]--
			if inDegree[e.To] == 0 {
				queue = append(queue, g.Node(e.To))
			}
		}
	}

	if len(order) < len(g.Nodes) {
		for _, n := range g.Nodes {
			if inDegree[n.ID] > 0 {
				stuck = append(stuck, n.ID)
			}
		}
	}
	return order, stuck
}

// linkedEdges drops edges that reference a node missing from g.
func linkedEdges(g *domain.Graph) []*domain.Edge {
	return edgesBetween(g.Edges, func(id string) bool { return g.Node(id) != nil })
}

// edgesBetween keeps the edges whose endpoints both satisfy known.
func edgesBetween(edges []*domain.Edge, known func(id string) bool) []*domain.Edge {
	out := make([]*domain.Edge, 0, len(edges))
	for _, e := range edges {
		if known(e.From) && known(e.To) {
			out = append(out, e)
		}
	}
	return out
}
