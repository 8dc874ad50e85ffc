package scheduler

import "github.com/alexanderramin/girder/internal/domain"

// FindCycles reports every directed cycle reachable in edges, each as the
// ordered list of node ids along the cycle (the first id closes it).
// DFS roots are taken in first-reference order over the edge list, so the
// output is deterministic. Nodes without edges are never visited.
func FindCycles(edges []*domain.Edge) [][]string {
	adj := make(map[string][]string)
	var roots []string
	referenced := make(map[string]bool)
	note := func(id string) {
		if !referenced[id] {
			referenced[id] = true
			roots = append(roots, id)
		}
	}
	for _, e := range edges {
		if e.From == "" || e.To == "" {
			continue
		}
		adj[e.From] = append(adj[e.From], e.To)
		note(e.From)
		note(e.To)
	}

	const (
		white = 0 // unvisited
		gray  = 1 // on the current path
		black = 2 // fully explored
	)
	color := make(map[string]int, len(roots))
	var path []string
	var cycles [][]string

	var visit func(id string)
	visit = func(id string) {
		color[id] = gray
		path = append(path, id)
		for _, next := range adj[id] {
			switch color[next] {
			case gray:
				cycles = append(cycles, cycleFrom(path, next))
			case white:
				visit(next)
			}
		}
		path = path[:len(path)-1]
		color[id] = black
	}

	for _, id := range roots {
		if color[id] == white {
			visit(id)
		}
	}
	return cycles
}

// cycleFrom copies the suffix of path starting at id.
func cycleFrom(path []string, id string) []string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == id {
			return append([]string(nil), path[i:]...)
		}
	}
	return []string{id}
}
