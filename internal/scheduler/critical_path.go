package scheduler

import "github.com/alexanderramin/girder/internal/domain"

// CriticalPathResult is the longest duration-weighted chain of g.
type CriticalPathResult struct {
	// NodeIDs runs from the chain's first node to its last.
	NodeIDs []string
	// TotalDays is the summed duration along NodeIDs.
	TotalDays int
	// Cycles is non-empty when g is cyclic. NodeIDs is then empty: a
	// longest path is undefined on a cyclic graph.
	Cycles [][]string
}

// Empty reports whether no path was found.
func (r CriticalPathResult) Empty() bool { return len(r.NodeIDs) == 0 }

// CriticalPath relaxes distances in topological order. A node's distance
// is the summed duration of the longest dated chain leading into it. Only
// nodes with both dates relax their dependents, so an undated node can end
// a path but never continue one. The path ends at the node with the
// greatest distance, the first one to reach it winning ties; an undated
// node qualifies only once a dated predecessor has reached it. Persons are
// never part of a path.
func CriticalPath(g *domain.Graph) CriticalPathResult {
	if cycles := FindCycles(linkedEdges(g)); len(cycles) > 0 {
		return CriticalPathResult{Cycles: cycles}
	}

	order, _ := topoOrder(g)
	dist := make(map[string]int, len(order))
	prev := make(map[string]string, len(order))
	reached := make(map[string]bool, len(order))

	var end string
	best, total := -1, 0
	for _, n := range order {
		if n.Kind == domain.NodePerson {
			continue
		}
		dated := n.HasDates()
		if !dated && !reached[n.ID] {
			continue
		}
		dur := 0
		if dated {
			dur, _ = n.DurationDays()
		}
		if dist[n.ID] > best {
			best = dist[n.ID]
			total = dist[n.ID] + dur
			end = n.ID
		}
		if !dated {
			continue
		}
		finish := dist[n.ID] + dur
		for _, e := range g.Outgoing(n.ID) {
			if !reached[e.To] || finish > dist[e.To] {
				reached[e.To] = true
				dist[e.To] = finish
				prev[e.To] = n.ID
			}
		}
	}
	if end == "" {
		return CriticalPathResult{}
	}

	var path []string
	for id := end; id != ""; id = prev[id] {
		path = append(path, id)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return CriticalPathResult{NodeIDs: path, TotalDays: total}
}
