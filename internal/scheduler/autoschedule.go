package scheduler

import (
	"time"

	"github.com/alexanderramin/girder/internal/domain"
)

// ScheduleResult is the graph after an auto-schedule pass.
type ScheduleResult struct {
	Graph     *domain.Graph
	Updated   []string
	Conflicts []domain.Conflict
}

// AutoSchedule dates every task that has no start yet, in topological
// order. A task starts at the latest date implied by its dated
// predecessors: the day after a finish-to-start predecessor's due date,
// or that due date itself for the other constraint types. Tasks without
// dated predecessors stay unscheduled. Already-started tasks are never
// moved, so a second pass changes nothing.
func (e *Engine) AutoSchedule(g *domain.Graph) ScheduleResult {
	out := g.Clone()
	changes := newChangeSet()

	order, _ := topoOrder(out)
	for _, n := range order {
		if !n.IsTask() || n.Start != nil {
			continue
		}
		start, ok := earliestStart(out, n)
		if !ok {
			continue
		}
		dur := e.settings.DefaultDurationDays
		if n.Task.DurationDays != nil {
			dur = *n.Task.DurationDays
		}
		due := domain.AddDays(start, dur)
		if n.SetDates(&start, &due) {
			changes.add(n.ID)
		}
	}

	return ScheduleResult{
		Graph:     out,
		Updated:   changes.ids,
		Conflicts: e.detector.FindConflicts(out.Nodes, out.Edges),
	}
}

func earliestStart(g *domain.Graph, n *domain.Node) (time.Time, bool) {
	var latest time.Time
	found := false
	for _, e := range g.Incoming(n.ID) {
		pred := g.Node(e.From)
		if pred == nil || pred.Due == nil {
			continue
		}
		next := domain.Day(*pred.Due)
		if e.Type == domain.FinishToStart {
			next = domain.AddDays(next, 1)
		}
		if !found || next.After(latest) {
			latest = next
			found = true
		}
	}
	return latest, found
}
