package scheduler

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/girder/internal/domain"
)

// Detector re-derives every scheduling conflict from current node state.
type Detector struct {
	settings Settings
}

func NewDetector(settings Settings) *Detector {
	return &Detector{settings: settings}
}

// FindConflicts runs the circular, date, over-allocation and deliverable
// checks in that order and concatenates their results. Every edge's
// Blocked flag is rewritten, so repeated calls on unchanged input return
// identical output.
func (d *Detector) FindConflicts(nodes []*domain.Node, edges []*domain.Edge) []domain.Conflict {
	byID := make(map[string]*domain.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	var out []domain.Conflict
	out = append(out, circularConflicts(byID, edges)...)
	out = append(out, dateConflicts(byID, edges)...)
	out = append(out, d.allocationConflicts(byID, nodes)...)
	out = append(out, deliverableConflicts(nodes)...)
	return out
}

func circularConflicts(byID map[string]*domain.Node, edges []*domain.Edge) []domain.Conflict {
	var out []domain.Conflict
	linked := edgesBetween(edges, func(id string) bool { return byID[id] != nil })
	for _, cycle := range FindCycles(linked) {
		names := make([]string, 0, len(cycle)+1)
		for _, id := range cycle {
			names = append(names, titleOf(byID, id))
		}
		names = append(names, titleOf(byID, cycle[0]))
		out = append(out, domain.Conflict{
			Kind:     domain.ConflictCircular,
			Severity: domain.SeverityError,
			Message:  "Circular dependency: " + strings.Join(names, " → "),
			NodeIDs:  cycle,
			EdgeIDs:  cycleEdges(cycle, linked),
		})
	}
	return out
}

// cycleEdges returns, for each consecutive pair of the closed cycle, the
// last matching edge id.
func cycleEdges(cycle []string, edges []*domain.Edge) []string {
	ids := make([]string, 0, len(cycle))
	for i, from := range cycle {
		to := cycle[(i+1)%len(cycle)]
		var found string
		for _, e := range edges {
			if e.From == from && e.To == to {
				found = e.ID
			}
		}
		if found != "" {
			ids = append(ids, found)
		}
	}
	return ids
}

func dateConflicts(byID map[string]*domain.Node, edges []*domain.Edge) []domain.Conflict {
	var out []domain.Conflict
	for _, e := range edges {
		e.Blocked = false
		pred, dep := byID[e.From], byID[e.To]
		if pred == nil || dep == nil {
			continue
		}
		msg, violated := checkEdge(pred, dep, e.Type)
		if !violated {
			continue
		}
		e.Blocked = true
		out = append(out, domain.Conflict{
			Kind:     domain.ConflictDate,
			Severity: domain.SeverityError,
			Message:  msg,
			NodeIDs:  []string{pred.ID, dep.ID},
			EdgeIDs:  []string{e.ID},
		})
	}
	return out
}

// checkEdge tests the ordering implied by t against the endpoints' current
// dates. A missing date on either side is not a violation.
func checkEdge(pred, dep *domain.Node, t domain.ConstraintType) (string, bool) {
	switch t {
	case domain.FinishToStart:
		if pred.Due == nil || dep.Start == nil || !pred.Due.After(*dep.Start) {
			return "", false
		}
		return fmt.Sprintf("%q must finish (%s) before %q starts (%s)",
			pred.Title, fmtDay(pred.Due), dep.Title, fmtDay(dep.Start)), true
	case domain.StartToStart:
		if pred.Start == nil || dep.Start == nil || !pred.Start.After(*dep.Start) {
			return "", false
		}
		return fmt.Sprintf("%q must start (%s) no later than %q starts (%s)",
			pred.Title, fmtDay(pred.Start), dep.Title, fmtDay(dep.Start)), true
	case domain.FinishToFinish:
		if pred.Due == nil || dep.Due == nil || !pred.Due.After(*dep.Due) {
			return "", false
		}
		return fmt.Sprintf("%q must finish (%s) no later than %q finishes (%s)",
			pred.Title, fmtDay(pred.Due), dep.Title, fmtDay(dep.Due)), true
	}
	return "", false
}

func (d *Detector) allocationConflicts(byID map[string]*domain.Node, nodes []*domain.Node) []domain.Conflict {
	var out []domain.Conflict
	for _, personID := range referencedPersons(nodes) {
		person := byID[personID]
		if person == nil || person.Kind != domain.NodePerson {
			continue
		}
		w := d.workload(personID, nodes)
		if !w.IsOverAllocated {
			continue
		}
		out = append(out, domain.Conflict{
			Kind:     domain.ConflictOverAllocation,
			Severity: domain.SeverityWarning,
			Message: fmt.Sprintf("%s is assigned %d hours across %d tasks (limit %d)",
				person.Title, w.TotalHours, len(w.TaskIDs), d.settings.WeeklyHourLimit),
			NodeIDs: append([]string{personID}, w.TaskIDs...),
		})
	}
	return out
}

// referencedPersons lists assignee ids in first-reference order.
func referencedPersons(nodes []*domain.Node) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, n := range nodes {
		if !n.IsTask() {
			continue
		}
		for _, a := range n.Task.Assignees {
			if !seen[a] {
				seen[a] = true
				ids = append(ids, a)
			}
		}
	}
	return ids
}

func deliverableConflicts(nodes []*domain.Node) []domain.Conflict {
	children := make(map[string][]*domain.Node)
	for _, n := range nodes {
		if n.ParentID != nil && n.IsTask() {
			children[*n.ParentID] = append(children[*n.ParentID], n)
		}
	}

	var out []domain.Conflict
	for _, d := range nodes {
		if d.Kind != domain.NodeDeliverable || d.Due == nil {
			continue
		}
		var late []string
		var titles []string
		for _, c := range children[d.ID] {
			if c.IsDone() || c.Due == nil || !c.Due.After(*d.Due) {
				continue
			}
			late = append(late, c.ID)
			titles = append(titles, c.Title)
		}
		if len(late) == 0 {
			continue
		}
		out = append(out, domain.Conflict{
			Kind:     domain.ConflictDeliverable,
			Severity: domain.SeverityWarning,
			Message: fmt.Sprintf("Deliverable %q is due %s but %d open task(s) finish later: %s",
				d.Title, fmtDay(d.Due), len(late), strings.Join(titles, ", ")),
			NodeIDs: append([]string{d.ID}, late...),
		})
	}
	return out
}

func titleOf(byID map[string]*domain.Node, id string) string {
	if n := byID[id]; n != nil && n.Title != "" {
		return n.Title
	}
	return id
}

func fmtDay(t *time.Time) string {
	return t.Format(domain.DateLayout)
}
