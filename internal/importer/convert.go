package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/girder/internal/domain"
	"github.com/google/uuid"
)

// Converted is a schedule file resolved to domain objects, ready to be
// persisted in Nodes order (people first, then nodes in file order).
type Converted struct {
	Schedule *domain.Schedule
	Nodes    []*domain.Node
	Edges    []*domain.Edge
}

// Graph indexes the converted nodes and edges.
func (c *Converted) Graph() *domain.Graph {
	return domain.NewGraph(c.Nodes, c.Edges)
}

// Convert transforms a validated ScheduleFile into domain objects with
// fresh ids. Call ValidateScheduleFile first; Convert assumes f is valid.
// A task with a start and a duration but no due date gets due = start +
// duration.
func Convert(f *ScheduleFile) (*Converted, error) {
	now := time.Now().UTC()

	anchor, err := domain.ParseOptionalDate(f.Schedule.AnchorDate)
	if err != nil {
		return nil, fmt.Errorf("parsing anchor_date: %w", err)
	}
	sched := &domain.Schedule{
		ID:         uuid.New().String(),
		ShortID:    f.Schedule.ShortID,
		Name:       f.Schedule.Name,
		AnchorDate: anchor,
		Status:     domain.ScheduleActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	out := &Converted{Schedule: sched}

	ids := make(map[string]string, len(f.People)+len(f.Nodes))
	for _, p := range f.People {
		ids[p.Ref] = uuid.New().String()
	}
	for _, n := range f.Nodes {
		ids[n.Ref] = uuid.New().String()
	}

	for _, p := range f.People {
		n := domain.NewPerson(ids[p.Ref], p.Name)
		stamp(n, sched.ID, now)
		out.Nodes = append(out.Nodes, n)
	}

	for _, ni := range f.Nodes {
		n, err := convertNode(ni, ids)
		if err != nil {
			return nil, fmt.Errorf("converting node %q: %w", ni.Ref, err)
		}
		stamp(n, sched.ID, now)
		out.Nodes = append(out.Nodes, n)
	}

	for _, ei := range f.Edges {
		t := domain.FinishToStart
		if ei.Type != "" {
			t = domain.ConstraintType(ei.Type)
		}
		out.Edges = append(out.Edges, &domain.Edge{
			ID:         uuid.New().String(),
			ScheduleID: sched.ID,
			From:       ids[ei.From],
			To:         ids[ei.To],
			Type:       t,
			CreatedAt:  now,
		})
	}
	return out, nil
}

func convertNode(ni NodeImport, ids map[string]string) (*domain.Node, error) {
	id := ids[ni.Ref]
	var n *domain.Node
	switch domain.NodeKind(ni.Kind) {
	case domain.NodeTask:
		detail := domain.TaskDetail{
			DurationDays: ni.DurationDays,
			Status:       domain.TaskStatus(ni.Status),
		}
		if ni.PercentComplete != nil {
			detail.PercentComplete = *ni.PercentComplete
		}
		for _, a := range ni.Assignees {
			detail.Assignees = append(detail.Assignees, ids[a])
		}
		n = domain.NewTask(id, ni.Title, detail)
	case domain.NodeMilestone:
		n = domain.NewMilestone(id, ni.Title)
	case domain.NodeDeliverable:
		n = domain.NewDeliverable(id, ni.Title)
	default:
		return nil, fmt.Errorf("unknown kind %q", ni.Kind)
	}

	if ni.ParentRef != nil {
		parent := ids[*ni.ParentRef]
		n.ParentID = &parent
	}

	start, err := parseOptional(ni.Start)
	if err != nil {
		return nil, err
	}
	due, err := parseOptional(ni.Due)
	if err != nil {
		return nil, err
	}
	if start != nil && due == nil && ni.DurationDays != nil {
		d := domain.AddDays(*start, *ni.DurationDays)
		due = &d
	}
	n.SetDates(start, due)
	return n, nil
}

func stamp(n *domain.Node, scheduleID string, now time.Time) {
	n.ScheduleID = scheduleID
	n.CreatedAt = now
	n.UpdatedAt = now
}

// Export renders a stored schedule back into file form. Node ids become
// refs, so exporting and re-importing yields the same graph shape.
func Export(s *domain.Schedule, g *domain.Graph) *ScheduleFile {
	f := &ScheduleFile{
		Schedule: ScheduleImport{
			ShortID:    s.ShortID,
			Name:       s.Name,
			AnchorDate: domain.FormatDate(s.AnchorDate),
		},
	}
	for _, n := range g.Nodes {
		if n.Kind == domain.NodePerson {
			f.People = append(f.People, PersonImport{Ref: n.ID, Name: n.Title})
			continue
		}
		f.Nodes = append(f.Nodes, exportNode(n))
	}
	for _, e := range g.Edges {
		f.Edges = append(f.Edges, EdgeImport{From: e.From, To: e.To, Type: string(e.Type)})
	}
	return f
}

func exportNode(n *domain.Node) NodeImport {
	ni := NodeImport{
		Ref:       n.ID,
		Title:     n.Title,
		Kind:      string(n.Kind),
		ParentRef: n.ParentID,
		Start:     optionalDate(n.Start),
		Due:       optionalDate(n.Due),
	}
	if n.IsTask() {
		ni.Status = string(n.Task.Status)
		ni.Assignees = n.Task.Assignees
		if !n.HasDates() {
			ni.DurationDays = n.Task.DurationDays
		}
		if n.Task.PercentComplete > 0 {
			p := n.Task.PercentComplete
			ni.PercentComplete = &p
		}
	}
	return ni
}

func optionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateLayout)
	return &s
}
