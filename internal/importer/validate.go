package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/girder/internal/domain"
	"github.com/alexanderramin/girder/internal/scheduler"
)

var validImportKinds = map[string]bool{"task": true, "milestone": true, "deliverable": true}

// ValidateScheduleFile checks f before conversion and returns every
// problem found, not just the first.
func ValidateScheduleFile(f *ScheduleFile) []error {
	var errs []error

	errs = append(errs, validateHeader(&f.Schedule)...)

	refs := make(map[string]domain.NodeKind)
	errs = append(errs, validatePeople(f.People, refs)...)
	errs = append(errs, validateNodes(f.Nodes, refs)...)
	errs = append(errs, validateEdges(f.Edges, refs)...)

	return errs
}

func validateHeader(s *ScheduleImport) []error {
	var errs []error

	sched := domain.Schedule{ShortID: s.ShortID}
	if err := sched.ValidateShortID(); err != nil {
		errs = append(errs, fmt.Errorf("schedule.short_id: %w", err))
	}
	if s.Name == "" {
		errs = append(errs, fmt.Errorf("schedule.name is required"))
	}
	if s.AnchorDate != "" {
		if _, err := domain.ParseDate(s.AnchorDate); err != nil {
			errs = append(errs, fmt.Errorf("schedule.anchor_date: %w", err))
		}
	}
	return errs
}

func validatePeople(people []PersonImport, refs map[string]domain.NodeKind) []error {
	var errs []error
	for i, p := range people {
		prefix := fmt.Sprintf("people[%d]", i)
		if p.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if _, dup := refs[p.Ref]; dup {
			errs = append(errs, fmt.Errorf("%s.ref %q is not unique", prefix, p.Ref))
		} else {
			refs[p.Ref] = domain.NodePerson
		}
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
	}
	return errs
}

func validateNodes(nodes []NodeImport, refs map[string]domain.NodeKind) []error {
	var errs []error

	// Register every ref first so parents may be declared after children.
	for i, n := range nodes {
		prefix := fmt.Sprintf("nodes[%d]", i)
		if n.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
			continue
		}
		if _, dup := refs[n.Ref]; dup {
			errs = append(errs, fmt.Errorf("%s.ref %q is not unique", prefix, n.Ref))
			continue
		}
		refs[n.Ref] = domain.NodeKind(n.Kind)
	}

	for i, n := range nodes {
		prefix := fmt.Sprintf("nodes[%d]", i)
		if n.Title == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		if !validImportKinds[n.Kind] {
			errs = append(errs, fmt.Errorf("%s.kind: invalid value %q (want task, milestone or deliverable)", prefix, n.Kind))
		}

		start, startErr := parseOptional(n.Start)
		if startErr != nil {
			errs = append(errs, fmt.Errorf("%s.start: %w", prefix, startErr))
		}
		due, dueErr := parseOptional(n.Due)
		if dueErr != nil {
			errs = append(errs, fmt.Errorf("%s.due: %w", prefix, dueErr))
		}
		if start != nil && due != nil && due.Before(*start) {
			errs = append(errs, fmt.Errorf("%s: due %s is before start %s", prefix, *n.Due, *n.Start))
		}

		if n.ParentRef != nil {
			kind, ok := refs[*n.ParentRef]
			switch {
			case !ok:
				errs = append(errs, fmt.Errorf("%s.parent_ref %q does not match any node", prefix, *n.ParentRef))
			case kind == domain.NodePerson:
				errs = append(errs, fmt.Errorf("%s.parent_ref %q is a person", prefix, *n.ParentRef))
			case *n.ParentRef == n.Ref:
				errs = append(errs, fmt.Errorf("%s.parent_ref cannot be the node itself", prefix))
			}
		}

		if n.Kind != string(domain.NodeTask) {
			if n.Status != "" || n.PercentComplete != nil || n.DurationDays != nil || len(n.Assignees) > 0 {
				errs = append(errs, fmt.Errorf("%s: status, percent_complete, duration_days and assignees apply to tasks only", prefix))
			}
			continue
		}
		if n.Status != "" && !domain.ValidTaskStatuses[n.Status] {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, n.Status))
		}
		if n.DurationDays != nil && *n.DurationDays < 0 {
			errs = append(errs, fmt.Errorf("%s.duration_days must not be negative", prefix))
		}
		if n.PercentComplete != nil && (*n.PercentComplete < 0 || *n.PercentComplete > 100) {
			errs = append(errs, fmt.Errorf("%s.percent_complete must be 0-100", prefix))
		}
		for _, a := range n.Assignees {
			if refs[a] != domain.NodePerson {
				errs = append(errs, fmt.Errorf("%s.assignees: %q is not a person ref", prefix, a))
			}
		}
	}
	return errs
}

func validateEdges(edges []EdgeImport, refs map[string]domain.NodeKind) []error {
	var errs []error
	var graphEdges []*domain.Edge

	for i, e := range edges {
		prefix := fmt.Sprintf("edges[%d]", i)
		ok := true
		for _, end := range []struct{ field, ref string }{{"from", e.From}, {"to", e.To}} {
			kind, known := refs[end.ref]
			switch {
			case end.ref == "":
				errs = append(errs, fmt.Errorf("%s.%s is required", prefix, end.field))
				ok = false
			case !known:
				errs = append(errs, fmt.Errorf("%s.%s %q does not match any node", prefix, end.field, end.ref))
				ok = false
			case kind == domain.NodePerson:
				errs = append(errs, fmt.Errorf("%s.%s %q is a person", prefix, end.field, end.ref))
				ok = false
			}
		}
		if e.From != "" && e.From == e.To {
			errs = append(errs, fmt.Errorf("%s: %q depends on itself", prefix, e.From))
			ok = false
		}
		if e.Type != "" && !domain.ValidConstraintTypes[e.Type] {
			errs = append(errs, fmt.Errorf("%s.type: invalid value %q", prefix, e.Type))
			ok = false
		}
		if ok {
			graphEdges = append(graphEdges, &domain.Edge{ID: prefix, From: e.From, To: e.To})
		}
	}

	for _, cycle := range scheduler.FindCycles(graphEdges) {
		errs = append(errs, fmt.Errorf("edges form a cycle: %s -> %s", strings.Join(cycle, " -> "), cycle[0]))
	}
	return errs
}

func parseOptional(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	return domain.ParseOptionalDate(*s)
}
