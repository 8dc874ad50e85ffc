package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/girder/internal/domain"
)

// FormatScheduleList renders schedules as a table.
func FormatScheduleList(schedules []*domain.Schedule) string {
	if len(schedules) == 0 {
		return Dim("No schedules yet. Create one with: girder schedule create --id BLD01 --name \"...\"") + "\n"
	}
	rows := make([][]string, 0, len(schedules))
	for _, s := range schedules {
		status := StyleGreen.Render(string(s.Status))
		if s.Status == domain.ScheduleArchived {
			status = Dim(string(s.Status))
		}
		rows = append(rows, []string{
			Bold(s.DisplayID()),
			s.Name,
			DateOrDash(s.AnchorDate),
			status,
		})
	}
	return RenderTable([]string{"ID", "NAME", "ANCHOR", "STATUS"}, rows)
}

// FormatScheduleSummary renders a schedule header box with node counts.
func FormatScheduleSummary(s *domain.Schedule, g *domain.Graph, conflicts int) string {
	counts := map[domain.NodeKind]int{}
	for _, n := range g.Nodes {
		counts[n.Kind]++
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Bold(s.DisplayID()), s.Name)
	fmt.Fprintf(&b, "%s %s\n", Dim("anchor:"), DateOrDash(s.AnchorDate))
	fmt.Fprintf(&b, "%s %s, %s, %s, %s\n", Dim("nodes: "),
		Plural(counts[domain.NodeTask], "task", "tasks"),
		Plural(counts[domain.NodeMilestone], "milestone", "milestones"),
		Plural(counts[domain.NodeDeliverable], "deliverable", "deliverables"),
		Plural(counts[domain.NodePerson], "person", "people"))
	fmt.Fprintf(&b, "%s %s", Dim("edges: "), Plural(len(g.Edges), "dependency", "dependencies"))
	if conflicts > 0 {
		b.WriteString("\n" + StyleRed.Render(Plural(conflicts, "conflict", "conflicts")))
	}
	return RenderBox("schedule", b.String())
}
