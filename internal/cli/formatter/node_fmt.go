package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/girder/internal/domain"
)

// FormatNodeList renders every node of g as a table. Persons are listed last.
func FormatNodeList(g *domain.Graph) string {
	if len(g.Nodes) == 0 {
		return Dim("No nodes in this schedule.") + "\n"
	}
	var people []*domain.Node
	rows := make([][]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.Kind == domain.NodePerson {
			people = append(people, n)
			continue
		}
		rows = append(rows, nodeRow(g, n))
	}
	for _, n := range people {
		rows = append(rows, nodeRow(g, n))
	}
	return RenderTable([]string{"ID", "KIND", "TITLE", "DATES", "STATUS", "ASSIGNED"}, rows)
}

func nodeRow(g *domain.Graph, n *domain.Node) []string {
	status, assigned := "", ""
	if n.IsTask() {
		status = StatusLabel(n.Task.Status)
		names := make([]string, 0, len(n.Task.Assignees))
		for _, id := range n.Task.Assignees {
			names = append(names, TitleOf(g, id))
		}
		assigned = strings.Join(names, ", ")
	}
	return []string{Dim(ShortID(n.ID)), KindLabel(n.Kind), n.Title, Span(n), status, assigned}
}

// FormatNodeDetail renders one node with its parent, children and edges.
func FormatNodeDetail(g *domain.Graph, n *domain.Node) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Bold(n.Title), KindLabel(n.Kind))
	fmt.Fprintf(&b, "%s %s\n", Dim("id:      "), n.ID)
	if n.Kind != domain.NodePerson {
		fmt.Fprintf(&b, "%s %s\n", Dim("dates:   "), Span(n))
	}
	if n.ParentID != nil {
		fmt.Fprintf(&b, "%s %s\n", Dim("parent:  "), TitleOf(g, *n.ParentID))
	}
	if n.IsTask() {
		fmt.Fprintf(&b, "%s %s\n", Dim("status:  "), StatusLabel(n.Task.Status))
		fmt.Fprintf(&b, "%s %s\n", Dim("progress:"), RenderProgress(n.Task.PercentComplete, 20))
		for _, id := range n.Task.Assignees {
			fmt.Fprintf(&b, "%s %s\n", Dim("assignee:"), TitleOf(g, id))
		}
	}
	for _, c := range g.Children(n.ID) {
		fmt.Fprintf(&b, "%s %s\n", Dim("child:   "), c.Title)
	}
	for _, e := range g.Incoming(n.ID) {
		fmt.Fprintf(&b, "%s %s %s\n", Dim("after:   "), TitleOf(g, e.From), Dim("("+e.Type.Short()+")"))
	}
	for _, e := range g.Outgoing(n.ID) {
		fmt.Fprintf(&b, "%s %s %s\n", Dim("before:  "), TitleOf(g, e.To), Dim("("+e.Type.Short()+")"))
	}
	return RenderBox("node", strings.TrimRight(b.String(), "\n"))
}

// FormatEdgeList renders edges as "from → to" rows.
func FormatEdgeList(g *domain.Graph) string {
	if len(g.Edges) == 0 {
		return Dim("No dependencies.") + "\n"
	}
	rows := make([][]string, 0, len(g.Edges))
	for _, e := range g.Edges {
		rows = append(rows, []string{
			Dim(ShortID(e.ID)),
			TitleOf(g, e.From),
			StyleBlue.Render(e.Type.Short()),
			TitleOf(g, e.To),
		})
	}
	return RenderTable([]string{"ID", "PREDECESSOR", "TYPE", "DEPENDENT"}, rows)
}

// FormatRollups renders deliverable progress bars.
func FormatRollups(rollups []domain.Rollup) string {
	if len(rollups) == 0 {
		return ""
	}
	rows := make([][]string, 0, len(rollups))
	for _, r := range rollups {
		rows = append(rows, []string{
			r.Title,
			fmt.Sprintf("%d/%d", r.Done, r.Tasks),
			RenderProgress(r.PercentComplete, 20),
		})
	}
	return RenderTable([]string{"DELIVERABLE", "DONE", "PROGRESS"}, rows)
}
