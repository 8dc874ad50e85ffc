package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/girder/internal/domain"
	"github.com/alexanderramin/girder/internal/scheduler"
)

// FormatCriticalPath renders the critical chain, or the cycles that
// prevent one.
func FormatCriticalPath(g *domain.Graph, r scheduler.CriticalPathResult) string {
	if len(r.Cycles) > 0 {
		var b strings.Builder
		b.WriteString(StyleRed.Render("Critical path undefined: the schedule has circular dependencies") + "\n")
		for _, c := range r.Cycles {
			names := make([]string, 0, len(c))
			for _, id := range c {
				names = append(names, TitleOf(g, id))
			}
			b.WriteString("  " + strings.Join(names, " → ") + "\n")
		}
		return b.String()
	}
	if r.Empty() {
		return Dim("No dated nodes; critical path is empty.") + "\n"
	}

	rows := make([][]string, 0, len(r.NodeIDs))
	for i, id := range r.NodeIDs {
		n := g.Node(id)
		if n == nil {
			continue
		}
		d, _ := n.DurationDays()
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			n.Title,
			DateOrDash(n.Start),
			DateOrDash(n.Due),
			fmt.Sprintf("%dd", d),
		})
	}
	return RenderTable([]string{"#", "NODE", "START", "DUE", "DAYS"}, rows) +
		fmt.Sprintf("\n%s %s\n", Dim("total:"), Bold(Plural(r.TotalDays, "day", "days")))
}
