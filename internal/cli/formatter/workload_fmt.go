package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/girder/internal/domain"
	"github.com/alexanderramin/girder/internal/scheduler"
)

// FormatWorkload renders one person's assigned hours against the limit.
func FormatWorkload(g *domain.Graph, w scheduler.Workload, maxHours int) string {
	var b strings.Builder
	hours := fmt.Sprintf("%dh / %dh", w.TotalHours, maxHours)
	if w.IsOverAllocated {
		hours = StyleRed.Render(hours + " over-allocated")
	} else {
		hours = StyleGreen.Render(hours)
	}
	fmt.Fprintf(&b, "%s  %s\n", Bold(TitleOf(g, w.PersonID)), hours)
	if len(w.TaskIDs) == 0 {
		b.WriteString(Dim("  no assigned tasks") + "\n")
		return b.String()
	}
	for _, id := range w.TaskIDs {
		n := g.Node(id)
		if n == nil {
			continue
		}
		fmt.Fprintf(&b, "  • %s  %s\n", n.Title, Span(n))
	}
	return b.String()
}
