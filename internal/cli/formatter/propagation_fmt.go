package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/girder/internal/domain"
	"github.com/alexanderramin/girder/internal/scheduler"
)

// FormatPropagation renders the dates a cascade moved, any aborted
// branches and the conflicts left afterwards.
func FormatPropagation(before *domain.Graph, r scheduler.PropagationResult) string {
	var b strings.Builder
	if len(r.Updated) == 0 {
		b.WriteString(Dim("No dates changed.") + "\n")
	} else {
		rows := make([][]string, 0, len(r.Updated))
		for _, n := range r.UpdatedNodes() {
			was := "—"
			if before != nil {
				if old := before.Node(n.ID); old != nil {
					was = Span(old)
				}
			}
			rows = append(rows, []string{n.Title, Dim(was), StyleGreen.Render("→"), Span(n)})
		}
		b.WriteString(Header(fmt.Sprintf("updated %s", Plural(len(r.Updated), "node", "nodes"))) + "\n")
		b.WriteString(RenderTable([]string{"NODE", "WAS", "", "NOW"}, rows))
	}
	for _, a := range r.Aborted {
		b.WriteString(StyleYellow.Render("! "+a.String()) + "\n")
	}
	if len(r.Conflicts) > 0 {
		b.WriteString("\n" + FormatConflicts(r.Conflicts))
	}
	return b.String()
}

// FormatAutoSchedule renders the outcome of an auto-schedule run.
func FormatAutoSchedule(before *domain.Graph, r scheduler.ScheduleResult, dryRun bool) string {
	var b strings.Builder
	if dryRun {
		b.WriteString(StyleYellow.Render("dry run: nothing saved") + "\n")
	}
	b.WriteString(FormatPropagation(before, scheduler.PropagationResult{
		Graph:     r.Graph,
		Updated:   r.Updated,
		Conflicts: r.Conflicts,
	}))
	return b.String()
}
