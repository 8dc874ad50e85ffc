package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/girder/internal/cli/formatter"
	"github.com/alexanderramin/girder/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

var (
	keyUp     = key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up"))
	keyDown   = key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down"))
	keyDetail = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details"))
)

// nodesView lists the schedule's non-person nodes with a cursor.
type nodesView struct {
	graph    *domain.Graph
	rows     []*domain.Node
	cursor   int
	expanded bool
}

func newNodesView() *nodesView { return &nodesView{} }

func (v *nodesView) ID() ViewID { return ViewNodes }
func (v *nodesView) Title() string { return "Nodes" }

func (v *nodesView) ShortHelp() []key.Binding {
	return []key.Binding{keyUp, keyDown, keyDetail}
}

func (v *nodesView) Init() tea.Cmd { return nil }

func (v *nodesView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case boardLoadedMsg:
		v.graph = msg.data.graph
		v.rows = v.rows[:0]
		for _, n := range v.graph.Nodes {
			if n.Kind != domain.NodePerson {
				v.rows = append(v.rows, n)
			}
		}
		v.cursor = min(v.cursor, max(len(v.rows)-1, 0))

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keyUp):
			if v.cursor > 0 {
				v.cursor--
			}
		case key.Matches(msg, keyDown):
			if v.cursor < len(v.rows)-1 {
				v.cursor++
			}
		case key.Matches(msg, keyDetail):
			v.expanded = !v.expanded
		}
	}
	return v, nil
}

func (v *nodesView) View() string {
	if len(v.rows) == 0 {
		return formatter.Dim("No nodes in this schedule.") + "\n"
	}
	rows := make([][]string, 0, len(v.rows))
	for i, n := range v.rows {
		marker := "  "
		if i == v.cursor {
			marker = formatter.StyleHeader.Render("▸ ")
		}
		status := ""
		if n.IsTask() {
			status = formatter.StatusLabel(n.Task.Status)
		}
		rows = append(rows, []string{marker + n.Title, formatter.KindLabel(n.Kind), formatter.Span(n), status})
	}
	out := formatter.RenderTable([]string{"  TITLE", "KIND", "DATES", "STATUS"}, rows)
	if v.expanded && v.cursor < len(v.rows) {
		out += "\n" + formatter.FormatNodeDetail(v.graph, v.rows[v.cursor]) + "\n"
	}
	return out
}

// conflictsView shows the current conflicts.
type conflictsView struct {
	conflicts []domain.Conflict
}

func newConflictsView() *conflictsView { return &conflictsView{} }

func (v *conflictsView) ID() ViewID { return ViewConflicts }
func (v *conflictsView) ShortHelp() []key.Binding { return nil }
func (v *conflictsView) Init() tea.Cmd { return nil }

func (v *conflictsView) Title() string {
	if len(v.conflicts) == 0 {
		return "Conflicts"
	}
	return fmt.Sprintf("Conflicts (%d)", len(v.conflicts))
}

func (v *conflictsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(boardLoadedMsg); ok {
		v.conflicts = msg.data.conflicts
	}
	return v, nil
}

func (v *conflictsView) View() string {
	return formatter.FormatConflicts(v.conflicts)
}

// criticalView shows the critical path and deliverable progress.
type criticalView struct {
	data *boardData
}

func newCriticalView() *criticalView { return &criticalView{} }

func (v *criticalView) ID() ViewID { return ViewCritical }
func (v *criticalView) Title() string { return "Critical path" }
func (v *criticalView) ShortHelp() []key.Binding { return nil }
func (v *criticalView) Init() tea.Cmd { return nil }

func (v *criticalView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(boardLoadedMsg); ok {
		v.data = msg.data
	}
	return v, nil
}

func (v *criticalView) View() string {
	if v.data == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(formatter.FormatCriticalPath(v.data.graph, v.data.critical))
	if len(v.data.rollups) > 0 {
		b.WriteString("\n" + formatter.FormatRollups(v.data.rollups))
	}
	return b.String()
}
