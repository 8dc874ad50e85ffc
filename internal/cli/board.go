package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/girder/internal/cli/formatter"
	"github.com/alexanderramin/girder/internal/domain"
	"github.com/alexanderramin/girder/internal/scheduler"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// boardData is one consistent snapshot of a schedule.
type boardData struct {
	schedule  *domain.Schedule
	graph     *domain.Graph
	conflicts []domain.Conflict
	critical  scheduler.CriticalPathResult
	rollups   []domain.Rollup
}

// boardLoadedMsg carries a fresh snapshot to every tab.
type boardLoadedMsg struct {
	data *boardData
	err  error
}

type boardKeyMap struct {
	Next    key.Binding
	Prev    key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

var boardKeys = boardKeyMap{
	Next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
	Prev:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev view")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// board is a read-only dashboard over one schedule with a tab per View.
type board struct {
	app        *App
	scheduleID string
	views      []View
	active     int
	help       help.Model
	width      int
	loading    bool
	err        error
	data       *boardData
}

func newBoard(app *App, scheduleID string) *board {
	return &board{
		app:        app,
		scheduleID: scheduleID,
		views:      []View{newNodesView(), newConflictsView(), newCriticalView()},
		help:       help.New(),
		loading:    true,
	}
}

func (b *board) Init() tea.Cmd {
	return b.load()
}

func (b *board) load() tea.Cmd {
	app, id := b.app, b.scheduleID
	return func() tea.Msg {
		data, err := loadBoardData(context.Background(), app, id)
		return boardLoadedMsg{data: data, err: err}
	}
}

func loadBoardData(ctx context.Context, app *App, scheduleID string) (*boardData, error) {
	s, err := app.Schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	g, err := app.Planning.Graph(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	conflicts, err := app.Planning.Conflicts(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	critical, err := app.Planning.CriticalPath(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	rollups, err := app.Planning.Rollups(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	return &boardData{schedule: s, graph: g, conflicts: conflicts, critical: critical, rollups: rollups}, nil
}

func (b *board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.help.Width = msg.Width
		return b, nil

	case boardLoadedMsg:
		b.loading = false
		b.err = msg.err
		if msg.err != nil {
			return b, nil
		}
		b.data = msg.data
		var cmds []tea.Cmd
		for i, v := range b.views {
			updated, cmd := v.Update(msg)
			b.views[i] = updated.(View)
			cmds = append(cmds, cmd)
		}
		return b, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, boardKeys.Quit):
			return b, tea.Quit
		case key.Matches(msg, boardKeys.Next):
			b.active = (b.active + 1) % len(b.views)
			return b, nil
		case key.Matches(msg, boardKeys.Prev):
			b.active = (b.active + len(b.views) - 1) % len(b.views)
			return b, nil
		case key.Matches(msg, boardKeys.Refresh):
			b.loading = true
			return b, b.load()
		}
	}

	updated, cmd := b.views[b.active].Update(msg)
	b.views[b.active] = updated.(View)
	return b, cmd
}

func (b *board) View() string {
	if b.err != nil {
		return formatter.StyleRed.Render("Error: "+b.err.Error()) + "\n"
	}
	if b.data == nil {
		return formatter.Dim("Loading schedule…") + "\n"
	}

	var sb strings.Builder
	sb.WriteString(b.header() + "\n")
	sb.WriteString(b.tabs() + "\n\n")
	sb.WriteString(b.views[b.active].View())
	sb.WriteString("\n" + b.help.ShortHelpView(b.bindings()))
	return sb.String()
}

func (b *board) header() string {
	s := b.data.schedule
	line := fmt.Sprintf("%s  %s  %s", formatter.Bold(s.DisplayID()), s.Name, formatter.ConflictBadge(b.data.conflicts))
	if b.loading {
		line += "  " + formatter.Dim("refreshing…")
	}
	return line
}

func (b *board) tabs() string {
	active := lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true).Underline(true)
	labels := make([]string, len(b.views))
	for i, v := range b.views {
		if i == b.active {
			labels[i] = active.Render(v.Title())
		} else {
			labels[i] = formatter.Dim(v.Title())
		}
	}
	return strings.Join(labels, "   ")
}

func (b *board) bindings() []key.Binding {
	bindings := append([]key.Binding{}, b.views[b.active].ShortHelp()...)
	return append(bindings, boardKeys.Next, boardKeys.Refresh, boardKeys.Quit)
}
