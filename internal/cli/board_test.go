package cli

import (
	"testing"
	"time"

	"github.com/alexanderramin/girder/internal/teatest"
	"github.com/stretchr/testify/assert"
)

func newBoardDriver(t *testing.T, app *App, scheduleID string) *teatest.Driver {
	t.Helper()
	return teatest.New(t, newBoard(app, scheduleID),
		teatest.WithSize(120, 40),
		teatest.WithCmdTimeout(2*time.Second),
	)
}

func TestBoard_LoadsNodesTab(t *testing.T) {
	app := testApp(t)
	s := seedSite(t, app)

	d := newBoardDriver(t, app, s.ID)
	view := ansi.ReplaceAllString(d.View(), "")
	assert.Contains(t, view, "SITE01")
	assert.Contains(t, view, "no conflicts")
	assert.Contains(t, view, "▸ Dig")
	assert.NotContains(t, view, "Ana")
	assert.Equal(t, 1, d.Seen["cli.boardLoadedMsg"])
}

func TestBoard_CursorAndDetail(t *testing.T) {
	app := testApp(t)
	s := seedSite(t, app)
	mustExec(t, app, "edge", "add", "Dig", "Pour")

	d := newBoardDriver(t, app, s.ID)
	d.Keys("j")
	d.RequireView("Pour")
	assert.Contains(t, ansi.ReplaceAllString(d.View(), ""), "▸ Pour")

	d.Keys("enter")
	assert.Contains(t, ansi.ReplaceAllString(d.View(), ""), "after:    Dig (FS)")

	d.Keys("k", "k")
	assert.Contains(t, ansi.ReplaceAllString(d.View(), ""), "▸ Dig")
}

func TestBoard_TabsCycle(t *testing.T) {
	app := testApp(t)
	s := seedSite(t, app)
	mustExec(t, app, "edge", "add", "Dig", "Pour")
	mustExec(t, app, "edge", "add", "Pour", "Dig")

	d := newBoardDriver(t, app, s.ID)
	d.Keys("tab")
	view := ansi.ReplaceAllString(d.View(), "")
	assert.Contains(t, view, "Conflicts (")
	assert.Contains(t, view, "Circular dependency")

	d.Keys("tab")
	assert.Contains(t, ansi.ReplaceAllString(d.View(), ""), "Critical path undefined")

	d.Keys("shift+tab", "shift+tab")
	assert.Contains(t, ansi.ReplaceAllString(d.View(), ""), "▸ Dig")
}

func TestBoard_RefreshPicksUpChanges(t *testing.T) {
	app := testApp(t)
	s := seedSite(t, app)

	d := newBoardDriver(t, app, s.ID)
	mustExec(t, app, "node", "add", "--title", "Cure")
	d.Keys("r")
	assert.Contains(t, ansi.ReplaceAllString(d.View(), ""), "Cure")
	assert.Equal(t, 2, d.Seen["cli.boardLoadedMsg"])
}

func TestBoard_Quit(t *testing.T) {
	app := testApp(t)
	s := seedSite(t, app)

	d := newBoardDriver(t, app, s.ID)
	d.Keys("q")
	assert.True(t, d.Quit)
}

func TestBoard_MissingSchedule(t *testing.T) {
	app := testApp(t)

	d := newBoardDriver(t, app, "nope")
	assert.Contains(t, d.View(), "Error:")
}
