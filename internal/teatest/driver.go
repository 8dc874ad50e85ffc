// Package teatest drives bubbletea models synchronously in tests.
//
// A Driver calls Update directly and runs returned Cmds inline until the
// model settles, so tests need no tea.Program and no goroutine timing.
// Cmds that block (timers, cursor blinks) are abandoned after a short
// timeout.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxSteps bounds the number of messages processed per Send.
const MaxSteps = 200

// DefaultCmdTimeout is how long a Cmd may run before the driver gives up
// on it. Message factories return at once; blink tickers never do.
const DefaultCmdTimeout = 25 * time.Millisecond

// Driver feeds messages to a tea.Model and records what happened.
type Driver struct {
	t       testing.TB
	model   tea.Model
	timeout time.Duration

	// Quit is set once a tea.QuitMsg has been produced.
	Quit bool
	// Seen counts every message delivered to Update, by %T.
	Seen map[string]int
}

type Option func(*Driver)

// WithSize delivers a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.deliver(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// WithCmdTimeout raises the per-Cmd timeout for models whose Cmds do real
// work, such as database loads.
func WithCmdTimeout(timeout time.Duration) Option {
	return func(d *Driver) {
		d.timeout = timeout
	}
}

// New wraps model, applies opts and runs model.Init to completion.
func New(t testing.TB, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{t: t, model: model, timeout: DefaultCmdTimeout, Seen: map[string]int{}}
	for _, opt := range opts {
		opt(d)
	}
	d.run(model.Init())
	return d
}

// Model returns the current model.
func (d *Driver) Model() tea.Model { return d.model }

// View renders the current model.
func (d *Driver) View() string { return d.model.View() }

// Send delivers msg and drains every Cmd it leads to.
func (d *Driver) Send(msg tea.Msg) {
	d.t.Helper()
	if d.Quit {
		return
	}
	d.run(d.deliver(msg))
}

// Keys sends each named key in order. Names follow tea.KeyMsg.String:
// "enter", "tab", "shift+tab", "up", "ctrl+c", or a single rune.
func (d *Driver) Keys(names ...string) {
	d.t.Helper()
	for _, name := range names {
		d.Send(KeyMsg(name))
	}
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.t.Helper()
	for _, r := range s {
		d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// RequireView fails the test unless the rendered view contains every part.
func (d *Driver) RequireView(parts ...string) {
	d.t.Helper()
	view := d.View()
	for _, p := range parts {
		if !strings.Contains(view, p) {
			d.t.Fatalf("view does not contain %q:\n%s", p, view)
		}
	}
}

var namedKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEsc,
	"tab":       tea.KeyTab,
	"shift+tab": tea.KeyShiftTab,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"backspace": tea.KeyBackspace,
	"space":     tea.KeySpace,
	"ctrl+c":    tea.KeyCtrlC,
}

// KeyMsg builds the tea.KeyMsg whose String() is name.
func KeyMsg(name string) tea.KeyMsg {
	if kt, ok := namedKeys[name]; ok {
		return tea.KeyMsg{Type: kt}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
}

func (d *Driver) deliver(msg tea.Msg) tea.Cmd {
	d.Seen[fmt.Sprintf("%T", msg)]++
	next, cmd := d.model.Update(msg)
	d.model = next
	return cmd
}

// run executes cmds breadth-first. Batches are flattened into the queue;
// a QuitMsg stops the driver.
func (d *Driver) run(first tea.Cmd) {
	queue := []tea.Cmd{first}
	for steps := 0; len(queue) > 0; steps++ {
		if steps >= MaxSteps {
			d.t.Logf("teatest: stopped after %d steps with %d cmds pending", MaxSteps, len(queue))
			return
		}
		cmd := queue[0]
		queue = queue[1:]
		if cmd == nil {
			continue
		}

		msg, ok := await(cmd, d.timeout)
		if !ok || msg == nil || isBlink(msg) {
			continue
		}
		switch msg := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case tea.QuitMsg:
			d.Quit = true
			d.deliver(msg)
			return
		default:
			queue = append(queue, d.deliver(msg))
		}
	}
}

func await(cmd tea.Cmd, timeout time.Duration) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(timeout):
		return nil, false
	}
}

func isBlink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}
