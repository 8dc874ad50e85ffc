package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewID identifies each tab of the board.
type ViewID int

const (
	ViewNodes ViewID = iota
	ViewConflicts
	ViewCritical
)

// View is the interface that all board tabs implement.
// It extends tea.Model with navigation and help metadata.
type View interface {
	tea.Model
	ID() ViewID
	ShortHelp() []key.Binding // key hints shown in the bottom bar
	Title() string            // tab label
}
