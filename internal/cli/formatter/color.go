package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/girder/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// SeverityStyle colours errors red and warnings yellow.
func SeverityStyle(s domain.Severity) lipgloss.Style {
	if s == domain.SeverityError {
		return StyleRed
	}
	return StyleYellow
}

// SeverityIndicator returns a coloured marker such as "● ERROR".
func SeverityIndicator(s domain.Severity) string {
	return SeverityStyle(s).Render("● " + strings.ToUpper(string(s)))
}

// KindLabel renders a node kind in its own colour.
func KindLabel(k domain.NodeKind) string {
	switch k {
	case domain.NodeTask:
		return StyleBlue.Render("task")
	case domain.NodeMilestone:
		return StylePurple.Render("milestone")
	case domain.NodeDeliverable:
		return StyleGreen.Render("deliverable")
	case domain.NodePerson:
		return StyleDim.Render("person")
	default:
		return StyleDim.Render(string(k))
	}
}

// StatusLabel renders a task status.
func StatusLabel(s domain.TaskStatus) string {
	text := strings.ReplaceAll(string(s), "_", " ")
	switch s {
	case domain.TaskDone:
		return StyleGreen.Render(text)
	case domain.TaskInProgress:
		return StyleBlue.Render(text)
	case domain.TaskBlocked:
		return StyleRed.Render(text)
	default:
		return StyleDim.Render(text)
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
