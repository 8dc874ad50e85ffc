package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/girder/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// DateOrDash renders a date, or a dim dash when it is unset.
func DateOrDash(t *time.Time) string {
	if t == nil {
		return Dim("—")
	}
	return t.Format(domain.DateLayout)
}

// Span renders "start → due (Nd)", using the stored duration when a date
// is missing.
func Span(n *domain.Node) string {
	if n.Kind == domain.NodePerson {
		return ""
	}
	s := DateOrDash(n.Start) + " → " + DateOrDash(n.Due)
	if d, ok := n.DurationDays(); ok {
		s += Dim(fmt.Sprintf(" (%dd)", d))
	}
	return s
}

// TitleOf resolves a node id to its title, falling back to a short id.
func TitleOf(g *domain.Graph, id string) string {
	if n := g.Node(id); n != nil {
		return n.Title
	}
	return ShortID(id)
}

// ShortID truncates a UUID to 8 characters for display.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Plural picks the singular or plural noun for n.
func Plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
