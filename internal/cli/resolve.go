package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/girder/internal/domain"
)

// resolveNode finds a node of g by exact ID, case-insensitive title or
// unique ID prefix, in that order.
func resolveNode(g *domain.Graph, input string) (*domain.Node, error) {
	if input == "" {
		return nil, fmt.Errorf("node reference is required")
	}
	if n := g.Node(input); n != nil {
		return n, nil
	}

	var byTitle []*domain.Node
	for _, n := range g.Nodes {
		if strings.EqualFold(n.Title, input) {
			byTitle = append(byTitle, n)
		}
	}
	if len(byTitle) == 1 {
		return byTitle[0], nil
	}
	if len(byTitle) > 1 {
		return nil, fmt.Errorf("node title %q is ambiguous (%d matches); use an ID", input, len(byTitle))
	}

	var byPrefix []*domain.Node
	for _, n := range g.Nodes {
		if strings.HasPrefix(n.ID, input) {
			byPrefix = append(byPrefix, n)
		}
	}
	switch len(byPrefix) {
	case 0:
		return nil, fmt.Errorf("node not found: %q", input)
	case 1:
		return byPrefix[0], nil
	default:
		return nil, fmt.Errorf("node ID prefix %q is ambiguous (%d matches)", input, len(byPrefix))
	}
}

func resolveEdge(g *domain.Graph, input string) (*domain.Edge, error) {
	var matches []*domain.Edge
	for _, e := range g.Edges {
		if e.ID == input {
			return e, nil
		}
		if strings.HasPrefix(e.ID, input) {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("dependency not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("dependency ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// scheduleGraph loads the active schedule and its graph.
func scheduleGraph(ctx context.Context, app *App, sched *domain.Schedule) (*domain.Graph, error) {
	g, err := app.Planning.Graph(ctx, sched.ID)
	if err != nil {
		return nil, fmt.Errorf("loading schedule %s: %w", sched.DisplayID(), err)
	}
	return g, nil
}
