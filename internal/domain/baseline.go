package domain

import "time"

// Baseline is a frozen copy of a schedule's dates used to measure slippage.
type Baseline struct {
	ID         string
	ScheduleID string
	Name       string
	CapturedAt time.Time
	Entries    []BaselineEntry
}

type BaselineEntry struct {
	NodeID string     `json:"node_id"`
	Title  string     `json:"title"`
	Start  *time.Time `json:"start,omitempty"`
	Due    *time.Time `json:"due,omitempty"`
}

// Variance compares one node's current dates to its baseline entry.
// Slip values are positive when the current plan is later.
type Variance struct {
	NodeID    string
	Title     string
	StartSlip *int
	DueSlip   *int
	Removed   bool
	Added     bool
}

// CaptureEntries snapshots every dated node of g.
func CaptureEntries(g *Graph) []BaselineEntry {
	var entries []BaselineEntry
	for _, n := range g.Nodes {
		if n.Kind == NodePerson {
			continue
		}
		c := n.Clone()
		entries = append(entries, BaselineEntry{NodeID: n.ID, Title: n.Title, Start: c.Start, Due: c.Due})
	}
	return entries
}

// CompareBaseline reports per-node slippage of g against b. Nodes present
// only in g are reported as Added, nodes gone from g as Removed.
func CompareBaseline(b *Baseline, g *Graph) []Variance {
	var out []Variance
	seen := make(map[string]bool, len(b.Entries))
	for _, e := range b.Entries {
		seen[e.NodeID] = true
		n := g.Node(e.NodeID)
		if n == nil {
			out = append(out, Variance{NodeID: e.NodeID, Title: e.Title, Removed: true})
			continue
		}
		v := Variance{NodeID: n.ID, Title: n.Title, StartSlip: slip(e.Start, n.Start), DueSlip: slip(e.Due, n.Due)}
		if v.StartSlip == nil && v.DueSlip == nil {
			continue
		}
		out = append(out, v)
	}
	for _, n := range g.Nodes {
		if n.Kind == NodePerson || seen[n.ID] {
			continue
		}
		out = append(out, Variance{NodeID: n.ID, Title: n.Title, Added: true})
	}
	return out
}

// slip returns current-baseline in days, or nil when either side is
// missing or they are equal.
func slip(baseline, current *time.Time) *int {
	if baseline == nil || current == nil {
		return nil
	}
	d := DaysBetween(*baseline, *current)
	if d == 0 {
		return nil
	}
	return &d
}
