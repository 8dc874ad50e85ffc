package domain

// Rollup is the progress of one deliverable derived from its child tasks.
type Rollup struct {
	DeliverableID   string
	Title           string
	Tasks           int
	Done            int
	PercentComplete int
}

// Rollups reports, for every deliverable of g in node order, the
// unweighted mean percent complete of its child tasks. Done tasks count
// as 100. A deliverable without tasks reports zero.
func Rollups(g *Graph) []Rollup {
	var out []Rollup
	for _, d := range g.Nodes {
		if d.Kind != NodeDeliverable {
			continue
		}
		r := Rollup{DeliverableID: d.ID, Title: d.Title}
		sum := 0
		for _, c := range g.Children(d.ID) {
			if !c.IsTask() {
				continue
			}
			r.Tasks++
			if c.IsDone() {
				r.Done++
				sum += 100
				continue
			}
			sum += c.Task.PercentComplete
		}
		if r.Tasks > 0 {
			r.PercentComplete = sum / r.Tasks
		}
		out = append(out, r)
	}
	return out
}
