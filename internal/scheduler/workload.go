package scheduler

import "github.com/alexanderramin/girder/internal/domain"

// Workload is the aggregate of task hours assigned to one person.
type Workload struct {
	PersonID        string
	TotalHours      int
	TaskIDs         []string
	IsOverAllocated bool
}

// PersonWorkload sums DurationDays × HoursPerDay over every task assigned
// to personID. Tasks with no known duration contribute zero hours but are
// still listed.
func (d *Detector) PersonWorkload(personID string, g *domain.Graph) Workload {
	return d.workload(personID, g.Nodes)
}

func (d *Detector) workload(personID string, nodes []*domain.Node) Workload {
	w := Workload{PersonID: personID}
	for _, n := range nodes {
		if !n.IsTask() || !n.AssignedTo(personID) {
			continue
		}
		days, _ := n.DurationDays()
		w.TotalHours += days * d.settings.HoursPerDay
		w.TaskIDs = append(w.TaskIDs, n.ID)
	}
	w.IsOverAllocated = w.TotalHours > d.settings.WeeklyHourLimit
	return w
}
