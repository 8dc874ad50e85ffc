package domain

import (
	"fmt"
	"time"
)

// TaskDetail is the payload carried only by task nodes.
type TaskDetail struct {
	// DurationDays is authoritative only while one of the node's dates is
	// missing; once both are set the duration is derived from them.
	DurationDays    *int
	Status          TaskStatus
	Assignees       []string
	PercentComplete int
}

// Node is a schedulable graph vertex. Kind discriminates the payload:
// tasks carry Task, milestones and deliverables carry dates only, and
// person nodes carry neither dates nor a payload.
type Node struct {
	ID         string
	ScheduleID string
	Title      string
	Kind       NodeKind
	ParentID   *string
	Start      *time.Time
	Due        *time.Time
	Task       *TaskDetail
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewTask builds a task node. A zero Status becomes not_started.
func NewTask(id, title string, detail TaskDetail) *Node {
	if detail.Status == "" {
		detail.Status = TaskNotStarted
	}
	return &Node{ID: id, Title: title, Kind: NodeTask, Task: &detail}
}

func NewMilestone(id, title string) *Node {
	return &Node{ID: id, Title: title, Kind: NodeMilestone}
}

func NewDeliverable(id, title string) *Node {
	return &Node{ID: id, Title: title, Kind: NodeDeliverable}
}

func NewPerson(id, title string) *Node {
	return &Node{ID: id, Title: title, Kind: NodePerson}
}

// Validate checks the kind/payload pairing and the date ordering invariant.
func (n *Node) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidNode)
	}
	if n.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidNode)
	}
	if !ValidNodeKinds[string(n.Kind)] {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidNode, n.Kind)
	}
	if n.ParentID != nil && *n.ParentID == n.ID {
		return fmt.Errorf("%w: node %s cannot be its own parent", ErrInvalidNode, n.ID)
	}

	switch n.Kind {
	case NodeTask:
		if n.Task == nil {
			return fmt.Errorf("%w: task %s has no task detail", ErrInvalidNode, n.ID)
		}
		if !ValidTaskStatuses[string(n.Task.Status)] {
			return fmt.Errorf("%w: task %s has unknown status %q", ErrInvalidNode, n.ID, n.Task.Status)
		}
		if n.Task.DurationDays != nil && *n.Task.DurationDays < 0 {
			return fmt.Errorf("%w: task %s has negative duration", ErrInvalidNode, n.ID)
		}
		if n.Task.PercentComplete < 0 || n.Task.PercentComplete > 100 {
			return fmt.Errorf("%w: task %s percent complete must be 0-100", ErrInvalidNode, n.ID)
		}
	case NodePerson:
		if n.Start != nil || n.Due != nil {
			return fmt.Errorf("%w: person %s cannot carry dates", ErrInvalidNode, n.ID)
		}
		if n.Task != nil {
			return fmt.Errorf("%w: person %s cannot carry task detail", ErrInvalidNode, n.ID)
		}
	default:
		if n.Task != nil {
			return fmt.Errorf("%w: %s %s cannot carry task detail", ErrInvalidNode, n.Kind, n.ID)
		}
	}

	if n.Start != nil && n.Due != nil && n.Due.Before(*n.Start) {
		return fmt.Errorf("%w: %s due date %s is before start date %s",
			ErrInvalidNode, n.ID, n.Due.Format(DateLayout), n.Start.Format(DateLayout))
	}
	return nil
}

func (n *Node) IsTask() bool { return n.Kind == NodeTask && n.Task != nil }

// HasDates reports whether both start and due are resolved.
func (n *Node) HasDates() bool {
	return n.Start != nil && n.Due != nil
}

// DurationDays returns Due-Start when both dates are present, else the
// task's stored duration. The second result is false when neither exists.
func (n *Node) DurationDays() (int, bool) {
	if n.HasDates() {
		return DaysBetween(*n.Start, *n.Due), true
	}
	if n.Task != nil && n.Task.DurationDays != nil {
		return *n.Task.DurationDays, true
	}
	return 0, false
}

// IsDone reports whether the node is a completed task.
func (n *Node) IsDone() bool {
	return n.Task != nil && n.Task.Status == TaskDone
}

// AssignedTo reports whether personID is among the task's assignees.
func (n *Node) AssignedTo(personID string) bool {
	if n.Task == nil {
		return false
	}
	for _, a := range n.Task.Assignees {
		if a == personID {
			return true
		}
	}
	return false
}

// SetDates writes both dates, normalised to calendar days, and reports
// whether anything changed. A task's stored duration is rewritten to match
// so the two representations never disagree after a write.
func (n *Node) SetDates(start, due *time.Time) bool {
	if start != nil {
		start = DayPtr(*start)
	}
	if due != nil {
		due = DayPtr(*due)
	}
	changed := !sameDate(n.Start, start) || !sameDate(n.Due, due)
	n.Start = start
	n.Due = due
	n.syncDuration()
	return changed
}

func (n *Node) syncDuration() {
	if n.Task == nil || !n.HasDates() {
		return
	}
	d := DaysBetween(*n.Start, *n.Due)
	n.Task.DurationDays = &d
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	c := *n
	if n.ParentID != nil {
		p := *n.ParentID
		c.ParentID = &p
	}
	if n.Start != nil {
		s := *n.Start
		c.Start = &s
	}
	if n.Due != nil {
		d := *n.Due
		c.Due = &d
	}
	if n.Task != nil {
		t := *n.Task
		if n.Task.DurationDays != nil {
			dd := *n.Task.DurationDays
			t.DurationDays = &dd
		}
		t.Assignees = append([]string(nil), n.Task.Assignees...)
		c.Task = &t
	}
	return &c
}
