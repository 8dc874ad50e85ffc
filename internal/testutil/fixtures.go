package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/girder/internal/domain"
	"github.com/google/uuid"
)

var testShortIDCounter atomic.Int64

// Day returns the calendar date n days after Monday 2025-03-03, the anchor
// every fixture schedule starts from.
func Day(n int) time.Time {
	return time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

// Schedule options
type ScheduleOption func(*domain.Schedule)

func WithAnchorDate(d time.Time) ScheduleOption {
	return func(s *domain.Schedule) {
		s.AnchorDate = &d
	}
}

func WithScheduleStatus(st domain.ScheduleStatus) ScheduleOption {
	return func(s *domain.Schedule) {
		s.Status = st
	}
}

func WithShortID(id string) ScheduleOption {
	return func(s *domain.Schedule) {
		s.ShortID = id
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n)
}

func NewTestSchedule(name string, opts ...ScheduleOption) *domain.Schedule {
	now := time.Now().UTC()
	anchor := Day(0)
	s := &domain.Schedule{
		ID:         uuid.New().String(),
		ShortID:    defaultShortID(name),
		Name:       name,
		AnchorDate: &anchor,
		Status:     domain.ScheduleActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Node options
type NodeOption func(*domain.Node)

// WithDates sets both dates through SetDates, so a task's stored duration
// follows them.
func WithDates(start, due time.Time) NodeOption {
	return func(n *domain.Node) {
		n.SetDates(&start, &due)
	}
}

func WithDuration(days int) NodeOption {
	return func(n *domain.Node) {
		if n.Task != nil {
			n.Task.DurationDays = &days
		}
	}
}

func WithStatus(s domain.TaskStatus) NodeOption {
	return func(n *domain.Node) {
		if n.Task != nil {
			n.Task.Status = s
		}
	}
}

func WithAssignees(personIDs ...string) NodeOption {
	return func(n *domain.Node) {
		if n.Task != nil {
			n.Task.Assignees = personIDs
		}
	}
}

func WithPercentComplete(p int) NodeOption {
	return func(n *domain.Node) {
		if n.Task != nil {
			n.Task.PercentComplete = p
		}
	}
}

func WithParentID(id string) NodeOption {
	return func(n *domain.Node) {
		n.ParentID = &id
	}
}

func newTestNode(scheduleID string, n *domain.Node, opts []NodeOption) *domain.Node {
	now := time.Now().UTC()
	n.ScheduleID = scheduleID
	n.CreatedAt = now
	n.UpdatedAt = now
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func NewTestTask(scheduleID, title string, opts ...NodeOption) *domain.Node {
	return newTestNode(scheduleID, domain.NewTask(uuid.New().String(), title, domain.TaskDetail{}), opts)
}

func NewTestMilestone(scheduleID, title string, opts ...NodeOption) *domain.Node {
	return newTestNode(scheduleID, domain.NewMilestone(uuid.New().String(), title), opts)
}

func NewTestDeliverable(scheduleID, title string, opts ...NodeOption) *domain.Node {
	return newTestNode(scheduleID, domain.NewDeliverable(uuid.New().String(), title), opts)
}

func NewTestPerson(scheduleID, name string) *domain.Node {
	return newTestNode(scheduleID, domain.NewPerson(uuid.New().String(), name), nil)
}

func NewTestEdge(scheduleID, from, to string, t domain.ConstraintType) *domain.Edge {
	return &domain.Edge{
		ID:         uuid.New().String(),
		ScheduleID: scheduleID,
		From:       from,
		To:         to,
		Type:       t,
		CreatedAt:  time.Now().UTC(),
	}
}
