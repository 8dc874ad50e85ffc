package scheduler

import (
	"time"

	"github.com/alexanderramin/girder/internal/domain"
)

var day0 = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time { return day0.AddDate(0, 0, n) }

func dayPtr(n int) *time.Time {
	d := day(n)
	return &d
}

func intPtr(v int) *int { return &v }

// datedTask builds a task spanning day(start)..day(due).
func datedTask(id string, start, due int) *domain.Node {
	n := domain.NewTask(id, "Task "+id, domain.TaskDetail{})
	n.SetDates(dayPtr(start), dayPtr(due))
	return n
}

// durationTask builds an undated task with a stored duration.
func durationTask(id string, days int) *domain.Node {
	return domain.NewTask(id, "Task "+id, domain.TaskDetail{DurationDays: intPtr(days)})
}

func fs(id, from, to string) *domain.Edge {
	return &domain.Edge{ID: id, From: from, To: to, Type: domain.FinishToStart}
}

func edge(id, from, to string, t domain.ConstraintType) *domain.Edge {
	return &domain.Edge{ID: id, From: from, To: to, Type: t}
}
