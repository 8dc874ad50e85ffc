package scheduler

import (
	"time"

	"github.com/alexanderramin/girder/internal/domain"
)

// Span is a resolved start/due pair.
type Span struct {
	Start time.Time
	Due   time.Time
}

// Resolve computes the dates dep must take to satisfy constraint t against
// pred. It returns false when pred lacks either date. The dependent keeps
// its own duration (dates first, stored duration second), falling back to
// defaultDuration.
func Resolve(pred, dep *domain.Node, t domain.ConstraintType, defaultDuration int) (Span, bool) {
	if pred == nil || dep == nil || !pred.HasDates() {
		return Span{}, false
	}
	dur, ok := dep.DurationDays()
	if !ok {
		dur = defaultDuration
	}

	switch t {
	case domain.FinishToStart:
		start := domain.AddDays(*pred.Due, 1)
		return Span{Start: start, Due: domain.AddDays(start, dur)}, true
	case domain.StartToStart:
		start := domain.Day(*pred.Start)
		return Span{Start: start, Due: domain.AddDays(start, dur)}, true
	case domain.FinishToFinish:
		due := domain.Day(*pred.Due)
		return Span{Start: domain.AddDays(due, -dur), Due: due}, true
	}
	return Span{}, false
}
