package domain

type NodeKind string

const (
	NodeTask        NodeKind = "task"
	NodeMilestone   NodeKind = "milestone"
	NodeDeliverable NodeKind = "deliverable"
	NodePerson      NodeKind = "person"
)

// ValidNodeKinds is the canonical set of accepted node kind strings.
var ValidNodeKinds = map[string]bool{
	"task": true, "milestone": true, "deliverable": true, "person": true,
}

type TaskStatus string

const (
	TaskNotStarted TaskStatus = "not_started"
	TaskInProgress TaskStatus = "in_progress"
	TaskBlocked    TaskStatus = "blocked"
	TaskDone       TaskStatus = "done"
)

// ValidTaskStatuses is the canonical set of accepted task status strings.
var ValidTaskStatuses = map[string]bool{
	"not_started": true, "in_progress": true, "blocked": true, "done": true,
}

type ConstraintType string

const (
	FinishToStart  ConstraintType = "finish_to_start"
	StartToStart   ConstraintType = "start_to_start"
	FinishToFinish ConstraintType = "finish_to_finish"
)

// ValidConstraintTypes is the canonical set of accepted constraint type strings.
var ValidConstraintTypes = map[string]bool{
	"finish_to_start": true, "start_to_start": true, "finish_to_finish": true,
}

// Short returns the conventional two-letter abbreviation (FS, SS, FF).
func (c ConstraintType) Short() string {
	switch c {
	case FinishToStart:
		return "FS"
	case StartToStart:
		return "SS"
	case FinishToFinish:
		return "FF"
	default:
		return "??"
	}
}

type ConflictKind string

const (
	ConflictCircular       ConflictKind = "circular_dependency"
	ConflictOverAllocation ConflictKind = "over_allocation"
	ConflictDeliverable    ConflictKind = "deliverable_conflict"
	ConflictDate           ConflictKind = "date_conflict"
)

type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type ScheduleStatus string

const (
	ScheduleActive   ScheduleStatus = "active"
	ScheduleArchived ScheduleStatus = "archived"
)
