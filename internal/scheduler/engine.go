// Package scheduler is the dependency-driven scheduling engine. Every
// operation takes a whole graph, works on a private copy and returns the
// new state plus the conflicts it finds. Nothing here performs I/O.
package scheduler

import "github.com/alexanderramin/girder/internal/domain"

// Settings parameterises the engine.
type Settings struct {
	// HoursPerDay converts task duration to workload hours.
	HoursPerDay int
	// WeeklyHourLimit is the workload above which a person is over-allocated.
	WeeklyHourLimit int
	// DefaultDurationDays is used when a dependent has neither dates nor a
	// stored duration.
	DefaultDurationDays int
	// MaxPropagationSteps bounds the edge evaluations of one propagation.
	// Zero means unbounded.
	MaxPropagationSteps int
}

// DefaultSettings returns an 8-hour day, a 40-hour week and a 5-day
// default duration.
func DefaultSettings() Settings {
	return Settings{
		HoursPerDay:         8,
		WeeklyHourLimit:     40,
		DefaultDurationDays: 5,
		MaxPropagationSteps: 100000,
	}
}

// Engine bundles the propagator, auto-scheduler and conflict detector
// behind one set of Settings. It holds no graph state and is safe for
// concurrent use.
type Engine struct {
	settings Settings
	detector *Detector
}

func New(settings Settings) *Engine {
	return &Engine{settings: settings, detector: NewDetector(settings)}
}

func (e *Engine) Settings() Settings { return e.settings }

// FindConflicts runs the conflict detector over g, annotating g's edges.
func (e *Engine) FindConflicts(g *domain.Graph) []domain.Conflict {
	return e.detector.FindConflicts(g.Nodes, g.Edges)
}

func (e *Engine) PersonWorkload(personID string, g *domain.Graph) Workload {
	return e.detector.PersonWorkload(personID, g)
}

func (e *Engine) CriticalPath(g *domain.Graph) CriticalPathResult {
	return CriticalPath(g)
}
