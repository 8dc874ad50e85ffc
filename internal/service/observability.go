package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/girder/internal/domain"
	"github.com/alexanderramin/girder/internal/metrics"
	"github.com/alexanderramin/girder/internal/scheduler"
)

// UseCaseEvent captures lightweight execution telemetry for a service use case.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// UseCaseObserver receives use-case execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// EngineObserver is implemented by observers that also want the engine
// results a use case produced.
type EngineObserver interface {
	ObservePropagation(res scheduler.PropagationResult)
	ObserveConflicts(conflicts []domain.Conflict)
	ObserveCriticalPath(res scheduler.CriticalPathResult)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver writes service use-case events to the provided writer.
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := make([]any, 0, 8+len(event.Fields)*2)
	attrs = append(attrs,
		"use_case", event.Name,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	)
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.ErrorContext(ctx, "service_use_case", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "service_use_case", attrs...)
}

type metricsUseCaseObserver struct {
	m *metrics.Metrics
}

// NewMetricsUseCaseObserver records use cases and engine results as
// Prometheus metrics.
func NewMetricsUseCaseObserver(m *metrics.Metrics) UseCaseObserver {
	if m == nil {
		return NoopUseCaseObserver{}
	}
	return &metricsUseCaseObserver{m: m}
}

func (o *metricsUseCaseObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	o.m.ObserveUseCase(event.Name, event.Duration, event.Success)
}

func (o *metricsUseCaseObserver) ObservePropagation(res scheduler.PropagationResult) {
	o.m.RecordPropagation(res)
}

func (o *metricsUseCaseObserver) ObserveConflicts(conflicts []domain.Conflict) {
	o.m.RecordConflicts(conflicts)
}

func (o *metricsUseCaseObserver) ObserveCriticalPath(res scheduler.CriticalPathResult) {
	o.m.RecordCriticalPath(res)
}

type multiUseCaseObserver []UseCaseObserver

// MultiUseCaseObserver fans every event out to each non-nil observer.
func MultiUseCaseObserver(observers ...UseCaseObserver) UseCaseObserver {
	var out multiUseCaseObserver
	for _, obs := range observers {
		if obs != nil {
			out = append(out, obs)
		}
	}
	switch len(out) {
	case 0:
		return NoopUseCaseObserver{}
	case 1:
		return out[0]
	}
	return out
}

func (m multiUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	for _, obs := range m {
		obs.ObserveUseCase(ctx, event)
	}
}

func (m multiUseCaseObserver) ObservePropagation(res scheduler.PropagationResult) {
	for _, obs := range m {
		if eo, ok := obs.(EngineObserver); ok {
			eo.ObservePropagation(res)
		}
	}
}

func (m multiUseCaseObserver) ObserveConflicts(conflicts []domain.Conflict) {
	for _, obs := range m {
		if eo, ok := obs.(EngineObserver); ok {
			eo.ObserveConflicts(conflicts)
		}
	}
}

func (m multiUseCaseObserver) ObserveCriticalPath(res scheduler.CriticalPathResult) {
	for _, obs := range m {
		if eo, ok := obs.(EngineObserver); ok {
			eo.ObserveCriticalPath(res)
		}
	}
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopUseCaseObserver{}
}

// useCase times one service call and reports it when done is called with
// the call's final error.
type useCase struct {
	observer  UseCaseObserver
	name      string
	startedAt time.Time
	fields    map[string]any
}

func startUseCase(observer UseCaseObserver, name string, fields map[string]any) *useCase {
	if fields == nil {
		fields = make(map[string]any)
	}
	return &useCase{observer: observer, name: name, startedAt: time.Now().UTC(), fields: fields}
}

func (u *useCase) done(ctx context.Context, err error) {
	u.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      u.name,
		StartedAt: u.startedAt,
		Duration:  time.Since(u.startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    u.fields,
	})
}

func observePropagation(obs UseCaseObserver, res scheduler.PropagationResult) {
	if eo, ok := obs.(EngineObserver); ok {
		eo.ObservePropagation(res)
		eo.ObserveConflicts(res.Conflicts)
	}
}

func observeConflicts(obs UseCaseObserver, conflicts []domain.Conflict) {
	if eo, ok := obs.(EngineObserver); ok {
		eo.ObserveConflicts(conflicts)
	}
}

func observeCriticalPath(obs UseCaseObserver, res scheduler.CriticalPathResult) {
	if eo, ok := obs.(EngineObserver); ok {
		eo.ObserveCriticalPath(res)
	}
}
