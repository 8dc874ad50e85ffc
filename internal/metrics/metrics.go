// Package metrics holds the Prometheus collectors for schedule evaluation.
package metrics

import (
	"time"

	"github.com/alexanderramin/girder/internal/domain"
	"github.com/alexanderramin/girder/internal/scheduler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var conflictKinds = []domain.ConflictKind{
	domain.ConflictCircular,
	domain.ConflictDate,
	domain.ConflictOverAllocation,
	domain.ConflictDeliverable,
}

type Metrics struct {
	UseCases          *prometheus.CounterVec
	UseCaseDuration   *prometheus.HistogramVec
	Conflicts         *prometheus.GaugeVec
	PropagatedNodes   prometheus.Histogram
	PropagationAborts *prometheus.CounterVec
	CriticalPathDays  prometheus.Gauge
	WatchReloads      *prometheus.CounterVec
}

// New registers every collector with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		UseCases: f.NewCounterVec(prometheus.CounterOpts{
			Name: "girder_use_cases_total",
			Help: "Service use cases executed, labelled by name and outcome.",
		}, []string{"use_case", "status"}),

		UseCaseDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "girder_use_case_duration_ms",
			Help:    "Service use case latency in milliseconds.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"use_case"}),

		Conflicts: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "girder_conflicts",
			Help: "Conflicts found by the most recent evaluation, by kind.",
		}, []string{"kind"}),

		PropagatedNodes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "girder_propagation_updated_nodes",
			Help:    "Nodes whose dates changed in one propagation.",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		}),

		PropagationAborts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "girder_propagation_aborts_total",
			Help: "Propagation branches refused, by reason.",
		}, []string{"reason"}),

		CriticalPathDays: f.NewGauge(prometheus.GaugeOpts{
			Name: "girder_critical_path_days",
			Help: "Length of the most recently computed critical path.",
		}),

		WatchReloads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "girder_watch_reloads_total",
			Help: "Schedule file reloads by the watcher, by outcome.",
		}, []string{"status"}),
	}
}

func (m *Metrics) ObserveUseCase(name string, d time.Duration, success bool) {
	status := "ok"
	if !success {
		status = "error"
	}
	m.UseCases.WithLabelValues(name, status).Inc()
	m.UseCaseDuration.WithLabelValues(name).Observe(float64(d.Milliseconds()))
}

// RecordConflicts replaces the per-kind gauges with counts from conflicts.
func (m *Metrics) RecordConflicts(conflicts []domain.Conflict) {
	counts := make(map[domain.ConflictKind]int, len(conflictKinds))
	for _, c := range conflicts {
		counts[c.Kind]++
	}
	for _, k := range conflictKinds {
		m.Conflicts.WithLabelValues(string(k)).Set(float64(counts[k]))
	}
}

func (m *Metrics) RecordPropagation(res scheduler.PropagationResult) {
	m.PropagatedNodes.Observe(float64(len(res.Updated)))
	for _, a := range res.Aborted {
		m.PropagationAborts.WithLabelValues(string(a.Reason)).Inc()
	}
}

func (m *Metrics) RecordCriticalPath(res scheduler.CriticalPathResult) {
	m.CriticalPathDays.Set(float64(res.TotalDays))
}

func (m *Metrics) RecordReload(err error) {
	if err != nil {
		m.WatchReloads.WithLabelValues("error").Inc()
		return
	}
	m.WatchReloads.WithLabelValues("ok").Inc()
}
