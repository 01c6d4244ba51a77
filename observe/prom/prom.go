// Package prom provides a Prometheus-backed observer for treectx. It
// registers its collectors on a caller-supplied registerer, so libraries
// embedding it stay in control of the metrics namespace.
package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/NetPo4ki/go-treectx/treectx"
)

// Metrics implements treectx.Observer on top of Prometheus collectors.
type Metrics struct {
	contextsActive    prometheus.Gauge
	contextsCreated   prometheus.Counter
	contextsCancelled *prometheus.CounterVec
	relaysDiscarded   prometheus.Counter
	tasksInFlight     prometheus.Gauge
	tasksFinished     *prometheus.CounterVec
	taskDuration      prometheus.Histogram
}

// New builds the treectx collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		contextsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "treectx_contexts_active",
			Help: "Number of contexts created and not yet cancelled.",
		}),
		contextsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "treectx_contexts_created_total",
			Help: "Total number of contexts created.",
		}),
		contextsCancelled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "treectx_contexts_cancelled_total",
			Help: "Total number of contexts cancelled, by who tripped them.",
		}, []string{"source"}),
		relaysDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "treectx_relays_discarded_total",
			Help: "Total number of relays that woke to an already-cancelled child.",
		}),
		tasksInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "treectx_tasks_in_flight",
			Help: "Number of spawned races not yet resolved.",
		}),
		tasksFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "treectx_tasks_finished_total",
			Help: "Total number of resolved races, by outcome.",
		}, []string{"outcome"}),
		taskDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "treectx_task_duration_seconds",
			Help:    "Time from spawn to race resolution.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(
		m.contextsActive,
		m.contextsCreated,
		m.contextsCancelled,
		m.relaysDiscarded,
		m.tasksInFlight,
		m.tasksFinished,
		m.taskDuration,
	)
	return m
}

func (m *Metrics) ContextCreated(_, _ string) {
	m.contextsCreated.Inc()
	m.contextsActive.Inc()
}

func (m *Metrics) ContextCancelled(_ string, forwarded bool) {
	source := "direct"
	if forwarded {
		source = "forwarded"
	}
	m.contextsCancelled.WithLabelValues(source).Inc()
	m.contextsActive.Dec()
}

func (m *Metrics) RelayDiscarded(_, _ string) {
	m.relaysDiscarded.Inc()
}

func (m *Metrics) TaskSpawned(_, _ string) {
	m.tasksInFlight.Inc()
}

func (m *Metrics) TaskFinished(_, _ string, dur time.Duration, outcome treectx.Outcome) {
	m.tasksInFlight.Dec()
	m.tasksFinished.WithLabelValues(outcome.String()).Inc()
	m.taskDuration.Observe(dur.Seconds())
}
