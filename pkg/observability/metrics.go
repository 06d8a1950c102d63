package observability

import (
	"context"

	"github.com/aretw0/surveyor/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors fed by surveyor hooks.
type Metrics struct {
	Paths        *prometheus.GaugeVec
	Steps        prometheus.Counter
	Archived     *prometheus.CounterVec
	Filtered     prometheus.Counter
	Spilled      *prometheus.CounterVec
	StepDuration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Paths: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "surveyor_paths",
			Help: "Number of paths in each set at the last step boundary.",
		}, []string{"set"}),
		Steps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "surveyor_steps_total",
			Help: "Total number of completed steps.",
		}),
		Archived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "surveyor_archived_paths_total",
			Help: "Paths moved into the deadended or errored archive.",
		}, []string{"kind"}),
		Filtered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "surveyor_filtered_paths_total",
			Help: "Paths dropped by the filter.",
		}),
		Spilled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "surveyor_spill_transitions_total",
			Help: "Paths resumed or suspended by spill.",
		}, []string{"direction"}),
		StepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "surveyor_step_duration_seconds",
			Help:    "Wall time of one step.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Paths, m.Steps, m.Archived, m.Filtered, m.Spilled, m.StepDuration)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			m.Steps.Inc()
			m.StepDuration.Observe(e.Duration.Seconds())
			m.Paths.WithLabelValues("active").Set(float64(e.Counts.Active))
			m.Paths.WithLabelValues("spilled").Set(float64(e.Counts.Spilled))
			m.Paths.WithLabelValues("suspended").Set(float64(e.Counts.Suspended))
			m.Paths.WithLabelValues("deadended").Set(float64(e.Counts.Deadended))
			m.Paths.WithLabelValues("errored").Set(float64(e.Counts.Errored))
		},
		OnDeadend: func(context.Context, *domain.PathEvent) {
			m.Archived.WithLabelValues(string(domain.EventDeadend)).Inc()
		},
		OnErrored: func(context.Context, *domain.PathEvent) {
			m.Archived.WithLabelValues(string(domain.EventErrored)).Inc()
		},
		OnFiltered: func(context.Context, *domain.PathEvent) {
			m.Filtered.Inc()
		},
		OnSpill: func(_ context.Context, e *domain.SpillEvent) {
			m.Spilled.WithLabelValues("resumed").Add(float64(e.Resumed))
			m.Spilled.WithLabelValues("suspended").Add(float64(e.Suspended))
		},
	}
}
