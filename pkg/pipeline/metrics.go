package pipeline

import (
	"time"

	"ai-studynotes-be/pkg/study"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for pipeline stages.
type Metrics struct {
	stageDuration *prometheus.HistogramVec // seconds, by stage and outcome
	stageFailures *prometheus.CounterVec   // by stage and failure kind
	reused        prometheus.Counter       // requests served from the session cache
}

// NewMetrics registers the collectors with reg. A nil reg keeps them private, which tests rely on.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)
	return &Metrics{
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "study",
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600, 1800},
		}, []string{"stage", "outcome"}),
		stageFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "study",
			Subsystem: "pipeline",
			Name:      "stage_failures_total",
			Help:      "Pipeline stage failures by kind.",
		}, []string{"stage", "kind"}),
		reused: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "study",
			Subsystem: "pipeline",
			Name:      "cache_reuse_total",
			Help:      "Requests answered from the session cache without running the chain.",
		}),
	}
}

func (m *Metrics) observe(stage study.Stage, started time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
		kind := "unknown"
		if k := study.KindOf(err); k != nil {
			kind = k.Error()
		}
		m.stageFailures.WithLabelValues(string(stage), kind).Inc()
	}
	m.stageDuration.WithLabelValues(string(stage), outcome).Observe(time.Since(started).Seconds())
}

// Reused counts a cache hit.
func (m *Metrics) Reused() {
	if m != nil {
		m.reused.Inc()
	}
}
