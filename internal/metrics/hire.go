package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Hire outcomes, used as the "outcome" label value.
const (
	OutcomeHired          = "hired"
	OutcomeNotFound       = "not_found"
	OutcomeForbidden      = "forbidden"
	OutcomeConflict       = "conflict"
	OutcomeInfrastructure = "infrastructure"
)

// Hire holds the Prometheus metrics of the hire transition
type Hire struct {
	attempts *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewHire creates the hire metrics and registers them with reg
func NewHire(reg prometheus.Registerer) *Hire {
	factory := promauto.With(reg)

	return &Hire{
		attempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hire_attempts_total",
				Help: "Total number of hire attempts by outcome",
			},
			[]string{"outcome"},
		),
		duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hire_duration_seconds",
				Help:    "Duration of the hire transaction in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
		),
	}
}

// Observe records one attempt. A nil *Hire is a no-op.
func (m *Hire) Observe(outcome string, d time.Duration) {
	if m == nil {
		return
	}

	m.attempts.WithLabelValues(outcome).Inc()
	m.duration.Observe(d.Seconds())
}
