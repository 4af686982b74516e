// Package metrics provides Prometheus instrumentation for flux evaluations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the instruments emitted by the orchestrator.
type Metrics struct {
	SolvesTotal        prometheus.Counter
	SolveFailuresTotal prometheus.Counter
	SolveDuration      prometheus.Histogram
	Keff               prometheus.Gauge
	EnergyImbalances   prometheus.Counter
}

// New builds and registers the flux evaluation metrics.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SolvesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "globalflux_solves_total",
			Help: "Number of completed external flux solves.",
		}),
		SolveFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "globalflux_solve_failures_total",
			Help: "Number of failed external flux solves.",
		}),
		SolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "globalflux_solve_duration_seconds",
			Help:    "Wall-clock duration of external flux solves.",
			Buckets: prometheus.ExponentialBuckets(0.1, 4, 10),
		}),
		Keff: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "globalflux_keff",
			Help: "Eigenvalue of the most recent flux solve.",
		}),
		EnergyImbalances: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "globalflux_energy_imbalances_total",
			Help: "Number of energy balance check failures.",
		}),
	}
	reg.MustRegister(m.SolvesTotal, m.SolveFailuresTotal, m.SolveDuration, m.Keff, m.EnergyImbalances)
	return m
}
