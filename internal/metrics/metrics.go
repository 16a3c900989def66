// Package metrics exposes Prometheus instrumentation for the prediction
// engine and the optimization engine. The core has no HTTP surface of its
// own; callers register these collectors on their own registry and expose
// them however they like.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the collectors used by the optimization core.
type Metrics struct {
	Predictions      *prometheus.CounterVec
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	OptimizationRuns *prometheus.CounterVec
	OracleEvals      prometheus.Counter
}

// New creates the collectors and registers them on reg.
// A nil registerer yields unregistered collectors, which is what tests want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "messai",
			Subsystem: "prediction",
			Name:      "requests_total",
			Help:      "Predictions served, labelled by fidelity level.",
		}, []string{"fidelity"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "messai",
			Subsystem: "prediction",
			Name:      "cache_hits_total",
			Help:      "Prediction cache hits.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "messai",
			Subsystem: "prediction",
			Name:      "cache_misses_total",
			Help:      "Prediction cache misses.",
		}),
		OptimizationRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "messai",
			Subsystem: "optimization",
			Name:      "runs_total",
			Help:      "Optimization runs, labelled by algorithm and outcome.",
		}, []string{"algorithm", "outcome"}),
		OracleEvals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "messai",
			Subsystem: "optimization",
			Name:      "oracle_evaluations_total",
			Help:      "Objective oracle evaluations across all runs.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.Predictions,
			m.CacheHits,
			m.CacheMisses,
			m.OptimizationRuns,
			m.OracleEvals,
		)
	}
	return m
}
