package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// Fetch metrics
	fetchAttempts *prometheus.CounterVec
	fetchRetries  *prometheus.CounterVec

	// Pipeline metrics
	symbolsProcessed *prometheus.CounterVec
	cycleDuration    prometheus.Histogram
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		fetchAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsight_fetch_attempts_total",
				Help: "Total number of remote fetch attempts",
			},
			[]string{"operation", "outcome"},
		),

		fetchRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsight_fetch_retries_total",
				Help: "Total number of fetch retries by error class",
			},
			[]string{"class"},
		),

		symbolsProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsight_symbols_processed_total",
				Help: "Total number of symbols processed",
			},
			[]string{"outcome"},
		),

		cycleDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "finsight_fetch_cycle_duration_seconds",
				Help:    "Duration of one symbol's full fetch cycle in seconds",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
			},
		),
	}

	reg.MustRegister(r.fetchAttempts)
	reg.MustRegister(r.fetchRetries)
	reg.MustRegister(r.symbolsProcessed)
	reg.MustRegister(r.cycleDuration)

	return r
}

// FetchAttempt records one remote attempt with its outcome
// ("success", "rate_limited", "transient", "permanent").
func (r *Registry) FetchAttempt(operation, outcome string) {
	if r == nil {
		return
	}
	r.fetchAttempts.WithLabelValues(operation, outcome).Inc()
}

// FetchRetry records a scheduled retry for an error class.
func (r *Registry) FetchRetry(class string) {
	if r == nil {
		return
	}
	r.fetchRetries.WithLabelValues(class).Inc()
}

// SymbolProcessed records a finished symbol cycle ("ok" or "failed").
func (r *Registry) SymbolProcessed(outcome string) {
	if r == nil {
		return
	}
	r.symbolsProcessed.WithLabelValues(outcome).Inc()
}

// ObserveCycle records the duration of one symbol's fetch cycle.
func (r *Registry) ObserveCycle(seconds float64) {
	if r == nil {
		return
	}
	r.cycleDuration.Observe(seconds)
}
