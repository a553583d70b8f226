package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeLabel = "outcome"
	resultLabel  = "result"
	successLabel = "success"
)

// PrometheusMetrics is the Prometheus backed Engine. Its Registry is served
// by the admin HTTP server.
type PrometheusMetrics struct {
	Registry *prometheus.Registry

	decisions     *prometheus.CounterVec
	decisionTimer prometheus.Histogram
	cacheResults  *prometheus.CounterVec
	storeQueries  *prometheus.CounterVec
	malformed     prometheus.Counter
	simRequests   prometheus.Counter
}

// NewPrometheusMetrics registers every metric on a fresh registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	registry := prometheus.NewRegistry()
	m := &PrometheusMetrics{
		Registry: registry,
		decisions: newCounterVec(registry, "bidder_decisions_total",
			"Count of bid decisions by terminal outcome.",
			[]string{outcomeLabel}),
		decisionTimer: newHistogram(registry, "bidder_decision_seconds",
			"End-to-end bid decision time, including cache-miss store round trips.",
			// Sub-millisecond fast path, so start the buckets low.
			[]float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}),
		cacheResults: newCounterVec(registry, "bidder_campaign_cache_results_total",
			"Count of campaign cache probes by hit/miss.",
			[]string{resultLabel}),
		storeQueries: newCounterVec(registry, "bidder_campaign_store_queries_total",
			"Count of campaign store queries by success.",
			[]string{successLabel}),
		malformed: newCounter(registry, "bidder_inbound_malformed_total",
			"Count of inbound messages rejected before entering the pipeline."),
		simRequests: newCounter(registry, "simulator_requests_total",
			"Count of bid requests emitted by the load generator."),
	}

	preloadLabelValues(m)
	return m
}

func newCounter(registry *prometheus.Registry, name string, help string) prometheus.Counter {
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: name,
		Help: help,
	})
	registry.MustRegister(counter)
	return counter
}

func newCounterVec(registry *prometheus.Registry, name string, help string, labels []string) *prometheus.CounterVec {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: name,
		Help: help,
	}, labels)
	registry.MustRegister(counter)
	return counter
}

func newHistogram(registry *prometheus.Registry, name string, help string, buckets []float64) prometheus.Histogram {
	histogram := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    name,
		Help:    help,
		Buckets: buckets,
	})
	registry.MustRegister(histogram)
	return histogram
}

// preloadLabelValues creates every fixed label combination up front, so the
// first scrape sees zeroes instead of missing series.
func preloadLabelValues(m *PrometheusMetrics) {
	for _, outcome := range DecisionOutcomes() {
		m.decisions.With(prometheus.Labels{outcomeLabel: string(outcome)})
	}
	for _, result := range []CacheResult{CacheHit, CacheMiss} {
		m.cacheResults.With(prometheus.Labels{resultLabel: string(result)})
	}
	for _, success := range []string{"true", "false"} {
		m.storeQueries.With(prometheus.Labels{successLabel: success})
	}
}

func (m *PrometheusMetrics) RecordDecision(outcome DecisionOutcome, length time.Duration) {
	m.decisions.With(prometheus.Labels{outcomeLabel: string(outcome)}).Inc()
	m.decisionTimer.Observe(length.Seconds())
}

func (m *PrometheusMetrics) RecordCacheResult(result CacheResult) {
	m.cacheResults.With(prometheus.Labels{resultLabel: string(result)}).Inc()
}

func (m *PrometheusMetrics) RecordStoreQuery(success bool) {
	label := "true"
	if !success {
		label = "false"
	}
	m.storeQueries.With(prometheus.Labels{successLabel: label}).Inc()
}

func (m *PrometheusMetrics) RecordMalformedMessage() {
	m.malformed.Inc()
}

func (m *PrometheusMetrics) RecordSimulatedRequest() {
	m.simRequests.Inc()
}
