package metrics

import (
	"time"

	gometrics "github.com/rcrowley/go-metrics"
	influxdb "github.com/vrischmann/go-metrics-influxdb"
)

// GoMetrics is the go-metrics backed Engine. The decision timer keeps a
// histogram of latency samples, so p50/p95/p99 can be read off the registry
// or shipped to influx.
type GoMetrics struct {
	Registry gometrics.Registry

	DecisionTimer   gometrics.Timer
	BidMeter        gometrics.Meter
	NoBidMeter      gometrics.Meter
	ErrorMeter      gometrics.Meter
	CacheHitMeter   gometrics.Meter
	CacheMissMeter  gometrics.Meter
	StoreQueryMeter gometrics.Meter
	StoreErrorMeter gometrics.Meter
	MalformedMeter  gometrics.Meter
	SimRequestMeter gometrics.Meter
}

// NewGoMetrics registers every metric on a fresh registry.
func NewGoMetrics() *GoMetrics {
	registry := gometrics.NewRegistry()
	return &GoMetrics{
		Registry: registry,

		DecisionTimer:   gometrics.GetOrRegisterTimer("bidder.decision.timer", registry),
		BidMeter:        gometrics.GetOrRegisterMeter("bidder.decision.bids", registry),
		NoBidMeter:      gometrics.GetOrRegisterMeter("bidder.decision.no_bids", registry),
		ErrorMeter:      gometrics.GetOrRegisterMeter("bidder.decision.errors", registry),
		CacheHitMeter:   gometrics.GetOrRegisterMeter("bidder.campaign_cache.hits", registry),
		CacheMissMeter:  gometrics.GetOrRegisterMeter("bidder.campaign_cache.misses", registry),
		StoreQueryMeter: gometrics.GetOrRegisterMeter("bidder.campaign_store.queries", registry),
		StoreErrorMeter: gometrics.GetOrRegisterMeter("bidder.campaign_store.errors", registry),
		MalformedMeter:  gometrics.GetOrRegisterMeter("bidder.inbound.malformed", registry),
		SimRequestMeter: gometrics.GetOrRegisterMeter("simulator.requests", registry),
	}
}

// Export ships the registry to influxdb. This blocks indefinitely, so it
// should be run inside a goroutine.
func (m *GoMetrics) Export(interval time.Duration, url string, database string, username string, password string) {
	influxdb.InfluxDB(
		m.Registry,
		interval,
		url,
		database,
		username,
		password,
	)
}

func (m *GoMetrics) RecordDecision(outcome DecisionOutcome, length time.Duration) {
	m.DecisionTimer.Update(length)
	switch outcome {
	case OutcomeBid:
		m.BidMeter.Mark(1)
	case OutcomeNoBid:
		m.NoBidMeter.Mark(1)
	default:
		m.ErrorMeter.Mark(1)
	}
}

func (m *GoMetrics) RecordCacheResult(result CacheResult) {
	if result == CacheHit {
		m.CacheHitMeter.Mark(1)
	} else {
		m.CacheMissMeter.Mark(1)
	}
}

func (m *GoMetrics) RecordStoreQuery(success bool) {
	m.StoreQueryMeter.Mark(1)
	if !success {
		m.StoreErrorMeter.Mark(1)
	}
}

func (m *GoMetrics) RecordMalformedMessage() {
	m.MalformedMeter.Mark(1)
}

func (m *GoMetrics) RecordSimulatedRequest() {
	m.SimRequestMeter.Mark(1)
}
