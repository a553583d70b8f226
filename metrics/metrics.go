package metrics

import (
	"time"
)

// DecisionOutcome is the terminal state of one bid request's trip through
// the pipeline.
type DecisionOutcome string

const (
	// OutcomeBid means a campaign matched and a response was handed to the publisher.
	OutcomeBid DecisionOutcome = "bid"
	// OutcomeNoBid means no campaign matched; the request was suppressed.
	OutcomeNoBid DecisionOutcome = "no_bid"
	// OutcomeError means the decision failed and was contained at the pipeline boundary.
	OutcomeError DecisionOutcome = "error"
)

// DecisionOutcomes returns all possible outcome values, for engines that
// pre-register one series per outcome.
func DecisionOutcomes() []DecisionOutcome {
	return []DecisionOutcome{OutcomeBid, OutcomeNoBid, OutcomeError}
}

// CacheResult is the result of a campaign cache probe.
type CacheResult string

const (
	CacheHit  CacheResult = "hit"
	CacheMiss CacheResult = "miss"
)

// Engine is the interface the rest of the system records metrics through.
// One engine is built at process start and shared by every worker.
//
// Implementations must be safe for concurrent use.
type Engine interface {
	// RecordDecision feeds one end-to-end pipeline latency sample, covering
	// lookup, match and (for wins) the publish hand-off.
	RecordDecision(outcome DecisionOutcome, length time.Duration)

	// RecordCacheResult counts a campaign cache hit or miss.
	RecordCacheResult(result CacheResult)

	// RecordStoreQuery counts a query against the campaign database.
	RecordStoreQuery(success bool)

	// RecordMalformedMessage counts an inbound message rejected at the boundary.
	RecordMalformedMessage()

	// RecordSimulatedRequest counts a request emitted by the load generator.
	RecordSimulatedRequest()
}

// MultiEngine is a collection of engines which fans every event out to each
// of them. Use this when both go-metrics and Prometheus are configured.
type MultiEngine []Engine

func (me MultiEngine) RecordDecision(outcome DecisionOutcome, length time.Duration) {
	for _, e := range me {
		e.RecordDecision(outcome, length)
	}
}

func (me MultiEngine) RecordCacheResult(result CacheResult) {
	for _, e := range me {
		e.RecordCacheResult(result)
	}
}

func (me MultiEngine) RecordStoreQuery(success bool) {
	for _, e := range me {
		e.RecordStoreQuery(success)
	}
}

func (me MultiEngine) RecordMalformedMessage() {
	for _, e := range me {
		e.RecordMalformedMessage()
	}
}

func (me MultiEngine) RecordSimulatedRequest() {
	for _, e := range me {
		e.RecordSimulatedRequest()
	}
}

// NilEngine is an engine which discards everything. Useful for tests and for
// running with metrics disabled.
type NilEngine struct{}

func (n *NilEngine) RecordDecision(outcome DecisionOutcome, length time.Duration) {}
func (n *NilEngine) RecordCacheResult(result CacheResult)                         {}
func (n *NilEngine) RecordStoreQuery(success bool)                                {}
func (n *NilEngine) RecordMalformedMessage()                                      {}
func (n *NilEngine) RecordSimulatedRequest()                                      {}
