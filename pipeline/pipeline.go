// Package pipeline runs the ingestion->decision->publication loop: a fixed
// pool of workers drains inbound bid requests, decides each one against the
// cached campaign set, and hands wins to the response publisher.
package pipeline

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/KishanRaj0007/rtb-engine/campaigns"
	"github.com/KishanRaj0007/rtb-engine/exchange"
	"github.com/KishanRaj0007/rtb-engine/messaging"
	"github.com/KishanRaj0007/rtb-engine/metrics"
)

// Consumer is the inbound side of the transport. Fetch and Commit must be
// safe to call from multiple goroutines.
type Consumer interface {
	Fetch(ctx context.Context) (messaging.Message, error)
	Commit(ctx context.Context, msg messaging.Message) error
}

// Publisher is the outbound side. Publish is fire-and-forget: its error
// covers enqueueing only, so the pipeline never waits on delivery.
type Publisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
}

// New assembles a pipeline. workers is the number of concurrent decisions;
// the campaign fetcher is the only state they share.
func New(consumer Consumer, publisher Publisher, fetcher campaigns.Fetcher, engine metrics.Engine, workers int) *Pipeline {
	if consumer == nil || publisher == nil || fetcher == nil {
		glog.Fatal("The bid pipeline requires a consumer, a publisher and a campaign fetcher. Please report this as a bug.")
	}
	if engine == nil {
		engine = &metrics.NilEngine{}
	}
	if workers < 1 {
		workers = 3
	}
	return &Pipeline{
		consumer:  consumer,
		publisher: publisher,
		fetcher:   fetcher,
		engine:    engine,
		workers:   workers,
	}
}

type Pipeline struct {
	consumer  Consumer
	publisher Publisher
	fetcher   campaigns.Fetcher
	engine    metrics.Engine
	workers   int
}

// Run blocks until ctx is cancelled and every in-flight request has reached
// its terminal outcome.
func (p *Pipeline) Run(ctx context.Context) {
	queue := make(chan messaging.Message, p.workers)

	var wg sync.WaitGroup
	wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer wg.Done()
			for msg := range queue {
				p.handleMessage(ctx, msg)
			}
		}()
	}

	glog.Infof("Bid pipeline started with %d workers", p.workers)
	p.fetchLoop(ctx, queue)
	wg.Wait()
	glog.Info("Bid pipeline stopped")
}

func (p *Pipeline) fetchLoop(ctx context.Context, queue chan<- messaging.Message) {
	defer close(queue)
	for {
		msg, err := p.consumer.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			glog.Errorf("error fetching bid request: %v", err)
			// Avoid spinning if the broker connection is down.
			time.Sleep(100 * time.Millisecond)
			continue
		}
		select {
		case queue <- msg:
		case <-ctx.Done():
			return
		}
	}
}

// handleMessage processes one request to its terminal outcome. Nothing that
// happens to one request may escape and take the worker, or any other
// request, down with it.
func (p *Pipeline) handleMessage(ctx context.Context, msg messaging.Message) {
	defer func() {
		if r := recover(); r != nil {
			glog.Errorf("panic processing bid request (key=%s): %v", string(msg.Key), r)
		}
	}()
	// Committed no matter how processing ends. Redelivering a message that
	// already reached a terminal outcome (including a contained failure)
	// would just fail it again.
	defer p.commit(msg)

	request, err := exchange.ParseBidRequest(msg.Value)
	if err != nil {
		p.engine.RecordMalformedMessage()
		glog.Errorf("rejecting inbound message (key=%s): %v", string(msg.Key), err)
		return
	}

	// One timer sample covers the whole decision, including any cache-miss
	// store round trip and the publish hand-off.
	start := time.Now()
	outcome := p.decide(ctx, request)
	p.engine.RecordDecision(outcome, time.Since(start))
}

func (p *Pipeline) decide(ctx context.Context, request exchange.BidRequest) metrics.DecisionOutcome {
	glog.V(2).Infof("Received request: %s", request.ImpressionID)

	list, err := p.fetcher.GetCampaigns(ctx, request.AdvertiserID)
	if err != nil {
		glog.Errorf("error processing impression %s: %v", request.ImpressionID, err)
		return metrics.OutcomeError
	}

	campaign, ok := exchange.SelectCampaign(list, request)
	if !ok {
		glog.V(2).Infof("--- NO BID --- Impression: %s No matching campaign for advertiser: %s",
			request.ImpressionID, request.AdvertiserID)
		return metrics.OutcomeNoBid
	}

	response := exchange.NewBidResponse(request, campaign)
	payload, err := json.Marshal(response)
	if err != nil {
		glog.Errorf("error encoding response for impression %s: %v", request.ImpressionID, err)
		return metrics.OutcomeError
	}
	if err := p.publisher.Publish(ctx, request.ImpressionID, payload); err != nil {
		glog.Errorf("error publishing response for impression %s: %v", request.ImpressionID, err)
		return metrics.OutcomeError
	}

	glog.V(2).Infof("--- BIDDING --- Impression: %s Matched Campaign: %d", request.ImpressionID, campaign.ID)
	return metrics.OutcomeBid
}

func (p *Pipeline) commit(msg messaging.Message) {
	// Commit with a fresh context so shutdown doesn't turn a processed
	// message into a failed commit.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.consumer.Commit(ctx, msg); err != nil {
		glog.Errorf("error committing message (key=%s): %v", string(msg.Key), err)
	}
}
