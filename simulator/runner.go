package simulator

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/uuid"
	"github.com/golang/glog"

	"github.com/KishanRaj0007/rtb-engine/exchange"
	"github.com/KishanRaj0007/rtb-engine/metrics"
)

// Publisher is the outbound hand-off for generated requests.
type Publisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
}

// NewRunner builds a load generator over an in-memory source.
func NewRunner(source *Source, publisher Publisher, engine metrics.Engine, workers int) *Runner {
	if engine == nil {
		engine = &metrics.NilEngine{}
	}
	if workers < 1 {
		workers = 500
	}
	return &Runner{
		source:    source,
		publisher: publisher,
		engine:    engine,
		workers:   workers,
	}
}

type Runner struct {
	source    *Source
	publisher Publisher
	engine    metrics.Engine
	workers   int
	sent      atomic.Int64
}

// Run starts the worker loops and blocks until ctx is cancelled. Each worker
// picks a random row, builds a request with a fresh impression id, and sends
// it with no sleep in between: full throughput is the point.
func (r *Runner) Run(ctx context.Context) {
	glog.Infof("Starting simulation with %d parallel workers over %d source rows", r.workers, r.source.Len())

	var wg sync.WaitGroup
	wg.Add(r.workers)
	for i := 0; i < r.workers; i++ {
		seed := time.Now().UnixNano() + int64(i)
		go func(rnd *rand.Rand) {
			defer wg.Done()
			r.loop(ctx, rnd)
		}(rand.New(rand.NewSource(seed)))
	}
	wg.Wait()
	glog.Infof("Simulation stopped after %d requests", r.sent.Load())
}

func (r *Runner) loop(ctx context.Context, rnd *rand.Rand) {
	for ctx.Err() == nil {
		request := BuildRequest(r.source.Random(rnd))
		payload, err := json.Marshal(request)
		if err != nil {
			glog.Errorf("error encoding simulated request %s: %v", request.ImpressionID, err)
			continue
		}
		if err := r.publisher.Publish(ctx, request.ImpressionID, payload); err != nil {
			if ctx.Err() != nil {
				return
			}
			// A failed send must not kill the worker.
			glog.Errorf("error sending simulated request %s: %v", request.ImpressionID, err)
			continue
		}
		r.engine.RecordSimulatedRequest()

		if count := r.sent.Add(1); count%1000 == 0 {
			glog.Infof("Successfully sent %d total requests. Last ID: %s", count, request.ImpressionID)
		}
	}
}

// BuildRequest maps a source row to a bid request with a new impression id.
func BuildRequest(row Row) exchange.BidRequest {
	return exchange.BidRequest{
		ImpressionID:     uuid.Must(uuid.NewV4()).String(),
		SiteID:           row.SiteID,
		AdTypeID:         row.AdTypeID,
		GeoID:            row.GeoID,
		DeviceCategoryID: row.DeviceCategoryID,
		AdvertiserID:     row.AdvertiserID,
		OSID:             row.OSID,
	}
}

// Sent reports how many requests have been emitted so far.
func (r *Runner) Sent() int64 {
	return r.sent.Load()
}
