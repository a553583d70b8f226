package campaigns

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	"github.com/KishanRaj0007/rtb-engine/metrics"
)

// WithCache wraps a Store in a cache-aside read-through layer.
//
// On a hit the store is never touched. On a miss exactly one store query runs
// and its result, including an empty list, is written back so that advertisers
// with no campaigns do not hammer the database. Concurrent misses for the same
// key are NOT de-duplicated: each one issues its own store query. The store is
// expected to absorb the duplicate reads, and under the synthetic load profile
// a cold key is cold for at most one round-trip.
func WithCache(store Store, cache Cache, engine metrics.Engine) Fetcher {
	if store == nil {
		glog.Fatal("The campaign fetcher requires a backing store. Please report this as a bug.")
	}
	if cache == nil {
		glog.Fatal("The campaign fetcher requires a cache. Please report this as a bug.")
	}
	if engine == nil {
		engine = &metrics.NilEngine{}
	}
	return &cachedFetcher{
		store:  store,
		cache:  cache,
		engine: engine,
	}
}

type cachedFetcher struct {
	store  Store
	cache  Cache
	engine metrics.Engine
}

func (f *cachedFetcher) GetCampaigns(ctx context.Context, advertiserID string) ([]Campaign, error) {
	if cached, ok := f.cache.Get(ctx, advertiserID); ok {
		f.engine.RecordCacheResult(metrics.CacheHit)
		return cached, nil
	}
	f.engine.RecordCacheResult(metrics.CacheMiss)

	fetched, err := f.store.FindByAdvertiserID(ctx, advertiserID)
	if err != nil {
		f.engine.RecordStoreQuery(false)
		return nil, fmt.Errorf("campaign lookup for advertiser %s failed: %w", advertiserID, err)
	}
	f.engine.RecordStoreQuery(true)

	if fetched == nil {
		fetched = []Campaign{}
	}
	f.cache.Set(ctx, advertiserID, fetched)
	return fetched, nil
}

func (f *cachedFetcher) InvalidateAll(ctx context.Context) error {
	return f.cache.Clear(ctx)
}
