package campaigns_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KishanRaj0007/rtb-engine/campaigns"
	"github.com/KishanRaj0007/rtb-engine/campaigns/caches/memory"
)

func TestCacheAsideRoundTrip(t *testing.T) {
	store := &countingStore{data: map[string][]campaigns.Campaign{
		"79": {sampleCampaign(1, "79")},
	}}
	fetcher := campaigns.WithCache(store, newTestCache(), nil)

	first, err := fetcher.GetCampaigns(context.Background(), "79")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, store.Calls("79"), "the first lookup must query the store")

	second, err := fetcher.GetCampaigns(context.Background(), "79")
	require.NoError(t, err)
	assert.Equal(t, 1, store.Calls("79"), "the second lookup must be served from the cache")
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestEmptyResultIsCached(t *testing.T) {
	store := &countingStore{data: map[string][]campaigns.Campaign{}}
	fetcher := campaigns.WithCache(store, newTestCache(), nil)

	first, err := fetcher.GetCampaigns(context.Background(), "no-campaigns")
	require.NoError(t, err)
	assert.Empty(t, first)
	assert.Equal(t, 1, store.Calls("no-campaigns"))

	_, err = fetcher.GetCampaigns(context.Background(), "no-campaigns")
	require.NoError(t, err)
	assert.Equal(t, 1, store.Calls("no-campaigns"), "an advertiser with zero campaigns must not be re-queried")
}

func TestStoreErrorIsNotCached(t *testing.T) {
	store := &countingStore{
		data: map[string][]campaigns.Campaign{"79": {sampleCampaign(1, "79")}},
		errs: map[string]error{"79": errors.New("db down")},
	}
	fetcher := campaigns.WithCache(store, newTestCache(), nil)

	_, err := fetcher.GetCampaigns(context.Background(), "79")
	assert.Error(t, err)

	// Once the store recovers the next lookup must reach it again.
	store.ClearErrors()
	found, err := fetcher.GetCampaigns(context.Background(), "79")
	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Equal(t, 2, store.Calls("79"))
}

func TestInvalidateAllForcesRefetch(t *testing.T) {
	store := &countingStore{data: map[string][]campaigns.Campaign{
		"79": {sampleCampaign(1, "79")},
	}}
	fetcher := campaigns.WithCache(store, newTestCache(), nil)

	_, err := fetcher.GetCampaigns(context.Background(), "79")
	require.NoError(t, err)
	require.NoError(t, fetcher.InvalidateAll(context.Background()))

	_, err = fetcher.GetCampaigns(context.Background(), "79")
	require.NoError(t, err)
	assert.Equal(t, 2, store.Calls("79"), "a flushed entry must be re-fetched from the store")
}

func TestConcurrentMissesAreTolerated(t *testing.T) {
	// No single-flight: concurrent cold lookups may each hit the store, and
	// all of them must still return the right data.
	store := &countingStore{data: map[string][]campaigns.Campaign{
		"79": {sampleCampaign(1, "79")},
	}}
	fetcher := campaigns.WithCache(store, newTestCache(), nil)

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			found, err := fetcher.GetCampaigns(context.Background(), "79")
			if err == nil {
				results[slot] = len(found)
			}
		}(i)
	}
	wg.Wait()

	for i, n := range results {
		assert.Equalf(t, 1, n, "goroutine %d saw the wrong campaign count", i)
	}
	assert.GreaterOrEqual(t, store.Calls("79"), 1)
}

func newTestCache() campaigns.Cache {
	return memory.NewCache(1024*1024, 0)
}

func sampleCampaign(id int64, advertiserID string) campaigns.Campaign {
	return campaigns.Campaign{
		ID:           id,
		AdvertiserID: advertiserID,
		Budget:       decimal.RequireFromString("9000.00"),
		TargetingGeo: "187",
		TargetingOS:  "56",
		BidPrice:     decimal.RequireFromString("0.75"),
	}
}

// countingStore is a Store fake which tracks queries per advertiser.
type countingStore struct {
	mu    sync.Mutex
	data  map[string][]campaigns.Campaign
	errs  map[string]error
	calls map[string]int
}

func (s *countingStore) FindByAdvertiserID(ctx context.Context, advertiserID string) ([]campaigns.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[advertiserID]++
	if err := s.errs[advertiserID]; err != nil {
		return nil, err
	}
	return s.data[advertiserID], nil
}

func (s *countingStore) Calls(advertiserID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[advertiserID]
}

func (s *countingStore) ClearErrors() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = nil
}
