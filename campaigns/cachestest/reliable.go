package cachestest

import (
	"context"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/KishanRaj0007/rtb-engine/campaigns"
)

const knownAdvertiser = "79"

// AssertCacheRobustness runs tests which can be used to validate any Cache that is 100% reliable.
// That is, its Set() and Clear() functions _always_ work.
//
// The cacheSupplier should be a function which returns a new Cache (with no data inside) on every call,
// so that different tests don't conflict.
func AssertCacheRobustness(t *testing.T, cacheSupplier func() campaigns.Cache) {
	t.Run("TestCacheMiss", cacheMissTester(cacheSupplier()))
	t.Run("TestCacheHit", cacheHitTester(cacheSupplier()))
	t.Run("TestEmptyListRoundTrip", emptyListTester(cacheSupplier()))
	t.Run("TestClear", clearTester(cacheSupplier()))
	t.Run("TestConcurrentAccess", concurrencyTester(cacheSupplier()))
}

func cacheMissTester(cache campaigns.Cache) func(*testing.T) {
	return func(t *testing.T) {
		if _, ok := cache.Get(context.Background(), "unknown"); ok {
			t.Error("An empty cache shouldn't report a hit.")
		}
	}
}

func cacheHitTester(cache campaigns.Cache) func(*testing.T) {
	return func(t *testing.T) {
		stored := []campaigns.Campaign{sampleCampaign(1)}
		cache.Set(context.Background(), knownAdvertiser, stored)

		got, ok := cache.Get(context.Background(), knownAdvertiser)
		if !ok {
			t.Fatal("The cache lost a stored entry.")
		}
		assertSameCampaigns(t, stored, got)
	}
}

// A cached empty list must read back as a hit. Only a key that was never
// written reads as a miss.
func emptyListTester(cache campaigns.Cache) func(*testing.T) {
	return func(t *testing.T) {
		cache.Set(context.Background(), knownAdvertiser, []campaigns.Campaign{})

		got, ok := cache.Get(context.Background(), knownAdvertiser)
		if !ok {
			t.Fatal("A cached empty list must not read back as a miss.")
		}
		if len(got) != 0 {
			t.Errorf("Expected an empty campaign list. Got %d entries.", len(got))
		}
	}
}

func clearTester(cache campaigns.Cache) func(*testing.T) {
	return func(t *testing.T) {
		cache.Set(context.Background(), knownAdvertiser, []campaigns.Campaign{sampleCampaign(1)})
		cache.Set(context.Background(), "88", []campaigns.Campaign{sampleCampaign(2)})

		if err := cache.Clear(context.Background()); err != nil {
			t.Fatalf("Clear failed: %v", err)
		}

		if _, ok := cache.Get(context.Background(), knownAdvertiser); ok {
			t.Error("Clear left an entry behind for advertiser 79.")
		}
		if _, ok := cache.Get(context.Background(), "88"); ok {
			t.Error("Clear left an entry behind for advertiser 88.")
		}
	}
}

func concurrencyTester(cache campaigns.Cache) func(*testing.T) {
	return func(t *testing.T) {
		done := make(chan struct{})

		go func() {
			for i := 0; i < 100; i++ {
				id := strconv.Itoa(i)
				cache.Set(context.Background(), id, []campaigns.Campaign{sampleCampaign(int64(i))})
			}
			done <- struct{}{}
		}()
		go func() {
			for i := 0; i < 100; i++ {
				cache.Get(context.Background(), strconv.Itoa(i))
			}
			done <- struct{}{}
		}()
		go func() {
			for i := 0; i < 10; i++ {
				cache.Clear(context.Background())
			}
			done <- struct{}{}
		}()

		for i := 0; i < 3; i++ {
			<-done
		}
	}
}

func sampleCampaign(id int64) campaigns.Campaign {
	return campaigns.Campaign{
		ID:           id,
		AdvertiserID: knownAdvertiser,
		Budget:       decimal.RequireFromString("9000.00"),
		TargetingGeo: "187",
		TargetingOS:  "56",
		BidPrice:     decimal.RequireFromString("0.75"),
	}
}

func assertSameCampaigns(t *testing.T, expected []campaigns.Campaign, actual []campaigns.Campaign) {
	t.Helper()
	if len(expected) != len(actual) {
		t.Fatalf("Wrong campaign count. Expected %d, Got %d.", len(expected), len(actual))
	}
	for i := range expected {
		if expected[i].ID != actual[i].ID ||
			expected[i].AdvertiserID != actual[i].AdvertiserID ||
			!expected[i].Budget.Equal(actual[i].Budget) ||
			expected[i].TargetingGeo != actual[i].TargetingGeo ||
			expected[i].TargetingOS != actual[i].TargetingOS ||
			!expected[i].BidPrice.Equal(actual[i].BidPrice) {
			t.Errorf("Campaign %d did not survive the round trip. Expected %+v, Got %+v.", i, expected[i], actual[i])
		}
	}
}
