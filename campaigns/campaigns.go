package campaigns

import (
	"context"

	"github.com/shopspring/decimal"
)

// Campaign is one row of the campaigns table. The targeting fields hold
// raw id strings; an empty field targets everything in that dimension.
// Budget is advisory and is not decremented by the bid path.
//
// Campaigns are loaded once at startup and are read-only afterwards, so
// values may be shared freely across goroutines.
type Campaign struct {
	ID           int64           `json:"id"`
	AdvertiserID string          `json:"advertiserId"`
	Budget       decimal.Decimal `json:"budget"`
	TargetingGeo string          `json:"targetingGeo"`
	TargetingOS  string          `json:"targetingOs"`
	BidPrice     decimal.Decimal `json:"bidPrice"`
}

// Store knows how to fetch campaigns from the backing database.
//
// Implementations must be safe for concurrent access by multiple goroutines.
// Callers are expected to share a single instance as much as possible.
type Store interface {
	// FindByAdvertiserID returns every campaign for the given advertiser,
	// in insertion order. A missing advertiser yields an empty slice, not
	// an error.
	FindByAdvertiserID(ctx context.Context, advertiserID string) ([]Campaign, error)
}

// Fetcher is the lookup interface the bid path depends on. It hides whether
// a campaign list came from the cache or from the store.
type Fetcher interface {
	// GetCampaigns returns the campaigns for the given advertiser, in the
	// order the store returned them. The returned slice must only be read.
	GetCampaigns(ctx context.Context, advertiserID string) ([]Campaign, error)

	// InvalidateAll drops every cached entry. Reads racing the flush see
	// either the old or the new state, never a torn one.
	InvalidateAll(ctx context.Context) error
}

// Cache is a key -> campaign-list cache medium. A cached empty list and an
// absent key are distinct states: Get reports ok=false only for the latter.
//
// Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, advertiserID string) ([]Campaign, bool)
	Set(ctx context.Context, advertiserID string, campaigns []Campaign)
	Clear(ctx context.Context) error
}
