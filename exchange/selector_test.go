package exchange

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/KishanRaj0007/rtb-engine/campaigns"
)

func TestSelectFirstMatchWins(t *testing.T) {
	// The second campaign bids higher, but the first one matches and
	// selection is in-order, not best-price.
	list := []campaigns.Campaign{
		{ID: 1, TargetingGeo: "187", TargetingOS: "56", BidPrice: decimal.RequireFromString("0.10")},
		{ID: 2, TargetingGeo: "187", TargetingOS: "56", BidPrice: decimal.RequireFromString("0.90")},
	}

	selected, ok := SelectCampaign(list, BidRequest{GeoID: "187", OSID: "56"})

	assert.True(t, ok)
	assert.Equal(t, int64(1), selected.ID)
}

func TestSelectSkipsNonMatching(t *testing.T) {
	// Only the second campaign matches: the first is checked and fails,
	// the second is checked and succeeds.
	list := []campaigns.Campaign{
		{ID: 1, TargetingGeo: "200", TargetingOS: "56"},
		{ID: 2, TargetingGeo: "187", TargetingOS: "56"},
	}

	selected, ok := SelectCampaign(list, BidRequest{GeoID: "187", OSID: "56"})

	assert.True(t, ok)
	assert.Equal(t, int64(2), selected.ID)
}

func TestSelectNoBid(t *testing.T) {
	list := []campaigns.Campaign{
		{ID: 1, TargetingGeo: "187", TargetingOS: "56"},
	}

	_, ok := SelectCampaign(list, BidRequest{GeoID: "187", OSID: "99"})
	assert.False(t, ok, "a request matching no campaign must be a no-bid")

	_, ok = SelectCampaign(nil, BidRequest{GeoID: "187", OSID: "56"})
	assert.False(t, ok, "an empty campaign list must be a no-bid")
}
