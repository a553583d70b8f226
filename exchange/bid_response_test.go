package exchange

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KishanRaj0007/rtb-engine/campaigns"
)

func TestNewBidResponse(t *testing.T) {
	request := BidRequest{ImpressionID: "imp-1", AdvertiserID: "79", GeoID: "187", OSID: "56"}
	campaign := campaigns.Campaign{
		ID:           42,
		AdvertiserID: "79",
		TargetingGeo: "187",
		TargetingOS:  "56",
		BidPrice:     decimal.RequireFromString("0.75"),
	}

	response := NewBidResponse(request, campaign)

	assert.Equal(t, "imp-1", response.ImpressionID)
	assert.Equal(t, "42", response.CampaignID)
	assert.Equal(t, "79", response.AdvertiserID)
	assert.True(t, decimal.RequireFromString("0.75").Equal(response.BidPrice))
}

func TestBidResponseJSONKeepsFixedPointPrice(t *testing.T) {
	response := BidResponse{
		ImpressionID: "imp-1",
		CampaignID:   "42",
		AdvertiserID: "79",
		BidPrice:     decimal.RequireFromString("0.75"),
	}

	raw, err := json.Marshal(response)
	require.NoError(t, err)
	// decimal marshals as a quoted fixed-point string, never a float.
	assert.JSONEq(t, `{"impressionId":"imp-1","campaignId":"42","advertiserId":"79","bidPrice":"0.75"}`, string(raw))
}
