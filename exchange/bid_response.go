package exchange

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/KishanRaj0007/rtb-engine/campaigns"
)

// BidResponse is the outbound decision record for a won impression. BidPrice
// serializes through shopspring/decimal's fixed-point JSON form, never a
// float, so downstream monetary comparisons are exact.
type BidResponse struct {
	ImpressionID string          `json:"impressionId"`
	CampaignID   string          `json:"campaignId"`
	AdvertiserID string          `json:"advertiserId"`
	BidPrice     decimal.Decimal `json:"bidPrice"`
}

// NewBidResponse builds the response for a selected campaign.
func NewBidResponse(request BidRequest, campaign campaigns.Campaign) BidResponse {
	return BidResponse{
		ImpressionID: request.ImpressionID,
		CampaignID:   strconv.FormatInt(campaign.ID, 10),
		AdvertiserID: campaign.AdvertiserID,
		BidPrice:     campaign.BidPrice,
	}
}
