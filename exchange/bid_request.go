package exchange

import (
	"encoding/json"
	"errors"
	"fmt"
)

// BidRequest is one inbound ad-impression opportunity. All fields are opaque
// id strings from the source feed. Values are immutable once parsed.
type BidRequest struct {
	ImpressionID     string `json:"impressionId"`
	SiteID           string `json:"siteId"`
	AdTypeID         string `json:"adTypeId"`
	GeoID            string `json:"geoId"`
	DeviceCategoryID string `json:"deviceCategoryId"`
	AdvertiserID     string `json:"advertiserId"`
	OSID             string `json:"osId"`
}

// ErrMissingImpressionID flags an inbound message without an impression id.
// Such a message cannot be correlated downstream, so it is rejected at the
// boundary instead of entering the pipeline.
var ErrMissingImpressionID = errors.New("bid request has no impressionId")

// ParseBidRequest decodes an inbound message. Unknown fields are tolerated
// so that producers can add fields without breaking this consumer.
func ParseBidRequest(raw []byte) (BidRequest, error) {
	var request BidRequest
	if err := json.Unmarshal(raw, &request); err != nil {
		return BidRequest{}, fmt.Errorf("malformed bid request: %w", err)
	}
	if request.ImpressionID == "" {
		return BidRequest{}, ErrMissingImpressionID
	}
	return request, nil
}
