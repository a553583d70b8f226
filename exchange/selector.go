package exchange

import (
	"github.com/KishanRaj0007/rtb-engine/campaigns"
)

// SelectCampaign picks the winning campaign for a request, if any.
//
// Selection is first-match-wins over the list in its stored order. It is NOT
// a best-price auction: an earlier cheap campaign beats a later expensive
// one, and changing that would change the system's economics.
//
// The second return value is false on the no-bid outcome, which is the common
// case and not an error.
func SelectCampaign(list []campaigns.Campaign, request BidRequest) (campaigns.Campaign, bool) {
	for _, campaign := range list {
		if MatchesTargeting(campaign, request) {
			return campaign, true
		}
	}
	return campaigns.Campaign{}, false
}
