package exchange

import (
	"strings"

	"github.com/KishanRaj0007/rtb-engine/campaigns"
)

// MatchesTargeting reports whether a campaign's targeting admits a request.
//
// Each dimension is a substring-containment check, not equality: a targeting
// field can pack several ids into one string (e.g. "55,56"), and an empty
// field is a wildcard. A campaign matches only if both the geo and os
// dimensions match.
func MatchesTargeting(campaign campaigns.Campaign, request BidRequest) bool {
	return matchesDimension(campaign.TargetingGeo, request.GeoID) &&
		matchesDimension(campaign.TargetingOS, request.OSID)
}

func matchesDimension(targeting string, id string) bool {
	return targeting == "" || strings.Contains(targeting, id)
}
