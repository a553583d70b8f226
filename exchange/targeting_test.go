package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KishanRaj0007/rtb-engine/campaigns"
)

func TestMatchesTargeting(t *testing.T) {
	testCases := []struct {
		description string
		geo         string
		os          string
		request     BidRequest
		expected    bool
	}{
		{
			description: "Exact geo and os match",
			geo:         "187",
			os:          "56",
			request:     BidRequest{GeoID: "187", OSID: "56"},
			expected:    true,
		},
		{
			description: "OS mismatch loses even with a geo match",
			geo:         "187",
			os:          "56",
			request:     BidRequest{GeoID: "187", OSID: "99"},
			expected:    false,
		},
		{
			description: "Geo mismatch loses even with an os match",
			geo:         "187",
			os:          "56",
			request:     BidRequest{GeoID: "99", OSID: "56"},
			expected:    false,
		},
		{
			description: "Empty geo is a wildcard",
			geo:         "",
			os:          "56",
			request:     BidRequest{GeoID: "anything", OSID: "56"},
			expected:    true,
		},
		{
			description: "Empty os is a wildcard",
			geo:         "187",
			os:          "",
			request:     BidRequest{GeoID: "187", OSID: "anything"},
			expected:    true,
		},
		{
			description: "Both empty matches everything",
			geo:         "",
			os:          "",
			request:     BidRequest{GeoID: "1", OSID: "2"},
			expected:    true,
		},
		{
			description: "Targeting field packing several ids matches by containment",
			geo:         "186,187,188",
			os:          "55,56",
			request:     BidRequest{GeoID: "187", OSID: "56"},
			expected:    true,
		},
		{
			description: "Containment is textual, not set membership",
			geo:         "1875",
			os:          "56",
			request:     BidRequest{GeoID: "187", OSID: "56"},
			expected:    true,
		},
	}

	for _, test := range testCases {
		campaign := campaigns.Campaign{TargetingGeo: test.geo, TargetingOS: test.os}
		assert.Equal(t, test.expected, MatchesTargeting(campaign, test.request), test.description)
	}
}

func TestMatchesTargetingIsPure(t *testing.T) {
	campaign := campaigns.Campaign{TargetingGeo: "187", TargetingOS: "56"}
	request := BidRequest{GeoID: "187", OSID: "56"}

	first := MatchesTargeting(campaign, request)
	second := MatchesTargeting(campaign, request)

	assert.Equal(t, first, second, "matching the same inputs twice must give the same answer")
	assert.Equal(t, campaigns.Campaign{TargetingGeo: "187", TargetingOS: "56"}, campaign, "the campaign must not be mutated")
	assert.Equal(t, BidRequest{GeoID: "187", OSID: "56"}, request, "the request must not be mutated")
}
