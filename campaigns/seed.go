package campaigns

import "github.com/shopspring/decimal"

// SeedData is the fixed campaign set loaded at startup. Advertiser/geo/os
// combinations mirror the most frequent tuples in the simulator's source
// feed, so a realistic share of the synthetic traffic finds a bid.
func SeedData() []Campaign {
	return []Campaign{
		seedCampaign("79", "9000.00", "187", "56", "0.75"),
		seedCampaign("88", "5000.00", "187", "56", "0.65"),
		seedCampaign("90", "4000.00", "187", "56", "0.60"),
		seedCampaign("97", "3000.00", "187", "56", "0.55"),
		seedCampaign("139", "5000.00", "187", "55", "0.50"),
		seedCampaign("79", "8000.00", "187", "55", "0.70"),
		seedCampaign("79", "6000.00", "187", "58", "0.62"),
		seedCampaign("79", "6000.00", "187", "60", "0.61"),
	}
}

func seedCampaign(advertiserID string, budget string, geo string, os string, bidPrice string) Campaign {
	return Campaign{
		AdvertiserID: advertiserID,
		Budget:       decimal.RequireFromString(budget),
		TargetingGeo: geo,
		TargetingOS:  os,
		BidPrice:     decimal.RequireFromString(bidPrice),
	}
}
