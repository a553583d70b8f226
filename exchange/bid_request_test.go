package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBidRequest(t *testing.T) {
	raw := `{
		"impressionId": "imp-1",
		"siteId": "12",
		"adTypeId": "3",
		"geoId": "187",
		"deviceCategoryId": "2",
		"advertiserId": "79",
		"osId": "56"
	}`

	request, err := ParseBidRequest([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "imp-1", request.ImpressionID)
	assert.Equal(t, "12", request.SiteID)
	assert.Equal(t, "3", request.AdTypeID)
	assert.Equal(t, "187", request.GeoID)
	assert.Equal(t, "2", request.DeviceCategoryID)
	assert.Equal(t, "79", request.AdvertiserID)
	assert.Equal(t, "56", request.OSID)
}

func TestParseBidRequestToleratesUnknownFields(t *testing.T) {
	raw := `{"impressionId": "imp-2", "advertiserId": "79", "futureField": {"nested": true}}`

	request, err := ParseBidRequest([]byte(raw))
	require.NoError(t, err, "unknown fields must not break decoding")
	assert.Equal(t, "imp-2", request.ImpressionID)
}

func TestParseBidRequestMissingImpressionID(t *testing.T) {
	_, err := ParseBidRequest([]byte(`{"advertiserId": "79"}`))
	assert.ErrorIs(t, err, ErrMissingImpressionID)
}

func TestParseBidRequestMalformedJSON(t *testing.T) {
	_, err := ParseBidRequest([]byte(`{"impressionId": `))
	assert.Error(t, err)
}
