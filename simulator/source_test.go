package simulator

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sourceHeader = "id,site_id,ad_type_id,geo_id,device_category_id,advertiser_id,col6,col7,os_id\n"

func TestReadSource(t *testing.T) {
	feed := sourceHeader +
		"1, 12, 3, 187, 2, 79, x, y, 56\n" +
		"2,13,4,188,1,88,x,y,55\n"

	source, rejected, err := readSource(strings.NewReader(feed))
	require.NoError(t, err)
	assert.Equal(t, 0, rejected)
	require.Equal(t, 2, source.Len())

	row := source.rows[0]
	assert.Equal(t, "12", row.SiteID)
	assert.Equal(t, "3", row.AdTypeID)
	assert.Equal(t, "187", row.GeoID)
	assert.Equal(t, "2", row.DeviceCategoryID)
	assert.Equal(t, "79", row.AdvertiserID)
	assert.Equal(t, "56", row.OSID, "os_id comes from column 8, not column 6")
}

func TestReadSourceRejectsShortRows(t *testing.T) {
	feed := sourceHeader +
		"1,12,3,187,2,79,x,y,56\n" +
		"2,13,4\n" +
		"3,14,5,189,1,90,x,y,57\n"

	source, rejected, err := readSource(strings.NewReader(feed))
	require.NoError(t, err)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, 2, source.Len(), "short rows must not become requests")
}

func TestReadSourceFailsWithNoUsableRows(t *testing.T) {
	_, _, err := readSource(strings.NewReader(sourceHeader + "1,2,3\n"))
	assert.Error(t, err, "a feed with only malformed rows cannot drive the simulator")
}

func TestRandomCoversTheFeed(t *testing.T) {
	feed := sourceHeader +
		"1,12,3,187,2,79,x,y,56\n" +
		"2,13,4,188,1,88,x,y,55\n" +
		"3,14,5,189,1,90,x,y,57\n"
	source, _, err := readSource(strings.NewReader(feed))
	require.NoError(t, err)

	rnd := rand.New(rand.NewSource(1))
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[source.Random(rnd).AdvertiserID] = true
	}
	assert.Len(t, seen, 3, "random sampling should reach every row eventually")
}
