package memory

import (
	"context"
	"encoding/json"

	"github.com/coocood/freecache"
	"github.com/golang/glog"

	"github.com/KishanRaj0007/rtb-engine/campaigns"
)

// NewCache returns an in-process campaigns.Cache backed by freecache.
//
// Values are stored JSON-encoded so the entry layout matches the shared
// redis backend; a cached empty list is the two bytes "[]", which keeps it
// distinct from an absent key.
func NewCache(sizeBytes int, ttlSeconds int) *Cache {
	return &Cache{
		cache:      freecache.NewCache(sizeBytes),
		ttlSeconds: ttlSeconds,
	}
}

type Cache struct {
	cache      *freecache.Cache
	ttlSeconds int
}

func (c *Cache) Get(ctx context.Context, advertiserID string) ([]campaigns.Campaign, bool) {
	raw, err := c.cache.Get([]byte(advertiserID))
	if err != nil {
		// freecache reports both not-found and expired as an error here.
		return nil, false
	}

	found := []campaigns.Campaign{}
	if err := json.Unmarshal(raw, &found); err != nil {
		glog.Errorf("corrupt campaign cache entry for advertiser %s: %v", advertiserID, err)
		return nil, false
	}
	return found, true
}

func (c *Cache) Set(ctx context.Context, advertiserID string, list []campaigns.Campaign) {
	if list == nil {
		list = []campaigns.Campaign{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		glog.Errorf("unable to encode campaigns for advertiser %s: %v", advertiserID, err)
		return
	}
	if err := c.cache.Set([]byte(advertiserID), raw, c.ttlSeconds); err != nil {
		glog.Errorf("unable to cache campaigns for advertiser %s: %v", advertiserID, err)
	}
}

// Clear drops every entry at once. freecache's Clear is atomic over the
// whole key space, so readers see either the old population or none of it.
func (c *Cache) Clear(ctx context.Context) error {
	c.cache.Clear()
	return nil
}
