package redis

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"time"

	"github.com/golang/glog"
	goredis "github.com/redis/go-redis/v9"

	"github.com/KishanRaj0007/rtb-engine/campaigns"
)

const keyPrefix = "campaigns:"

// Options configures the redis campaign cache.
type Options struct {
	Addr       string
	DB         int
	Username   string
	Password   string
	TLS        bool
	TTLSeconds int
}

// NewCache returns a campaigns.Cache backed by a shared redis instance.
//
// Values are JSON arrays of campaign objects, never a driver-native encoding,
// so an entry written by one process instance is readable by any other. An
// advertiser with zero campaigns is cached as "[]"; only a truly absent key
// (redis.Nil) reads as a miss.
func NewCache(opts Options) *Cache {
	clientOpts := &goredis.Options{
		Addr:         opts.Addr,
		DB:           opts.DB,
		Username:     opts.Username,
		Password:     opts.Password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	}
	if opts.TLS {
		clientOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	return &Cache{
		client: goredis.NewClient(clientOpts),
		ttl:    time.Duration(opts.TTLSeconds) * time.Second,
	}
}

type Cache struct {
	client *goredis.Client
	ttl    time.Duration
}

func (c *Cache) Get(ctx context.Context, advertiserID string) ([]campaigns.Campaign, bool) {
	raw, err := c.client.Get(ctx, Key(advertiserID)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			glog.Errorf("redis campaign lookup for advertiser %s failed: %v", advertiserID, err)
		}
		return nil, false
	}

	found, err := DecodeValue(raw)
	if err != nil {
		glog.Errorf("corrupt campaign cache entry for advertiser %s: %v", advertiserID, err)
		return nil, false
	}
	return found, true
}

func (c *Cache) Set(ctx context.Context, advertiserID string, list []campaigns.Campaign) {
	raw, err := EncodeValue(list)
	if err != nil {
		glog.Errorf("unable to encode campaigns for advertiser %s: %v", advertiserID, err)
		return
	}
	if err := c.client.Set(ctx, Key(advertiserID), raw, c.ttl).Err(); err != nil {
		glog.Errorf("unable to cache campaigns for advertiser %s: %v", advertiserID, err)
	}
}

// Clear sweeps the cache's key namespace. Each DEL is atomic per key, and the
// sweep runs once, synchronously, right after the bulk seed load, before any
// worker starts reading.
func (c *Cache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 500).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) >= 500 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Key is the redis key for one advertiser's campaign list.
func Key(advertiserID string) string {
	return keyPrefix + advertiserID
}

// EncodeValue renders a campaign list as the JSON stored in redis. A nil
// slice encodes as the empty list.
func EncodeValue(list []campaigns.Campaign) ([]byte, error) {
	if list == nil {
		list = []campaigns.Campaign{}
	}
	return json.Marshal(list)
}

// DecodeValue parses a value written by EncodeValue.
func DecodeValue(raw []byte) ([]campaigns.Campaign, error) {
	found := []campaigns.Campaign{}
	if err := json.Unmarshal(raw, &found); err != nil {
		return nil, err
	}
	return found, nil
}
