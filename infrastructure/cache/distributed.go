package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// DistributedCache layers the local TTL map in front of Redis. Values are
// JSON so both tiers agree on representation.
type DistributedCache struct {
	local     *Local
	redis     *redis.Client
	keyPrefix string
	localTTL  time.Duration
}

func NewDistributedCache(client *redis.Client, keyPrefix string) *DistributedCache {
	return &DistributedCache{
		local:     NewLocal(5 * time.Minute),
		redis:     client,
		keyPrefix: keyPrefix,
		localTTL:  time.Minute,
	}
}

func (dc *DistributedCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	localTTL := ttl
	if ttl == 0 || ttl > dc.localTTL {
		localTTL = dc.localTTL
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	dc.local.Set(key, data, localTTL)

	return dc.redis.Set(ctx, dc.keyPrefix+key, data, ttl).Err()
}

func (dc *DistributedCache) Get(ctx context.Context, key string, valuePtr any) (bool, error) {
	if val, found := dc.local.Get(key); found {
		return true, json.Unmarshal(val.([]byte), valuePtr)
	}

	data, err := dc.redis.Get(ctx, dc.keyPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}

	if err := json.Unmarshal(data, valuePtr); err != nil {
		return false, err
	}

	dc.local.Set(key, data, dc.localTTL)

	return true, nil
}

func (dc *DistributedCache) Delete(ctx context.Context, key string) error {
	dc.local.Delete(key)
	return dc.redis.Del(ctx, dc.keyPrefix+key).Err()
}

func (dc *DistributedCache) Close() {
	dc.local.Close()
}
