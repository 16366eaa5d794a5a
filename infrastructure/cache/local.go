package cache

import (
	"sync"
	"time"
)

type item struct {
	value      any
	expiration int64
}

func (i item) expired() bool {
	if i.expiration == 0 {
		return false
	}
	return time.Now().UnixNano() > i.expiration
}

// Local is a TTL map used as the first tier in front of Redis.
type Local struct {
	items       map[string]item
	mu          sync.RWMutex
	stopCleanup chan struct{}
	once        sync.Once
}

func NewLocal(cleanupInterval time.Duration) *Local {
	c := &Local{
		items:       make(map[string]item),
		stopCleanup: make(chan struct{}),
	}

	go c.startCleanupTimer(cleanupInterval)

	return c
}

func (c *Local) startCleanupTimer(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopCleanup:
			return
		}
	}
}

func (c *Local) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UnixNano()
	for key, it := range c.items {
		if it.expiration > 0 && now > it.expiration {
			delete(c.items, key)
		}
	}
}

func (c *Local) Set(key string, value any, ttl time.Duration) {
	var exp int64
	if ttl > 0 {
		exp = time.Now().Add(ttl).UnixNano()
	}

	c.mu.Lock()
	c.items[key] = item{value: value, expiration: exp}
	c.mu.Unlock()
}

func (c *Local) Get(key string) (any, bool) {
	c.mu.RLock()
	it, found := c.items[key]
	c.mu.RUnlock()

	if !found || it.expired() {
		return nil, false
	}

	return it.value, true
}

func (c *Local) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

func (c *Local) Flush() {
	c.mu.Lock()
	c.items = make(map[string]item)
	c.mu.Unlock()
}

func (c *Local) Close() {
	c.once.Do(func() {
		close(c.stopCleanup)
	})
}
