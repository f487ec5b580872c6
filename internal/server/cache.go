package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/allegro/bigcache/v3"
)

const defaultCacheSizeMB = 16

// ResultCache keeps encoded solve responses for identical requests. All
// entries share one TTL. A nil *ResultCache never hits.
type ResultCache struct {
	cache *bigcache.BigCache
}

// NewResultCache creates an in-memory cache bounded to maxSizeMB.
func NewResultCache(ttl time.Duration, maxSizeMB int) (*ResultCache, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("result cache ttl must be positive, got %s", ttl)
	}
	if maxSizeMB <= 0 {
		maxSizeMB = defaultCacheSizeMB
	}

	cfg := bigcache.DefaultConfig(ttl)
	cfg.Shards = 16
	cfg.MaxEntriesInWindow = 1024
	cfg.MaxEntrySize = 4096
	cfg.HardMaxCacheSize = maxSizeMB
	cfg.CleanWindow = time.Minute
	cfg.Verbose = false

	cache, err := bigcache.New(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize result cache: %w", err)
	}
	return &ResultCache{cache: cache}, nil
}

// Get returns the cached response body for key.
func (c *ResultCache) Get(key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.cache.Get(key)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores body under key.
func (c *ResultCache) Set(key string, body []byte) error {
	if c == nil {
		return nil
	}
	return c.cache.Set(key, body)
}

// Len reports the number of live entries.
func (c *ResultCache) Len() int {
	if c == nil {
		return 0
	}
	return c.cache.Len()
}

// Close releases the cache.
func (c *ResultCache) Close() error {
	if c == nil {
		return nil
	}
	return c.cache.Close()
}

// cacheKey identifies a solve request by its configuration bytes, input
// format and warning decision.
func cacheKey(configBytes []byte, format string, opts solveOptions) string {
	h := sha256.New()
	h.Write([]byte(format))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatBool(opts.AcceptWarnings)))
	h.Write([]byte{0})
	h.Write(configBytes)
	return hex.EncodeToString(h.Sum(nil))
}
