package config

import "time"

// CacheConfig controls the Redis response cache in front of the public
// catalog endpoints.  Only GET responses are cached; the seat tables are
// never served from cache because seat numbers must always reflect the
// latest committed ledger writes.
type CacheConfig struct {
	Enabled      bool          // master switch
	TTL          time.Duration // lifetime of cached responses
	Prefix       string        // key namespace
	MaxBodyBytes int           // largest response body worth caching
}

// LoadCacheConfig builds a CacheConfig from the environment with defaults
// suited to a rarely-changing catalog.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", time.Minute),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}
