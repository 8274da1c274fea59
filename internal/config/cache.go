package config

import "time"

// CacheConfig defines settings for the response cache in front of the
// public read routes (area listing, search, detail pages, show index).
// When Enabled is false or no Redis client is configured, caching is
// disabled.  TTL applies to responses that only change on a mutation;
// LiveTTL applies to responses holding upcoming show counts, which also
// change as time passes.  Prefix namespaces the keys and the generation
// counter bumped by each mutation.
type CacheConfig struct {
    Enabled      bool
    TTL          time.Duration
    LiveTTL      time.Duration
    Prefix       string
    MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
    cfg := CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        TTL:          envDur("CACHE_TTL", 30*time.Second),
        LiveTTL:      envDur("CACHE_LIVE_TTL", 5*time.Second),
        Prefix:       envStr("CACHE_PREFIX", "directory:cache"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
    }
    if cfg.TTL <= 0 {
        cfg.TTL = 30 * time.Second
    }
    if cfg.LiveTTL <= 0 || cfg.LiveTTL > cfg.TTL {
        cfg.LiveTTL = min(5*time.Second, cfg.TTL)
    }
    return cfg
}
