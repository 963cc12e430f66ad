package config

import "time"

// RateLimitConfig configures the Redis token bucket on the public and
// login endpoints.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int           // burst size in tokens
	RefillTokens   int           // tokens regained per RefillInterval
	RefillInterval time.Duration
	WriteCost      int // tokens taken by POST/PUT/PATCH/DELETE
	TTL            time.Duration
	KeyStrategy    string // ip, staff or ip_route
	Prefix         string
	Debug          bool
}

// LoadRateLimitConfig reads RATE_LIMIT_* variables and clamps them to
// usable values.
func LoadRateLimitConfig() RateLimitConfig {
	c := RateLimitConfig{
		Enabled:        envBool("RATE_LIMIT_ENABLED", true),
		Capacity:       envInt("RATE_LIMIT_CAPACITY", 30),
		RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", 2*time.Second),
		WriteCost:      envInt("RATE_LIMIT_WRITE_COST", 5),
		TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
		KeyStrategy:    envStr("RATE_LIMIT_KEY_STRATEGY", "ip_route"),
		Prefix:         envStr("RATE_LIMIT_PREFIX", "rl"),
		Debug:          envBool("RATE_LIMIT_DEBUG", false),
	}
	if c.Capacity < 1 {
		c.Capacity = 1
	}
	if c.RefillTokens < 1 {
		c.RefillTokens = 1
	}
	if c.RefillInterval < time.Millisecond {
		c.RefillInterval = time.Second
	}
	if c.WriteCost < 1 {
		c.WriteCost = 1
	}
	if c.WriteCost > c.Capacity {
		c.WriteCost = c.Capacity
	}
	if minTTL := 5 * c.RefillInterval; c.TTL < minTTL {
		c.TTL = minTTL
	}
	return c
}
