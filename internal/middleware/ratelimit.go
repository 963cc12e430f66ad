package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/table-reservation/internal/config"
)

// bucketScript refills continuously at rate tokens per millisecond, then
// takes cost tokens if that many are left.
// ARGV: now_ms, capacity, rate, cost, ttl_seconds.
// Returns {allowed, remaining, retry_after_ms}.
var bucketScript = redis.NewScript(`
	local now = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local rate = tonumber(ARGV[3])
	local cost = tonumber(ARGV[4])

	local tokens = tonumber(redis.call('HGET', KEYS[1], 'tokens'))
	local seen = tonumber(redis.call('HGET', KEYS[1], 'seen_ms'))
	if tokens == nil or seen == nil then
		tokens, seen = capacity, now
	end
	tokens = math.min(capacity, tokens + math.max(0, now - seen) * rate)

	local allowed, wait = 0, 0
	if tokens >= cost then
		allowed = 1
		tokens = tokens - cost
	else
		wait = math.ceil((cost - tokens) / rate)
	end
	redis.call('HSET', KEYS[1], 'tokens', tostring(tokens), 'seen_ms', now)
	redis.call('EXPIRE', KEYS[1], tonumber(ARGV[5]))
	return {allowed, math.floor(tokens), wait}
`)

// NewTokenBucket limits requests per key with a Redis token bucket.  Reads
// take one token and writes take cfg.WriteCost, so a client can look up
// availability many times for each booking attempt.  Redis errors let the
// request through.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	rate := float64(cfg.RefillTokens) / float64(cfg.RefillInterval.Milliseconds())
	ttl := int64(cfg.TTL / time.Second)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rateKey(cfg, c)
			cost := requestCost(cfg, c.Request().Method)
			vals, err := bucketScript.Run(c.Request().Context(), rdb, []string{key},
				time.Now().UnixMilli(), cfg.Capacity, rate, cost, ttl).Int64Slice()
			if err != nil || len(vals) != 3 {
				if cfg.Debug {
					c.Logger().Warnj(log.JSON{"msg": "rate limit check failed", "key": key, "error": errString(err)})
				}
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(vals[1], 10))
			if cfg.Debug {
				h.Set("X-RateLimit-Key", key)
			}
			if vals[0] != 1 {
				secs := (vals[2] + 999) / 1000
				if secs < 1 {
					secs = 1
				}
				h.Set("Retry-After", strconv.FormatInt(secs, 10))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too many requests",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}

func requestCost(cfg config.RateLimitConfig, method string) int {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return 1
	}
	return cfg.WriteCost
}

// rateKey builds prefix:ip:<ip>[:route:<route>] or prefix:staff:<id>.
func rateKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	parts := []string{cfg.Prefix}
	switch strings.ToLower(cfg.KeyStrategy) {
	case "ip":
		parts = append(parts, "ip", ip)
	case "staff":
		if who := subject(c); who != "guest" {
			parts = append(parts, "staff", who)
		} else {
			parts = append(parts, "ip", ip)
		}
	default:
		parts = append(parts, "ip", ip, "route", c.Request().Method+" "+c.Path())
	}
	return strings.Join(parts, ":")
}

func errString(err error) string {
	if err == nil {
		return "unexpected reply"
	}
	return err.Error()
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }
