package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinebook/internal/config"
)

// MsgTooManyRequests is the body message of a rejected request.
const MsgTooManyRequests = "Too many requests, please try again later."

// takeScript refills the bucket at KEYS[1] for every whole interval elapsed
// since the last refill, then tries to take one token.
//
//	ARGV: now_ms, capacity, refill_tokens, interval_ms, ttl_s
//	returns: {allowed (0|1), tokens_left, wait_ms}
var takeScript = redis.NewScript(`
local now, cap, step, every, ttl = tonumber(ARGV[1]), tonumber(ARGV[2]), tonumber(ARGV[3]), tonumber(ARGV[4]), tonumber(ARGV[5])
local h = redis.call('HMGET', KEYS[1], 'tokens', 'ts')
local left, ts = tonumber(h[1]), tonumber(h[2])
if left == nil or ts == nil then
	left, ts = cap, now
end
if every > 0 and step > 0 and now > ts then
	local n = math.floor((now - ts) / every)
	if n > 0 then
		left = math.min(cap, left + n * step)
		ts = ts + n * every
	end
end
local ok, wait = 0, 0
if left > 0 then
	ok, left = 1, left - 1
else
	wait = math.max(0, every - (now - ts))
end
redis.call('HSET', KEYS[1], 'tokens', left, 'ts', ts)
redis.call('EXPIRE', KEYS[1], ttl)
return {ok, left, wait}
`)

// decision is the outcome of one take.
type decision struct {
	allowed bool
	left    int64
	wait    time.Duration
}

// bucket is a token bucket shared by every replica through Redis.
type bucket struct {
	cfg config.RateLimitConfig
	rdb *redis.Client
	now func() time.Time
}

func (b bucket) take(ctx context.Context, key string) (decision, error) {
	res, err := takeScript.Run(ctx, b.rdb, []string{key},
		b.now().UnixMilli(),
		b.cfg.Capacity,
		b.cfg.RefillTokens,
		b.cfg.RefillInterval.Milliseconds(),
		int64(b.cfg.TTL/time.Second),
	).Int64Slice()
	if err != nil {
		return decision{}, err
	}
	if len(res) != 3 {
		return decision{}, fmt.Errorf("ratelimit: unexpected reply %v", res)
	}
	return decision{
		allowed: res[0] == 1,
		left:    res[1],
		wait:    time.Duration(res[2]) * time.Millisecond,
	}, nil
}

// NewTokenBucket limits requests per key (see RATE_LIMIT_KEY_STRATEGY) with a
// Redis token bucket.  With limiting disabled or no client it passes
// everything through.  When Redis fails the request is let through.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	return newTokenBucket(cfg, rdb, time.Now)
}

func newTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client, now func() time.Time) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	b := bucket{cfg: cfg, rdb: rdb, now: now}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rateKey(cfg, c)
			d, err := b.take(c.Request().Context(), key)
			if err != nil {
				if cfg.Debug {
					slog.Warn("ratelimit: letting request through", "key", key, "error", err)
				}
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(d.left, 10))
			if d.allowed {
				return next(c)
			}

			// Round up so clients never retry early.
			secs := (d.wait + time.Second - 1) / time.Second
			h.Set("Retry-After", strconv.FormatInt(int64(secs), 10))
			if cfg.Debug {
				slog.Info("ratelimit: rejected", "key", key, "wait", d.wait)
			}
			return c.JSON(http.StatusTooManyRequests, echo.Map{"message": MsgTooManyRequests})
		}
	}
}

// rateKey builds "<prefix>:<part>:<value>..." for the configured strategy.
// Unknown strategies fall back to ip+user+route.
func rateKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	route := c.Request().Method + " " + c.Path()

	var parts []string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "ip":
		parts = []string{"ip", ip}
	case "user":
		parts = []string{"user", userID(c)}
	case "route":
		parts = []string{"route", route}
	case "ip_route":
		parts = []string{"ip", ip, "route", route}
	case "user_route":
		parts = []string{"user", userID(c), "route", route}
	default:
		parts = []string{"ip", ip, "user", userID(c), "route", route}
	}
	return cfg.Prefix + ":" + strings.Join(parts, ":")
}
