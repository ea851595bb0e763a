package config

// Redis backs the distributed rate limiter.  When the server cannot be
// reached at startup the limiter is disabled rather than failing the process.

import (
	"context"
	"crypto/tls"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis as described by the environment and pings
// it.  The returned client is nil if the server cannot be reached.
func NewRedisClient(ctx context.Context) *redis.Client {
	client := redis.NewClient(redisOptions(os.LookupEnv))

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}

// redisOptions reads:
//
//	REDIS_HOST and REDIS_PORT – hostname and port of the Redis server
//	REDIS_ADDR – host:port shorthand (host/port win when both are set)
//	REDIS_PASSWORD – optional password
//	REDIS_DB – database number (default 0)
//	REDIS_TLS – enable TLS when "true" or "1"
func redisOptions(lookup func(string) (string, bool)) *redis.Options {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	addr := get("REDIS_ADDR")
	if host, port := get("REDIS_HOST"), get("REDIS_PORT"); host != "" && port != "" {
		addr = host + ":" + port
	}
	if addr == "" {
		addr = "localhost:6379"
	}
	opts := &redis.Options{Addr: addr, Password: get("REDIS_PASSWORD")}
	if n, err := strconv.Atoi(get("REDIS_DB")); err == nil {
		opts.DB = n
	}
	if v := get("REDIS_TLS"); strings.EqualFold(v, "true") || v == "1" {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts
}
