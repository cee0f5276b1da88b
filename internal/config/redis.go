package config

// Redis backs the distributed rate limiter and the response cache on the
// public mentor directory and schedule reads.  Connection parameters come
// from the environment.  When the server cannot be reached at startup the
// constructor returns nil and callers disable both features instead of
// failing the boot.

import (
	"context"
	"crypto/tls"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a Redis client from the environment and verifies
// it with a short ping.  Recognised variables:
//
//	REDIS_URL      – full redis:// or rediss:// URL, wins over everything else
//	REDIS_HOST, REDIS_PORT – host and port pieces
//	REDIS_ADDR     – host:port shorthand
//	REDIS_PASSWORD – optional password
//	REDIS_DB       – database number, default 0
//	REDIS_TLS      – "true" or "1" enables TLS
//
// Returns nil when no server answers within two seconds.
func NewRedisClient() *redis.Client {
	opts := optionsFromEnv()
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}

func optionsFromEnv() *redis.Options {
	if raw := os.Getenv("REDIS_URL"); raw != "" {
		if opts, err := redis.ParseURL(raw); err == nil {
			return opts
		}
	}
	addr := os.Getenv("REDIS_ADDR")
	if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
		addr = host + ":" + port
	}
	if addr == "" {
		addr = "localhost:6379"
	}
	dbNum := 0
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			dbNum = n
		}
	}
	var tlsConf *tls.Config
	if raw := os.Getenv("REDIS_TLS"); raw == "1" || strings.EqualFold(raw, "true") {
		tlsConf = &tls.Config{InsecureSkipVerify: true}
	}
	return &redis.Options{
		Addr:      addr,
		Password:  os.Getenv("REDIS_PASSWORD"),
		DB:        dbNum,
		TLSConfig: tlsConf,
	}
}
