package config

import (
	"context"
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisClient backs the cross-process response caches (stock overview). Nil
// means Redis is not configured; callers must fall back to computing fresh.
var RedisClient *redis.Client

// InitRedis builds the client from REDIS_ADDR, REDIS_PASS and REDIS_DB.
// Leaves RedisClient nil when no address is set.
func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		RedisClient = nil
		return
	}
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASS"),
		DB:       db,
	})
}

// RedisCtx returns the context for cache calls.
func RedisCtx() context.Context {
	return context.Background()
}
