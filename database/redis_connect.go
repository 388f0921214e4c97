package database

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis builds a Redis client from addr, or nil when addr is empty or
// the server is unreachable. Callers treat a nil client as "caching off".
func ConnectRedis(addr string) *redis.Client {
	if addr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Println("redis unavailable, caching disabled:", err)
		_ = rdb.Close()
		return nil
	}

	log.Println("Connected to redis")
	return rdb
}
