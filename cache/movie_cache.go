package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// MovieCache stores rendered movie-list pages. All methods are no-ops when
// the cache (or its client) is nil, so callers never branch on availability.
type MovieCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *MovieCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &MovieCache{rdb: rdb, ttl: ttl}
}

func pageKey(page int) string {
	return fmt.Sprintf("movies:page:%d", page)
}

// GetPage returns the cached JSON body for a page, if present.
func (m *MovieCache) GetPage(ctx context.Context, page int) ([]byte, bool) {
	if m == nil || m.rdb == nil {
		return nil, false
	}
	body, err := m.rdb.Get(ctx, pageKey(page)).Bytes()
	if err != nil {
		return nil, false
	}
	return body, true
}

// SetPage stores a rendered page body. Failures only disable the hit.
func (m *MovieCache) SetPage(ctx context.Context, page int, body []byte) {
	if m == nil || m.rdb == nil {
		return
	}
	if err := m.rdb.Set(ctx, pageKey(page), body, m.ttl).Err(); err != nil {
		log.Println("cache set failed:", err)
	}
}

// Invalidate drops every cached page. Called on any write that can change a
// rendered page, including renames of referenced entities.
func (m *MovieCache) Invalidate(ctx context.Context) {
	if m == nil || m.rdb == nil {
		return
	}
	iter := m.rdb.Scan(ctx, 0, "movies:page:*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Println("cache scan failed:", err)
		return
	}
	if len(keys) > 0 {
		if err := m.rdb.Del(ctx, keys...).Err(); err != nil {
			log.Println("cache invalidate failed:", err)
		}
	}
}
