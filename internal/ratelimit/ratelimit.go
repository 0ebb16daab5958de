package ratelimit

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter is a fixed-window counter backed by Redis. It throttles vote
// casting per user so a script cannot hammer the escalation counters.
// A nil Redis client disables limiting entirely.
type Limiter struct {
	RDB    *redis.Client
	Limit  int
	Window time.Duration
	Prefix string
}

func New(rdb *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{
		RDB:    rdb,
		Limit:  limit,
		Window: window,
		Prefix: "ratelimit",
	}
}

// Allow increments the caller's counter for the current window and
// reports whether the request is within the limit. Redis being down
// fails open: throttling is protection, not a correctness guarantee.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.RDB == nil {
		return true
	}

	redisKey := fmt.Sprintf("%s:%s", l.Prefix, key)
	count, err := l.RDB.Incr(ctx, redisKey).Result()
	if err != nil {
		log.Printf("ratelimit: incr failed for %s: %v", redisKey, err)
		return true
	}
	if count == 1 {
		if err := l.RDB.Expire(ctx, redisKey, l.Window).Err(); err != nil {
			log.Printf("ratelimit: expire failed for %s: %v", redisKey, err)
		}
	}
	return count <= int64(l.Limit)
}
