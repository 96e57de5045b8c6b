package security

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tripease/internal/status"
)

// RateLimiter throttles booking creation per user with a fixed redis
// counter window. A redis outage fails open; the seat ledger still
// validates every request.
type RateLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
}

func NewRateLimiter(redisClient *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		limit:  limit,
		window: window,
	}
}

// AllowBooking returns ErrRateLimited once the user exceeds the booking
// attempt budget for the current window.
func (r *RateLimiter) AllowBooking(ctx context.Context, userID string) error {
	key := fmt.Sprintf("ratelimit:booking:%s", userID)

	count, err := r.redis.Incr(ctx, key).Result()
	if err != nil {
		return nil
	}
	if count == 1 {
		r.redis.Expire(ctx, key, r.window)
	}
	if count > int64(r.limit) {
		return status.ErrRateLimited
	}
	return nil
}
