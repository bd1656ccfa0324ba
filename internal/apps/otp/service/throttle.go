package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RequestThrottle limits how often an OTP may be requested for one phone
type RequestThrottle interface {
	// Allow records a request and reports whether it is within the limit
	Allow(ctx context.Context, phoneNumber string) (bool, error)
}

type noopThrottle struct{}

func (noopThrottle) Allow(ctx context.Context, phoneNumber string) (bool, error) { return true, nil }

// NewNoopThrottle returns a throttle that allows every request
func NewNoopThrottle() RequestThrottle {
	return noopThrottle{}
}

// redisThrottle counts requests per phone in a fixed window
type redisThrottle struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewRedisThrottle creates a Redis-backed fixed-window throttle
func NewRedisThrottle(client *redis.Client, limit int, window time.Duration) RequestThrottle {
	return &redisThrottle{client: client, limit: int64(limit), window: window}
}

func throttleKey(phoneNumber string) string {
	return fmt.Sprintf("otp_requests:%s", phoneNumber)
}

func (t *redisThrottle) Allow(ctx context.Context, phoneNumber string) (bool, error) {
	key := throttleKey(phoneNumber)

	count, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment otp request counter: %w", err)
	}
	if count == 1 {
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			return false, fmt.Errorf("failed to set otp request counter expiry: %w", err)
		}
	}

	return count <= t.limit, nil
}
