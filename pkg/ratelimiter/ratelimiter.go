package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitError carries how long the client has to wait before retrying.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return e.Message
}

// CheckAndSetRateLimit reports whether the action is allowed and, if so,
// opens a cooldown window. With no Redis configured everything is allowed.
func CheckAndSetRateLimit(ctx context.Context, client *redis.Client, handle, scope string, window time.Duration) (bool, error) {
	if client == nil {
		return true, nil
	}
	return client.SetNX(ctx, rateLimitKey(handle, scope), "1", window).Result()
}

// GetRateLimitTTL returns the remaining cooldown for the handle/scope pair.
func GetRateLimitTTL(ctx context.Context, client *redis.Client, handle, scope string) (time.Duration, error) {
	if client == nil {
		return 0, nil
	}
	return client.TTL(ctx, rateLimitKey(handle, scope)).Result()
}

// ClearRateLimit releases the cooldown, used to roll back when the guarded
// operation fails.
func ClearRateLimit(ctx context.Context, client *redis.Client, handle, scope string) error {
	if client == nil {
		return nil
	}
	return client.Del(ctx, rateLimitKey(handle, scope)).Err()
}

func rateLimitKey(handle, scope string) string {
	return fmt.Sprintf("ratelimit:%s:%s", scope, handle)
}
