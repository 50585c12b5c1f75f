package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindowScript increments the attempt counter and arms its expiry only
// when the counter is new, so later attempts never extend the window.
var fixedWindowScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// RateLimiter is a fixed-window limiter shared by every API instance.
// Key format: ratelimit:<scope>:<client_key>
type RateLimiter struct {
	client *redis.Client
	scope  string
	max    int64
	window time.Duration
}

// NewRateLimiter creates a RateLimiter wrapping the given Redis client.
func NewRateLimiter(client *redis.Client, scope string, max int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, scope: scope, max: int64(max), window: window}
}

// Admit counts an attempt for key and reports whether it is within the limit.
func (l *RateLimiter) Admit(ctx context.Context, key string) (bool, error) {
	n, err := fixedWindowScript.Run(ctx, l.client, []string{l.key(key)}, l.window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("rate limit: %w", err)
	}
	return n <= l.max, nil
}

func (l *RateLimiter) key(clientKey string) string {
	return fmt.Sprintf("ratelimit:%s:%s", l.scope, clientKey)
}
