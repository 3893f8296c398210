package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"adoptme/internal/ports/ratelimit"
)

const rateLimitPrefix = "adoptme:ratelimit:"

var _ ratelimit.Limiter = (*Cache)(nil)

// tokenBucketScript consume un token de forma atómica. now va en segundos con
// precisión de milisegundos para que el refill no dependa del borde del segundo.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])
	local burst = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local ttl = tonumber(ARGV[4])

	local data = redis.call('HMGET', key, 'tokens', 'last_update')
	local tokens = tonumber(data[1]) or burst
	local last_update = tonumber(data[2]) or now

	local elapsed = math.max(0, now - last_update)
	tokens = math.min(burst, tokens + (elapsed * rate))

	local allowed = 0
	local retry_after = 0
	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		retry_after = math.ceil((1 - tokens) / rate)
	end

	redis.call('HSET', key, 'tokens', tostring(tokens), 'last_update', tostring(now))
	redis.call('EXPIRE', key, ttl)

	return {allowed, retry_after, math.floor(tokens)}
`)

// Allow consume un token del bucket de key. La key se hashea para no guardar
// IPs en claro.
func (c *Cache) Allow(ctx context.Context, key string, rate float64, burst int) (ratelimit.Decision, error) {
	if rate <= 0 || burst <= 0 {
		return ratelimit.Decision{}, fmt.Errorf("invalid bucket: rate=%v burst=%d", rate, burst)
	}

	now := float64(time.Now().UnixMilli()) / 1000
	// el bucket se llena del todo en burst/rate segundos; después la key sobra
	ttl := int(math.Ceil(float64(burst)/rate)) + 1

	res, err := tokenBucketScript.Run(ctx, c.client,
		[]string{rateLimitPrefix + hashKey(key)},
		rate, burst, now, ttl,
	).Int64Slice()
	if err != nil {
		return ratelimit.Decision{}, fmt.Errorf("token bucket: %w", err)
	}
	if len(res) != 3 {
		return ratelimit.Decision{}, fmt.Errorf("token bucket: unexpected reply %v", res)
	}

	return ratelimit.Decision{
		Allowed:    res[0] == 1,
		RetryAfter: time.Duration(res[1]) * time.Second,
		Remaining:  res[2],
	}, nil
}

func hashKey(k string) string {
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}
