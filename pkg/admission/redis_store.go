package admission

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// takeScript refills the bucket for the elapsed time and takes one token, atomically.
// KEYS[1] bucket hash; ARGV: capacity, token interval in ms, now in ms, ttl in ms.
// Returns {allowed, remaining, retry_after_ms}.
var takeScript = redis.NewScript(`
local capacity = tonumber(ARGV[1])
local per_token = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

local state = redis.call("HMGET", KEYS[1], "tokens", "ts")
local tokens = tonumber(state[1])
local ts = tonumber(state[2])
if tokens == nil or ts == nil then
  tokens = capacity
  ts = now
end

if now > ts then
  tokens = math.min(capacity, tokens + (now - ts) / per_token)
  ts = now
end

local allowed = 0
local retry = 0
if tokens >= 1 then
  tokens = tokens - 1
  allowed = 1
else
  retry = math.ceil((1 - tokens) * per_token)
end

redis.call("HSET", KEYS[1], "tokens", tostring(tokens), "ts", ts)
redis.call("PEXPIRE", KEYS[1], ttl)

return {allowed, math.floor(tokens), retry}
`)

// RedisStore shares bucket state between API instances.
type RedisStore struct {
	client redis.Scripter
	prefix string
	now    func() time.Time
}

func NewRedisStore(client redis.Scripter, prefix string) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

func (s *RedisStore) Take(ctx context.Context, key string, cfg BucketConfig) (TakeResult, error) {
	res, err := takeScript.Run(ctx, s.client,
		[]string{s.prefix + key},
		cfg.Capacity,
		cfg.tokenInterval().Milliseconds(),
		s.now().UnixMilli(),
		cfg.idleTTL().Milliseconds(),
	).Int64Slice()
	if err != nil {
		return TakeResult{}, fmt.Errorf("redis token bucket: %w", err)
	}
	if len(res) != 3 {
		return TakeResult{}, fmt.Errorf("redis token bucket: unexpected reply %v", res)
	}

	return TakeResult{
		Allowed:    res[0] == 1,
		Remaining:  int(res[1]),
		RetryAfter: time.Duration(res[2]) * time.Millisecond,
	}, nil
}
