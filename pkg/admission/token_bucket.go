package admission

import (
	"context"
	"fmt"
	"math"
	"time"
)

// BucketConfig describes a token bucket: Capacity tokens at most, RefillRate tokens
// added every Interval.
type BucketConfig struct {
	Capacity   int
	RefillRate int
	Interval   time.Duration
}

func (c BucketConfig) Validate() error {
	if c.Capacity <= 0 || c.RefillRate <= 0 || c.Interval <= 0 {
		return fmt.Errorf("invalid token bucket: capacity=%d refill=%d interval=%s", c.Capacity, c.RefillRate, c.Interval)
	}
	return nil
}

// tokenInterval is the time it takes to earn back a single token.
func (c BucketConfig) tokenInterval() time.Duration {
	return c.Interval / time.Duration(c.RefillRate)
}

// idleTTL is how long a bucket needs to be full again from empty; state older than
// that carries no information.
func (c BucketConfig) idleTTL() time.Duration {
	return time.Duration(math.Ceil(float64(c.Capacity)/float64(c.RefillRate))) * c.Interval
}

type TakeResult struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// BucketStore holds token bucket state per key. Take consumes one token when one is
// available. Implementations must be safe for concurrent use.
type BucketStore interface {
	Take(ctx context.Context, key string, cfg BucketConfig) (TakeResult, error)
}

// TokenBucketRule meters requests per client address.
type TokenBucketRule struct {
	mode  Mode
	cfg   BucketConfig
	store BucketStore
}

func NewTokenBucketRule(mode Mode, cfg BucketConfig, store BucketStore) (*TokenBucketRule, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &TokenBucketRule{mode: mode, cfg: cfg, store: store}, nil
}

func (r *TokenBucketRule) Name() string { return "token_bucket" }

func (r *TokenBucketRule) Mode() Mode { return r.mode }

func (r *TokenBucketRule) Evaluate(ctx context.Context, req *Request) (Decision, error) {
	res, err := r.store.Take(ctx, "ip:"+req.IP, r.cfg)
	if err != nil {
		return Decision{}, fmt.Errorf("take token for %s: %w", req.IP, err)
	}

	info := &RateLimitInfo{
		Limit:      r.cfg.Capacity,
		Remaining:  res.Remaining,
		RetryAfter: res.RetryAfter,
	}

	if res.Allowed {
		d := allow(r.Name())
		d.RateLimit = info
		return d, nil
	}

	d := deny(r.Name(), ReasonRateLimit, fmt.Sprintf("retry after %s", res.RetryAfter))
	d.RateLimit = info
	return d, nil
}
