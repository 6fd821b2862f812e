package admission

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// MemoryStore keeps one rate.Limiter per key in a go-cache. Buckets that stay idle
// long enough to refill completely are evicted.
type MemoryStore struct {
	cache *cache.Cache
	now   func() time.Time
	mu    sync.Mutex
}

func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: cache.New(cache.NoExpiration, cleanupInterval),
		now:   time.Now,
	}
}

func (s *MemoryStore) limiter(key string, cfg BucketConfig) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.cache.Get(key); ok {
		l := v.(*rate.Limiter)
		s.cache.Set(key, l, cfg.idleTTL())
		return l
	}

	l := rate.NewLimiter(rate.Every(cfg.tokenInterval()), cfg.Capacity)
	s.cache.Set(key, l, cfg.idleTTL())
	return l
}

func (s *MemoryStore) Take(ctx context.Context, key string, cfg BucketConfig) (TakeResult, error) {
	now := s.now()
	l := s.limiter(key, cfg)

	if l.AllowN(now, 1) {
		return TakeResult{Allowed: true, Remaining: int(l.TokensAt(now))}, nil
	}

	// tokens are below one here; the wait is the time until a whole token is back
	missing := 1 - l.TokensAt(now)
	retry := time.Duration(missing * float64(cfg.tokenInterval()))
	if retry <= 0 {
		retry = cfg.tokenInterval()
	}
	return TakeResult{Allowed: false, Remaining: 0, RetryAfter: retry}, nil
}

// Len reports the number of live buckets.
func (s *MemoryStore) Len() int {
	return s.cache.ItemCount()
}
