package ratelimit

import (
	"log"
	"sync"
	"time"

	"marketflow/config"
)

// Limiter answers whether a client may start another activation inside the
// sliding window. Rejected requests must cause no side effects upstream.
type Limiter interface {
	Allow(key string) (bool, error)
}

// NewLimiterFromEnv picks the backend from RATE_LIMIT_BACKEND. The Redis
// backend degrades to the in-memory limiter when Redis is unreachable so a
// cache outage never takes activations down with it.
func NewLimiterFromEnv() Limiter {
	maxRequests := config.GetEnvIntOrDefault("RATE_LIMIT_MAX_REQUESTS", config.RateLimitMaxRequests)
	window := time.Duration(config.GetEnvIntOrDefault("RATE_LIMIT_WINDOW_SECONDS", int(config.RateLimitWindow.Seconds()))) * time.Second

	if config.GetEnvOrDefault("RATE_LIMIT_BACKEND", "memory") == "redis" {
		limiter, err := NewRedisLimiterFromEnv(maxRequests, window)
		if err != nil {
			log.Printf("Warning: redis rate limiter unavailable, using in-memory limiter: %v", err)
		} else {
			return limiter
		}
	}
	return NewMemoryLimiter(maxRequests, window)
}

// MemoryLimiter is the in-process sliding window limiter. The read, prune
// and append for one key happen atomically under a single mutex.
type MemoryLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	max      int
	window   time.Duration

	// now is swappable in tests.
	now func() time.Time
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		requests: make(map[string][]time.Time),
		max:      max,
		window:   window,
		now:      time.Now,
	}
}

func (l *MemoryLimiter) Allow(key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.requests[key][:0]
	for _, t := range l.requests[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.max {
		l.requests[key] = kept
		return false, nil
	}

	l.requests[key] = append(kept, now)
	return true, nil
}
