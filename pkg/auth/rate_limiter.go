package auth

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RateLimiter provides rate limiting functionality
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// SlidingWindowLimiter allows at most limit requests per key within any windowSize span
type SlidingWindowLimiter struct {
	mu         sync.Mutex
	windows    map[string]*window
	limit      int
	windowSize time.Duration
	lastSweep  time.Time
	now        func() time.Time
}

type window struct {
	requests []time.Time
}

// NewSlidingWindowLimiter creates a new sliding window rate limiter
func NewSlidingWindowLimiter(limit int, windowSize time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		windows:    make(map[string]*window),
		limit:      limit,
		windowSize: windowSize,
		now:        time.Now,
	}
}

// Allow checks if a request is allowed and records it if so
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > l.windowSize {
		l.sweep(now)
	}

	w, exists := l.windows[key]
	if !exists {
		w = &window{}
		l.windows[key] = w
	}
	w.prune(now.Add(-l.windowSize))

	if len(w.requests) >= l.limit {
		return false, nil
	}
	w.requests = append(w.requests, now)
	return true, nil
}

// Reset resets the rate limit for a key
func (l *SlidingWindowLimiter) Reset(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
	return nil
}

// Sweep drops windows with no requests in the last windowSize.
// Allow also sweeps once per window, so idle keys do not accumulate.
func (l *SlidingWindowLimiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweep(l.now())
}

func (l *SlidingWindowLimiter) sweep(now time.Time) {
	cutoff := now.Add(-l.windowSize)
	for key, w := range l.windows {
		w.prune(cutoff)
		if len(w.requests) == 0 {
			delete(l.windows, key)
		}
	}
	l.lastSweep = now
}

func (w *window) prune(cutoff time.Time) {
	kept := w.requests[:0]
	for _, t := range w.requests {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	w.requests = kept
}

// KeyedRateLimiter namespaces keys so one limiter can serve several subjects
type KeyedRateLimiter struct {
	limiter RateLimiter
	prefix  string
}

// NewIPRateLimiter limits requests per client IP
func NewIPRateLimiter(requestsPerMinute int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		limiter: NewSlidingWindowLimiter(requestsPerMinute, time.Minute),
		prefix:  "ip",
	}
}

// NewUserRateLimiter limits requests per authenticated user
func NewUserRateLimiter(requestsPerMinute int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		limiter: NewSlidingWindowLimiter(requestsPerMinute, time.Minute),
		prefix:  "user",
	}
}

// Allow checks if a request for key is allowed
func (l *KeyedRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return l.limiter.Allow(ctx, fmt.Sprintf("%s:%s", l.prefix, key))
}

// Reset resets the rate limit for key
func (l *KeyedRateLimiter) Reset(ctx context.Context, key string) error {
	return l.limiter.Reset(ctx, fmt.Sprintf("%s:%s", l.prefix, key))
}
