// Package ratelimit guards the join endpoints against rapid-fire duplicate
// attempts. The limiter is advisory: when its backend is unreachable the
// request proceeds, trading strict fairness for availability.
package ratelimit

import (
	"sync"
	"time"
)

// Decision is the outcome of one acquisition attempt.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Limiter is the injected rate-limiting capability, keyed per user.
type Limiter interface {
	Allow(key string) Decision
}

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is a process-local fixed-window limiter for single-instance
// deployments. Counts are not shared across instances and not persisted.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
}

// NewMemoryLimiter creates a limiter allowing limit requests per period.
func NewMemoryLimiter(limit int, period time.Duration) *MemoryLimiter {
	l := &MemoryLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
	}
	go l.cleanup()
	return l
}

// Allow records one attempt for the key and reports whether it is within
// quota.
func (l *MemoryLimiter) Allow(key string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.windows[key]
	if !ok || now.After(w.resetAt) {
		l.windows[key] = &window{count: 1, resetAt: now.Add(l.period)}
		return Decision{Allowed: true}
	}

	w.count++
	if w.count > l.limit {
		return Decision{Allowed: false, RetryAfter: time.Until(w.resetAt)}
	}
	return Decision{Allowed: true}
}

// cleanup drops expired windows so the map does not grow without bound.
func (l *MemoryLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for key, w := range l.windows {
			if now.After(w.resetAt) {
				delete(l.windows, key)
			}
		}
		l.mu.Unlock()
	}
}
