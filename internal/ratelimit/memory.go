package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter keeps windows in process memory. Used when no Redis is configured.
type MemoryLimiter struct {
	mu     sync.Mutex
	events map[string][]time.Time
	now    func() time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		events: make(map[string][]time.Time),
		now:    time.Now,
	}
}

func (l *MemoryLimiter) Hit(_ context.Context, key string, limit int, window time.Duration) (Result, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	events := prune(l.events[key], now.Add(-window))
	if len(events) >= limit {
		l.events[key] = events
		return Result{RetryAfter: max(0, events[0].Add(window).Sub(now))}, nil
	}

	l.events[key] = append(events, now)
	return Result{Allowed: true}, nil
}

// Reset forgets every window.
func (l *MemoryLimiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.events)
}

func prune(events []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(events) && !events[i].After(cutoff) {
		i++
	}
	return events[i:]
}
