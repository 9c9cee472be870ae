package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrLimitExceeded = errors.New("rate limit exceeded")

// Limiter counts events per key in a sliding window. Hit records an event
// when it is allowed and reports how long to wait when it is not.
type Limiter interface {
	Hit(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
}

type Result struct {
	Allowed    bool
	RetryAfter time.Duration
}

// LimitError is returned when a named limit rejects a hit. It matches ErrLimitExceeded.
type LimitError struct {
	Scope      string
	RetryAfter time.Duration
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s, retry after %s", e.Scope, e.RetryAfter.Round(time.Second))
}

func (e *LimitError) Is(target error) bool {
	return target == ErrLimitExceeded
}
