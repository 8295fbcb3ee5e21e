// Package ratelimit wraps golang.org/x/time/rate with a named limiter so
// log lines and errors identify which upstream the caller was pacing.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces calls against one upstream service.
type Limiter struct {
	limiter *rate.Limiter
	name    string
}

// New creates a limiter that admits one call per interval, with a burst of
// one so the first call passes immediately.
func New(name string, interval time.Duration) *Limiter {
	return &Limiter{
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		name:    name,
	}
}

// Wait blocks until the next call is admitted or the context is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait for %s: %w", l.name, err)
	}
	return nil
}
