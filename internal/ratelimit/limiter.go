// Package ratelimit caps how fast attempts may be dispatched.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter bounds attempt starts per second across all workers. It caps
// dispatch rate only; the worker count remains the hard cap on in-flight
// attempts. A nil *Limiter never waits.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a limiter allowing aps attempt starts per second.
// Returns nil when aps <= 0, meaning no rate cap.
func NewLimiter(aps int) *Limiter {
	if aps <= 0 {
		return nil
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(aps), 1),
	}
}

// Wait blocks until the next attempt may start.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}
