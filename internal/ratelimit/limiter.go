package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// API represents the different external APIs we interact with
type API string

const (
	// APIContentful represents the Contentful GraphQL content API
	APIContentful API = "contentful"
	// APIAlphaVantage represents the AlphaVantage API
	APIAlphaVantage API = "alphavantage"
)

// Limiter manages rate limits for different APIs
type Limiter struct {
	limiters map[API]*rate.Limiter
	mu       sync.RWMutex
}

// New returns a limiter with the production defaults.
func New() *Limiter {
	l := &Limiter{limiters: make(map[API]*rate.Limiter)}

	// Contentful CDN: 55 requests per second on the delivery API
	l.limiters[APIContentful] = rate.NewLimiter(rate.Limit(55), 1)

	// AlphaVantage: 5 requests per minute on free tier = 1 request every 12 seconds.
	// A burst of 2 lets one quote and one overview for the same symbol go out together.
	l.limiters[APIAlphaVantage] = rate.NewLimiter(rate.Limit(1.0/12.0), 2)

	return l
}

// Unlimited returns a limiter that never blocks. Used by tests.
func Unlimited() *Limiter {
	return &Limiter{limiters: make(map[API]*rate.Limiter)}
}

// Set replaces the limit for one API.
func (l *Limiter) Set(api API, limit rate.Limit, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limiters[api] = rate.NewLimiter(limit, burst)
}

// Wait blocks until the rate limiter permits an event for the given API
// It returns an error if the context is canceled before the event can proceed
func (l *Limiter) Wait(ctx context.Context, api API) error {
	if l == nil {
		return nil
	}

	l.mu.RLock()
	limiter, exists := l.limiters[api]
	l.mu.RUnlock()

	if !exists {
		// If no limiter exists for this API, allow the request without limiting
		return nil
	}

	return limiter.Wait(ctx)
}

// Allow reports whether an event for the given API may happen now
func (l *Limiter) Allow(api API) bool {
	if l == nil {
		return true
	}

	l.mu.RLock()
	limiter, exists := l.limiters[api]
	l.mu.RUnlock()

	if !exists {
		return true
	}

	return limiter.Allow()
}
