package upstream

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// ProviderLimiter throttles outbound calls per provider so a burst of
// itinerary requests cannot exhaust a third-party quota.
type ProviderLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
}

func NewProviderLimiter() *ProviderLimiter {
	return &ProviderLimiter{
		limiters: make(map[string]*rate.Limiter),
	}
}

// SetProviderLimit installs a limit for provider. A non-positive rps disables throttling.
func (p *ProviderLimiter) SetProviderLimit(provider string, rps float64, burst int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if rps <= 0 {
		p.limiters[provider] = rate.NewLimiter(rate.Inf, 0)
		return
	}
	if burst < 1 {
		burst = 1
	}
	p.limiters[provider] = rate.NewLimiter(rate.Limit(rps), burst)
}

// Wait blocks until provider may be called. Unknown providers are not throttled.
func (p *ProviderLimiter) Wait(ctx context.Context, provider string) error {
	if p == nil {
		return nil
	}
	p.mu.RLock()
	limiter, exists := p.limiters[provider]
	p.mu.RUnlock()

	if !exists {
		return nil
	}
	return limiter.Wait(ctx)
}
