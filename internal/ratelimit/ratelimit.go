package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amishk599/resumekit/internal/ai"
)

// Ensure Provider implements ai.LLMProvider.
var _ ai.LLMProvider = (*Provider)(nil)

// Limiter enforces a minimum delay between calls sharing the same key.
type Limiter struct {
	mu       sync.Mutex
	lastCall map[string]time.Time
	minDelay time.Duration
}

// NewLimiter creates a limiter that spaces consecutive calls for one key by
// at least minDelay.
func NewLimiter(minDelay time.Duration) *Limiter {
	return &Limiter{
		lastCall: make(map[string]time.Time),
		minDelay: minDelay,
	}
}

// Wait blocks until enough time has passed since the last call for key.
// Returns an error if the context is cancelled while waiting.
func (l *Limiter) Wait(ctx context.Context, key string) error {
	l.mu.Lock()
	last, ok := l.lastCall[key]
	now := time.Now()

	if !ok || now.Sub(last) >= l.minDelay {
		l.lastCall[key] = now
		l.mu.Unlock()
		return nil
	}

	remaining := l.minDelay - now.Sub(last)
	// Reserve the slot so concurrent callers queue behind this one.
	l.lastCall[key] = last.Add(l.minDelay)
	l.mu.Unlock()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", key, ctx.Err())
	case <-time.After(remaining):
	}
	return nil
}

// Provider is a decorator that waits on a shared Limiter before delegating
// to the wrapped LLMProvider.
type Provider struct {
	inner   ai.LLMProvider
	limiter *Limiter
	key     string
}

// NewProvider wraps an LLMProvider with rate limiting. Providers that hit the
// same upstream should share a limiter and key.
func NewProvider(inner ai.LLMProvider, limiter *Limiter, key string) *Provider {
	return &Provider{
		inner:   inner,
		limiter: limiter,
		key:     key,
	}
}

// Complete waits for the limiter, then delegates.
func (p *Provider) Complete(ctx context.Context, prompt ai.Prompt) (string, error) {
	if err := p.limiter.Wait(ctx, p.key); err != nil {
		return "", err
	}
	return p.inner.Complete(ctx, prompt)
}
