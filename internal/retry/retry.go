// Package retry wraps an LLM provider so transient API failures are retried
// before a kit step gives up.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/amishk599/resumekit/internal/ai"
	"github.com/amishk599/resumekit/internal/model"
)

// maxDelay caps the computed backoff. A server-sent Retry-After is not capped.
const maxDelay = time.Minute

var _ ai.LLMProvider = (*Provider)(nil)

// Provider retries completions that failed transiently.
type Provider struct {
	inner      ai.LLMProvider
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// NewProvider returns a Provider making at most 1+maxRetries calls to inner.
// The wait before retry n is baseDelay*2^(n-1), jittered by ±30%.
func NewProvider(inner ai.LLMProvider, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *Provider {
	return &Provider{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

// Complete forwards prompt to the wrapped provider. Non-transient errors are
// returned as is; when retries run out the last error is wrapped.
func (p *Provider) Complete(ctx context.Context, prompt ai.Prompt) (string, error) {
	for attempt := 0; ; attempt++ {
		out, err := p.inner.Complete(ctx, prompt)
		if err == nil {
			if attempt > 0 {
				p.logger.Debug("llm call recovered", "schema", prompt.SchemaName, "attempts", attempt+1)
			}
			return out, nil
		}
		if !isRetryable(err) {
			return "", err
		}
		if attempt == p.maxRetries {
			return "", fmt.Errorf("llm call %s failed after %d attempts: %w", prompt.SchemaName, attempt+1, err)
		}

		wait := p.delay(attempt+1, err)
		p.logger.Warn("llm call failed, backing off",
			"schema", prompt.SchemaName,
			"status", statusOf(err),
			"retry", attempt+1,
			"of", p.maxRetries,
			"wait", wait.Round(time.Millisecond).String(),
			"error", err,
		)

		if err := sleep(ctx, wait); err != nil {
			return "", fmt.Errorf("llm call %s: %w", prompt.SchemaName, err)
		}
	}
}

// delay is the wait before retry n (1-based).
func (p *Provider) delay(n int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	d := p.baseDelay << (n - 1)
	if d <= 0 || d > maxDelay {
		d = maxDelay
	}
	spread := float64(d) * 0.3
	return d + time.Duration((rand.Float64()*2-1)*spread)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// isRetryable reports whether another call could succeed: 429s, 5xx and
// transport errors. Cancellation never is.
func isRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	}

	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) {
		return true
	}
	return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= http.StatusInternalServerError
}

func statusOf(err error) int {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}
