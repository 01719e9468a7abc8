package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/amishk599/resumekit/internal/ai"
	"github.com/amishk599/resumekit/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockProvider calls a function on each invocation, tracking call count.
type mockProvider struct {
	calls int
	fn    func(attempt int) (string, error)
}

func (m *mockProvider) Complete(_ context.Context, _ ai.Prompt) (string, error) {
	m.calls++
	return m.fn(m.calls)
}

var prompt = ai.Prompt{User: "write an email", SchemaName: "email"}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	mock := &mockProvider{fn: func(_ int) (string, error) {
		return `{"email":"hi"}`, nil
	}}

	p := NewProvider(mock, 2, 10*time.Millisecond, discardLogger())
	got, err := p.Complete(context.Background(), prompt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"email":"hi"}` {
		t.Fatalf("unexpected output: %q", got)
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call, got %d", mock.calls)
	}
}

func TestRetry_RetriesOn5xx_SucceedsOnSecondAttempt(t *testing.T) {
	mock := &mockProvider{fn: func(attempt int) (string, error) {
		if attempt == 1 {
			return "", &model.HTTPError{StatusCode: 503, Err: errors.New("service unavailable")}
		}
		return "ok", nil
	}}

	p := NewProvider(mock, 2, 10*time.Millisecond, discardLogger())
	got, err := p.Complete(context.Background(), prompt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Fatalf("got %q, want ok", got)
	}
	if mock.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.calls)
	}
}

func TestRetry_HonoursRetryAfter(t *testing.T) {
	mock := &mockProvider{fn: func(attempt int) (string, error) {
		if attempt == 1 {
			return "", &model.HTTPError{StatusCode: 429, RetryAfter: 20 * time.Millisecond}
		}
		return "ok", nil
	}}

	p := NewProvider(mock, 1, time.Hour, discardLogger())
	start := time.Now()
	if _, err := p.Complete(context.Background(), prompt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("expected Retry-After to override base delay, waited %v", elapsed)
	}
}

func TestRetry_DoesNotRetryOn4xx(t *testing.T) {
	mock := &mockProvider{fn: func(_ int) (string, error) {
		return "", &model.HTTPError{StatusCode: 401, Err: errors.New("bad key")}
	}}

	p := NewProvider(mock, 2, 10*time.Millisecond, discardLogger())
	_, err := p.Complete(context.Background(), prompt)
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 401 {
		t.Fatalf("expected HTTPError with status 401, got %v", err)
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call (no retry), got %d", mock.calls)
	}
}

func TestRetry_GivesUpAfterMaxRetries(t *testing.T) {
	mock := &mockProvider{fn: func(_ int) (string, error) {
		return "", &model.HTTPError{StatusCode: 500, Err: errors.New("internal error")}
	}}

	p := NewProvider(mock, 2, 10*time.Millisecond, discardLogger())
	if _, err := p.Complete(context.Background(), prompt); err == nil {
		t.Fatal("expected error after max retries, got nil")
	}
	// 1 initial + 2 retries = 3
	if mock.calls != 3 {
		t.Fatalf("expected 3 calls (1 + 2 retries), got %d", mock.calls)
	}
}

func TestRetry_RespectsContextCancellation(t *testing.T) {
	mock := &mockProvider{fn: func(_ int) (string, error) {
		return "", errors.New("connection reset")
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewProvider(mock, 2, time.Second, discardLogger())
	_, err := p.Complete(ctx, prompt)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call before cancellation, got %d", mock.calls)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"429", &model.HTTPError{StatusCode: 429}, true},
		{"502", &model.HTTPError{StatusCode: 502}, true},
		{"400", &model.HTTPError{StatusCode: 400}, false},
		{"network", errors.New("dial tcp: timeout"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryable(tt.err); got != tt.want {
				t.Errorf("isRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRetry_GiveUpWrapsLastError(t *testing.T) {
	mock := &mockProvider{fn: func(_ int) (string, error) {
		return "", &model.HTTPError{StatusCode: 502, Err: errors.New("bad gateway")}
	}}

	p := NewProvider(mock, 1, time.Millisecond, discardLogger())
	_, err := p.Complete(context.Background(), prompt)
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 502 {
		t.Fatalf("expected wrapped HTTPError 502, got %v", err)
	}
}

func TestDelay(t *testing.T) {
	p := NewProvider(nil, 5, 100*time.Millisecond, discardLogger())
	transient := errors.New("connection reset")

	tests := []struct {
		name string
		n    int
		base time.Duration
	}{
		{"first retry", 1, 100 * time.Millisecond},
		{"third retry doubles twice", 3, 400 * time.Millisecond},
		{"capped", 20, maxDelay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.delay(tt.n, transient)
			lo := time.Duration(float64(tt.base) * 0.7)
			hi := time.Duration(float64(tt.base) * 1.3)
			if got < lo || got > hi {
				t.Errorf("delay(%d) = %v, want within [%v, %v]", tt.n, got, lo, hi)
			}
		})
	}

	if got := p.delay(1, &model.HTTPError{StatusCode: 429, RetryAfter: 3 * time.Minute}); got != 3*time.Minute {
		t.Errorf("Retry-After should win and not be capped, got %v", got)
	}
}
