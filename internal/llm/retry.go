package llm

import (
	"context"
	"errors"
	"time"
)

// RetryProvider is a decorator that retries rate-limited requests with a
// linearly increasing backoff. Every other error is returned immediately.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		var rl *ErrRateLimit
		if !errors.As(err, &rl) || attempt >= r.config.MaxRetries {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.backoff(attempt+1, rl)):
		}
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

func (r *RetryProvider) ProviderName() string {
	return providerName(r.inner)
}

// backoff returns the wait before retry number n (1-based). A provider's
// RetryAfter hint wins over the schedule.
func (r *RetryProvider) backoff(n int, rl *ErrRateLimit) time.Duration {
	wait := r.config.BaseWait * time.Duration(n)
	if rl.RetryAfter > 0 {
		wait = rl.RetryAfter
	}
	if r.config.MaxWait > 0 && wait > r.config.MaxWait {
		wait = r.config.MaxWait
	}
	return wait
}
