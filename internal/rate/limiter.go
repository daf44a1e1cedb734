package rate

import (
	"context"
	"fmt"

	xrate "golang.org/x/time/rate"
)

// Limiter gates outbound API calls so we respect Sheets and Drive quotas.
type Limiter interface {
	Wait(ctx context.Context) error
}

// TokenBucket is a fixed-rate limiter backed by x/time/rate.
type TokenBucket struct {
	limiter *xrate.Limiter
}

// NewTokenBucket returns a limiter that releases rps tokens per second.
// The first call proceeds immediately.
func NewTokenBucket(rps int) *TokenBucket {
	if rps <= 0 {
		rps = 1
	}
	return &TokenBucket{limiter: xrate.NewLimiter(xrate.Limit(rps), 1)}
}

// Wait blocks until a token is available or the context is canceled.
func (t *TokenBucket) Wait(ctx context.Context) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate wait canceled: %w", err)
	}
	return nil
}

// Wait applies l when it is non-nil.
func Wait(ctx context.Context, l Limiter) error {
	if l == nil {
		return nil
	}
	return l.Wait(ctx)
}

var _ Limiter = (*TokenBucket)(nil)
