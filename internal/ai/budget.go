package ai

import (
	"context"
	"sync/atomic"
)

type retryBudgetKey struct{}

type retryBudget struct {
	left atomic.Int32
}

// WithRetryBudget caps the extra attempts made on behalf of one request. Every
// retry layer below ctx (transport retry, failover, answer re-generation)
// draws from the same budget.
func WithRetryBudget(ctx context.Context, retries int) context.Context {
	b := &retryBudget{}
	if retries > 0 {
		b.left.Store(int32(retries))
	}
	return context.WithValue(ctx, retryBudgetKey{}, b)
}

// TakeRetry reports whether one more attempt is allowed and consumes it.
// Without a budget on ctx every layer keeps its own limit.
func TakeRetry(ctx context.Context) bool {
	b, ok := ctx.Value(retryBudgetKey{}).(*retryBudget)
	if !ok {
		return true
	}
	for {
		left := b.left.Load()
		if left <= 0 {
			return false
		}
		if b.left.CompareAndSwap(left, left-1) {
			return true
		}
	}
}
