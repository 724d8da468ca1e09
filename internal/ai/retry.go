package ai

import (
	"context"
	"errors"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const defaultRetryBackoff = 300 * time.Millisecond

// WrapRetryGenerator retries a failed call at most retries more times. Calls
// failing with ErrUnavailable or a done context are not retried, and neither
// are calls whose request retry budget is spent.
func WrapRetryGenerator(g IGenerator, retries int) IGenerator {
	if g == nil || retries <= 0 {
		return g
	}
	return &retryGenerator{next: g, retries: retries, backoff: defaultRetryBackoff}
}

type retryGenerator struct {
	next    IGenerator
	retries int
	backoff time.Duration
}

func (r *retryGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	var res string
	err := retry(ctx, r.retries, r.backoff, "generate", func() error {
		var err error
		res, err = r.next.Generate(ctx, req)
		return err
	})
	return res, err
}

func WrapRetryEmbedder(e IEmbedder, retries int) IEmbedder {
	if e == nil || retries <= 0 {
		return e
	}
	return &retryEmbedder{next: e, retries: retries, backoff: defaultRetryBackoff}
}

type retryEmbedder struct {
	next    IEmbedder
	retries int
	backoff time.Duration
}

func (r *retryEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	var res []float32
	err := retry(ctx, r.retries, r.backoff, "embed", func() error {
		var err error
		res, err = r.next.Embed(ctx, text, taskType)
		return err
	})
	return res, err
}

func (r *retryEmbedder) ModelName() string {
	return r.next.ModelName()
}

func retry(ctx context.Context, retries int, backoff time.Duration, op string, fn func() error) error {
	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			if !TakeRetry(ctx) {
				return err
			}
			logutil.GetLogger(ctx).Warn("retrying ai call", zap.String("op", op), zap.Int("attempt", attempt+1), zap.Error(err))
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return err
			case <-timer.C:
			}
		}
		err = fn()
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrUnavailable) || ctx.Err() != nil {
			return err
		}
	}
	return err
}
