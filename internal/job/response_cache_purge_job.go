package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type CachePurger interface {
	Purge() int
	Len() int
}

type ResponseCachePurgeJob struct {
	cache CachePurger
}

func NewResponseCachePurgeJob(cache CachePurger) *ResponseCachePurgeJob {
	return &ResponseCachePurgeJob{cache: cache}
}

func (j *ResponseCachePurgeJob) Name() string {
	return "response_cache_purge"
}

func (j *ResponseCachePurgeJob) Run(ctx context.Context) error {
	if j.cache == nil {
		return nil
	}
	removed := j.cache.Purge()
	if removed > 0 {
		logutil.GetLogger(ctx).Info("expired responses purged", zap.Int("removed", removed), zap.Int("remaining", j.cache.Len()))
	}
	return nil
}
