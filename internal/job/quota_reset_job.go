package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type QuotaResetter interface {
	Used() int64
	Reset()
}

// QuotaResetJob clears the daily generation counter.
type QuotaResetJob struct {
	quota QuotaResetter
}

func NewQuotaResetJob(quota QuotaResetter) *QuotaResetJob {
	return &QuotaResetJob{quota: quota}
}

func (j *QuotaResetJob) Name() string {
	return "quota_reset"
}

func (j *QuotaResetJob) Run(ctx context.Context) error {
	if j.quota == nil {
		return nil
	}
	used := j.quota.Used()
	j.quota.Reset()
	logutil.GetLogger(ctx).Info("daily quota reset", zap.Int64("used", used))
	return nil
}
