package schedule

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type Scheduler interface {
	AddJob(job Job, spec string) error
	Start(ctx context.Context)
	Stop()
}

type entry struct {
	id      cron.EntryID
	spec    string
	run     func()
	running *atomic.Bool
}

type CronScheduler struct {
	cron    *cron.Cron
	entries map[string]*entry
	ctx     context.Context
}

func NewCronScheduler() *CronScheduler {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return &CronScheduler{
		cron:    cron.New(cron.WithParser(parser)),
		entries: make(map[string]*entry),
	}
}

func (c *CronScheduler) AddJob(job Job, spec string) error {
	name := job.Name()
	logger := logutil.GetLogger(context.Background()).With(zap.String("job", name), zap.String("spec", spec))
	if _, ok := c.entries[name]; ok {
		return fmt.Errorf("job %s already scheduled", name)
	}
	e := &entry{spec: spec, running: &atomic.Bool{}}
	e.run = c.wrap(job, e)
	entryID, err := c.cron.AddFunc(spec, e.run)
	if err != nil {
		logger.Error("schedule job failed", zap.Error(err))
		return err
	}
	e.id = entryID
	c.entries[name] = e
	logger.Info("job scheduled")
	return nil
}

func (c *CronScheduler) Start(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	c.ctx = ctx
	c.cron.Start()
}

func (c *CronScheduler) Stop() {
	ctx := c.cron.Stop()
	<-ctx.Done()
}

// Trigger runs a scheduled job right away, honoring the overlap guard.
func (c *CronScheduler) Trigger(name string) error {
	e, ok := c.entries[name]
	if !ok {
		return fmt.Errorf("job %s not scheduled", name)
	}
	e.run()
	return nil
}

// NextRun reports when the named job fires next. It is zero before Start.
func (c *CronScheduler) NextRun(name string) (time.Time, bool) {
	e, ok := c.entries[name]
	if !ok {
		return time.Time{}, false
	}
	return c.cron.Entry(e.id).Next, true
}

func (c *CronScheduler) wrap(job Job, e *entry) func() {
	return func() {
		if !e.running.CompareAndSwap(false, true) {
			logutil.GetLogger(context.Background()).With(
				zap.String("job", job.Name()),
				zap.String("spec", e.spec),
			).Info("job skipped: still running")
			return
		}
		defer e.running.Store(false)

		ctx := c.ctx
		if ctx == nil {
			ctx = context.Background()
		}
		logger := logutil.GetLogger(ctx).With(
			zap.String("job", job.Name()),
			zap.String("spec", e.spec),
		)
		start := time.Now()
		err := job.Run(ctx)
		elapsed := time.Since(start)
		if err != nil {
			logger.Error("job finished", zap.Error(err), zap.Duration("duration", elapsed))
			return
		}
		logger.Debug("job finished", zap.Duration("duration", elapsed))
	}
}
