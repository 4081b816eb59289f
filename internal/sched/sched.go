// Package sched runs the background refresh jobs on fixed intervals.
package sched

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// MinIntervalSeconds is the enforced floor for any refresh interval.
const MinIntervalSeconds = 60

// Runner schedules periodic jobs and stops them gracefully: Stop waits for
// any in-flight job to finish.
type Runner struct {
	cron    *cron.Cron
	jobs    []cron.FuncJob
	log     *zap.Logger
	baseCtx context.Context
}

// New creates a runner. Jobs receive baseCtx so shutdown cancels them.
func New(log *zap.Logger, baseCtx context.Context) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &Runner{
		cron:    cron.New(),
		log:     log,
		baseCtx: baseCtx,
	}
}

// Every registers a job on a fixed interval. Intervals below the floor are
// clamped, never rejected.
func (r *Runner) Every(name string, seconds int, job func(context.Context)) {
	if seconds < MinIntervalSeconds {
		r.log.Warn("refresh interval below floor, clamping",
			zap.String("job", name),
			zap.Int("requested_seconds", seconds),
			zap.Int("floor_seconds", MinIntervalSeconds))
		seconds = MinIntervalSeconds
	}
	interval := time.Duration(seconds) * time.Second

	run := cron.FuncJob(func() {
		if r.baseCtx.Err() != nil {
			return
		}
		start := time.Now()
		job(r.baseCtx)
		r.log.Debug("scheduled job finished",
			zap.String("job", name),
			zap.Duration("took", time.Since(start)))
	})
	r.cron.Schedule(cron.Every(interval), run)
	r.jobs = append(r.jobs, run)
	r.log.Info("scheduled job registered",
		zap.String("job", name),
		zap.Duration("interval", interval))
}

// RunOnce executes every registered job immediately, outside the schedule.
// Cron first fires one full interval after Start, so a cold start would
// otherwise serve empty stores until then.
func (r *Runner) RunOnce() {
	for _, job := range r.jobs {
		job.Run()
	}
}

// Start begins scheduling. Jobs first fire one full interval from now.
func (r *Runner) Start() {
	r.cron.Start()
	r.log.Info("scheduler started")
}

// Stop halts scheduling and blocks until running jobs complete.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.log.Info("scheduler stopped")
}
