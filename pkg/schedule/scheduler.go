package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/standup/pkg/logger"
)

// Job is the unit of work run on every fire.
type Job func(ctx context.Context)

// Scheduler runs a Job each time its Schedule fires. Runs never overlap:
// fires missed while a job is still running collapse into the next one.
type Scheduler struct {
	schedule Schedule
	job      Job
	now      func() time.Time
	logger   *slog.Logger
}

// New creates a scheduler for the given schedule and job.
func New(schedule Schedule, job Job, opts ...Option) (*Scheduler, error) {
	if schedule == nil {
		return nil, ErrScheduleNil
	}
	if job == nil {
		return nil, ErrJobNil
	}

	s := &Scheduler{
		schedule: schedule,
		job:      job,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("scheduler"), logger.Schedule(schedule.String()))

	return s, nil
}

// Run blocks until ctx is cancelled, invoking the job at every fire time.
// It returns ctx.Err() on shutdown.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "scheduler started")

	var last time.Time
	for {
		now := s.now()
		from := now
		if last.After(from) {
			from = last
		}

		next := s.schedule.Next(from)
		if next.IsZero() {
			s.logger.ErrorContext(ctx, "schedule will never fire again, stopping")
			return ErrScheduleExhausted
		}

		wait := max(next.Sub(now), 0)
		s.logger.DebugContext(ctx, "waiting for next fire",
			slog.Time("next_run", next), logger.Duration(wait))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.InfoContext(ctx, "scheduler shutting down")
			return ctx.Err()
		case <-timer.C:
		}

		last = next
		s.runJob(ctx, next)
	}
}

func (s *Scheduler) runJob(ctx context.Context, firedAt time.Time) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "scheduled job panicked",
				logger.Error(fmt.Errorf("panic: %v", r)),
				slog.Time("fired_at", firedAt))
		}
	}()

	start := s.now()
	s.job(ctx)
	s.logger.DebugContext(ctx, "scheduled job finished", logger.Duration(s.now().Sub(start)))
}
