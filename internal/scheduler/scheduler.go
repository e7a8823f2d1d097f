// Package scheduler drives interval-aligned execution of the rewards job.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/logger"
)

// TickFunc is invoked on every aligned interval.
type TickFunc func(ctx context.Context, at time.Time) error

// Scheduler fires ticks aligned to wall-clock interval boundaries, so a
// one-minute interval always lands on minute zero seconds. Window checks in
// the job depend on that alignment.
type Scheduler struct {
	interval time.Duration
}

// New constructs a Scheduler. The interval must be positive.
func New(interval time.Duration) *Scheduler {
	if interval <= 0 {
		panic("scheduler interval must be positive")
	}
	return &Scheduler{interval: interval}
}

// Run blocks, invoking the tick function at each aligned boundary until the
// context is cancelled. Tick errors are logged and never stop the loop.
func (s *Scheduler) Run(ctx context.Context, tick TickFunc) error {
	next := s.nextTick(time.Now())
	for {
		delay := time.Until(next)
		if delay < 0 {
			next = s.nextTick(time.Now())
			delay = time.Until(next)
		}

		timer := time.NewTimer(delay)
		logger.JOB.Debug("waiting for next tick", slog.Time("next", next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		logger.JOB.Info("tick", slog.String("event", "tick"), slog.Time("at", next))
		if err := tick(ctx, next); err != nil {
			logger.JOB.Error("tick failed",
				slog.String("event", "tick_failed"),
				slog.String("error", err.Error()),
			)
		}

		next = next.Add(s.interval)
	}
}

func (s *Scheduler) nextTick(now time.Time) time.Time {
	aligned := now.Truncate(s.interval)
	if !aligned.After(now) {
		aligned = aligned.Add(s.interval)
	}
	return aligned
}
