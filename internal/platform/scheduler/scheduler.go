// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"stock_insight/internal/feature/watchlist/usecase"
)

// Sweeper removes expired entries and reports how many were dropped.
type Sweeper interface {
	Sweep() int
}

// Warmer pre-computes analyses so later requests hit the cache.
type Warmer interface {
	Warm(ctx context.Context) (usecase.WarmResult, error)
}

// warmTimeout bounds one warm-up pass.
const warmTimeout = 10 * time.Minute

// Scheduler manages the cache sweep and warm-up jobs.
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper

	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler creates a Scheduler. Specs use the standard five-field format or descriptors such as "@every 5m".
// Overlapping runs of the same job are skipped.
func NewScheduler(sweeper Sweeper) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		sweeper: sweeper,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Register adds the sweep job. An empty spec disables it.
func (s *Scheduler) Register(spec string) error {
	if spec == "" {
		return nil
	}
	if _, err := s.cron.AddFunc(spec, s.sweepTask); err != nil {
		return fmt.Errorf("register sweep task: %w", err)
	}
	return nil
}

// RegisterWarm adds the watchlist warm-up job. An empty spec disables it.
func (s *Scheduler) RegisterWarm(spec string, w Warmer) error {
	if spec == "" || w == nil {
		return nil
	}
	if _, err := s.cron.AddFunc(spec, func() { s.warmTask(w) }); err != nil {
		return fmt.Errorf("register warm task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop stops scheduling, cancels a running warm-up and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	slog.Info("scheduler stopped")
}

func (s *Scheduler) sweepTask() {
	if n := s.sweeper.Sweep(); n > 0 {
		slog.Info("result cache swept", "removed", n)
	}
}

func (s *Scheduler) warmTask(w Warmer) {
	ctx, cancel := context.WithTimeout(s.ctx, warmTimeout)
	defer cancel()

	start := time.Now()
	res, err := w.Warm(ctx)
	if err != nil {
		slog.Error("watchlist warm aborted", "warmed", res.Warmed, "failed", res.Failed, "error", err)
		return
	}
	slog.Info("watchlist warmed", "warmed", res.Warmed, "failed", res.Failed, "elapsed", time.Since(start))
}
