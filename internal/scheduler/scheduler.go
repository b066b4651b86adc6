// Package scheduler drives the delayed order transitions. It polls the
// scheduled_transitions table, claims due jobs and applies them through the
// order state machine as the system actor.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"marketplace-core/internal/pkg/clock"
	"marketplace-core/internal/pkg/config"
	"marketplace-core/internal/usecase/commands"
	"marketplace-core/internal/usecase/shared"
)

type Scheduler struct {
	uow    shared.UnitOfWork
	orders commands.OrderCommands
	clock  clock.Clock
	cfg    config.SchedulerConfig

	cancel context.CancelFunc
	done   chan struct{}
}

func New(uow shared.UnitOfWork, orders commands.OrderCommands, clk clock.Clock, cfg config.SchedulerConfig) *Scheduler {
	return &Scheduler{
		uow:    uow,
		orders: orders,
		clock:  clk,
		cfg:    cfg,
	}
}

// Start launches the poll loop. Safe to call once.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx)
}

// Stop cancels the loop and waits for in-flight jobs to finish.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	slog.Info("transition scheduler started",
		"poll_interval", s.cfg.PollInterval,
		"workers", s.cfg.Workers,
		"batch_size", s.cfg.BatchSize,
	)

	for {
		select {
		case <-ctx.Done():
			slog.Info("transition scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	s.requeueStale(ctx)

	jobs := s.claimDue(ctx)
	if len(jobs) == 0 {
		return
	}
	slog.Debug("claimed due transitions", "count", len(jobs))

	// Fan out with a bounded pool. Each job runs in its own transaction, so
	// one poisoned order cannot stall the batch.
	sem := make(chan struct{}, s.cfg.Workers)
	var wg sync.WaitGroup
	for _, job := range jobs {
		wg.Add(1)
		sem <- struct{}{}
		go func(job shared.ScheduledTransition) {
			defer wg.Done()
			defer func() { <-sem }()
			s.apply(ctx, job)
		}(job)
	}
	wg.Wait()
}

func (s *Scheduler) claimDue(ctx context.Context) []shared.ScheduledTransition {
	var jobs []shared.ScheduledTransition
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		jobs, err = tx.Jobs().ClaimDue(ctx, tx.DB(), s.clock.Now(), int32(s.cfg.BatchSize))
		return err
	})
	if err != nil {
		slog.Error("failed to claim due transitions", "error", err.Error())
		return nil
	}
	return jobs
}

func (s *Scheduler) apply(ctx context.Context, job shared.ScheduledTransition) {
	err := s.orders.ApplyScheduled(ctx, job)
	if err == nil {
		slog.Info("applied scheduled transition",
			"job_id", job.ID,
			"order_id", job.OrderID,
			"target", job.Target,
		)
		return
	}

	slog.Error("scheduled transition failed",
		"job_id", job.ID,
		"order_id", job.OrderID,
		"attempts", job.Attempts,
		"error", err.Error(),
	)
	s.markFailed(ctx, job, err)
}

// The apply transaction rolled back, so the failure mark needs its own.
func (s *Scheduler) markFailed(ctx context.Context, job shared.ScheduledTransition, cause error) {
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Jobs().MarkFailed(ctx, tx.DB(), job.ID, cause.Error())
	})
	if err != nil {
		slog.Error("failed to mark transition job failed", "job_id", job.ID, "error", err.Error())
	}
}

func (s *Scheduler) requeueStale(ctx context.Context) {
	cutoff := s.clock.Now().Add(-s.cfg.ClaimTimeout)
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		n, err := tx.Jobs().RequeueStale(ctx, tx.DB(), cutoff)
		if err != nil {
			return err
		}
		if n > 0 {
			slog.Warn("requeued stale transition jobs", "count", n)
		}
		return nil
	})
	if err != nil {
		slog.Error("failed to requeue stale transitions", "error", err.Error())
	}
}
