// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package player

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/oops"

	"github.com/holomush/tidewater/pkg/errutil"
)

// DefaultSweepInterval is how often expired effects are removed.
const DefaultSweepInterval = time.Minute

// ExpiredEffectCleaner removes expired effects. *Service implements it.
type ExpiredEffectCleaner interface {
	CleanupExpiredEffects(ctx context.Context) (int64, error)
}

// Sweeper periodically removes expired effects.
type Sweeper struct {
	cleaner  ExpiredEffectCleaner
	interval time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSweeper creates a Sweeper. A non-positive interval uses DefaultSweepInterval.
func NewSweeper(cleaner ExpiredEffectCleaner, interval time.Duration, logger *slog.Logger) (*Sweeper, error) {
	if cleaner == nil {
		return nil, oops.Code("SWEEPER_INVALID").Errorf("cleaner is required")
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{cleaner: cleaner, interval: interval, logger: logger}, nil
}

// RunOnce executes a single cleanup.
func (w *Sweeper) RunOnce(ctx context.Context) error {
	n, err := w.cleaner.CleanupExpiredEffects(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		w.logger.InfoContext(ctx, "removed expired effects", "count", n)
	}
	return nil
}

// Start begins periodic cleanup. It runs one cleanup immediately.
// Calling Start on a running Sweeper is a no-op.
func (w *Sweeper) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return
	}
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.run(ctx)
}

// Stop stops the sweeper and waits for an in-flight cleanup to finish.
func (w *Sweeper) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

func (w *Sweeper) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *Sweeper) sweep(ctx context.Context) {
	if err := w.RunOnce(ctx); err != nil && ctx.Err() == nil {
		errutil.LogErrorContext(ctx, w.logger, "effect cleanup failed", err)
	}
}
