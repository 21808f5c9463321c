package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/ejfii/beginners-luck-sub000/internal/storage"
)

// Sweeper periodically persists the expired status of mediator proposals
// whose deadline passed with no answer. Reads derive expiry on their own, so
// the sweep only keeps stored rows in line with what clients see.
type Sweeper struct {
	store    storage.ProposalStore
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewSweeper creates a Sweeper that runs every interval.
func NewSweeper(store storage.ProposalStore, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{store: store, interval: interval, logger: logger, now: time.Now}
}

// Run sweeps until ctx is cancelled. Sweep failures are logged and retried on
// the next tick.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Expiry sweeper started", "interval", s.interval)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Expiry sweeper stopped")
			return nil
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs a single pass and returns how many proposals it expired.
func (s *Sweeper) Sweep(ctx context.Context) int64 {
	n, err := s.store.ExpireMediatorProposals(ctx, s.now().UTC().Truncate(time.Microsecond))
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("Failed to expire mediator proposals", "error", err)
		}
		return 0
	}
	if n > 0 {
		s.logger.Info("Expired mediator proposals", "count", n)
	}
	return n
}
