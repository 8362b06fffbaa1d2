// Package scheduler runs the periodic sweep that finalizes expired
// auctions. Expiry is lazy: nothing fires at an auction's end date, so the
// sweep is what eventually moves expired listings out of the active state.
package scheduler

import (
	"context"
	"errors"
	"time"

	"auction-house/internal/auctionerrors"
	auction "auction-house/internal/auctionService"
	"auction-house/internal/models"
	"auction-house/internal/repository"
	"auction-house/utils"
)

// Finalizer is the slice of the auction service the sweeper drives. Both
// manual finalization and the sweep go through the same transition.
type Finalizer interface {
	FinalizeAuction(auctionID string) (models.Auction, error)
}

var _ Finalizer = (*auction.AuctionService)(nil)

// Sweeper periodically finalizes active auctions whose end date has passed.
type Sweeper struct {
	store        repository.AuctionStore
	finalizer    Finalizer
	interval     time.Duration
	sweepTimeout time.Duration
	now          func() time.Time
}

// NewSweeper creates a sweeper. The clock is injected so tests can control
// time deterministically.
func NewSweeper(store repository.AuctionStore, finalizer Finalizer, interval time.Duration, now func() time.Time) *Sweeper {
	if now == nil {
		now = time.Now
	}
	return &Sweeper{
		store:        store,
		finalizer:    finalizer,
		interval:     interval,
		sweepTimeout: interval,
		now:          now,
	}
}

// Run sweeps on a fixed interval until ctx is cancelled. Each sweep gets
// its own timeout so one stuck sweep cannot wedge the next.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	utils.Info("sweeper started", map[string]any{"interval": s.interval.String()})

	for {
		select {
		case <-ctx.Done():
			utils.Info("sweeper stopped", map[string]any{"reason": ctx.Err().Error()})
			return
		case <-ticker.C:
			sweepCtx, cancel := context.WithTimeout(ctx, s.sweepTimeout)
			s.SweepOnce(sweepCtx)
			cancel()
		}
	}
}

// SweepOnce finalizes every expired active auction. A failure on one
// auction is logged and does not abort the rest of the sweep; the next
// interval retries anything left behind.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	expired, err := s.store.ListExpired(s.now().UTC())
	if err != nil {
		utils.Error("sweep: failed to list expired auctions", map[string]any{"error": err.Error()})
		return
	}
	if len(expired) == 0 {
		return
	}

	finalized := 0
	for _, a := range expired {
		if ctx.Err() != nil {
			utils.Warn("sweep: aborted before completion", map[string]any{
				"error":     ctx.Err().Error(),
				"remaining": len(expired) - finalized,
			})
			return
		}

		if _, err := s.finalizer.FinalizeAuction(a.ID); err != nil {
			// AlreadyClosed means an admin beat the sweep to it.
			if errors.Is(err, auctionerrors.ErrAlreadyClosed) {
				continue
			}
			utils.Error("sweep: failed to finalize auction", map[string]any{
				"auction_id": a.ID,
				"error":      err.Error(),
			})
			continue
		}
		finalized++
	}

	utils.Info("sweep completed", map[string]any{
		"expired":   len(expired),
		"finalized": finalized,
	})
}
