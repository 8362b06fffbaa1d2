package auction

import (
	"auction-house/internal/auctionerrors"
	"auction-house/internal/models"
	"auction-house/internal/notify"
	"auction-house/internal/repository"
	"auction-house/utils"
	"fmt"
	"math"
	"time"
)

// AuctionService defines the business logic for the auction lifecycle:
// creating listings, validating and applying bids, and driving the
// active -> finalized/cancelled transitions.
type AuctionService struct {
	store    repository.AuctionStore
	notifier notify.Notifier
	now      func() time.Time
}

// NewAuctionService creates a new AuctionService instance. The clock is
// injected so tests can control time deterministically.
func NewAuctionService(store repository.AuctionStore, notifier notify.Notifier, now func() time.Time) *AuctionService {
	if now == nil {
		now = time.Now
	}
	return &AuctionService{
		store:    store,
		notifier: notifier,
		now:      now,
	}
}

// CreateAuctionInput carries the admin-supplied fields for a new listing.
type CreateAuctionInput struct {
	Title       string
	Description string
	ImageURL    string
	StartBid    float64
	EndDate     time.Time
}

// UpdateAuctionInput carries optional edits to an existing listing. Nil
// fields are left unchanged.
type UpdateAuctionInput struct {
	Title       *string
	Description *string
	ImageURL    *string
	EndDate     *time.Time
}

// CreateAuction validates the input and stores a new active auction with
// the current bid initialized to the start bid.
func (s *AuctionService) CreateAuction(creator models.User, input CreateAuctionInput) (models.Auction, error) {
	now := s.now().UTC()

	if input.Title == "" {
		return models.Auction{}, fmt.Errorf("service: %w - title is required", auctionerrors.ErrValidation)
	}
	if input.StartBid < 0 || math.IsInf(input.StartBid, 0) || math.IsNaN(input.StartBid) {
		return models.Auction{}, fmt.Errorf("service: %w - start bid must be a non-negative number", auctionerrors.ErrValidation)
	}
	if !input.EndDate.After(now) {
		return models.Auction{}, fmt.Errorf("service: %w - end date must be in the future", auctionerrors.ErrValidation)
	}

	auction := models.Auction{
		ID:          utils.GenerateID(),
		Title:       input.Title,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		StartBid:    input.StartBid,
		CurrentBid:  input.StartBid,
		BidHistory:  []models.Bid{},
		EndDate:     input.EndDate.UTC(),
		CreatorID:   creator.UserID,
		CreatorName: creator.Username,
		Status:      models.StatusActive,
		CreatedAt:   now,
	}

	if err := s.store.CreateAuction(auction); err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to create auction %q: %w", input.Title, err)
	}

	s.notifier.Publish(notify.Event{
		Kind:      notify.EventCreated,
		AuctionID: auction.ID,
		Title:     auction.Title,
	})

	return auction, nil
}

// PlaceBid validates a bid attempt and applies it atomically. The closed
// and too-low checks run together with the write inside the store's
// per-auction update, so two concurrent bids can never both read the same
// stale current bid. On success it returns the updated auction and the
// current bid that the new bid displaced.
func (s *AuctionService) PlaceBid(auctionID string, bidder models.User, amount float64) (models.Auction, float64, error) {
	if amount <= 0 || math.IsInf(amount, 0) || math.IsNaN(amount) {
		return models.Auction{}, 0, fmt.Errorf("service: %w - bid must be a positive number, got %v", auctionerrors.ErrInvalidAmount, amount)
	}
	if auctionID == "" || bidder.UserID == "" {
		return models.Auction{}, 0, fmt.Errorf("service: %w - missing auction or bidder id", auctionerrors.ErrValidation)
	}

	now := s.now().UTC()
	var previousBid float64

	updated, err := s.store.UpdateAuction(auctionID, func(a *models.Auction) error {
		// The validator, not the scheduler, owns the expiry boundary: a
		// bid on an expired-but-unswept auction is rejected here.
		if a.Status != models.StatusActive || !a.EndDate.After(now) {
			return fmt.Errorf("service: %w - auction %s is not open for bids", auctionerrors.ErrAuctionClosed, auctionID)
		}
		if amount <= a.CurrentBid {
			return fmt.Errorf("service: %w - bid %.2f must exceed current bid %.2f", auctionerrors.ErrBidTooLow, amount, a.CurrentBid)
		}

		previousBid = a.CurrentBid
		a.CurrentBid = amount
		a.CurrentBidderID = bidder.UserID
		a.CurrentBidderName = bidder.Username
		a.BidHistory = append(a.BidHistory, models.Bid{
			BidderID:   bidder.UserID,
			BidderName: bidder.Username,
			Amount:     amount,
			Timestamp:  now,
		})
		return nil
	})
	if err != nil {
		return models.Auction{}, 0, err
	}

	s.notifier.Publish(notify.Event{
		Kind:        notify.EventBid,
		AuctionID:   updated.ID,
		Title:       updated.Title,
		Amount:      amount,
		PreviousBid: previousBid,
		Bidder:      bidder.Username,
	})

	return updated, previousBid, nil
}

// FinalizeAuction transitions an active auction to finalized, deriving the
// winner from the leading bidder, or leaving the winner fields null when no
// bids were placed. Finalizing a terminal auction fails with ErrAlreadyClosed
// so duplicate winner notifications cannot happen.
func (s *AuctionService) FinalizeAuction(auctionID string) (models.Auction, error) {
	updated, err := s.store.UpdateAuction(auctionID, func(a *models.Auction) error {
		if a.Status.IsTerminal() {
			return fmt.Errorf("service: %w - auction %s is %s", auctionerrors.ErrAlreadyClosed, auctionID, a.Status)
		}
		if a.HasBids() {
			winnerID := a.CurrentBidderID
			winnerName := a.CurrentBidderName
			finalPrice := a.CurrentBid
			a.WinnerID = &winnerID
			a.WinnerName = &winnerName
			a.FinalPrice = &finalPrice
		}
		a.Status = models.StatusFinalized
		return nil
	})
	if err != nil {
		return models.Auction{}, err
	}

	event := notify.Event{
		Kind:      notify.EventFinalized,
		AuctionID: updated.ID,
		Title:     updated.Title,
	}
	if updated.WinnerName != nil {
		event.Winner = *updated.WinnerName
		event.FinalPrice = *updated.FinalPrice
	}
	s.notifier.Publish(event)

	return updated, nil
}

// CancelAuction voids an active auction without computing a winner. This
// transition is only ever reached by an explicit administrative action.
func (s *AuctionService) CancelAuction(auctionID string) (models.Auction, error) {
	return s.store.UpdateAuction(auctionID, func(a *models.Auction) error {
		if a.Status.IsTerminal() {
			return fmt.Errorf("service: %w - auction %s is %s", auctionerrors.ErrAlreadyClosed, auctionID, a.Status)
		}
		a.Status = models.StatusCancelled
		return nil
	})
}

// UpdateAuctionDetails applies admin edits to display metadata and, when
// explicitly requested, reschedules the end date. Terminal auctions reject
// all edits.
func (s *AuctionService) UpdateAuctionDetails(auctionID string, input UpdateAuctionInput) (models.Auction, error) {
	return s.store.UpdateAuction(auctionID, func(a *models.Auction) error {
		if a.Status.IsTerminal() {
			return fmt.Errorf("service: %w - auction %s is %s", auctionerrors.ErrAlreadyClosed, auctionID, a.Status)
		}
		if input.Title != nil {
			if *input.Title == "" {
				return fmt.Errorf("service: %w - title cannot be empty", auctionerrors.ErrValidation)
			}
			a.Title = *input.Title
		}
		if input.Description != nil {
			a.Description = *input.Description
		}
		if input.ImageURL != nil {
			a.ImageURL = *input.ImageURL
		}
		if input.EndDate != nil {
			// A past end date is allowed here: moving the deadline back
			// is how an admin force-expires a listing for the next sweep.
			a.EndDate = input.EndDate.UTC()
		}
		return nil
	})
}

// GetAuction returns a single auction by id
func (s *AuctionService) GetAuction(auctionID string) (models.Auction, error) {
	if auctionID == "" {
		return models.Auction{}, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrValidation)
	}
	auction, err := s.store.GetAuction(auctionID)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}
	return auction, nil
}

// ListActiveAuctions returns all open auctions, soonest-ending first
func (s *AuctionService) ListActiveAuctions() ([]models.Auction, error) {
	auctions, err := s.store.ListActive(s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("service: failed to list active auctions: %w", err)
	}
	return auctions, nil
}

// ListAllAuctions returns every auction regardless of status
func (s *AuctionService) ListAllAuctions() ([]models.Auction, error) {
	auctions, err := s.store.ListAll()
	if err != nil {
		return nil, fmt.Errorf("service: failed to list auctions: %w", err)
	}
	return auctions, nil
}

// DeleteAuction removes an auction permanently
func (s *AuctionService) DeleteAuction(auctionID string) (models.Auction, error) {
	auction, err := s.store.DeleteAuction(auctionID)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to delete auction %s: %w", auctionID, err)
	}
	return auction, nil
}
