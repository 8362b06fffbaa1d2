package repository

import (
	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"
	"fmt"
	"sort"
	"sync"
	"time"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

// AuctionStore defines the auction storage interface for the auction system.
// UpdateAuction is the only mutation path for existing auctions: the mutate
// closure runs while the store holds the auction exclusively, so a
// read-modify-write of one auction is a single atomic unit. If mutate
// returns an error nothing is written.
type AuctionStore interface {
	GetAuction(auctionID string) (model.Auction, error)
	ListActive(now time.Time) ([]model.Auction, error)
	ListExpired(now time.Time) ([]model.Auction, error)
	ListAll() ([]model.Auction, error)
	CreateAuction(auction model.Auction) error
	UpdateAuction(auctionID string, mutate func(*model.Auction) error) (model.Auction, error)
	DeleteAuction(auctionID string) (model.Auction, error)
}

// MemoryStore is a concurrency-safe in-memory implementation of AuctionStore
type MemoryStore struct {
	mu       sync.RWMutex
	auctions map[string]model.Auction // key: auctionID
}

// NewMemoryStore creates a new in-memory store instance
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		auctions: make(map[string]model.Auction),
	}
}

// GetAuction returns the auction with the given id
func (s *MemoryStore) GetAuction(auctionID string) (model.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	auction, ok := s.auctions[auctionID]
	if !ok {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	return auction.Clone(), nil
}

// ListActive returns all active auctions whose end date is still ahead of
// now, ordered soonest-ending first.
func (s *MemoryStore) ListActive(now time.Time) ([]model.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]model.Auction, 0)
	for _, a := range s.auctions {
		if a.Status == model.StatusActive && a.EndDate.After(now) {
			active = append(active, a.Clone())
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].EndDate.Before(active[j].EndDate)
	})
	return active, nil
}

// ListExpired returns active auctions whose end date has passed, ordered
// soonest-ended first. This is the scheduler's sweep query.
func (s *MemoryStore) ListExpired(now time.Time) ([]model.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expired := make([]model.Auction, 0)
	for _, a := range s.auctions {
		if a.Status == model.StatusActive && !a.EndDate.After(now) {
			expired = append(expired, a.Clone())
		}
	}
	sort.Slice(expired, func(i, j int) bool {
		return expired[i].EndDate.Before(expired[j].EndDate)
	})
	return expired, nil
}

// ListAll returns every auction regardless of status, for administrative use,
// ordered by creation time.
func (s *MemoryStore) ListAll() ([]model.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]model.Auction, 0, len(s.auctions))
	for _, a := range s.auctions {
		all = append(all, a.Clone())
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	return all, nil
}

// CreateAuction stores a new auction. The id must not already exist.
func (s *MemoryStore) CreateAuction(auction model.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.auctions[auction.ID]; ok {
		return fmt.Errorf("create auction %s: id already exists", auction.ID)
	}
	s.auctions[auction.ID] = auction.Clone()
	return nil
}

// UpdateAuction applies mutate to the stored auction under the store lock
// and persists the result. A mutate error discards the write and is
// returned unchanged so callers can match it with errors.Is.
func (s *MemoryStore) UpdateAuction(auctionID string, mutate func(*model.Auction) error) (model.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.auctions[auctionID]
	if !ok {
		return model.Auction{}, fmt.Errorf("update auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}

	working := stored.Clone()
	if err := mutate(&working); err != nil {
		return model.Auction{}, err
	}

	s.auctions[auctionID] = working
	return working.Clone(), nil
}

// DeleteAuction removes an auction and returns its last state
func (s *MemoryStore) DeleteAuction(auctionID string) (model.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	auction, ok := s.auctions[auctionID]
	if !ok {
		return model.Auction{}, fmt.Errorf("delete auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	delete(s.auctions, auctionID)
	return auction, nil
}
