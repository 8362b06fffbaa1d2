package models

import "time"

// AuctionStatus is the lifecycle state of an auction.
type AuctionStatus string

const (
	StatusActive    AuctionStatus = "active"
	StatusFinalized AuctionStatus = "finalized"
	StatusCancelled AuctionStatus = "cancelled"
)

// IsTerminal reports whether the status allows no further transitions.
func (s AuctionStatus) IsTerminal() bool {
	return s == StatusFinalized || s == StatusCancelled
}

// User represents the acting principal supplied by the identity layer
type User struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// Bid is a single accepted offer, recorded in an auction's history.
// Bidder identity is a snapshot taken at acceptance time, not a live
// reference.
type Bid struct {
	BidderID   string    `json:"bidder_id"`
	BidderName string    `json:"bidder_name"`
	Amount     float64   `json:"amount"`
	Timestamp  time.Time `json:"timestamp"`
}

// Auction is a time-boxed listing accepting successively higher bids
// until closed. Winner fields stay nil while the auction is active and
// are set exactly once, at finalization.
type Auction struct {
	ID                string        `json:"id"`
	Title             string        `json:"title"`
	Description       string        `json:"description"`
	ImageURL          string        `json:"image_url"`
	StartBid          float64       `json:"start_bid"`
	CurrentBid        float64       `json:"current_bid"`
	CurrentBidderID   string        `json:"current_bidder_id,omitempty"`
	CurrentBidderName string        `json:"current_bidder_name,omitempty"`
	BidHistory        []Bid         `json:"bid_history"`
	EndDate           time.Time     `json:"end_date"`
	CreatorID         string        `json:"creator_id"`
	CreatorName       string        `json:"creator_name"`
	Status            AuctionStatus `json:"status"`
	WinnerID          *string       `json:"winner_id"`
	WinnerName        *string       `json:"winner_name"`
	FinalPrice        *float64      `json:"final_price"`
	CreatedAt         time.Time     `json:"created_at"`
}

// HasBids reports whether at least one bid has been accepted.
func (a *Auction) HasBids() bool {
	return a.CurrentBidderID != ""
}

// Clone returns a deep copy so callers can never alias stored state.
func (a Auction) Clone() Auction {
	c := a
	if a.BidHistory != nil {
		c.BidHistory = append([]Bid(nil), a.BidHistory...)
	}
	if a.WinnerID != nil {
		v := *a.WinnerID
		c.WinnerID = &v
	}
	if a.WinnerName != nil {
		v := *a.WinnerName
		c.WinnerName = &v
	}
	if a.FinalPrice != nil {
		v := *a.FinalPrice
		c.FinalPrice = &v
	}
	return c
}
