package helpers

import (
	"time"

	model "auction-house/internal/models"
)

// Request/Response DTOs
type PlaceBidRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type CreateAuctionRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	StartBid    float64   `json:"start_bid" binding:"gte=0"`
	EndDate     time.Time `json:"end_date" binding:"required"`
}

type UpdateAuctionRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	ImageURL    *string    `json:"image_url"`
	EndDate     *time.Time `json:"end_date"`
}

type BidResponse struct {
	AuctionID   string  `json:"auction_id"`
	BidderID    string  `json:"bidder_id"`
	BidderName  string  `json:"bidder_name"`
	Amount      float64 `json:"amount"`
	PreviousBid float64 `json:"previous_bid"`
	CurrentBid  float64 `json:"current_bid"`
	PlacedAt    string  `json:"placed_at"`
}

// NewBidResponse builds the bid acceptance payload from the updated auction.
// The last history entry is the bid that was just applied.
func NewBidResponse(auction model.Auction, previousBid float64) BidResponse {
	bid := auction.BidHistory[len(auction.BidHistory)-1]
	return BidResponse{
		AuctionID:   auction.ID,
		BidderID:    bid.BidderID,
		BidderName:  bid.BidderName,
		Amount:      bid.Amount,
		PreviousBid: previousBid,
		CurrentBid:  auction.CurrentBid,
		PlacedAt:    bid.Timestamp.UTC().Format(time.RFC3339),
	}
}
