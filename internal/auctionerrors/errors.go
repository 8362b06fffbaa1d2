package auctionerrors

import "errors"

// Repository-level errors
var (
	ErrAuctionNotFound = errors.New("auction not found")
)

// business logic errors
var (
	ErrInvalidAmount = errors.New("invalid bid amount")
	ErrAuctionClosed = errors.New("auction is closed for bidding")
	ErrBidTooLow     = errors.New("bid amount too low")
	ErrAlreadyClosed = errors.New("auction already closed")
	ErrValidation    = errors.New("invalid auction fields")
)
