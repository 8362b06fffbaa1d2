package handler

import (
	"errors"
	"fmt"
	"net/http"

	auction "auction-house/internal/auctionService"
	model "auction-house/internal/models"
	"auction-house/services/auction/helpers"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=auction_handler.go -destination=mock_service.go -package=handler

type AuctionServiceInterface interface {
	CreateAuction(creator model.User, input auction.CreateAuctionInput) (model.Auction, error)
	PlaceBid(auctionID string, bidder model.User, amount float64) (model.Auction, float64, error)
	FinalizeAuction(auctionID string) (model.Auction, error)
	CancelAuction(auctionID string) (model.Auction, error)
	UpdateAuctionDetails(auctionID string, input auction.UpdateAuctionInput) (model.Auction, error)
	DeleteAuction(auctionID string) (model.Auction, error)
	GetAuction(auctionID string) (model.Auction, error)
	ListActiveAuctions() ([]model.Auction, error)
	ListAllAuctions() ([]model.Auction, error)
}

type AuctionHandler struct {
	service AuctionServiceInterface
}

func NewAuctionHandler(service AuctionServiceInterface) *AuctionHandler {
	return &AuctionHandler{service: service}
}

// PlaceBidHandler handles POST /auctions/:auction_id/bids
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")

	bidder, ok := helpers.UserFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, errors.New("no authenticated user"), "authentication required")
		return
	}

	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	updated, previousBid, err := h.service.PlaceBid(auctionID, bidder, req.Amount)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("PlaceBidHandler: failed to place bid", map[string]any{
			"handler":    "PlaceBidHandler",
			"auction_id": auctionID,
			"bidder_id":  bidder.UserID,
			"amount":     req.Amount,
			"error":      err.Error(),
		})
		return
	}

	resp := helpers.NewBidResponse(updated, previousBid)

	utils.JSONResponse(c, http.StatusCreated, resp, "bid placed successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid placed successfully", map[string]any{
		"auction_id": auctionID,
		"bidder_id":  bidder.UserID,
		"amount":     req.Amount,
		"previous":   previousBid,
	})
}

// CreateAuctionHandler handles POST /admin/auctions
func (h *AuctionHandler) CreateAuctionHandler(c *gin.Context) {
	creator, ok := helpers.UserFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, errors.New("no authenticated user"), "authentication required")
		return
	}

	var req helpers.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	created, err := h.service.CreateAuction(creator, auction.CreateAuctionInput{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		StartBid:    req.StartBid,
		EndDate:     req.EndDate,
	})
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("CreateAuctionHandler: failed to create auction", map[string]any{
			"creator_id": creator.UserID,
			"title":      req.Title,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, created, "auction created successfully")
	helpers.LogSuccess("CreateAuctionHandler", "auction created successfully", map[string]any{
		"auction_id": created.ID,
		"creator_id": creator.UserID,
		"title":      created.Title,
	})
}

// GetAuctionHandler handles GET /auctions/:auction_id
func (h *AuctionHandler) GetAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")

	found, err := h.service.GetAuction(auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetAuctionHandler: error retrieving auction", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, found, "auction retrieved successfully")
}

// ListActiveAuctionsHandler handles GET /auctions
func (h *AuctionHandler) ListActiveAuctionsHandler(c *gin.Context) {
	auctions, err := h.service.ListActiveAuctions()
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListActiveAuctionsHandler: error listing auctions", map[string]any{"error": err.Error()})
		return
	}

	if auctions == nil {
		auctions = []model.Auction{}
	}

	utils.JSONResponse(c, http.StatusOK, auctions, "active auctions retrieved successfully")
	helpers.LogSuccess("ListActiveAuctionsHandler", "active auctions retrieved successfully", map[string]any{
		"count": len(auctions),
	})
}

// ListAllAuctionsHandler handles GET /admin/auctions
func (h *AuctionHandler) ListAllAuctionsHandler(c *gin.Context) {
	auctions, err := h.service.ListAllAuctions()
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListAllAuctionsHandler: error listing auctions", map[string]any{"error": err.Error()})
		return
	}

	if auctions == nil {
		auctions = []model.Auction{}
	}

	utils.JSONResponse(c, http.StatusOK, auctions, "auctions retrieved successfully")
}

// UpdateAuctionHandler handles PUT /admin/auctions/:auction_id
func (h *AuctionHandler) UpdateAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")

	var req helpers.UpdateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateAuctionHandler", err)
		return
	}

	updated, err := h.service.UpdateAuctionDetails(auctionID, auction.UpdateAuctionInput{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		EndDate:     req.EndDate,
	})
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("UpdateAuctionHandler: failed to update auction", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, updated, "auction updated successfully")
	helpers.LogSuccess("UpdateAuctionHandler", "auction updated successfully", map[string]any{
		"auction_id": auctionID,
	})
}

// FinalizeAuctionHandler handles POST /admin/auctions/:auction_id/finalize
func (h *AuctionHandler) FinalizeAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")

	finalized, err := h.service.FinalizeAuction(auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("FinalizeAuctionHandler: failed to finalize auction", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, finalized, "auction finalized successfully")
	helpers.LogSuccess("FinalizeAuctionHandler", "auction finalized successfully", map[string]any{
		"auction_id": auctionID,
		"status":     string(finalized.Status),
	})
}

// CancelAuctionHandler handles POST /admin/auctions/:auction_id/cancel
func (h *AuctionHandler) CancelAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")

	cancelled, err := h.service.CancelAuction(auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("CancelAuctionHandler: failed to cancel auction", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, cancelled, "auction cancelled successfully")
	helpers.LogSuccess("CancelAuctionHandler", "auction cancelled successfully", map[string]any{
		"auction_id": auctionID,
	})
}

// DeleteAuctionHandler handles DELETE /admin/auctions/:auction_id
func (h *AuctionHandler) DeleteAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")

	removed, err := h.service.DeleteAuction(auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("DeleteAuctionHandler: failed to delete auction", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, removed, "auction deleted successfully")
	helpers.LogSuccess("DeleteAuctionHandler", "auction deleted successfully", map[string]any{
		"auction_id": auctionID,
	})
}
