package server

import (
	auction "auction-house/internal/auctionService"
	handler "auction-house/services/auction/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application. The admin
// group is gated by the injected isAdmin predicate on top of bearer auth.
func SetupRouter(auctionService *auction.AuctionService, jwtSecret string, isAdmin func(userID string) bool) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	auctionHandler := handler.NewAuctionHandler(auctionService)
	authenticated := AuthMiddleware(jwtSecret)

	auctions := router.Group("/auctions")
	{
		auctions.GET("", auctionHandler.ListActiveAuctionsHandler)
		auctions.GET("/:auction_id", auctionHandler.GetAuctionHandler)
		auctions.POST("/:auction_id/bids", authenticated, auctionHandler.PlaceBidHandler)
	}

	admin := router.Group("/admin/auctions", authenticated, RequireAdmin(isAdmin))
	{
		admin.GET("", auctionHandler.ListAllAuctionsHandler)
		admin.POST("", auctionHandler.CreateAuctionHandler)
		admin.PUT("/:auction_id", auctionHandler.UpdateAuctionHandler)
		admin.DELETE("/:auction_id", auctionHandler.DeleteAuctionHandler)
		admin.POST("/:auction_id/finalize", auctionHandler.FinalizeAuctionHandler)
		admin.POST("/:auction_id/cancel", auctionHandler.CancelAuctionHandler)
	}

	return router
}
