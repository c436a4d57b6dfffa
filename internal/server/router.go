package server

import (
	auctionsvc "reverse-auction/internal/auctionService"
	"reverse-auction/internal/auth"
	bidding "reverse-auction/internal/biddingService"
	model "reverse-auction/internal/models"
	handler "reverse-auction/services/auction/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(biddingService *bidding.BiddingService, auctionService *auctionsvc.AuctionService, tokens *auth.TokenService) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	bidHandler := handler.NewBidHandler(biddingService)
	auctionHandler := handler.NewAuctionHandler(auctionService)

	api := router.Group("/api")
	auctions := api.Group("/auctions")
	auctions.Use(RequireAuth(tokens))
	{
		auctions.POST("/create", RequireRole(model.RoleBuyer), auctionHandler.CreateAuctionHandler)
		auctions.GET("/list", auctionHandler.ListAuctionsHandler)
		auctions.POST("/close", RequireRole(model.RoleBuyer), auctionHandler.CloseAuctionHandler)
		auctions.POST("/bid", RequireRole(model.RoleSupplier), bidHandler.SubmitBidHandler)
	}

	return router
}
