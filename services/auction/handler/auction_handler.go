package handler

import (
	"context"
	"net/http"
	"time"

	auction "reverse-auction/internal/auctionService"
	model "reverse-auction/internal/models"
	"reverse-auction/services/auction/helpers"
	"reverse-auction/utils"

	"github.com/gin-gonic/gin"
)

type AuctionServiceInterface interface {
	CreateAuction(ctx context.Context, buyerID string, input auction.CreateAuctionInput) (model.Auction, error)
	ListAuctionsFor(ctx context.Context, userID string, role model.Role) ([]model.Auction, error)
	CloseAuction(ctx context.Context, buyerID, auctionID string) (time.Time, error)
}

type AuctionHandler struct {
	service AuctionServiceInterface
}

func NewAuctionHandler(service AuctionServiceInterface) *AuctionHandler {
	return &AuctionHandler{service: service}
}

// CreateAuctionHandler handles POST /api/auctions/create
func (h *AuctionHandler) CreateAuctionHandler(c *gin.Context) {
	claims, ok := helpers.CurrentClaims(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req helpers.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	input := auction.CreateAuctionInput{
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, auction.NewItemInput{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UOM:       item.UOM,
			BasePrice: item.BasePrice,
		})
	}

	created, err := h.service.CreateAuction(c.Request.Context(), claims.UserID, input)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, message)
		utils.Error("CreateAuctionHandler: failed to create auction", map[string]any{
			"buyer_id": claims.UserID,
			"error":    err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Auction created successfully",
		"auction": created,
	})
	helpers.LogSuccess("CreateAuctionHandler", "auction created successfully", map[string]any{
		"auction_id": created.ID,
		"buyer_id":   claims.UserID,
		"items":      len(created.Items),
	})
}

// ListAuctionsHandler handles GET /api/auctions/list
func (h *AuctionHandler) ListAuctionsHandler(c *gin.Context) {
	claims, ok := helpers.CurrentClaims(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	auctions, err := h.service.ListAuctionsFor(c.Request.Context(), claims.UserID, claims.Role)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, message)
		utils.Warn("ListAuctionsHandler: error listing auctions", map[string]any{
			"user_id": claims.UserID,
			"error":   err.Error(),
		})
		return
	}

	if auctions == nil {
		auctions = []model.Auction{}
	}

	c.JSON(http.StatusOK, gin.H{"auctions": auctions})
	helpers.LogSuccess("ListAuctionsHandler", "auctions listed successfully", map[string]any{
		"user_id": claims.UserID,
		"count":   len(auctions),
	})
}

// CloseAuctionHandler handles POST /api/auctions/close
func (h *AuctionHandler) CloseAuctionHandler(c *gin.Context) {
	claims, ok := helpers.CurrentClaims(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req helpers.CloseAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CloseAuctionHandler", err)
		return
	}

	closedAt, err := h.service.CloseAuction(c.Request.Context(), claims.UserID, req.AuctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, message)
		utils.Error("CloseAuctionHandler: failed to close auction", map[string]any{
			"auction_id": req.AuctionID,
			"buyer_id":   claims.UserID,
			"error":      err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Auction closed successfully",
		"closedAt": closedAt.UTC().Format(time.RFC3339),
	})
	helpers.LogSuccess("CloseAuctionHandler", "auction closed successfully", map[string]any{
		"auction_id": req.AuctionID,
		"buyer_id":   claims.UserID,
	})
}
