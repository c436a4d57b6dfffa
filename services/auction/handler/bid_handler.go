package handler

import (
	"context"
	"net/http"

	bidding "reverse-auction/internal/biddingService"
	"reverse-auction/services/auction/helpers"
	"reverse-auction/utils"

	"github.com/gin-gonic/gin"
)

type BiddingServiceInterface interface {
	SubmitBid(ctx context.Context, supplierID, auctionID string, expr bidding.BidExpression) (bidding.SubmitResult, error)
}

type BidHandler struct {
	service BiddingServiceInterface
}

func NewBidHandler(service BiddingServiceInterface) *BidHandler {
	return &BidHandler{service: service}
}

// SubmitBidHandler handles POST /api/auctions/bid
func (h *BidHandler) SubmitBidHandler(c *gin.Context) {
	claims, ok := helpers.CurrentClaims(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	// Malformed bodies decode to the zero request, which then fails the
	// missing-auctionId check below. Only that field is hard-required.
	var req helpers.SubmitBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = helpers.SubmitBidRequest{}
	}

	if req.AuctionID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing auctionId")
		utils.Warn("SubmitBidHandler: missing auction id", map[string]any{"supplier_id": claims.UserID})
		return
	}

	expr := toBidExpression(req)

	result, err := h.service.SubmitBid(c.Request.Context(), claims.UserID, req.AuctionID, expr)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, message)
		utils.Error("SubmitBidHandler: failed to submit bid", map[string]any{
			"handler":     "SubmitBidHandler",
			"auction_id":  req.AuctionID,
			"supplier_id": claims.UserID,
			"error":       err.Error(),
		})
		return
	}

	if result.Bid == nil {
		// Query-only path: nothing was written
		c.JSON(http.StatusOK, gin.H{
			"message":  "Rankings fetched",
			"rankings": result.Rankings,
		})
		helpers.LogSuccess("SubmitBidHandler", "rankings fetched", map[string]any{
			"auction_id":  req.AuctionID,
			"supplier_id": claims.UserID,
			"count":       len(result.Rankings),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Bid submitted successfully",
		"bid":      result.Bid,
		"rank":     result.Rank,
		"rankings": result.Rankings,
	})
	helpers.LogSuccess("SubmitBidHandler", "bid submitted successfully", map[string]any{
		"bid_id":      result.Bid.ID,
		"auction_id":  req.AuctionID,
		"supplier_id": claims.UserID,
		"total_value": result.Bid.TotalValue,
	})
}

// toBidExpression dispatches the request body onto one bid expression
// variant: a non-empty itemBids list wins, then a direct totalValue, and
// a body carrying neither is a ranking query.
func toBidExpression(req helpers.SubmitBidRequest) bidding.BidExpression {
	if len(req.ItemBids) > 0 {
		rates := make([]bidding.ItemRate, 0, len(req.ItemBids))
		for _, ib := range req.ItemBids {
			rates = append(rates, bidding.ItemRate{ItemID: ib.ItemID, Rate: float64(ib.Rate)})
		}
		return bidding.ItemRateBid{Rates: rates}
	}
	if req.TotalValue != nil {
		return bidding.DirectTotalBid{TotalValue: *req.TotalValue}
	}
	return bidding.RankingQuery{}
}
