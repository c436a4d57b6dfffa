package helpers

import (
	"encoding/json"
	"strconv"
)

// FlexibleRate decodes a per-item rate that clients send either as a JSON
// number or as a numeric string. Anything unparseable decodes to 0 rather
// than failing the request.
type FlexibleRate float64

func (r *FlexibleRate) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*r = FlexibleRate(num)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if parsed, err := strconv.ParseFloat(s, 64); err == nil {
			*r = FlexibleRate(parsed)
			return nil
		}
	}

	*r = 0
	return nil
}

// Request/Response DTOs
type ItemBidRequest struct {
	ItemID string       `json:"itemId"`
	Rate   FlexibleRate `json:"rate"`
}

// SubmitBidRequest carries one of three bid expressions: a non-empty
// itemBids list, a direct totalValue, or neither (ranking query).
type SubmitBidRequest struct {
	AuctionID  string           `json:"auctionId"`
	ItemBids   []ItemBidRequest `json:"itemBids"`
	TotalValue *float64         `json:"totalValue"`
}

type CreateAuctionItemRequest struct {
	Name      string  `json:"name" binding:"required"`
	Quantity  float64 `json:"quantity" binding:"gte=0"`
	UOM       string  `json:"uom"`
	BasePrice float64 `json:"basePrice" binding:"gte=0"`
}

type CreateAuctionRequest struct {
	Title           string                     `json:"title" binding:"required"`
	Description     string                     `json:"description"`
	DurationMinutes int                        `json:"durationMinutes" binding:"required,gt=0"`
	Items           []CreateAuctionItemRequest `json:"items" binding:"required,min=1,dive"`
}

type CloseAuctionRequest struct {
	AuctionID string `json:"auctionId" binding:"required"`
}
