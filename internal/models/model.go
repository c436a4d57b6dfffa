package models

import "time"

// Role of an authenticated marketplace user
type Role string

const (
	RoleBuyer    Role = "BUYER"
	RoleSupplier Role = "SUPPLIER"
)

// Auction is a buyer-created request for items, open for bidding until EndsAt
type Auction struct {
	ID          string        `gorm:"primaryKey;size:36" json:"id"`
	Title       string        `gorm:"size:255;not null" json:"title"`
	Description string        `gorm:"size:1024" json:"description,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	EndsAt      time.Time     `gorm:"not null;index" json:"endsAt"`
	BuyerID     string        `gorm:"size:36;not null;index" json:"buyerId"`
	Items       []AuctionItem `gorm:"foreignKey:AuctionID" json:"items"`
	Bids        []Bid         `gorm:"foreignKey:AuctionID" json:"bids,omitempty"`
}

// OpenAt reports whether the auction still accepts bids at t.
// Openness is evaluated per request, never cached.
func (a Auction) OpenAt(t time.Time) bool {
	return a.EndsAt.After(t)
}

// AuctionItem is one line item of an auction. Immutable after auction creation.
type AuctionItem struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	AuctionID string    `gorm:"size:36;not null;index" json:"auctionId"`
	CreatedAt time.Time `json:"-"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Quantity  float64   `gorm:"not null" json:"quantity"`
	UOM       string    `gorm:"size:32" json:"uom"`
	BasePrice float64   `json:"basePrice"`
}

// Bid is one supplier's current total committed value for an auction.
// At most one row exists per (supplier, auction); a resubmission overwrites
// TotalValue and SubmittedAt in place.
type Bid struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	SupplierID  string    `gorm:"size:36;not null;uniqueIndex:idx_bids_supplier_auction" json:"supplierId"`
	AuctionID   string    `gorm:"size:36;not null;uniqueIndex:idx_bids_supplier_auction" json:"auctionId"`
	TotalValue  float64   `gorm:"not null" json:"totalValue"`
	SubmittedAt time.Time `gorm:"not null" json:"submittedAt"`
}

// Ranking is derived from the current Bid rows on every read and is never
// persisted. Rank 1 ("L1") is the lowest total bid value.
type Ranking struct {
	SupplierID string  `json:"supplierId"`
	Rank       int     `json:"rank"`
	TotalValue float64 `json:"totalValue"`
}
