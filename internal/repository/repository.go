package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reverse-auction/internal/auctionerrors"
	model "reverse-auction/internal/models"
	"reverse-auction/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AuctionDB defines the durable storage interface for the reverse-auction system
type AuctionDB interface {
	CreateAuction(ctx context.Context, auction *model.Auction) error
	GetAuctionWithItems(ctx context.Context, auctionID string) (model.Auction, error)
	ListAuctionsByBuyer(ctx context.Context, buyerID string) ([]model.Auction, error)
	ListOpenAuctions(ctx context.Context, now time.Time) ([]model.Auction, error)
	CloseAuction(ctx context.Context, auctionID string, closedAt time.Time) error
	UpsertBid(ctx context.Context, supplierID, auctionID string, totalValue float64, submittedAt time.Time) (model.Bid, error)
	ListBidsByAuction(ctx context.Context, auctionID string) ([]model.Bid, error)
}

// GormRepo is a GORM-backed implementation of AuctionDB
type GormRepo struct {
	db *gorm.DB
}

// NewGormRepo creates a repository on top of an open GORM connection
func NewGormRepo(db *gorm.DB) *GormRepo {
	return &GormRepo{db: db}
}

// AutoMigrate creates or updates the schema for all persisted entities
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Auction{}, &model.AuctionItem{}, &model.Bid{})
}

// CreateAuction persists an auction together with its line items
func (r *GormRepo) CreateAuction(ctx context.Context, auction *model.Auction) error {
	if err := r.db.WithContext(ctx).Create(auction).Error; err != nil {
		return fmt.Errorf("create auction %s: %w", auction.ID, err)
	}
	return nil
}

// GetAuctionWithItems returns one auction with its items in creation order
func (r *GormRepo) GetAuctionWithItems(ctx context.Context, auctionID string) (model.Auction, error) {
	var auction model.Auction
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&auction, "id = ?", auctionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
		}
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, err)
	}
	return auction, nil
}

// ListAuctionsByBuyer returns a buyer's auctions, newest first, with items and bids
func (r *GormRepo) ListAuctionsByBuyer(ctx context.Context, buyerID string) ([]model.Auction, error) {
	var auctions []model.Auction
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Bids").
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&auctions).Error
	if err != nil {
		return nil, fmt.Errorf("list auctions for buyer %s: %w", buyerID, err)
	}
	return auctions, nil
}

// ListOpenAuctions returns all auctions whose deadline is still in the future
func (r *GormRepo) ListOpenAuctions(ctx context.Context, now time.Time) ([]model.Auction, error) {
	var auctions []model.Auction
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("ends_at > ?", now).
		Order("created_at DESC").
		Find(&auctions).Error
	if err != nil {
		return nil, fmt.Errorf("list open auctions: %w", err)
	}
	return auctions, nil
}

// CloseAuction moves the auction deadline to closedAt
func (r *GormRepo) CloseAuction(ctx context.Context, auctionID string, closedAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.Auction{}).
		Where("id = ?", auctionID).
		Update("ends_at", closedAt)
	if res.Error != nil {
		return fmt.Errorf("close auction %s: %w", auctionID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("close auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	return nil
}

// UpsertBid inserts or overwrites the single bid row for (supplier, auction).
// The on-conflict clause makes the write atomic on the composite unique key,
// so concurrent resubmissions by the same supplier cannot interleave into a
// lost update. The stored row is re-read and returned as the authoritative
// record.
func (r *GormRepo) UpsertBid(ctx context.Context, supplierID, auctionID string, totalValue float64, submittedAt time.Time) (model.Bid, error) {
	bid := model.Bid{
		ID:          utils.GenerateID(),
		SupplierID:  supplierID,
		AuctionID:   auctionID,
		TotalValue:  totalValue,
		SubmittedAt: submittedAt,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "supplier_id"}, {Name: "auction_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_value":  totalValue,
				"submitted_at": submittedAt,
			}),
		}).
		Create(&bid).Error
	if err != nil {
		return model.Bid{}, fmt.Errorf("upsert bid for supplier %s on auction %s: %w", supplierID, auctionID, err)
	}

	var stored model.Bid
	err = r.db.WithContext(ctx).
		Where("supplier_id = ? AND auction_id = ?", supplierID, auctionID).
		First(&stored).Error
	if err != nil {
		return model.Bid{}, fmt.Errorf("read back bid for supplier %s on auction %s: %w", supplierID, auctionID, err)
	}
	return stored, nil
}

// ListBidsByAuction returns all current bids for an auction
func (r *GormRepo) ListBidsByAuction(ctx context.Context, auctionID string) ([]model.Bid, error) {
	var bids []model.Bid
	err := r.db.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Order("total_value ASC").
		Find(&bids).Error
	if err != nil {
		return nil, fmt.Errorf("list bids for auction %s: %w", auctionID, err)
	}
	return bids, nil
}
