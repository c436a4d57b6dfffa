package auction

import (
	"context"
	"fmt"
	"time"

	"reverse-auction/internal/auctionerrors"
	model "reverse-auction/internal/models"
	"reverse-auction/internal/repository"
	"reverse-auction/utils"
)

// NewItemInput describes one line item of a new auction
type NewItemInput struct {
	Name      string
	Quantity  float64
	UOM       string
	BasePrice float64
}

// CreateAuctionInput describes a new auction request
type CreateAuctionInput struct {
	Title           string
	Description     string
	DurationMinutes int
	Items           []NewItemInput
}

// AuctionService owns the thin auction lifecycle around bid intake:
// creation, listing and closing.
type AuctionService struct {
	repo repository.AuctionDB
	now  func() time.Time
}

// NewAuctionService creates an AuctionService instance
func NewAuctionService(repo repository.AuctionDB) *AuctionService {
	return &AuctionService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// CreateAuction validates and persists a buyer's auction with its items.
// The deadline is derived from the requested duration.
func (s *AuctionService) CreateAuction(ctx context.Context, buyerID string, input CreateAuctionInput) (model.Auction, error) {
	if buyerID == "" {
		return model.Auction{}, fmt.Errorf("service: %w - missing buyer ID", auctionerrors.ErrInvalidRequest)
	}
	if input.Title == "" || input.DurationMinutes <= 0 || len(input.Items) == 0 {
		return model.Auction{}, fmt.Errorf("service: %w - title, duration and items are required", auctionerrors.ErrInvalidRequest)
	}
	for _, item := range input.Items {
		if item.Name == "" || item.Quantity < 0 {
			return model.Auction{}, fmt.Errorf("service: %w - item needs a name and a non-negative quantity", auctionerrors.ErrInvalidRequest)
		}
	}

	now := s.now()
	auction := model.Auction{
		ID:          utils.GenerateID(),
		Title:       input.Title,
		Description: input.Description,
		CreatedAt:   now,
		EndsAt:      now.Add(time.Duration(input.DurationMinutes) * time.Minute),
		BuyerID:     buyerID,
	}
	for _, item := range input.Items {
		auction.Items = append(auction.Items, model.AuctionItem{
			ID:        utils.GenerateID(),
			AuctionID: auction.ID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UOM:       item.UOM,
			BasePrice: item.BasePrice,
		})
	}

	if err := s.repo.CreateAuction(ctx, &auction); err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to create auction for buyer %s: %w", buyerID, err)
	}
	return auction, nil
}

// ListAuctionsFor returns the auctions visible to the caller: buyers see
// their own auctions including bids, suppliers see all open auctions.
func (s *AuctionService) ListAuctionsFor(ctx context.Context, userID string, role model.Role) ([]model.Auction, error) {
	if userID == "" {
		return nil, fmt.Errorf("service: %w - missing user ID", auctionerrors.ErrInvalidRequest)
	}

	var auctions []model.Auction
	var err error
	if role == model.RoleBuyer {
		auctions, err = s.repo.ListAuctionsByBuyer(ctx, userID)
	} else {
		auctions, err = s.repo.ListOpenAuctions(ctx, s.now())
	}
	if err != nil {
		return nil, fmt.Errorf("service: failed to list auctions for user %s: %w", userID, err)
	}
	return auctions, nil
}

// CloseAuction moves the auction deadline to now, ending bidding on the
// direct-total path. Only the owning buyer may close an auction.
func (s *AuctionService) CloseAuction(ctx context.Context, buyerID, auctionID string) (time.Time, error) {
	if auctionID == "" {
		return time.Time{}, fmt.Errorf("service: %w - missing auction ID", auctionerrors.ErrInvalidRequest)
	}

	auction, err := s.repo.GetAuctionWithItems(ctx, auctionID)
	if err != nil {
		return time.Time{}, fmt.Errorf("service: failed to load auction %s: %w", auctionID, err)
	}
	if auction.BuyerID != buyerID {
		return time.Time{}, fmt.Errorf("service: auction %s: %w", auctionID, auctionerrors.ErrNotOwner)
	}

	closedAt := s.now()
	if err := s.repo.CloseAuction(ctx, auctionID, closedAt); err != nil {
		return time.Time{}, fmt.Errorf("service: failed to close auction %s: %w", auctionID, err)
	}
	return closedAt, nil
}
