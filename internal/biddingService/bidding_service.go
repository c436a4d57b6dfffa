package bidding

import (
	"context"
	"fmt"
	"math"
	"time"

	"reverse-auction/internal/auctionerrors"
	"reverse-auction/internal/broadcast"
	model "reverse-auction/internal/models"
	"reverse-auction/internal/ranking"
	"reverse-auction/internal/repository"
	"reverse-auction/utils"
)

// BidExpression is the tagged variant a supplier's request resolves to:
// a per-item rate list, a pre-computed total, or a ranking-only query.
type BidExpression interface {
	isBidExpression()
}

// ItemRateBid carries (itemId, rate) pairs; the total is derived from the
// auction's item quantities.
type ItemRateBid struct {
	Rates []ItemRate
}

// ItemRate is one (itemId, rate) pair of an ItemRateBid
type ItemRate struct {
	ItemID string
	Rate   float64
}

// DirectTotalBid carries a pre-computed total bid value
type DirectTotalBid struct {
	TotalValue float64
}

// RankingQuery asks for the current ranking without writing anything.
// Suppliers use it to recover their persisted rank after a reconnect.
type RankingQuery struct{}

func (ItemRateBid) isBidExpression()    {}
func (DirectTotalBid) isBidExpression() {}
func (RankingQuery) isBidExpression()   {}

// SubmitResult is the outcome of a bid submission. Bid and Rank are nil on
// the query-only path.
type SubmitResult struct {
	Bid      *model.Bid
	Rank     *int
	Rankings []model.Ranking
}

// BiddingService implements bid intake: it resolves a supplier's bid
// expression to a single total value, upserts the one bid row for the
// (supplier, auction) pair and reports the recomputed ranking.
type BiddingService struct {
	repo      repository.AuctionDB
	publisher broadcast.Publisher
	now       func() time.Time
}

// NewBiddingService creates a BiddingService. The publisher is an explicit
// dependency so tests can substitute a recording or no-op implementation.
func NewBiddingService(repo repository.AuctionDB, publisher broadcast.Publisher) *BiddingService {
	return &BiddingService{
		repo:      repo,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SubmitBid resolves, persists and ranks a supplier's bid for an auction.
// On the RankingQuery path no write and no broadcast happen.
func (s *BiddingService) SubmitBid(ctx context.Context, supplierID, auctionID string, expr BidExpression) (SubmitResult, error) {
	if supplierID == "" {
		return SubmitResult{}, fmt.Errorf("service: %w - missing supplier ID", auctionerrors.ErrInvalidRequest)
	}
	if auctionID == "" {
		return SubmitResult{}, fmt.Errorf("service: %w - missing auction ID", auctionerrors.ErrInvalidRequest)
	}

	auction, err := s.repo.GetAuctionWithItems(ctx, auctionID)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("service: failed to load auction %s: %w", auctionID, err)
	}

	now := s.now()

	var totalValue float64
	switch e := expr.(type) {
	case RankingQuery:
		rankings, err := s.computeRankings(ctx, auctionID)
		if err != nil {
			return SubmitResult{}, err
		}
		return SubmitResult{Rankings: rankings}, nil
	case ItemRateBid:
		// Deliberately no deadline check on this path; only the
		// direct-total form rejects closed auctions.
		totalValue = totalFromRates(auction.Items, e.Rates)
	case DirectTotalBid:
		if !auction.OpenAt(now) {
			return SubmitResult{}, fmt.Errorf("service: auction %s: %w", auctionID, auctionerrors.ErrAuctionClosed)
		}
		if e.TotalValue < 0 || math.IsNaN(e.TotalValue) {
			return SubmitResult{}, fmt.Errorf("service: %w - total value must be non-negative", auctionerrors.ErrInvalidRequest)
		}
		totalValue = e.TotalValue
	default:
		return SubmitResult{}, fmt.Errorf("service: %w - unsupported bid expression %T", auctionerrors.ErrInvalidRequest, expr)
	}

	bid, err := s.repo.UpsertBid(ctx, supplierID, auctionID, totalValue, now)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("service: failed to upsert bid for supplier %s on auction %s: %w", supplierID, auctionID, err)
	}

	rankings, err := s.computeRankings(ctx, auctionID)
	if err != nil {
		return SubmitResult{}, err
	}

	result := SubmitResult{Bid: &bid, Rankings: rankings}
	if rank, ok := ranking.RankOf(rankings, supplierID); ok {
		result.Rank = &rank
	}

	// Fan-out happens off the request path; a broker failure is logged
	// and never rolls back the committed write.
	go s.publishRankings(ctx, auctionID, rankings)

	return result, nil
}

// computeRankings derives the current ranking from the stored bid rows
func (s *BiddingService) computeRankings(ctx context.Context, auctionID string) ([]model.Ranking, error) {
	bids, err := s.repo.ListBidsByAuction(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list bids for auction %s: %w", auctionID, err)
	}
	return ranking.Compute(bids), nil
}

func (s *BiddingService) publishRankings(ctx context.Context, auctionID string, rankings []model.Ranking) {
	if err := s.publisher.PublishRankingUpdate(ctx, auctionID, rankings); err != nil {
		utils.Warn("ranking broadcast failed", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
	}
}

// totalFromRates sums quantity x rate over the pairs whose itemId matches an
// auction item. Unmatched pairs are skipped, and a negative or non-finite
// rate contributes 0; neither case fails the submission.
func totalFromRates(items []model.AuctionItem, rates []ItemRate) float64 {
	byID := make(map[string]model.AuctionItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	var total float64
	for _, r := range rates {
		item, ok := byID[r.ItemID]
		if !ok {
			continue
		}
		rate := r.Rate
		if rate < 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
			rate = 0
		}
		total += item.Quantity * rate
	}
	return total
}
