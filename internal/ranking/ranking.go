// Package ranking derives the total order over all current bids of one
// auction. Rankings are never stored; callers recompute them from the bid
// rows on every read, so the result always reflects the latest writes.
package ranking

import (
	"sort"

	model "reverse-auction/internal/models"
)

// Compute sorts bids ascending by total value and assigns dense 1-based
// ranks: the lowest total is rank 1 ("L1"). Exact ties still receive
// distinct adjacent ranks; the order among equal totals is earlier
// submission first, then supplier ID, which makes the result a pure
// function of the input set.
func Compute(bids []model.Bid) []model.Ranking {
	sorted := append([]model.Bid(nil), bids...)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.TotalValue != b.TotalValue {
			return a.TotalValue < b.TotalValue
		}
		if !a.SubmittedAt.Equal(b.SubmittedAt) {
			return a.SubmittedAt.Before(b.SubmittedAt)
		}
		return a.SupplierID < b.SupplierID
	})

	rankings := make([]model.Ranking, 0, len(sorted))
	for i, b := range sorted {
		rankings = append(rankings, model.Ranking{
			SupplierID: b.SupplierID,
			Rank:       i + 1,
			TotalValue: b.TotalValue,
		})
	}
	return rankings
}

// RankOf returns the supplier's position within a computed ranking. The
// second return value is false when the supplier has no bid on the auction.
func RankOf(rankings []model.Ranking, supplierID string) (int, bool) {
	for _, r := range rankings {
		if r.SupplierID == supplierID {
			return r.Rank, true
		}
	}
	return 0, false
}
