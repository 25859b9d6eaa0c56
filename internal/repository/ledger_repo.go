// internal/repository/ledger_repo.go
package repository

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/saakcy7/kindfund/internal/domain"
)

// LedgerSnapshot is a consistent view of the whole ledger at one instant.
type LedgerSnapshot struct {
	Donations []domain.Donation `json:"donations"`
	Total     decimal.Decimal   `json:"total"`
	Count     int               `json:"count"`
}

// LedgerStore is the append-only donation collection.
// Implementations must make Append atomic with respect to ListAll.
type LedgerStore interface {
	// Append adds a donation to the ledger. It never modifies existing records.
	Append(ctx context.Context, donation *domain.Donation) error
	// ListAll returns all donations newest first, with the total and count taken from the same snapshot.
	ListAll(ctx context.Context) (*LedgerSnapshot, error)
}

// SortNewestFirst orders donations by CreatedAt descending, later insertions first on ties.
func SortNewestFirst(donations []domain.Donation) {
	sort.SliceStable(donations, func(i, j int) bool {
		a, b := donations[i], donations[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.Seq > b.Seq
	})
}

// SumAmounts adds amounts in slice order.
func SumAmounts(donations []domain.Donation) decimal.Decimal {
	total := decimal.Zero
	for _, d := range donations {
		total = total.Add(d.Amount)
	}
	return total
}
