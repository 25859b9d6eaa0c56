// internal/repository/memory/ledger_memory.go
package memory

import (
	"context"
	"sync"

	"github.com/saakcy7/kindfund/internal/domain"
	"github.com/saakcy7/kindfund/internal/repository"
)

// LedgerStore is an in-memory implementation of repository.LedgerStore.
// It is safe for concurrent use. Data is lost on restart; use the postgres store for durability.
type LedgerStore struct {
	mu        sync.RWMutex
	donations []domain.Donation // Insertion order
	nextSeq   int64
}

// NewLedgerStore creates an empty in-memory ledger.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{donations: []domain.Donation{}}
}

// Append stores a copy of the donation and assigns its insertion sequence.
func (s *LedgerStore) Append(ctx context.Context, donation *domain.Donation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSeq++
	record := *donation
	record.Seq = s.nextSeq
	s.donations = append(s.donations, record)
	return nil
}

// ListAll returns a sorted copy of the ledger together with its total and count.
// The copy is taken under the read lock, so all three describe the same instant.
func (s *LedgerStore) ListAll(ctx context.Context) (*repository.LedgerSnapshot, error) {
	s.mu.RLock()
	donations := make([]domain.Donation, len(s.donations))
	copy(donations, s.donations)
	s.mu.RUnlock()

	total := repository.SumAmounts(donations) // Insertion order, before sorting
	repository.SortNewestFirst(donations)
	return &repository.LedgerSnapshot{
		Donations: donations,
		Total:     total,
		Count:     len(donations),
	}, nil
}

// Ensure LedgerStore implements the repository interface.
var _ repository.LedgerStore = (*LedgerStore)(nil)
