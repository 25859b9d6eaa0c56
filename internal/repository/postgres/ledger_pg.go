// internal/repository/postgres/ledger_pg.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/saakcy7/kindfund/internal/domain"
	"github.com/saakcy7/kindfund/internal/repository"
	"github.com/saakcy7/kindfund/internal/util"
	"github.com/saakcy7/kindfund/pkg/db"
)

const schema = `
CREATE TABLE IF NOT EXISTS donations (
	seq           BIGSERIAL PRIMARY KEY,
	id            UUID        NOT NULL UNIQUE,
	name          TEXT        NOT NULL,
	amount        NUMERIC     NOT NULL CHECK (amount > 0),
	message       TEXT        NOT NULL DEFAULT '',
	donor         TEXT        NOT NULL,
	tx_digest     TEXT        NOT NULL,
	explorer_link TEXT        NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS donations_created_at_seq_idx ON donations (created_at DESC, seq DESC);`

// LedgerStore implements repository.LedgerStore for PostgreSQL.
// The table has no UPDATE or DELETE path; seq records insertion order.
type LedgerStore struct {
	db      *sqlx.DB
	beginTx func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error)
}

// NewLedgerStore creates a new LedgerStore backed by the given connection.
func NewLedgerStore(database *sqlx.DB) *LedgerStore {
	return &LedgerStore{db: database, beginTx: db.BeginReadOnlyTx}
}

// EnsureSchema creates the donations table and its index if they do not exist.
func (s *LedgerStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure donations schema: %w: %w", util.ErrStore, err)
	}
	return nil
}

// Append inserts a single donation row.
func (s *LedgerStore) Append(ctx context.Context, donation *domain.Donation) error {
	return insertDonation(ctx, s.db, donation)
}

func insertDonation(ctx context.Context, exec repository.DBExecutor, donation *domain.Donation) error {
	query := `INSERT INTO donations (id, name, amount, message, donor, tx_digest, explorer_link, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := exec.ExecContext(ctx, query,
		donation.ID,
		donation.Name,
		donation.Amount,
		donation.Message,
		donation.Donor,
		donation.TxDigest,
		donation.ExplorerLink,
		donation.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append donation %s: %w: %w", donation.ID, util.ErrStore, err)
	}
	return nil
}

// ListAll reads rows and the aggregate inside one read-only REPEATABLE READ transaction,
// so the list, the count and the total all describe the same snapshot.
func (s *LedgerStore) ListAll(ctx context.Context) (*repository.LedgerSnapshot, error) {
	txController, err := s.beginTx(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("list donations: failed to begin transaction: %w: %w", util.ErrStore, err)
	}
	defer db.RollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("list donations: transaction controller does not implement DBExecutor: %w", util.ErrStore)
	}

	// Query 1: all rows, newest first
	donations := []domain.Donation{}
	query := `
		SELECT seq, id, name, amount, message, donor, tx_digest, explorer_link, created_at
		FROM donations
		ORDER BY created_at DESC, seq DESC`
	if err := txExecutor.SelectContext(ctx, &donations, query); err != nil {
		return nil, fmt.Errorf("failed to fetch donations: %w: %w", util.ErrStore, err)
	}

	// Query 2: aggregate over the same snapshot
	var agg struct {
		Count int             `db:"count"`
		Total decimal.Decimal `db:"total"`
	}
	aggQuery := `SELECT COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total FROM donations`
	if err := txExecutor.GetContext(ctx, &agg, aggQuery); err != nil {
		return nil, fmt.Errorf("failed to aggregate donations: %w: %w", util.ErrStore, err)
	}

	if err := db.CommitTx(txController); err != nil {
		return nil, fmt.Errorf("list donations: failed to commit transaction: %w: %w", util.ErrStore, err)
	}

	for i := range donations {
		donations[i].CreatedAt = donations[i].CreatedAt.UTC()
	}

	return &repository.LedgerSnapshot{
		Donations: donations,
		Total:     agg.Total,
		Count:     agg.Count,
	}, nil
}

// Ensure LedgerStore implements the repository interface.
var _ repository.LedgerStore = (*LedgerStore)(nil)
