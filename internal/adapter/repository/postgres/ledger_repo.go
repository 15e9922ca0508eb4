package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/corebank/internal/domain"
)

// LedgerRepository implements ledger-wide reads on PostgreSQL.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// CheckConsistency compares every account balance against the net of its
// COMPLETED ledger entries. Credits add the amount; debits remove the net
// amount (amount plus fee) when recorded, otherwise the amount.
func (r *LedgerRepository) CheckConsistency(ctx context.Context) ([]domain.BalanceMismatch, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.balance, COALESCE(SUM(
			CASE t.kind
				WHEN 'CREDIT' THEN t.amount
				WHEN 'DEBIT' THEN -COALESCE(t.net_amount, t.amount)
				ELSE 0
			END
		), 0) AS ledger_net
		FROM accounts a
		LEFT JOIN transactions t ON t.account_id = a.id AND t.status = 'COMPLETED'
		GROUP BY a.id, a.balance
		HAVING a.balance <> COALESCE(SUM(
			CASE t.kind
				WHEN 'CREDIT' THEN t.amount
				WHEN 'DEBIT' THEN -COALESCE(t.net_amount, t.amount)
				ELSE 0
			END
		), 0)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mismatches []domain.BalanceMismatch
	for rows.Next() {
		var (
			mismatch  domain.BalanceMismatch
			balance   pgtype.Numeric
			ledgerNet pgtype.Numeric
		)
		if err := rows.Scan(&mismatch.AccountID, &balance, &ledgerNet); err != nil {
			return nil, err
		}
		mismatch.Balance = numericToDecimal(balance)
		mismatch.LedgerNet = numericToDecimal(ledgerNet)
		mismatches = append(mismatches, mismatch)
	}

	return mismatches, rows.Err()
}
