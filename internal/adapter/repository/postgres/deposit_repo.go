package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/corebank/internal/domain"
	"github.com/iho/corebank/internal/usecase"
)

const depositColumns = `id, owner_id, account_id, principal, currency, annual_rate, duration_months,
	matures_at, status, created_at, updated_at`

// DepositRepository implements usecase.DepositRepository on PostgreSQL.
type DepositRepository struct {
	pool *pgxpool.Pool
}

// NewDepositRepository creates a new DepositRepository.
func NewDepositRepository(pool *pgxpool.Pool) *DepositRepository {
	return &DepositRepository{pool: pool}
}

// Create creates a new fixed deposit inside the caller's transaction.
func (r *DepositRepository) Create(ctx context.Context, tx usecase.Transaction, deposit *domain.FixedDeposit) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO fixed_deposits (id, owner_id, account_id, principal, currency, annual_rate, duration_months,
			matures_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		deposit.ID,
		deposit.OwnerID,
		deposit.AccountID,
		decimalToNumeric(deposit.Principal.Amount),
		deposit.Principal.Currency,
		decimalToNumeric(deposit.AnnualRate),
		deposit.DurationMonths,
		timeToPgTimestamptz(deposit.MaturesAt),
		string(deposit.Status),
		timeToPgTimestamptz(deposit.CreatedAt),
		timeToPgTimestamptz(deposit.UpdatedAt),
	)

	return err
}

// GetByID retrieves a deposit by ID.
func (r *DepositRepository) GetByID(ctx context.Context, id string) (*domain.FixedDeposit, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+depositColumns+` FROM fixed_deposits WHERE id = $1`, id)
	return scanDeposit(row)
}

// GetByIDForUpdate retrieves a deposit with a FOR UPDATE lock.
func (r *DepositRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.FixedDeposit, error) {
	pgxTx := tx.(*Tx).PgxTx()
	row := pgxTx.QueryRow(ctx, `SELECT `+depositColumns+` FROM fixed_deposits WHERE id = $1 FOR UPDATE`, id)
	return scanDeposit(row)
}

// UpdateStatus transitions a deposit's stored status.
func (r *DepositRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.DepositStatus, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE fixed_deposits SET status = $2, updated_at = $3 WHERE id = $1`,
		id, string(status), timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDepositNotFound
	}
	return nil
}

// ListByOwner lists an owner's deposits, newest first.
func (r *DepositRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.FixedDeposit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+depositColumns+` FROM fixed_deposits WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`,
		ownerID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deposits []*domain.FixedDeposit
	for rows.Next() {
		deposit, err := scanDeposit(rows)
		if err != nil {
			return nil, err
		}
		deposits = append(deposits, deposit)
	}

	return deposits, rows.Err()
}

func scanDeposit(row pgx.Row) (*domain.FixedDeposit, error) {
	var (
		deposit    domain.FixedDeposit
		principal  pgtype.Numeric
		currency   string
		annualRate pgtype.Numeric
		maturesAt  pgtype.Timestamptz
		status     string
		createdAt  pgtype.Timestamptz
		updatedAt  pgtype.Timestamptz
	)

	err := row.Scan(
		&deposit.ID,
		&deposit.OwnerID,
		&deposit.AccountID,
		&principal,
		&currency,
		&annualRate,
		&deposit.DurationMonths,
		&maturesAt,
		&status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDepositNotFound
		}
		return nil, err
	}

	deposit.Principal = domain.NewMoney(numericToDecimal(principal), currency)
	deposit.AnnualRate = numericToDecimal(annualRate)
	deposit.MaturesAt = maturesAt.Time
	deposit.Status = domain.DepositStatus(status)
	deposit.CreatedAt = createdAt.Time
	deposit.UpdatedAt = updatedAt.Time

	return &deposit, nil
}
