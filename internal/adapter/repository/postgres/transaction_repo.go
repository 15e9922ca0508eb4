package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/corebank/internal/domain"
	"github.com/iho/corebank/internal/usecase"
)

const pgErrUniqueViolation = "23505"

const transactionColumns = `id, account_id, owner_id, kind, amount, currency, description, reference,
	status, counterparty_account_id, fee, net_amount, exchange_rate, target_currency, settlement_id, created_at`

// TransactionRepository implements the append-only ledger on PostgreSQL.
// There is no update path: corrections are new offsetting rows.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create appends a ledger entry. A (reference, kind) collision surfaces as
// domain.ErrDuplicateReference for the orchestrator's replay handling.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, transaction *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	var fee, netAmount pgtype.Numeric
	if transaction.Fee != nil {
		fee = decimalToNumeric(transaction.Fee.Amount)
	}
	if transaction.NetAmount != nil {
		netAmount = decimalToNumeric(transaction.NetAmount.Amount)
	}

	var exchangeRate pgtype.Numeric
	if transaction.ExchangeRate != nil {
		exchangeRate = decimalToNumeric(*transaction.ExchangeRate)
	}

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO transactions (id, account_id, owner_id, kind, amount, currency, description, reference,
			status, counterparty_account_id, fee, net_amount, exchange_rate, target_currency, settlement_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		transaction.ID,
		transaction.AccountID,
		transaction.OwnerID,
		string(transaction.Kind),
		decimalToNumeric(transaction.Amount.Amount),
		transaction.Amount.Currency,
		transaction.Description,
		transaction.Reference,
		string(transaction.Status),
		transaction.CounterpartyAccountID,
		fee,
		netAmount,
		exchangeRate,
		transaction.TargetCurrency,
		transaction.SettlementID,
		timeToPgTimestamptz(transaction.CreatedAt),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateReference, transaction.Reference)
		}
		return err
	}

	return nil
}

// GetByID retrieves a ledger entry by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)

	transaction, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	return transaction, nil
}

// GetByReference returns every entry sharing a reference: the legs of one
// logical operation.
func (r *TransactionRepository) GetByReference(ctx context.Context, reference string) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE reference = $1 ORDER BY id`, reference)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// ListByAccount lists an account's entries, newest first.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE account_id = $1`
	args := []any{accountID}

	if filter.Status != nil {
		query += ` AND status = $2`
		args = append(args, string(*filter.Status))
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT %d OFFSET %d`, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func collectTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var transactions []*domain.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		transaction  domain.Transaction
		kind         string
		amount       pgtype.Numeric
		currency     string
		status       string
		fee          pgtype.Numeric
		netAmount    pgtype.Numeric
		exchangeRate pgtype.Numeric
		createdAt    pgtype.Timestamptz
	)

	err := row.Scan(
		&transaction.ID,
		&transaction.AccountID,
		&transaction.OwnerID,
		&kind,
		&amount,
		&currency,
		&transaction.Description,
		&transaction.Reference,
		&status,
		&transaction.CounterpartyAccountID,
		&fee,
		&netAmount,
		&exchangeRate,
		&transaction.TargetCurrency,
		&transaction.SettlementID,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	transaction.Kind = domain.TransactionKind(kind)
	transaction.Amount = domain.NewMoney(numericToDecimal(amount), currency)
	transaction.Status = domain.TransactionStatus(status)
	transaction.CreatedAt = createdAt.Time

	if fee.Valid {
		f := domain.NewMoney(numericToDecimal(fee), currency)
		transaction.Fee = &f
	}
	if netAmount.Valid {
		n := domain.NewMoney(numericToDecimal(netAmount), currency)
		transaction.NetAmount = &n
	}
	if exchangeRate.Valid {
		rate := numericToDecimal(exchangeRate)
		transaction.ExchangeRate = &rate
	}

	return &transaction, nil
}
