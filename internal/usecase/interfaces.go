package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/corebank/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance domain.Money, updatedAt time.Time) error
	SetActive(ctx context.Context, id string, active bool, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	ListActive(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// TransactionRepository is the append-only ledger. Entries are never
// mutated after creation; Create must reject a (reference, kind) pair that
// already exists with domain.ErrDuplicateReference.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByReference(ctx context.Context, reference string) ([]*domain.Transaction, error)
	ListByAccount(ctx context.Context, accountID string, filter domain.TransactionFilter) ([]*domain.Transaction, error)
}

// DepositRepository defines data access for fixed deposits.
type DepositRepository interface {
	Create(ctx context.Context, tx Transaction, deposit *domain.FixedDeposit) error
	GetByID(ctx context.Context, id string) (*domain.FixedDeposit, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.FixedDeposit, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.DepositStatus, updatedAt time.Time) error
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.FixedDeposit, error)
}

// LedgerRepository defines ledger-wide reads.
type LedgerRepository interface {
	// CheckConsistency returns accounts whose balance does not equal the
	// net of their COMPLETED ledger entries.
	CheckConsistency(ctx context.Context) ([]domain.BalanceMismatch, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique, time-sortable IDs.
type IDGenerator interface {
	Generate() string
}

// Retryer re-runs an operation after a transient storage failure.
// Implementations decide which errors qualify; everything else must
// surface to the caller unchanged.
type Retryer interface {
	Retry(ctx context.Context, operation func() error) error
}

// RoutingGateway mirrors outbound movements through the corporate
// settlement account. Implemented by an external collaborator; any failure,
// including timeout, surfaces as domain.ErrRoutingFailure.
type RoutingGateway interface {
	RouteOutbound(ctx context.Context, req domain.RoutingRequest) (*domain.RoutingReceipt, error)
}

// RateProvider supplies FX rates. Implementations fall back to a static
// table and never fail for validated currencies.
type RateProvider interface {
	Rate(ctx context.Context, from, to string) (decimal.Decimal, error)
}

// KYCProvider reports whether a principal cleared verification.
type KYCProvider interface {
	IsVerified(ctx context.Context, ownerID string) (bool, error)
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage for the HTTP layer.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
